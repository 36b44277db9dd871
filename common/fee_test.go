package common_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tailabs/settlement-contracts/common"
)

func TestShareHalfUpRounding(t *testing.T) {
	for _, tc := range []struct {
		total, fee, want uint64
	}{
		{total: 10, fee: 50, want: 1},    // 0.5 tie rounds up
		{total: 10, fee: 5, want: 0},     // 0.05 rounds down
		{total: 100, fee: 25, want: 3},   // 2.5 tie rounds up
		{total: 100, fee: 100, want: 10}, // exact
		{total: 337, fee: 499, want: 168},
		{total: 0, fee: 999, want: 0},
	} {
		got, err := common.Share(tc.total, tc.fee)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "share of %d at %d thousandths", tc.total, tc.fee)
	}
}

func TestShareBoundaryFees(t *testing.T) {
	const total = 337

	zero, err := common.Share(total, 0)
	require.NoError(t, err)
	require.EqualValues(t, 0, zero)

	full, err := common.Share(total, 1000)
	require.NoError(t, err)
	require.EqualValues(t, total, full)

	one, err := common.Share(total, 1)
	require.NoError(t, err)
	require.EqualValues(t, 0, one) // 0.337 rounds down

	almost, err := common.Share(total, 999)
	require.NoError(t, err)
	require.EqualValues(t, 337, almost) // 336.663 rounds up to the whole total
}

func TestSplit(t *testing.T) {
	for _, tc := range []struct {
		total uint64
		fees  []uint64
		want  []uint64
	}{
		{total: 100, fees: []uint64{100, 25}, want: []uint64{10, 3, 87}},
		{total: 100, fees: []uint64{200}, want: []uint64{20, 80}},
		{total: 337, fees: []uint64{0}, want: []uint64{0, 337}},
		{total: 337, fees: []uint64{1000}, want: []uint64{337, 0}},
		// both cuts round up to 2 on a total of 3; the second is clamped
		// at the single remaining unit and the last party gets nothing
		{total: 3, fees: []uint64{500, 500}, want: []uint64{2, 1, 0}},
		{total: 1, fees: []uint64{500, 500}, want: []uint64{1, 0, 0}},
	} {
		got, err := common.Split(tc.total, tc.fees...)
		require.NoError(t, err)
		require.EqualValues(t, tc.want, got, "split of %d at %v", tc.total, tc.fees)
	}
}

// Every split sums back to the total exactly, whatever rounding does to the
// individual cuts.
func TestSplitConservation(t *testing.T) {
	totals := []uint64{1, 3, 99, 100, 337, 12345, math.MaxUint64 / 2000}
	fees := [][]uint64{{0, 0}, {1, 1}, {100, 25}, {999, 1}, {500, 500}, {999, 999}, {1000, 0}}

	for _, total := range totals {
		for _, fee := range fees {
			shares, err := common.Split(total, fee...)
			require.NoError(t, err)

			var sum uint64
			for _, share := range shares {
				sum += share
			}
			require.Equal(t, total, sum, "split of %d at %v", total, fee)
		}
	}
}

func TestSplitOverflow(t *testing.T) {
	_, err := common.Split(math.MaxUint64, 500, 2000)
	require.ErrorIs(t, err, common.ErrOverflow)
}

func TestConvert(t *testing.T) {
	got, err := common.Convert(10, 250)
	require.NoError(t, err)
	require.EqualValues(t, 25, got)

	got, err = common.Convert(1, 250)
	require.NoError(t, err)
	require.EqualValues(t, 3, got) // 2.5 tie rounds up

	got, err = common.Convert(3, 50)
	require.NoError(t, err)
	require.EqualValues(t, 2, got) // 1.5 tie rounds up
}

func TestShareOverflow(t *testing.T) {
	_, err := common.Share(math.MaxUint64, 2000)
	require.ErrorIs(t, err, common.ErrOverflow)

	_, err = common.Convert(math.MaxUint64, 200)
	require.ErrorIs(t, err, common.ErrOverflow)
}

func TestAddUnits(t *testing.T) {
	sum, err := common.AddUnits(2, 3)
	require.NoError(t, err)
	require.EqualValues(t, 5, sum)

	_, err = common.AddUnits(math.MaxUint64, 1)
	require.ErrorIs(t, err, common.ErrOverflow)
}
