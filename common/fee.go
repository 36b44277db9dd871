package common

import (
	"fmt"
	"math/bits"
)

// Share computes round_half_up(total * feeThousandths / 1000). Ties round
// up. Multi-party splits go through Split, which keeps the shares summing
// to the total exactly.
func Share(total, feeThousandths uint64) (uint64, error) {
	return mulDivHalfUp(total, feeThousandths, 1000)
}

// Split divides total between len(feesThousandths)+1 parties: each listed
// fee receives its half-up rounded share of the total, clamped at what is
// still undistributed, and the final party receives the remainder. Rounding
// can make independently computed shares sum above the total; the clamp
// keeps the returned shares summing to total exactly.
func Split(total uint64, feesThousandths ...uint64) ([]uint64, error) {
	shares := make([]uint64, 0, len(feesThousandths)+1)
	remaining := total
	for _, fee := range feesThousandths {
		cut, err := Share(total, fee)
		if err != nil {
			return nil, err
		}
		if cut > remaining {
			cut = remaining
		}
		shares = append(shares, cut)
		remaining -= cut
	}
	return append(shares, remaining), nil
}

// Convert computes round_half_up(amount * ratePer100 / 100), the exchange
// conversion used by the dynamic exchange contract.
func Convert(amount, ratePer100 uint64) (uint64, error) {
	return mulDivHalfUp(amount, ratePer100, 100)
}

// mulDivHalfUp computes (a*b + div/2) / div in 128-bit intermediate
// precision and fails instead of truncating a quotient above 64 bits.
func mulDivHalfUp(a, b, div uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	lo, carry := bits.Add64(lo, div/2, 0)
	hi += carry
	if hi >= div {
		return 0, fmt.Errorf("share %d*%d/%d: %w", a, b, div, ErrOverflow)
	}
	q, _ := bits.Div64(hi, lo, div)
	return q, nil
}

// AddUnits adds two balances, failing on overflow.
func AddUnits(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("add %d+%d units: %w", a, b, ErrOverflow)
	}
	return sum, nil
}
