package common_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tailabs/settlement-contracts/common"
)

func TestAccountIDValid(t *testing.T) {
	require.True(t, common.AccountID("4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWmJUFUiuD").Valid())
	require.True(t, common.AccountID("coin").Valid())
	require.False(t, common.AccountID("").Valid())
	require.False(t, common.AccountID("not base58: 0OIl").Valid())
}

func TestParseResolution(t *testing.T) {
	for _, s := range []string{"OK", "ok", "Ok", "oK"} {
		ok, err := common.ParseResolution(s)
		require.NoError(t, err)
		require.True(t, ok)
	}
	for _, s := range []string{"KO", "ko", "Ko"} {
		ok, err := common.ParseResolution(s)
		require.NoError(t, err)
		require.False(t, ok)
	}

	_, err := common.ParseResolution("maybe")
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestLockTypeBlocks(t *testing.T) {
	require.False(t, common.LockNone.Blocks(common.LockWithdraw))
	require.True(t, common.LockWithdraw.Blocks(common.LockWithdraw))
	require.False(t, common.LockWithdraw.Blocks(common.LockDeposit))
	require.True(t, common.LockFull.Blocks(common.LockDeposit))
	require.True(t, common.LockFull.Blocks(common.LockWithdraw))
}

func TestLockPrivilegeOrder(t *testing.T) {
	require.Less(t, common.PrivilegeOwner.Rank(), common.PrivilegeContract.Rank())
	require.Less(t, common.PrivilegeContract.Rank(), common.PrivilegeCreator.Rank())
}
