package escrow_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tailabs/settlement-contracts/common"
	"github.com/tailabs/settlement-contracts/escrow"
	"github.com/tailabs/settlement-contracts/internal/hosttest"
)

const (
	coin    = common.AccountID("coin")
	creator = common.AccountID("creator")
	esc     = common.AccountID("esc")
	guard   = common.AccountID("guard")
	cust    = common.AccountID("cust")
	m1      = common.AccountID("m1")
	m2      = common.AccountID("m2")
)

func deployEscrow(t *testing.T, env *hosttest.Env, cfg escrow.Config) *escrow.Contract {
	t.Helper()
	c := escrow.New(env.Store, env.Registry, esc)
	env.Registry.RegisterAll(esc, c.Handlers())
	_, err := env.Submit(esc, esc, common.MethodInit, cfg)
	require.NoError(t, err)
	return c
}

func defaultConfig() escrow.Config {
	return escrow.Config{
		Asset:     coin,
		Guarantor: guard,
		Customer:  cust,
		Merchants: map[common.AccountID]uint64{m1: 95, m2: 5},
	}
}

func TestSuccessSettlement(t *testing.T) {
	env := hosttest.NewEnv()
	env.DeployAsset(t, coin, creator, 1_000_000)
	deployEscrow(t, env, defaultConfig())

	// fund the custody after init; the withdraw lock admits deposits
	env.Mint(t, coin, creator, esc, 300)

	_, err := env.Submit(guard, esc, "update", escrow.UpdateArgs{Status: "OK"})
	require.NoError(t, err)

	require.EqualValues(t, 95, env.BalanceOf(t, m1, coin))
	require.EqualValues(t, 5, env.BalanceOf(t, m2, coin))

	// the remainder stays with the escrow, unlocked
	entry := env.EntryOf(t, esc, coin)
	require.EqualValues(t, 200, entry.Units)
	require.Nil(t, entry.Lock)

	res, err := env.Submit(cust, esc, common.MethodGetInfo, nil)
	require.NoError(t, err)
	var info escrow.Info
	require.NoError(t, common.Unmarshal(res, &info))
	require.Equal(t, escrow.StatusSuccess, info.Status)
	require.EqualValues(t, 200, info.Amount)

	// terminal: a second resolution moves nothing
	_, err = env.Submit(guard, esc, "update", escrow.UpdateArgs{Status: "OK"})
	require.ErrorIs(t, err, escrow.ErrClosed)
	require.ErrorIs(t, err, common.ErrInvalidConfig)
	require.EqualValues(t, 95, env.BalanceOf(t, m1, coin))
	require.EqualValues(t, 200, env.BalanceOf(t, esc, coin))
}

func TestFailureRefundsCustomer(t *testing.T) {
	env := hosttest.NewEnv()
	env.DeployAsset(t, coin, creator, 1_000_000)
	deployEscrow(t, env, defaultConfig())
	env.Mint(t, coin, creator, esc, 300)

	_, err := env.Submit(guard, esc, "update", escrow.UpdateArgs{Status: "ko"})
	require.NoError(t, err)

	// the refund is the configured total, the remainder is locked down
	require.EqualValues(t, 100, env.BalanceOf(t, cust, coin))
	entry := env.EntryOf(t, esc, coin)
	require.EqualValues(t, 200, entry.Units)
	require.NotNil(t, entry.Lock)
	require.Equal(t, common.LockFull, entry.Lock.Type)
}

func TestFailureRefundCappedAtBalance(t *testing.T) {
	env := hosttest.NewEnv()
	env.DeployAsset(t, coin, creator, 1_000_000)
	deployEscrow(t, env, defaultConfig())
	env.Mint(t, coin, creator, esc, 60) // short of the configured 100

	_, err := env.Submit(guard, esc, "update", escrow.UpdateArgs{Status: "KO"})
	require.NoError(t, err)
	require.EqualValues(t, 60, env.BalanceOf(t, cust, coin))
}

func TestSuccessShortfallKeepsEscrowOpen(t *testing.T) {
	env := hosttest.NewEnv()
	env.DeployAsset(t, coin, creator, 1_000_000)
	c := deployEscrow(t, env, defaultConfig())
	env.Mint(t, coin, creator, esc, 50) // cannot cover the merchants

	_, err := env.Submit(guard, esc, "update", escrow.UpdateArgs{Status: "OK"})
	require.ErrorIs(t, err, common.ErrInsufficientFunds)

	// the terminal status was never written: funding and retrying works
	info, err := c.GetInfo(common.CallCtx{Caller: guard, Owner: esc, Origin: guard})
	require.NoError(t, err)
	require.Equal(t, escrow.StatusOpen, info.Status)

	env.Mint(t, coin, creator, esc, 100)
	_, err = env.Submit(guard, esc, "update", escrow.UpdateArgs{Status: "OK"})
	require.NoError(t, err)
	require.EqualValues(t, 95, env.BalanceOf(t, m1, coin))
}

func TestOnlyGuarantorResolves(t *testing.T) {
	env := hosttest.NewEnv()
	env.DeployAsset(t, coin, creator, 1_000_000)
	deployEscrow(t, env, defaultConfig())
	env.Mint(t, coin, creator, esc, 300)

	_, err := env.Submit(cust, esc, "update", escrow.UpdateArgs{Status: "OK"})
	require.ErrorIs(t, err, common.ErrNotAuthorized)

	_, err = env.Submit(guard, esc, "update", escrow.UpdateArgs{Status: "perhaps"})
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestInitValidationAndIdempotency(t *testing.T) {
	env := hosttest.NewEnv()
	env.DeployAsset(t, coin, creator, 1_000_000)

	c := escrow.New(env.Store, env.Registry, esc)
	env.Registry.RegisterAll(esc, c.Handlers())

	cfg := defaultConfig()
	cfg.Merchants = nil
	_, err := env.Submit(esc, esc, common.MethodInit, cfg)
	require.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = env.Submit(guard, esc, common.MethodInit, defaultConfig())
	require.ErrorIs(t, err, common.ErrNotAuthorized)

	_, err = env.Submit(esc, esc, common.MethodInit, defaultConfig())
	require.NoError(t, err)

	// re-init with different merchants is silently ignored
	other := defaultConfig()
	other.Merchants = map[common.AccountID]uint64{m1: 1}
	_, err = env.Submit(esc, esc, common.MethodInit, other)
	require.NoError(t, err)

	info, err := c.GetInfo(common.CallCtx{Caller: guard, Owner: esc})
	require.NoError(t, err)
	require.Len(t, info.Config.Merchants, 2)
}

func TestResolveBeforeInit(t *testing.T) {
	env := hosttest.NewEnv()
	c := escrow.New(env.Store, env.Registry, esc)
	env.Registry.RegisterAll(esc, c.Handlers())

	_, err := env.Submit(guard, esc, "update", escrow.UpdateArgs{Status: "OK"})
	require.ErrorIs(t, err, common.ErrNotInitialized)
}
