package sale_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tailabs/settlement-contracts/common"
	"github.com/tailabs/settlement-contracts/internal/hosttest"
	"github.com/tailabs/settlement-contracts/sale"
)

const (
	nft     = common.AccountID("nft")
	euro    = common.AccountID("euro")
	creator = common.AccountID("creator")
	shop    = common.AccountID("shop")
	seller  = common.AccountID("se11er")
	agent   = common.AccountID("agent")
	artist  = common.AccountID("artist")
	buyer   = common.AccountID("buyer")
)

func defaultConfig() sale.Config {
	return sale.Config{
		Seller:          seller,
		Asset:           nft,
		Price:           100,
		CurrencyAsset:   euro,
		Creator:         artist,
		CreatorFee:      100, // 10%
		Intermediary:    agent,
		IntermediaryFee: 25, // 2.5%, rounds up on the 100 price
	}
}

func deploySale(t *testing.T) (*hosttest.Env, *sale.Contract) {
	t.Helper()
	env := hosttest.NewEnv()
	env.DeployAsset(t, nft, creator, 10)
	env.DeployAsset(t, euro, creator, 1_000_000)

	env.Mint(t, nft, creator, shop, 1)

	c := sale.New(env.Store, env.Registry, shop)
	env.Registry.RegisterAll(shop, c.Handlers())
	_, err := env.Submit(shop, shop, common.MethodInit, defaultConfig())
	require.NoError(t, err)
	return env, c
}

func TestBuySplitsPrice(t *testing.T) {
	env, c := deploySale(t)
	env.Mint(t, euro, creator, buyer, 100)
	env.Delegate(t, euro, buyer, shop, 100, nil)

	_, err := env.Submit(buyer, shop, "buy", nil)
	require.NoError(t, err)

	// 10% to the creator, 2.5% half-up to the intermediary, the seller
	// gets the remainder so the shares sum to the price exactly
	require.EqualValues(t, 10, env.BalanceOf(t, artist, euro))
	require.EqualValues(t, 3, env.BalanceOf(t, agent, euro))
	require.EqualValues(t, 87, env.BalanceOf(t, seller, euro))
	require.EqualValues(t, 0, env.BalanceOf(t, buyer, euro))

	require.EqualValues(t, 1, env.BalanceOf(t, buyer, nft))

	info, err := c.GetInfo(common.CallCtx{Caller: buyer, Owner: shop})
	require.NoError(t, err)
	require.Equal(t, sale.StatusSold, info.Status)
	require.EqualValues(t, 0, info.Amount)
}

func TestBuyNeedsFunds(t *testing.T) {
	env, _ := deploySale(t)
	env.Mint(t, euro, creator, buyer, 40)
	env.Delegate(t, euro, buyer, shop, 100, nil)

	_, err := env.Submit(buyer, shop, "buy", nil)
	require.ErrorIs(t, err, common.ErrInsufficientFunds)

	// nothing was sold and the price was not taken
	require.EqualValues(t, 40, env.BalanceOf(t, buyer, euro))
	require.EqualValues(t, 1, env.BalanceOf(t, shop, nft))
}

func TestSaleIsTerminal(t *testing.T) {
	env, _ := deploySale(t)
	env.Mint(t, euro, creator, buyer, 200)
	env.Delegate(t, euro, buyer, shop, 100, nil)
	env.Delegate(t, euro, buyer, shop, 100, nil)

	_, err := env.Submit(buyer, shop, "buy", nil)
	require.NoError(t, err)

	_, err = env.Submit(buyer, shop, "buy", nil)
	require.ErrorIs(t, err, sale.ErrClosed)
	require.EqualValues(t, 100, env.BalanceOf(t, buyer, euro))
}

func TestBuyWithCutsRoundingAbovePrice(t *testing.T) {
	env := hosttest.NewEnv()
	env.DeployAsset(t, nft, creator, 10)
	env.DeployAsset(t, euro, creator, 1_000_000)
	env.Mint(t, nft, creator, shop, 1)

	// on a price of 3 both half-fees round up to 2; the intermediary's cut
	// must be clamped or the seller's remainder underflows
	cfg := defaultConfig()
	cfg.Price = 3
	cfg.CreatorFee = 500
	cfg.IntermediaryFee = 500

	c := sale.New(env.Store, env.Registry, shop)
	env.Registry.RegisterAll(shop, c.Handlers())
	_, err := env.Submit(shop, shop, common.MethodInit, cfg)
	require.NoError(t, err)

	env.Mint(t, euro, creator, buyer, 3)
	env.Delegate(t, euro, buyer, shop, 3, nil)

	_, err = env.Submit(buyer, shop, "buy", nil)
	require.NoError(t, err)

	require.EqualValues(t, 2, env.BalanceOf(t, artist, euro))
	require.EqualValues(t, 1, env.BalanceOf(t, agent, euro))
	require.Nil(t, env.Store.Load(seller, string(euro)))
	require.EqualValues(t, 0, env.BalanceOf(t, buyer, euro))
	require.EqualValues(t, 1, env.BalanceOf(t, buyer, nft))

	info, err := c.GetInfo(common.CallCtx{Caller: buyer, Owner: shop})
	require.NoError(t, err)
	require.Equal(t, sale.StatusSold, info.Status)
}

func TestInitFeeValidation(t *testing.T) {
	env := hosttest.NewEnv()
	env.DeployAsset(t, nft, creator, 10)
	env.DeployAsset(t, euro, creator, 1_000_000)

	c := sale.New(env.Store, env.Registry, shop)
	env.Registry.RegisterAll(shop, c.Handlers())

	cfg := defaultConfig()
	cfg.CreatorFee = 800
	cfg.IntermediaryFee = 300
	_, err := env.Submit(shop, shop, common.MethodInit, cfg)
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}
