package sale

import (
	"fmt"

	"github.com/tailabs/settlement-contracts/common"
)

// ErrClosed is returned when buy is attempted on an already-sold sale.
var ErrClosed = fmt.Errorf("closed sale: %w", common.ErrInvalidConfig)

// Config holds the immutable sale parameters: the custodied Asset is sold
// in one piece for Price units of CurrencyAsset, with creator and
// intermediary cuts in thousandths taken out of the price. The seller
// receives the remainder by subtraction, so the three shares always sum to
// the price exactly.
type Config struct {
	Seller          common.AccountID `msgpack:"seller"`
	Asset           common.AccountID `msgpack:"asset"`
	Price           uint64           `msgpack:"price"`
	CurrencyAsset   common.AccountID `msgpack:"currency_asset"`
	Creator         common.AccountID `msgpack:"creator"`
	CreatorFee      uint64           `msgpack:"creator_fee"`
	Intermediary    common.AccountID `msgpack:"intermediary"`
	IntermediaryFee uint64           `msgpack:"intermediary_fee"`
}

// Status is the sale state machine: Open, then Sold.
type Status string

const (
	StatusOpen Status = "Open"
	StatusSold Status = "Sold"
)

// Info is the get_info payload. Amount is the custodied asset balance.
type Info struct {
	Config Config `msgpack:"config"`
	Amount uint64 `msgpack:"amount"`
	Status Status `msgpack:"status"`
}

// Contract is one sale instance bound to its own account.
type Contract struct {
	store common.Storage
	inv   common.Invoker
	id    common.AccountID
}

// New binds a sale contract to its account and capabilities.
func New(store common.Storage, inv common.Invoker, id common.AccountID) *Contract {
	return &Contract{store: store, inv: inv, id: id}
}

// Init validates the config, locks the custodied asset for withdraw and
// opens the sale. A second init is a silent no-op.
func (c *Contract) Init(ctx common.CallCtx, cfg Config) error {
	if c.store.Load(c.id, common.InitKey) != nil {
		return nil
	}
	if ctx.Caller != c.id {
		return fmt.Errorf("sale init by %s: %w", ctx.Caller, common.ErrNotAuthorized)
	}
	if !cfg.Seller.Valid() || !cfg.Asset.Valid() || !cfg.CurrencyAsset.Valid() ||
		!cfg.Creator.Valid() || !cfg.Intermediary.Valid() || cfg.Price == 0 {
		return fmt.Errorf("sale config needs seller, assets, creator, intermediary and a price: %w", common.ErrInvalidConfig)
	}
	if sum := cfg.CreatorFee + cfg.IntermediaryFee; sum > 1000 {
		return fmt.Errorf("fees total %d above 1000 thousandths: %w", sum, common.ErrInvalidConfig)
	}

	custody := common.AssetClient{Invoker: c.inv, Asset: cfg.Asset}
	if err := custody.SetLock(ctx, c.id, common.LockWithdraw); err != nil {
		return err
	}

	if err := common.SetSerialized(c.store, c.id, common.ConfigKey, cfg); err != nil {
		return err
	}
	if err := common.SetSerialized(c.store, c.id, common.StatusKey, StatusOpen); err != nil {
		return err
	}
	return common.SetSerialized(c.store, c.id, common.InitKey, true)
}

// Buy sells the whole custodied balance to the caller for the configured
// price. The buyer must have granted the sale account a delegation for
// exactly the price. The price is split between creator, intermediary and
// seller; the seller's share is the remainder after the rounded cuts.
func (c *Contract) Buy(ctx common.CallCtx) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	status, err := c.loadStatus()
	if err != nil {
		return err
	}
	if status != StatusOpen {
		return ErrClosed
	}

	buyer := ctx.Caller
	currency := common.AssetClient{Invoker: c.inv, Asset: cfg.CurrencyAsset}
	if err := currency.Transfer(ctx, buyer, c.id, cfg.Price); err != nil {
		return err
	}
	shares, err := common.Split(cfg.Price, cfg.CreatorFee, cfg.IntermediaryFee)
	if err != nil {
		return err
	}
	for i, to := range []common.AccountID{cfg.Creator, cfg.Intermediary, cfg.Seller} {
		if shares[i] == 0 {
			continue
		}
		if err := currency.Transfer(ctx, c.id, to, shares[i]); err != nil {
			return err
		}
	}

	custody := common.AssetClient{Invoker: c.inv, Asset: cfg.Asset}
	if err := custody.SetLock(ctx, c.id, common.LockNone); err != nil {
		return err
	}
	sold, err := custody.Balance(ctx)
	if err != nil {
		return err
	}
	if sold > 0 {
		if err := custody.Transfer(ctx, c.id, buyer, sold); err != nil {
			return err
		}
	}
	if err := custody.SetLock(ctx, c.id, common.LockFull); err != nil {
		return err
	}
	return common.SetSerialized(c.store, c.id, common.StatusKey, StatusSold)
}

// GetInfo returns the config, the custodied balance and the current status.
func (c *Contract) GetInfo(ctx common.CallCtx) (Info, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return Info{}, err
	}
	status, err := c.loadStatus()
	if err != nil {
		return Info{}, err
	}
	var entry common.Asset
	if _, err := common.GetSerialized(c.store, c.id, string(cfg.Asset), &entry); err != nil {
		return Info{}, err
	}
	return Info{Config: cfg, Amount: entry.Units, Status: status}, nil
}

func (c *Contract) loadConfig() (Config, error) {
	var cfg Config
	found, err := common.GetSerialized(c.store, c.id, common.ConfigKey, &cfg)
	if err != nil || !found {
		return Config{}, fmt.Errorf("sale %s: %w", c.id, common.ErrNotInitialized)
	}
	return cfg, nil
}

func (c *Contract) loadStatus() (Status, error) {
	var status Status
	found, err := common.GetSerialized(c.store, c.id, common.StatusKey, &status)
	if err != nil || !found {
		return "", fmt.Errorf("sale %s status: %w", c.id, common.ErrNotInitialized)
	}
	return status, nil
}
