package withdraw

import (
	"fmt"

	"github.com/tailabs/settlement-contracts/common"
)

// ErrClosed is returned when a resolution is attempted on a terminal
// withdraw settlement.
var ErrClosed = fmt.Errorf("closed withdraw: %w", common.ErrInvalidConfig)

// InnerAsset names an asset together with the amount of it the settlement
// moves.
type InnerAsset struct {
	ID    common.AccountID `msgpack:"id"`
	Units uint64           `msgpack:"units"`
}

// Config holds the immutable withdraw parameters: the customer pays
// CurrencyAsset, the exchange delivers WithdrawnAsset. Both sides must be
// funded before init.
type Config struct {
	Customer       common.AccountID `msgpack:"customer"`
	Exchange       common.AccountID `msgpack:"exchange"`
	CurrencyAsset  InnerAsset       `msgpack:"currency_asset"`
	WithdrawnAsset InnerAsset       `msgpack:"withdrawn_asset"`
}

// Status is the withdraw state machine: Open, then Success or Failure.
type Status string

const (
	StatusOpen    Status = "Open"
	StatusSuccess Status = "Success"
	StatusFailure Status = "Failure"
)

// Info is the get_info payload. Amount is the custodied currency balance.
type Info struct {
	Config Config `msgpack:"config"`
	Amount uint64 `msgpack:"amount"`
	Status Status `msgpack:"status"`
}

// UpdateArgs carries the exchange's resolution, "OK" or "KO" in any case.
type UpdateArgs struct {
	Status string `msgpack:"status"`
}

// Contract is one withdraw settlement bound to its own account.
type Contract struct {
	store common.Storage
	inv   common.Invoker
	id    common.AccountID
}

// New binds a withdraw contract to its account and capabilities.
func New(store common.Storage, inv common.Invoker, id common.AccountID) *Contract {
	return &Contract{store: store, inv: inv, id: id}
}

// Init validates the config, verifies up front that the contract account
// already holds both configured amounts, then locks both entries for
// withdraw and opens the settlement. Unlike escrow there is no pre-funding
// after init: a funding shortfall fails the whole call with nothing
// written. The contract owner and the exchange party may both init.
func (c *Contract) Init(ctx common.CallCtx, cfg Config) error {
	if c.store.Load(c.id, common.InitKey) != nil {
		return nil
	}
	if ctx.Caller != c.id && ctx.Caller != cfg.Exchange {
		return fmt.Errorf("withdraw init by %s: %w", ctx.Caller, common.ErrNotAuthorized)
	}
	if !cfg.Customer.Valid() || !cfg.Exchange.Valid() ||
		!cfg.CurrencyAsset.ID.Valid() || !cfg.WithdrawnAsset.ID.Valid() ||
		cfg.CurrencyAsset.Units == 0 || cfg.WithdrawnAsset.Units == 0 {
		return fmt.Errorf("withdraw config needs customer, exchange and both funded assets: %w", common.ErrInvalidConfig)
	}

	for _, required := range []InnerAsset{cfg.CurrencyAsset, cfg.WithdrawnAsset} {
		held, err := c.heldUnits(required.ID)
		if err != nil {
			return err
		}
		if held < required.Units {
			return fmt.Errorf("withdraw needs %d of %s, %d held: %w",
				required.Units, required.ID, held, common.ErrInsufficientFunds)
		}
	}

	for _, custodied := range []InnerAsset{cfg.CurrencyAsset, cfg.WithdrawnAsset} {
		client := common.AssetClient{Invoker: c.inv, Asset: custodied.ID}
		if err := client.SetLock(ctx, c.id, common.LockWithdraw); err != nil {
			return err
		}
	}

	if err := common.SetSerialized(c.store, c.id, common.ConfigKey, cfg); err != nil {
		return err
	}
	if err := common.SetSerialized(c.store, c.id, common.StatusKey, StatusOpen); err != nil {
		return err
	}
	return common.SetSerialized(c.store, c.id, common.InitKey, true)
}

// Update resolves the settlement. Only the exchange may call it, and only
// while it is open. "OK" performs the swap: the currency goes to the
// exchange and the withdrawn asset to the customer. "KO" refunds both
// sides. Either way both entries end locked down and the status is
// terminal.
func (c *Contract) Update(ctx common.CallCtx, resolution string) error {
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
	if ctx.Caller != cfg.Exchange {
		return fmt.Errorf("withdraw resolution by %s: %w", ctx.Caller, common.ErrNotAuthorized)
	}
	ok, err := common.ParseResolution(resolution)
	if err != nil {
		return err
	}

	currencyTo, withdrawnTo := cfg.Exchange, cfg.Customer
	terminal := StatusSuccess
	if !ok {
		currencyTo, withdrawnTo = cfg.Customer, cfg.Exchange
		terminal = StatusFailure
	}

	if err := c.release(ctx, cfg.CurrencyAsset, currencyTo); err != nil {
		return err
	}
	if err := c.release(ctx, cfg.WithdrawnAsset, withdrawnTo); err != nil {
		return err
	}
	return common.SetSerialized(c.store, c.id, common.StatusKey, terminal)
}

// release unlocks one custodied entry, pays out its configured amount and
// locks the remainder down.
func (c *Contract) release(ctx common.CallCtx, custodied InnerAsset, to common.AccountID) error {
	client := common.AssetClient{Invoker: c.inv, Asset: custodied.ID}
	if err := client.SetLock(ctx, c.id, common.LockNone); err != nil {
		return err
	}
	if err := client.Transfer(ctx, c.id, to, custodied.Units); err != nil {
		return err
	}
	return client.SetLock(ctx, c.id, common.LockFull)
}

// GetInfo returns the config, the custodied currency balance and the
// current status.
func (c *Contract) GetInfo(ctx common.CallCtx) (Info, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return Info{}, err
	}
	status, err := c.loadStatus()
	if err != nil {
		return Info{}, err
	}
	held, err := c.heldUnits(cfg.CurrencyAsset.ID)
	if err != nil {
		return Info{}, err
	}
	return Info{Config: cfg, Amount: held, Status: status}, nil
}

// heldUnits reads the contract's own co-located entry of the given asset.
func (c *Contract) heldUnits(asset common.AccountID) (uint64, error) {
	var entry common.Asset
	if _, err := common.GetSerialized(c.store, c.id, string(asset), &entry); err != nil {
		return 0, err
	}
	return entry.Units, nil
}

func (c *Contract) loadConfig() (Config, error) {
	var cfg Config
	found, err := common.GetSerialized(c.store, c.id, common.ConfigKey, &cfg)
	if err != nil || !found {
		return Config{}, fmt.Errorf("withdraw %s: %w", c.id, common.ErrNotInitialized)
	}
	return cfg, nil
}

func (c *Contract) loadStatus() (Status, error) {
	var status Status
	found, err := common.GetSerialized(c.store, c.id, common.StatusKey, &status)
	if err != nil || !found {
		return "", fmt.Errorf("withdraw %s status: %w", c.id, common.ErrNotInitialized)
	}
	return status, nil
}
