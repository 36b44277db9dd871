package exchange

import (
	"fmt"

	"github.com/tailabs/settlement-contracts/common"
)

// ErrNotOpen is returned for apply and abort calls on an exhausted or
// aborted exchange.
var ErrNotOpen = fmt.Errorf("exchange not open: %w", common.ErrInvalidConfig)

// Config holds the immutable exchange parameters. Assets maps each accepted
// offered asset to its exchange rate per 100 offered units. GuarantorFee is
// the guarantor's cut of every offered amount in thousandths. PenaltyFee is
// the abort penalty: thousandths of the remaining custody balance when
// PenaltyAsset equals the sold asset, a fixed amount of PenaltyAsset
// otherwise (the latter requires a pre-existing delegation from the seller).
type Config struct {
	Seller       common.AccountID            `msgpack:"seller"`
	Asset        common.AccountID            `msgpack:"asset"`
	Guarantor    common.AccountID            `msgpack:"guarantor"`
	GuarantorFee uint64                      `msgpack:"guarantor_fee"`
	PenaltyFee   uint64                      `msgpack:"penalty_fee"`
	PenaltyAsset common.AccountID            `msgpack:"penalty_asset"`
	Assets       map[common.AccountID]uint64 `msgpack:"assets"`
}

// Status is the exchange state machine: Open, then Exhausted (custody sold
// out) or Aborted.
type Status string

const (
	StatusOpen      Status = "Open"
	StatusExhausted Status = "Exhausted"
	StatusAborted   Status = "Aborted"
)

// Info is the get_info payload.
type Info struct {
	Config Config `msgpack:"config"`
	Amount uint64 `msgpack:"amount"`
	Status Status `msgpack:"status"`
}

// ApplyArgs is a buyer's conversion request: Amount units of the offered
// Asset against the custodied one.
type ApplyArgs struct {
	Asset  common.AccountID `msgpack:"asset"`
	Amount uint64           `msgpack:"amount"`
}

// Contract is one dynamic exchange instance bound to its own account.
type Contract struct {
	store common.Storage
	inv   common.Invoker
	id    common.AccountID
}

// New binds an exchange contract to its account and capabilities.
func New(store common.Storage, inv common.Invoker, id common.AccountID) *Contract {
	return &Contract{store: store, inv: inv, id: id}
}

// Init validates the config, locks the custody asset for withdraw and opens
// the exchange. A second init is a silent no-op.
func (c *Contract) Init(ctx common.CallCtx, cfg Config) error {
	if c.store.Load(c.id, common.InitKey) != nil {
		return nil
	}
	if ctx.Caller != c.id {
		return fmt.Errorf("exchange init by %s: %w", ctx.Caller, common.ErrNotAuthorized)
	}
	if !cfg.Seller.Valid() || !cfg.Asset.Valid() || !cfg.Guarantor.Valid() || !cfg.PenaltyAsset.Valid() || len(cfg.Assets) == 0 {
		return fmt.Errorf("exchange config needs seller, asset, guarantor, penalty asset and rates: %w", common.ErrInvalidConfig)
	}
	if cfg.GuarantorFee > 1000 {
		return fmt.Errorf("guarantor fee %d above 1000 thousandths: %w", cfg.GuarantorFee, common.ErrInvalidConfig)
	}
	if cfg.PenaltyAsset == cfg.Asset && cfg.PenaltyFee > 1000 {
		return fmt.Errorf("penalty fee %d above 1000 thousandths: %w", cfg.PenaltyFee, common.ErrInvalidConfig)
	}
	for offered, rate := range cfg.Assets {
		if !offered.Valid() || rate == 0 {
			return fmt.Errorf("offered asset %q rate %d: %w", offered, rate, common.ErrInvalidConfig)
		}
		// paying the seller in the custodied asset would hit the custody
		// entry's own withdraw lock on every apply
		if offered == cfg.Asset {
			return fmt.Errorf("offered asset %s is the custodied one: %w", offered, common.ErrInvalidConfig)
		}
	}

	if err := c.custody(cfg).SetLock(ctx, c.id, common.LockWithdraw); err != nil {
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

// Apply converts an offered amount into the custodied asset at the
// configured rate, half-up rounded. The caller is the buyer and must have
// granted the exchange a delegation for exactly the offered amount. The
// offered amount is split between guarantor and seller by the guarantor
// fee. When the custody balance hits zero after the payout the exchange
// exhausts itself: no explicit close exists.
func (c *Contract) Apply(ctx common.CallCtx, offered common.AccountID, amount uint64) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	status, err := c.loadStatus()
	if err != nil {
		return err
	}
	if status != StatusOpen {
		return ErrNotOpen
	}
	rate, accepted := cfg.Assets[offered]
	if !accepted {
		return fmt.Errorf("asset %s not accepted by the exchange: %w", offered, common.ErrInvalidConfig)
	}
	converted, err := common.Convert(amount, rate)
	if err != nil {
		return err
	}
	if converted == 0 {
		return fmt.Errorf("amount %d converts to nothing at rate %d/100: %w", amount, rate, common.ErrInvalidConfig)
	}

	custody := c.custody(cfg)
	// the withdraw lock does not block reading, so check funds before
	// taking the buyer's offered amount
	balance, err := custody.Balance(ctx)
	if err != nil {
		return err
	}
	if balance < converted {
		return fmt.Errorf("%d custodied, %d requested: %w", balance, converted, common.ErrInsufficientFunds)
	}

	buyer := ctx.Caller
	offeredClient := common.AssetClient{Invoker: c.inv, Asset: offered}
	if err := offeredClient.Transfer(ctx, buyer, c.id, amount); err != nil {
		return err
	}
	shares, err := common.Split(amount, cfg.GuarantorFee)
	if err != nil {
		return err
	}
	for i, to := range []common.AccountID{cfg.Guarantor, cfg.Seller} {
		if shares[i] == 0 {
			continue
		}
		if err := offeredClient.Transfer(ctx, c.id, to, shares[i]); err != nil {
			return err
		}
	}

	if err := custody.SetLock(ctx, c.id, common.LockNone); err != nil {
		return err
	}
	if err := custody.Transfer(ctx, c.id, buyer, converted); err != nil {
		return err
	}
	remaining, err := custody.Balance(ctx)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := custody.SetLock(ctx, c.id, common.LockFull); err != nil {
			return err
		}
		return common.SetSerialized(c.store, c.id, common.StatusKey, StatusExhausted)
	}
	return custody.SetLock(ctx, c.id, common.LockWithdraw)
}

// Abort closes the exchange and returns the custody balance to the seller,
// minus the guarantor's penalty. Seller or guarantor only.
func (c *Contract) Abort(ctx common.CallCtx) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	status, err := c.loadStatus()
	if err != nil {
		return err
	}
	if status != StatusOpen {
		return ErrNotOpen
	}
	if ctx.Caller != cfg.Seller && ctx.Caller != cfg.Guarantor {
		return fmt.Errorf("exchange abort by %s: %w", ctx.Caller, common.ErrNotAuthorized)
	}

	custody := c.custody(cfg)
	if err := custody.SetLock(ctx, c.id, common.LockNone); err != nil {
		return err
	}
	balance, err := custody.Balance(ctx)
	if err != nil {
		return err
	}

	refund := balance
	if cfg.PenaltyAsset == cfg.Asset {
		penalty, err := common.Share(balance, cfg.PenaltyFee)
		if err != nil {
			return err
		}
		if penalty > 0 {
			if err := custody.Transfer(ctx, c.id, cfg.Guarantor, penalty); err != nil {
				return err
			}
		}
		refund = balance - penalty
	} else if cfg.PenaltyFee > 0 {
		penaltyClient := common.AssetClient{Invoker: c.inv, Asset: cfg.PenaltyAsset}
		if err := penaltyClient.Transfer(ctx, cfg.Seller, cfg.Guarantor, cfg.PenaltyFee); err != nil {
			return err
		}
	}
	if refund > 0 {
		if err := custody.Transfer(ctx, c.id, cfg.Seller, refund); err != nil {
			return err
		}
	}

	if err := custody.SetLock(ctx, c.id, common.LockFull); err != nil {
		return err
	}
	return common.SetSerialized(c.store, c.id, common.StatusKey, StatusAborted)
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

func (c *Contract) custody(cfg Config) common.AssetClient {
	return common.AssetClient{Invoker: c.inv, Asset: cfg.Asset}
}

func (c *Contract) loadConfig() (Config, error) {
	var cfg Config
	found, err := common.GetSerialized(c.store, c.id, common.ConfigKey, &cfg)
	if err != nil || !found {
		return Config{}, fmt.Errorf("exchange %s: %w", c.id, common.ErrNotInitialized)
	}
	return cfg, nil
}

func (c *Contract) loadStatus() (Status, error) {
	var status Status
	found, err := common.GetSerialized(c.store, c.id, common.StatusKey, &status)
	if err != nil || !found {
		return "", fmt.Errorf("exchange %s status: %w", c.id, common.ErrNotInitialized)
	}
	return status, nil
}
