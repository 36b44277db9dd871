package escrow

import (
	"fmt"
	"sort"

	"github.com/tailabs/settlement-contracts/common"
)

// ErrClosed is returned when a resolution is attempted on a terminal
// escrow. Distinct from a plain authorization failure so clients know a
// retry cannot help.
var ErrClosed = fmt.Errorf("closed escrow: %w", common.ErrInvalidConfig)

// Config holds the immutable escrow parameters. Merchants maps each
// beneficiary to the fixed amount it receives on success.
type Config struct {
	Asset     common.AccountID            `msgpack:"asset"`
	Guarantor common.AccountID            `msgpack:"guarantor"`
	Customer  common.AccountID            `msgpack:"customer"`
	Merchants map[common.AccountID]uint64 `msgpack:"merchants"`
}

// Status is the escrow state machine: Open, then Success or Failure.
type Status string

const (
	StatusOpen    Status = "Open"
	StatusSuccess Status = "Success"
	StatusFailure Status = "Failure"
)

// Info is the get_info payload.
type Info struct {
	Config Config `msgpack:"config"`
	Amount uint64 `msgpack:"amount"`
	Status Status `msgpack:"status"`
}

// UpdateArgs carries the guarantor's resolution, "OK" or "KO" in any case.
type UpdateArgs struct {
	Status string `msgpack:"status"`
}

// Contract is one escrow instance bound to its own account. The custodied
// asset entry lives in this account's data, locked for withdraw while the
// escrow is open.
type Contract struct {
	store common.Storage
	inv   common.Invoker
	id    common.AccountID
}

// New binds an escrow contract to its account and capabilities.
func New(store common.Storage, inv common.Invoker, id common.AccountID) *Contract {
	return &Contract{store: store, inv: inv, id: id}
}

// Init validates the config, locks the custody asset for withdraw and opens
// the escrow. A second init is a silent no-op. Funding is not required at
// init time: the customer may deposit into the escrow account afterwards.
func (c *Contract) Init(ctx common.CallCtx, cfg Config) error {
	if c.store.Load(c.id, common.InitKey) != nil {
		return nil
	}
	if ctx.Caller != c.id {
		return fmt.Errorf("escrow init by %s: %w", ctx.Caller, common.ErrNotAuthorized)
	}
	if !cfg.Asset.Valid() || !cfg.Guarantor.Valid() || !cfg.Customer.Valid() || len(cfg.Merchants) == 0 {
		return fmt.Errorf("escrow config needs asset, guarantor, customer and merchants: %w", common.ErrInvalidConfig)
	}
	for merchant := range cfg.Merchants {
		if !merchant.Valid() {
			return fmt.Errorf("merchant id %q: %w", merchant, common.ErrInvalidConfig)
		}
	}

	if err := c.client(cfg).SetLock(ctx, c.id, common.LockWithdraw); err != nil {
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

// Update resolves the escrow. Only the guarantor may call it, and only
// while the escrow is open.
//
// On "OK" each merchant receives its configured amount in ascending
// merchant-id order and whatever remains stays in the escrow account,
// unlocked. On "KO" the customer is refunded the configured total capped at
// the actual balance, and the remainder is locked down.
//
// A transfer failure aborts the call before the terminal status is
// persisted, leaving the escrow open and retryable.
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
	if ctx.Caller != cfg.Guarantor {
		return fmt.Errorf("escrow resolution by %s: %w", ctx.Caller, common.ErrNotAuthorized)
	}
	ok, err := common.ParseResolution(resolution)
	if err != nil {
		return err
	}

	client := c.client(cfg)
	if err := client.SetLock(ctx, c.id, common.LockNone); err != nil {
		return err
	}

	if ok {
		for _, merchant := range sortedMerchants(cfg.Merchants) {
			if err := client.Transfer(ctx, c.id, merchant, cfg.Merchants[merchant]); err != nil {
				return err
			}
		}
		return common.SetSerialized(c.store, c.id, common.StatusKey, StatusSuccess)
	}

	total, err := merchantsTotal(cfg.Merchants)
	if err != nil {
		return err
	}
	balance, err := client.Balance(ctx)
	if err != nil {
		return err
	}
	// the refund degrades gracefully on shortfall instead of failing
	refund := total
	if balance < refund {
		refund = balance
	}
	if refund > 0 {
		if err := client.Transfer(ctx, c.id, cfg.Customer, refund); err != nil {
			return err
		}
	}
	if err := client.SetLock(ctx, c.id, common.LockFull); err != nil {
		return err
	}
	return common.SetSerialized(c.store, c.id, common.StatusKey, StatusFailure)
}

// GetInfo returns the config, the custodied balance and the current status.
// The balance is read from the escrow's own co-located asset entry, so it
// stays readable regardless of locks.
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

func (c *Contract) client(cfg Config) common.AssetClient {
	return common.AssetClient{Invoker: c.inv, Asset: cfg.Asset}
}

func (c *Contract) loadConfig() (Config, error) {
	var cfg Config
	found, err := common.GetSerialized(c.store, c.id, common.ConfigKey, &cfg)
	if err != nil || !found {
		return Config{}, fmt.Errorf("escrow %s: %w", c.id, common.ErrNotInitialized)
	}
	return cfg, nil
}

func (c *Contract) loadStatus() (Status, error) {
	var status Status
	found, err := common.GetSerialized(c.store, c.id, common.StatusKey, &status)
	if err != nil || !found {
		return "", fmt.Errorf("escrow %s status: %w", c.id, common.ErrNotInitialized)
	}
	return status, nil
}

// sortedMerchants fixes the settlement iteration order so re-execution of
// the same resolution is reproducible.
func sortedMerchants(merchants map[common.AccountID]uint64) []common.AccountID {
	ids := make([]common.AccountID, 0, len(merchants))
	for id := range merchants {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func merchantsTotal(merchants map[common.AccountID]uint64) (uint64, error) {
	var total uint64
	for _, units := range merchants {
		sum, err := common.AddUnits(total, units)
		if err != nil {
			return 0, err
		}
		total = sum
	}
	return total, nil
}
