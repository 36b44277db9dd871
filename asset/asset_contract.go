package asset

import (
	"fmt"

	"github.com/tailabs/settlement-contracts/common"
)

const supplyKey = "circulating_supply"

// Config holds the immutable parameters of one deployed asset.
type Config struct {
	// Name is the human-readable asset name.
	Name string `msgpack:"name"`
	// Creator holds the top lock privilege and is the only account allowed
	// to mint and burn.
	Creator common.AccountID `msgpack:"creator"`
	// MaxUnits caps circulating supply.
	MaxUnits uint64 `msgpack:"max_units"`
}

// Info is the get_info payload.
type Info struct {
	Config Config `msgpack:"config"`
	Supply uint64 `msgpack:"supply"`
}

// Contract is one asset contract instance bound to the asset's own account.
type Contract struct {
	store common.Storage
	id    common.AccountID
}

// New binds an asset contract to its account and storage capability.
func New(store common.Storage, id common.AccountID) *Contract {
	return &Contract{store: store, id: id}
}

// ID returns the asset's account id.
func (c *Contract) ID() common.AccountID { return c.id }

// LockedError reports an operation blocked by a standing lock. Direction is
// the blocked operation (deposit, withdraw or balance) and Privilege names
// who holds the lock. It unwraps to common.ErrLocked.
type LockedError struct {
	Direction string
	Privilege common.LockPrivilege
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s blocked by %s-level lock", e.Direction, e.Privilege)
}

func (e *LockedError) Unwrap() error { return common.ErrLocked }

// Init sets up the asset. A second init on an already-initialized asset is a
// silent no-op. Only the asset account itself may init.
func (c *Contract) Init(ctx common.CallCtx, cfg Config) error {
	if c.store.Load(c.id, common.InitKey) != nil {
		return nil
	}
	if ctx.Caller != c.id {
		return fmt.Errorf("init of asset %s by %s: %w", c.id, ctx.Caller, common.ErrNotAuthorized)
	}
	if cfg.Name == "" || !cfg.Creator.Valid() || cfg.MaxUnits == 0 {
		return fmt.Errorf("asset config needs name, creator and max units: %w", common.ErrInvalidConfig)
	}
	if err := common.SetSerialized(c.store, c.id, common.ConfigKey, cfg); err != nil {
		return err
	}
	if err := common.SetSerialized(c.store, c.id, supplyKey, uint64(0)); err != nil {
		return err
	}
	return common.SetSerialized(c.store, c.id, common.InitKey, true)
}

// GetInfo returns the asset config and circulating supply.
func (c *Contract) GetInfo(ctx common.CallCtx) (Info, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return Info{}, err
	}
	supply, err := c.loadSupply()
	if err != nil {
		return Info{}, err
	}
	return Info{Config: cfg, Supply: supply}, nil
}

// Mint credits newly created units to an account. Creator only; fails with
// ErrLimitExceeded above the configured cap. The destination's deposit lock
// applies.
func (c *Contract) Mint(ctx common.CallCtx, to common.AccountID, units uint64) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if ctx.Caller != cfg.Creator {
		return fmt.Errorf("mint by %s: %w", ctx.Caller, common.ErrNotAuthorized)
	}
	supply, err := c.loadSupply()
	if err != nil {
		return err
	}
	newSupply, err := common.AddUnits(supply, units)
	if err != nil {
		return err
	}
	if newSupply > cfg.MaxUnits {
		return fmt.Errorf("minting %d over cap %d: %w", units, cfg.MaxUnits, common.ErrLimitExceeded)
	}
	entry, err := c.loadEntry(to)
	if err != nil {
		return err
	}
	deposited, err := depositChecked(entry, units)
	if err != nil {
		return fmt.Errorf("mint %d to %s: %w", units, to, err)
	}
	if err := common.SetSerialized(c.store, c.id, supplyKey, newSupply); err != nil {
		return err
	}
	return c.storeEntry(to, deposited)
}

// Burn destroys units held by an account. Creator only; the holder's
// withdraw lock applies.
func (c *Contract) Burn(ctx common.CallCtx, from common.AccountID, units uint64) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if ctx.Caller != cfg.Creator {
		return fmt.Errorf("burn by %s: %w", ctx.Caller, common.ErrNotAuthorized)
	}
	entry, err := c.loadEntry(from)
	if err != nil {
		return err
	}
	withdrawn, err := withdrawChecked(entry, units)
	if err != nil {
		return fmt.Errorf("burn %d from %s: %w", units, from, err)
	}
	supply, err := c.loadSupply()
	if err != nil {
		return err
	}
	if supply < units {
		return fmt.Errorf("burn %d exceeds supply %d: %w", units, supply, common.ErrInsufficientFunds)
	}
	if err := common.SetSerialized(c.store, c.id, supplyKey, supply-units); err != nil {
		return err
	}
	return c.storeEntry(from, withdrawn)
}

// Transfer moves units between holders. The caller must be the source
// account or hold a matching delegation on it; a consumed delegation is
// removed in the same atomic step as the balance updates.
func (c *Contract) Transfer(ctx common.CallCtx, from, to common.AccountID, units uint64) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("transfer endpoints must be valid accounts: %w", common.ErrInvalidConfig)
	}

	var grant *grantRef
	if ctx.Caller != from {
		ref, err := c.findDelegation(ctx.Caller, from, to, units)
		if err != nil {
			return err
		}
		grant = ref
	}

	source, err := c.loadEntry(from)
	if err != nil {
		return err
	}
	withdrawn, err := withdrawChecked(source, units)
	if err != nil {
		return fmt.Errorf("transfer %d from %s: %w", units, from, err)
	}

	if from == to {
		// checks still apply, balances do not change
		if grant != nil {
			return c.removeDelegation(from, grant)
		}
		return nil
	}

	dest, err := c.loadEntry(to)
	if err != nil {
		return err
	}
	deposited, err := depositChecked(dest, units)
	if err != nil {
		return fmt.Errorf("transfer %d to %s: %w", units, to, err)
	}

	// all checks passed, commit every write
	if grant != nil {
		if err := c.removeDelegation(from, grant); err != nil {
			return err
		}
	}
	if err := c.storeEntry(from, withdrawn); err != nil {
		return err
	}
	return c.storeEntry(to, deposited)
}

// Balance returns the caller's balance. A full lock on the entry also
// blocks reading it.
func (c *Contract) Balance(ctx common.CallCtx) (uint64, error) {
	entry, err := c.loadEntry(ctx.Caller)
	if err != nil {
		return 0, err
	}
	if entry.Lock != nil && entry.Lock.Type == common.LockFull {
		return 0, fmt.Errorf("balance of %s: %w", ctx.Caller,
			&LockedError{Direction: "balance", Privilege: entry.Lock.Privilege})
	}
	return entry.Units, nil
}

// SetLock sets or clears the lock on the target holder's entry. The
// caller's privilege is derived from its relation to the asset and the
// target, and must rank at least as high as the standing lock's privilege.
func (c *Contract) SetLock(ctx common.CallCtx, target common.AccountID, lock common.LockType) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	var privilege common.LockPrivilege
	switch {
	case ctx.Caller == cfg.Creator:
		privilege = common.PrivilegeCreator
	case ctx.Caller == target && ctx.Depth > 0:
		privilege = common.PrivilegeContract
	case ctx.Caller == target:
		privilege = common.PrivilegeOwner
	default:
		return fmt.Errorf("lock on %s entry by %s: %w", target, ctx.Caller, common.ErrNotAuthorized)
	}

	entry, err := c.loadEntry(target)
	if err != nil {
		return err
	}
	if entry.Lock != nil && privilege.Rank() < entry.Lock.Privilege.Rank() {
		return fmt.Errorf("%s cannot change a %s-level lock: %w",
			privilege, entry.Lock.Privilege, common.ErrNotAuthorized)
	}

	if lock == common.LockNone {
		entry.Lock = nil
	} else {
		entry.Lock = &common.Lock{Privilege: privilege, Type: lock}
	}
	return c.storeEntry(target, entry)
}

// withdrawChecked verifies the withdraw direction against the entry's lock
// and balance and returns the updated entry, lock untouched.
func withdrawChecked(entry common.Asset, units uint64) (common.Asset, error) {
	if entry.Lock != nil && entry.Lock.Type.Blocks(common.LockWithdraw) {
		return entry, &LockedError{Direction: "withdraw", Privilege: entry.Lock.Privilege}
	}
	if entry.Units < units {
		return entry, fmt.Errorf("%d units held: %w", entry.Units, common.ErrInsufficientFunds)
	}
	entry.Units -= units
	return entry, nil
}

// depositChecked verifies the deposit direction against the entry's lock and
// returns the updated entry, lock untouched.
func depositChecked(entry common.Asset, units uint64) (common.Asset, error) {
	if entry.Lock != nil && entry.Lock.Type.Blocks(common.LockDeposit) {
		return entry, &LockedError{Direction: "deposit", Privilege: entry.Lock.Privilege}
	}
	sum, err := common.AddUnits(entry.Units, units)
	if err != nil {
		return entry, err
	}
	entry.Units = sum
	return entry, nil
}

func (c *Contract) loadConfig() (Config, error) {
	var cfg Config
	found, err := common.GetSerialized(c.store, c.id, common.ConfigKey, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("asset %s: %w", c.id, common.ErrNotInitialized)
	}
	if !found {
		return Config{}, fmt.Errorf("asset %s: %w", c.id, common.ErrNotInitialized)
	}
	return cfg, nil
}

func (c *Contract) loadSupply() (uint64, error) {
	var supply uint64
	found, err := common.GetSerialized(c.store, c.id, supplyKey, &supply)
	if err != nil || !found {
		return 0, fmt.Errorf("supply of %s: %w", c.id, common.ErrNotInitialized)
	}
	return supply, nil
}

// loadEntry returns the holder's balance entry of this asset, zero when the
// holder never held it.
func (c *Contract) loadEntry(holder common.AccountID) (common.Asset, error) {
	var entry common.Asset
	if _, err := common.GetSerialized(c.store, holder, string(c.id), &entry); err != nil {
		return common.Asset{}, err
	}
	return entry, nil
}

func (c *Contract) storeEntry(holder common.AccountID, entry common.Asset) error {
	return common.SetSerialized(c.store, holder, string(c.id), entry)
}
