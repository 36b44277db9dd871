package common

import "fmt"

// Method names of the common asset interface every asset-like contract
// exports. Settlement contracts only ever call transfer, lock and balance.
const (
	MethodInit          = "init"
	MethodMint          = "mint"
	MethodBurn          = "burn"
	MethodTransfer      = "transfer"
	MethodBalance       = "balance"
	MethodLock          = "lock"
	MethodAddDelegation = "add_delegation"
	MethodGetInfo       = "get_info"
)

// TransferArgs moves units between two holders of the asset. Field order is
// part of the wire contract.
type TransferArgs struct {
	From  AccountID `msgpack:"from"`
	To    AccountID `msgpack:"to"`
	Units uint64    `msgpack:"units"`
}

// LockArgs sets or clears the lock on the target holder's entry.
type LockArgs struct {
	To   AccountID `msgpack:"to"`
	Lock LockType  `msgpack:"lock"`
}

// MintArgs and BurnArgs adjust circulating supply; creator only.
type MintArgs struct {
	To    AccountID `msgpack:"to"`
	Units uint64    `msgpack:"units"`
}

type BurnArgs struct {
	From  AccountID `msgpack:"from"`
	Units uint64    `msgpack:"units"`
}

// AddDelegationArgs grants a one-shot transfer permission on the caller's
// balance. To is nil for a generic-destination grant.
type AddDelegationArgs struct {
	Delegate AccountID  `msgpack:"delegate"`
	Units    uint64     `msgpack:"units"`
	To       *AccountID `msgpack:"to"`
}

// AssetClient is the typed view of one asset contract used by settlement
// contracts for their custody operations. Every call goes through the
// Invoker so locks and delegations are enforced by the asset contract
// itself.
type AssetClient struct {
	Invoker Invoker
	Asset   AccountID
}

// Transfer moves units of the asset between two holders on behalf of the
// calling contract.
func (c AssetClient) Transfer(ctx CallCtx, from, to AccountID, units uint64) error {
	args, err := Marshal(TransferArgs{From: from, To: to, Units: units})
	if err != nil {
		return err
	}
	if _, err := c.Invoker.Invoke(ctx, c.Asset, MethodTransfer, args); err != nil {
		return fmt.Errorf("transfer %d of %s from %s to %s: %w", units, c.Asset, from, to, err)
	}
	return nil
}

// SetLock sets or clears the lock on the target holder's entry of the asset.
func (c AssetClient) SetLock(ctx CallCtx, target AccountID, lock LockType) error {
	args, err := Marshal(LockArgs{To: target, Lock: lock})
	if err != nil {
		return err
	}
	if _, err := c.Invoker.Invoke(ctx, c.Asset, MethodLock, args); err != nil {
		return fmt.Errorf("lock %s entry of %s as %s: %w", target, c.Asset, lock, err)
	}
	return nil
}

// Balance returns the calling account's balance of the asset.
func (c AssetClient) Balance(ctx CallCtx) (uint64, error) {
	res, err := c.Invoker.Invoke(ctx, c.Asset, MethodBalance, nil)
	if err != nil {
		return 0, fmt.Errorf("balance of %s: %w", c.Asset, err)
	}
	var units uint64
	if err := Unmarshal(res, &units); err != nil {
		return 0, err
	}
	return units, nil
}
