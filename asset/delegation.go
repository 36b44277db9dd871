package asset

import (
	"fmt"

	"github.com/tailabs/settlement-contracts/common"
)

// Delegation is a one-shot transfer permission granted by an account to a
// third party: the delegate may move exactly Units of the asset out of the
// delegator's balance, to the named destination or, when To is nil, to any
// destination. Each grant is consumable at most once.
type Delegation struct {
	Delegate common.AccountID  `msgpack:"delegate"`
	Units    uint64            `msgpack:"units"`
	To       *common.AccountID `msgpack:"to"`
}

// delegationMap is the stored shape: delegate id to its open grants.
type delegationMap map[common.AccountID][]Delegation

// grantRef points at one matching grant inside the delegator's stored map so
// consumption can be deferred until every other transfer check has passed.
type grantRef struct {
	grants   delegationMap
	delegate common.AccountID
	index    int
}

// AddDelegation appends a one-shot grant on the caller's own balance.
// Duplicates are permitted and each is independently consumable.
func (c *Contract) AddDelegation(ctx common.CallCtx, delegate common.AccountID, units uint64, to *common.AccountID) error {
	if !delegate.Valid() || units == 0 {
		return fmt.Errorf("delegation needs a delegate and a non-zero amount: %w", common.ErrInvalidConfig)
	}
	grants, err := c.loadDelegations(ctx.Caller)
	if err != nil {
		return err
	}
	grants[delegate] = append(grants[delegate], Delegation{Delegate: delegate, Units: units, To: to})
	return c.storeDelegations(ctx.Caller, grants)
}

// findDelegation locates the first grant of the caller on the delegator
// matching the transfer exactly: same unit amount, and either a generic
// destination or the requested one. It does not mutate storage.
func (c *Contract) findDelegation(caller, from, to common.AccountID, units uint64) (*grantRef, error) {
	grants, err := c.loadDelegations(from)
	if err != nil {
		return nil, err
	}
	for i, d := range grants[caller] {
		if d.Units != units {
			continue
		}
		if d.To != nil && *d.To != to {
			continue
		}
		return &grantRef{grants: grants, delegate: caller, index: i}, nil
	}
	return nil, fmt.Errorf("no delegation of %s for %d units from %s: %w",
		caller, units, from, common.ErrNotAuthorized)
}

// removeDelegation consumes the referenced grant and persists the shortened
// list, guaranteeing at-most-one use per grant.
func (c *Contract) removeDelegation(from common.AccountID, ref *grantRef) error {
	list := ref.grants[ref.delegate]
	list = append(list[:ref.index], list[ref.index+1:]...)
	if len(list) == 0 {
		delete(ref.grants, ref.delegate)
	} else {
		ref.grants[ref.delegate] = list
	}
	return c.storeDelegations(from, ref.grants)
}

func (c *Contract) loadDelegations(delegator common.AccountID) (delegationMap, error) {
	grants := delegationMap{}
	if _, err := common.GetSerialized(c.store, delegator, c.delegationsKey(), &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

func (c *Contract) storeDelegations(delegator common.AccountID, grants delegationMap) error {
	return common.SetSerialized(c.store, delegator, c.delegationsKey(), grants)
}

func (c *Contract) delegationsKey() string {
	return common.DelegationsKeyPrefix + string(c.id)
}
