// Package hosttest provides the in-memory host used by package tests: a
// map-backed Storage and an environment wiring a dispatcher with deployed
// contracts, mirroring what the production host supplies.
package hosttest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tailabs/settlement-contracts/asset"
	"github.com/tailabs/settlement-contracts/common"
	"github.com/tailabs/settlement-contracts/registry"
)

// Storage is an in-memory common.Storage.
type Storage struct {
	data map[common.AccountID]map[string][]byte
}

// NewStorage returns an empty in-memory storage.
func NewStorage() *Storage {
	return &Storage{data: make(map[common.AccountID]map[string][]byte)}
}

// Load implements common.Storage.
func (s *Storage) Load(account common.AccountID, key string) []byte {
	return s.data[account][key]
}

// Store implements common.Storage.
func (s *Storage) Store(account common.AccountID, key string, value []byte) {
	m, ok := s.data[account]
	if !ok {
		m = make(map[string][]byte)
		s.data[account] = m
	}
	m[key] = value
}

// Remove implements common.Storage.
func (s *Storage) Remove(account common.AccountID, key string) {
	delete(s.data[account], key)
}

// Env bundles the in-memory storage with a dispatcher, the way a deployed
// contract sees the host.
type Env struct {
	Store    *Storage
	Registry *registry.Registry
}

// NewEnv returns a fresh environment with nothing deployed.
func NewEnv() *Env {
	return &Env{Store: NewStorage(), Registry: registry.New(zap.NewNop())}
}

// Submit runs a top-level transaction against the environment.
func (e *Env) Submit(origin, account common.AccountID, method string, args interface{}) ([]byte, error) {
	var encoded []byte
	if args != nil {
		var err error
		encoded, err = common.Marshal(args)
		if err != nil {
			return nil, err
		}
	}
	return e.Registry.Submit(origin, account, method, encoded)
}

// DeployAsset registers and initializes an asset contract under the given
// account.
func (e *Env) DeployAsset(t *testing.T, id, creator common.AccountID, maxUnits uint64) *asset.Contract {
	t.Helper()
	a := asset.New(e.Store, id)
	e.Registry.RegisterAll(id, a.Handlers())
	_, err := e.Submit(id, id, common.MethodInit, asset.Config{
		Name:     string(id),
		Creator:  creator,
		MaxUnits: maxUnits,
	})
	require.NoError(t, err)
	return a
}

// Mint credits units to an account as the asset creator.
func (e *Env) Mint(t *testing.T, assetID, creator, to common.AccountID, units uint64) {
	t.Helper()
	_, err := e.Submit(creator, assetID, common.MethodMint, common.MintArgs{To: to, Units: units})
	require.NoError(t, err)
}

// Delegate grants a one-shot transfer permission from the delegator.
func (e *Env) Delegate(t *testing.T, assetID, delegator, delegate common.AccountID, units uint64, to *common.AccountID) {
	t.Helper()
	_, err := e.Submit(delegator, assetID, common.MethodAddDelegation, common.AddDelegationArgs{
		Delegate: delegate,
		Units:    units,
		To:       to,
	})
	require.NoError(t, err)
}

// EntryOf reads a holder's raw asset entry straight from storage, bypassing
// lock checks.
func (e *Env) EntryOf(t *testing.T, holder, assetID common.AccountID) common.Asset {
	t.Helper()
	var entry common.Asset
	_, err := common.GetSerialized(e.Store, holder, string(assetID), &entry)
	require.NoError(t, err)
	return entry
}

// BalanceOf reads a holder's units straight from storage, bypassing lock
// checks.
func (e *Env) BalanceOf(t *testing.T, holder, assetID common.AccountID) uint64 {
	return e.EntryOf(t, holder, assetID).Units
}
