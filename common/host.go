package common

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Reserved storage keys shared by every contract account. One additional
// implicit key per co-located asset balance is keyed by the asset's own
// account id.
const (
	ConfigKey = "config"
	StatusKey = "status"
	InitKey   = "init"

	// DelegationsKeyPrefix prefixes the per-asset delegation map key in the
	// delegator's account data ("delegations:<asset id>").
	DelegationsKeyPrefix = "delegations:"
)

// Storage is the per-account key/value capability provided by the host.
// Load returns nil for an absent key. The host serializes transactions, so
// no concurrent access happens within a call chain.
type Storage interface {
	Load(account AccountID, key string) []byte
	Store(account AccountID, key string, data []byte)
	Remove(account AccountID, key string)
}

// Invoker performs a synchronous cross-contract call. Implementations build
// the callee context from the parent one (caller becomes the parent owner,
// depth increments) and dispatch to the target account's exported method.
type Invoker interface {
	Invoke(parent CallCtx, account AccountID, method string, args []byte) ([]byte, error)
}

// Handler is a wire-level contract method: it decodes msgpack args, runs the
// operation and encodes the msgpack result. Contract packages expose their
// methods as handlers so a dispatcher can register them by name.
type Handler func(ctx CallCtx, args []byte) ([]byte, error)

// Marshal encodes v with the module's wire codec. Struct fields are encoded
// in declaration order, which is part of the wire contract.
func Marshal(v interface{}) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return data, nil
}

// Unmarshal decodes wire bytes into v.
func Unmarshal(data []byte, v interface{}) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}

// GetSerialized loads and decodes a stored value. The second return reports
// whether the key was present at all.
func GetSerialized(s Storage, account AccountID, key string, v interface{}) (bool, error) {
	data := s.Load(account, key)
	if data == nil {
		return false, nil
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("decode %q of %s: %w", key, account, err)
	}
	return true, nil
}

// SetSerialized encodes a value and puts it into account storage.
func SetSerialized(s Storage, account AccountID, key string, v interface{}) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q of %s: %w", key, account, err)
	}
	s.Store(account, key, data)
	return nil
}
