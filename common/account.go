package common

import "github.com/mr-tron/base58"

// AccountID is a base58-encoded account identifier. Asset contracts,
// settlement contracts and end users are all addressed the same way.
type AccountID string

// Valid reports whether the id is a non-empty well-formed base58 string.
func (id AccountID) Valid() bool {
	if id == "" {
		return false
	}
	_, err := base58.Decode(string(id))
	return err == nil
}
