package common

// CallCtx is the execution context every contract method receives. The host
// sequences transactions one at a time, so the context describes a single
// synchronous call chain.
type CallCtx struct {
	// Caller is the account that performed this call: the transaction
	// signer at depth 0, or the invoking contract's account for nested
	// calls.
	Caller AccountID

	// Owner is the account the invoked contract instance is bound to.
	Owner AccountID

	// Origin is the signer of the outermost transaction.
	Origin AccountID

	// Depth is the nesting level of the call, 0 for an end-user
	// transaction. Lock privilege derivation distinguishes an account
	// acting on itself directly (Owner) from a contract acting on its own
	// account from inside another call (Contract).
	Depth int
}
