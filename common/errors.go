package common

import "errors"

// Error kinds shared by every contract in the module. Contracts wrap these
// with fmt.Errorf("...: %w", ...) so callers can classify failures with
// errors.Is while still getting a message specific to the failed step.
var (
	// ErrNotInitialized is returned when a contract's config or status is
	// missing from storage or cannot be decoded.
	ErrNotInitialized = errors.New("not initialized")

	// ErrNotAuthorized is returned when the caller fails the privilege,
	// ownership or delegation check for the requested operation.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrLocked is returned when an operation is blocked by an existing
	// asset lock. asset.LockedError carries the blocked direction and the
	// privilege holding the lock, and unwraps to this sentinel.
	ErrLocked = errors.New("asset locked")

	// ErrInsufficientFunds is returned when a withdraw would underflow the
	// balance or an up-front funding check fails.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidConfig is returned when required config fields are empty or
	// malformed, and by the per-contract closed-state sentinels when a
	// resolution is attempted on a terminal settlement.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrOverflow is returned when integer arithmetic on units would
	// overflow.
	ErrOverflow = errors.New("arithmetic overflow")

	// ErrLimitExceeded is returned when minting would push circulating
	// supply above the configured cap.
	ErrLimitExceeded = errors.New("limit exceeded")
)
