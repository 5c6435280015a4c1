package risk

import "errors"

// Action preconditions. All of them are recoverable: the caller surfaces the
// message and the live state stays untouched.
var (
	// ErrBalanceCritical blocks Win and Loss while the balance is below one
	// unit. Only a reset recovers.
	ErrBalanceCritical = errors.New("balance critical: balance is below 1, reset required")

	// ErrBalanceLow blocks Win and Loss while the next stake exceeds the
	// balance. Start a new session or lower the stake manually.
	ErrBalanceLow = errors.New("balance low: next stake exceeds balance")

	// ErrMaxLossesReached blocks Loss once the streak hits the configured cap.
	ErrMaxLossesReached = errors.New("max consecutive losses reached")

	// ErrInvalidStakeInput rejects a manual stake outside [1, balance].
	ErrInvalidStakeInput = errors.New("invalid stake input")
)
