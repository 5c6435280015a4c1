package stake

import "github.com/rustyeddy/tradeguard/risk"

// Re-exported so callers of the engine need not import risk.
var (
	ErrBalanceCritical   = risk.ErrBalanceCritical
	ErrBalanceLow        = risk.ErrBalanceLow
	ErrMaxLossesReached  = risk.ErrMaxLossesReached
	ErrInvalidStakeInput = risk.ErrInvalidStakeInput
)
