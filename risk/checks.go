package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinStake is the smallest stake the engine will ever propose.
var MinStake = decimal.NewFromInt(1)

// Snapshot is the slice of trading state the guard needs.
type Snapshot struct {
	Balance              decimal.Decimal
	NextStake            decimal.Decimal
	ConsecutiveLosses    int
	MaxConsecutiveLosses int
}

// Bankrupt reports whether the next stake exceeds the balance.
func (s Snapshot) Bankrupt() bool {
	return s.NextStake.GreaterThan(s.Balance)
}

type Violation struct {
	Code string
	Msg  string
	Err  error

	BlocksWin  bool
	BlocksLoss bool
}

type Decision struct {
	CanWin     bool
	CanLoss    bool
	Violations []Violation
}

func (d *Decision) add(v Violation) {
	d.Violations = append(d.Violations, v)
	if v.BlocksWin {
		d.CanWin = false
	}
	if v.BlocksLoss {
		d.CanLoss = false
	}
}

// Evaluate checks a snapshot against every precondition. Violations are
// recorded in the order the engine reports them: critical balance, loss
// streak, then bankruptcy.
func Evaluate(s Snapshot) Decision {
	d := Decision{CanWin: true, CanLoss: true}

	if s.Balance.LessThan(MinStake) {
		d.add(Violation{
			Code:       "BALANCE_CRITICAL",
			Msg:        fmt.Sprintf("balance %s is below %s", s.Balance.StringFixed(2), MinStake),
			Err:        ErrBalanceCritical,
			BlocksWin:  true,
			BlocksLoss: true,
		})
	}
	if s.ConsecutiveLosses >= s.MaxConsecutiveLosses {
		d.add(Violation{
			Code:       "MAX_LOSSES",
			Msg:        fmt.Sprintf("consecutive losses %d >= max %d", s.ConsecutiveLosses, s.MaxConsecutiveLosses),
			Err:        ErrMaxLossesReached,
			BlocksLoss: true,
		})
	}
	if s.Bankrupt() {
		d.add(Violation{
			Code:       "BALANCE_LOW",
			Msg:        fmt.Sprintf("next stake %s exceeds balance %s", s.NextStake.StringFixed(2), s.Balance.StringFixed(2)),
			Err:        ErrBalanceLow,
			BlocksWin:  true,
			BlocksLoss: true,
		})
	}

	return d
}

// WinErr returns the first violation that blocks a win, or nil.
func (d Decision) WinErr() error {
	for _, v := range d.Violations {
		if v.BlocksWin {
			return v.Err
		}
	}
	return nil
}

// LossErr returns the first violation that blocks a loss, or nil.
func (d Decision) LossErr() error {
	for _, v := range d.Violations {
		if v.BlocksLoss {
			return v.Err
		}
	}
	return nil
}

// CheckStake validates a manually entered stake against the balance.
func CheckStake(value, balance decimal.Decimal) error {
	if value.LessThan(MinStake) || value.GreaterThan(balance) {
		return fmt.Errorf("%w: %s outside [%s, %s]", ErrInvalidStakeInput,
			value.String(), MinStake, balance.StringFixed(2))
	}
	return nil
}

// StakePct is the share of the balance put at risk by stake, in percent.
func StakePct(stake, balance decimal.Decimal) decimal.Decimal {
	if !balance.IsPositive() {
		return decimal.Zero
	}
	return stake.Div(balance).Mul(decimal.NewFromInt(100))
}
