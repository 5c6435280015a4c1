package stake

import (
	"time"

	"github.com/rustyeddy/tradeguard/internal/id"
	"github.com/rustyeddy/tradeguard/risk"
	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places kept on computed stakes.
const Precision = 8

var hundred = decimal.NewFromInt(100)

// Floor clamps a stake to the minimum stake of one unit.
func Floor(v decimal.Decimal) decimal.Decimal {
	return decimal.Max(risk.MinStake, v)
}

func percentOf(v, pct decimal.Decimal) decimal.Decimal {
	return v.Mul(pct).Div(hundred)
}

// Check evaluates which trade actions the state currently allows.
func Check(st State, set Settings) risk.Decision {
	return risk.Evaluate(st.snapshot(set))
}

// RecordWin books a win at the current stake. A win that ends a losing
// streak returns the stake to the last winning baseline; any other win grows
// the stake by the win-increase percentage and raises the baseline with it.
func RecordWin(st State, set Settings, at time.Time) (State, Trade, error) {
	if err := Check(st, set).WinErr(); err != nil {
		return st, Trade{}, err
	}

	profit := percentOf(st.CurrentStake, set.Payout())
	balance := st.Balance.Add(profit)

	trade := Trade{
		ID:           id.At(at),
		Timestamp:    at,
		Asset:        set.AssetName(),
		Stake:        st.CurrentStake,
		Outcome:      Win,
		Profit:       profit,
		BalanceAfter: balance,
	}

	baseline := st.LastWinningStake
	if baseline.IsZero() {
		baseline = set.InitialStake
	}

	var next decimal.Decimal
	if st.ConsecutiveLosses > 0 {
		next = baseline
	} else {
		growth := hundred.Add(set.WinIncreasePercentage).Div(hundred)
		next = st.CurrentStake.Mul(growth).Round(Precision)
		baseline = next
	}
	next = Floor(next)
	baseline = Floor(baseline)

	out := st
	out.Balance = balance
	out.CurrentStake = next
	out.NextStake = next
	out.LastWinningStake = baseline
	out.ConsecutiveLosses = 0
	out.Trades = prepend(st.Trades, trade)

	return out, trade, nil
}

// RecordLoss books a loss of the current stake and multiplies the stake for
// the next trade. The winning baseline is left alone so a later recovery win
// can return to it.
func RecordLoss(st State, set Settings, at time.Time) (State, Trade, error) {
	if err := Check(st, set).LossErr(); err != nil {
		return st, Trade{}, err
	}

	lost := st.CurrentStake
	balance := st.Balance.Sub(lost)

	trade := Trade{
		ID:           id.At(at),
		Timestamp:    at,
		Asset:        set.AssetName(),
		Stake:        lost,
		Outcome:      Loss,
		Profit:       lost.Neg(),
		BalanceAfter: balance,
	}

	next := Floor(st.CurrentStake.Mul(set.LossMultiplier).Round(Precision))

	out := st
	out.Balance = balance
	out.CurrentStake = next
	out.NextStake = next
	out.ConsecutiveLosses = st.ConsecutiveLosses + 1
	out.Trades = prepend(st.Trades, trade)

	return out, trade, nil
}

// SetManualStake overrides the current and next stake. Values outside
// [1, balance] are rejected and the state is returned unchanged.
func SetManualStake(st State, value decimal.Decimal) (State, error) {
	if err := risk.CheckStake(value, st.Balance); err != nil {
		return st, err
	}
	out := st
	out.CurrentStake = value
	out.NextStake = value
	return out, nil
}

// MaxStake stakes the whole balance on the next trade.
func MaxStake(st State) State {
	out := st
	out.CurrentStake = st.Balance
	out.NextStake = st.Balance
	return out
}

func prepend(trades []Trade, t Trade) []Trade {
	out := make([]Trade, 0, len(trades)+1)
	out = append(out, t)
	return append(out, trades...)
}
