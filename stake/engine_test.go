package stake

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func pct(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

func scenarioSettings() Settings {
	set := DefaultSettings()
	set.PayoutPercentage = pct("85")
	return set
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	if !dec(want).Equal(got) {
		assert.Fail(t, fmt.Sprintf("want %s got %s", want, got.String()), msgAndArgs...)
	}
}

func TestRecordWinFromFreshState(t *testing.T) {
	t.Parallel()

	set := scenarioSettings()
	st := NewState(set)

	next, trade, err := RecordWin(st, set, t0)
	require.NoError(t, err)

	assertDec(t, "0.85", trade.Profit)
	assertDec(t, "1", trade.Stake)
	assert.Equal(t, Win, trade.Outcome)
	assert.Equal(t, "EUR/USD", trade.Asset)
	assert.True(t, trade.Timestamp.Equal(t0))
	assert.NotEmpty(t, trade.ID)

	assertDec(t, "20.85", next.Balance)
	assertDec(t, "20.85", trade.BalanceAfter)
	assertDec(t, "1.05", next.NextStake)
	assertDec(t, "1.05", next.CurrentStake)
	assertDec(t, "1.05", next.LastWinningStake)
	assert.Equal(t, 0, next.ConsecutiveLosses)
	require.Len(t, next.Trades, 1)
	assert.Equal(t, trade, next.Trades[0])
}

func TestLossThenRecoveryWin(t *testing.T) {
	t.Parallel()

	set := scenarioSettings()
	st := State{
		Balance:          dec("20.85"),
		CurrentStake:     dec("1.05"),
		NextStake:        dec("1.05"),
		LastWinningStake: dec("1.05"),
	}

	st, trade, err := RecordLoss(st, set, t0)
	require.NoError(t, err)
	assertDec(t, "-1.05", trade.Profit)
	assert.Equal(t, Loss, trade.Outcome)
	assertDec(t, "19.80", st.Balance)
	assert.Equal(t, "2.98", st.NextStake.StringFixed(2))
	assert.Equal(t, 1, st.ConsecutiveLosses)
	assertDec(t, "1.05", st.LastWinningStake)

	st, trade, err = RecordWin(st, set, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "2.53", trade.Profit.StringFixed(2))
	assert.Equal(t, "22.33", st.Balance.StringFixed(2))
	assertDec(t, "1.05", st.NextStake)
	assertDec(t, "1.05", st.LastWinningStake)
	assert.Equal(t, 0, st.ConsecutiveLosses)
	require.Len(t, st.Trades, 2)
	assert.Equal(t, Win, st.Trades[0].Outcome)
	assert.Equal(t, Loss, st.Trades[1].Outcome)
}

func TestMaxLossesBlocksFurtherLoss(t *testing.T) {
	t.Parallel()

	set := scenarioSettings()
	set.InitialCapital = dec("100")
	st := NewState(set)

	var err error
	for i := 0; i < 3; i++ {
		st, _, err = RecordLoss(st, set, t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err, "loss %d", i+1)
	}
	assert.Equal(t, 3, st.ConsecutiveLosses)
	assert.True(t, st.MaxLossesReached(set))

	blocked, trade, err := RecordLoss(st, set, t0.Add(time.Hour))
	assert.ErrorIs(t, err, ErrMaxLossesReached)
	assert.Equal(t, Trade{}, trade)
	assert.Equal(t, st, blocked)

	// A win is still allowed and ends the streak.
	won, _, err := RecordWin(st, set, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, won.ConsecutiveLosses)
	assertDec(t, "1", won.NextStake)
}

func TestCriticalBalanceBlocksWin(t *testing.T) {
	t.Parallel()

	set := scenarioSettings()
	st := State{
		Balance:          dec("0.50"),
		CurrentStake:     dec("1"),
		NextStake:        dec("1"),
		LastWinningStake: dec("1"),
	}

	got, _, err := RecordWin(st, set, t0)
	assert.ErrorIs(t, err, ErrBalanceCritical)
	assert.Equal(t, st, got)

	got, _, err = RecordLoss(st, set, t0)
	assert.ErrorIs(t, err, ErrBalanceCritical)
	assert.Equal(t, st, got)
}

func TestBankruptBlocksTrading(t *testing.T) {
	t.Parallel()

	set := scenarioSettings()
	st := State{
		Balance:          dec("5"),
		CurrentStake:     dec("6"),
		NextStake:        dec("6"),
		LastWinningStake: dec("1"),
	}
	assert.True(t, st.Bankrupt())

	_, _, err := RecordWin(st, set, t0)
	assert.ErrorIs(t, err, ErrBalanceLow)
	_, _, err = RecordLoss(st, set, t0)
	assert.ErrorIs(t, err, ErrBalanceLow)
}

func TestDefaultPayoutWhenUnset(t *testing.T) {
	t.Parallel()

	set := DefaultSettings()
	require.Nil(t, set.PayoutPercentage)

	_, trade, err := RecordWin(NewState(set), set, t0)
	require.NoError(t, err)
	assertDec(t, "0.85", trade.Profit)
}

func TestRecoveryFallsBackToInitialStake(t *testing.T) {
	t.Parallel()

	set := scenarioSettings()
	set.InitialStake = dec("2")
	st := State{
		Balance:           dec("50"),
		CurrentStake:      dec("5.68"),
		NextStake:         dec("5.68"),
		ConsecutiveLosses: 1,
	}

	got, _, err := RecordWin(st, set, t0)
	require.NoError(t, err)
	assertDec(t, "2", got.NextStake)
	assertDec(t, "2", got.LastWinningStake)
}

func TestStakesAreFloored(t *testing.T) {
	t.Parallel()

	set := scenarioSettings()
	set.WinIncreasePercentage = dec("-50")
	set.InitialStake = dec("0.2")

	st := NewState(set)
	assertDec(t, "1", st.NextStake)

	st, _, err := RecordWin(st, set, t0)
	require.NoError(t, err)
	assertDec(t, "1", st.NextStake)
	assertDec(t, "1", st.LastWinningStake)
}

func TestRecordDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	set := scenarioSettings()
	st := NewState(set)
	st, _, err := RecordWin(st, set, t0)
	require.NoError(t, err)

	before := st.Clone()
	_, _, err = RecordLoss(st, set, t0.Add(time.Minute))
	require.NoError(t, err)
	_, _, err = RecordWin(st, set, t0.Add(2*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, before, st)
}

func TestFlooringAndBaselineInvariants(t *testing.T) {
	t.Parallel()

	set := scenarioSettings()
	set.InitialCapital = dec("10000")
	set.MaxConsecutiveLosses = 4
	st := NewState(set)

	// Deterministic outcome pattern: runs of wins broken by short streaks.
	pattern := "WWLWLLWWWLLLWLWWLLLLW"
	for i, c := range pattern {
		at := t0.Add(time.Duration(i) * time.Minute)
		prev := st

		var err error
		if c == 'W' {
			st, _, err = RecordWin(st, set, at)
			require.NoError(t, err)
			if prev.ConsecutiveLosses == 0 {
				assert.True(t, st.LastWinningStake.GreaterThanOrEqual(prev.LastWinningStake),
					"baseline shrank at step %d", i)
			} else {
				assert.True(t, st.NextStake.Equal(prev.LastWinningStake),
					"recovery win %d did not return to baseline", i)
			}
		} else {
			st, _, err = RecordLoss(st, set, at)
			require.NoError(t, err)
			assert.True(t, st.LastWinningStake.Equal(prev.LastWinningStake),
				"loss %d changed the baseline", i)
		}

		assert.True(t, st.NextStake.GreaterThanOrEqual(dec("1")), "step %d", i)
		assert.True(t, st.LastWinningStake.GreaterThanOrEqual(dec("1")), "step %d", i)
	}
	assert.Len(t, st.Trades, len(pattern))
}

func TestSetManualStake(t *testing.T) {
	t.Parallel()

	set := scenarioSettings()
	st := NewState(set)
	st.ConsecutiveLosses = 2
	st.LastWinningStake = dec("1.5")

	got, err := SetManualStake(st, dec("7.5"))
	require.NoError(t, err)
	assertDec(t, "7.5", got.CurrentStake)
	assertDec(t, "7.5", got.NextStake)
	assert.Equal(t, 2, got.ConsecutiveLosses)
	assertDec(t, "1.5", got.LastWinningStake)

	for _, v := range []string{"0.5", "20.01", "-3"} {
		same, err := SetManualStake(st, dec(v))
		assert.ErrorIs(t, err, ErrInvalidStakeInput, v)
		assert.Equal(t, st, same)
	}
}

func TestMaxStake(t *testing.T) {
	t.Parallel()

	st := NewState(scenarioSettings())
	got := MaxStake(st)
	assertDec(t, "20", got.CurrentStake)
	assertDec(t, "20", got.NextStake)
	assert.False(t, got.Bankrupt())
}

func TestCheck(t *testing.T) {
	t.Parallel()

	set := scenarioSettings()
	st := NewState(set)
	d := Check(st, set)
	assert.True(t, d.CanWin)
	assert.True(t, d.CanLoss)

	st.ConsecutiveLosses = 3
	d = Check(st, set)
	assert.True(t, d.CanWin)
	assert.False(t, d.CanLoss)
}
