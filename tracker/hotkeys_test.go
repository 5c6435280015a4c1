package tracker

import (
	"context"
	"testing"

	"github.com/rustyeddy/tradeguard/config"
	"github.com/rustyeddy/tradeguard/stake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHotkeysFrom(t *testing.T) {
	t.Parallel()

	h := HotkeysFrom(config.HotkeysConfig{Win: "A", Loss: "z", NewSession: "n", Reset: "x"})

	a, ok := h.Lookup('a')
	require.True(t, ok)
	assert.Equal(t, ActionWin, a)
	a, ok = h.Lookup('Z')
	require.True(t, ok)
	assert.Equal(t, ActionLoss, a)
	_, ok = h.Lookup('w')
	assert.False(t, ok)

	assert.Equal(t, HotkeysFrom(config.Default().Hotkeys), DefaultHotkeys())
}

func TestPress(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(o *Options) { o.Settings.MaxConsecutiveLosses = 1 })
	ctx := context.Background()
	h := DefaultHotkeys()

	res, handled, err := f.tr.Press(ctx, h, 'W')
	require.NoError(t, err)
	assert.True(t, handled)
	require.NotNil(t, res.Trade)
	assert.Equal(t, ActionWin, res.Action)

	_, handled, err = f.tr.Press(ctx, h, 'q')
	require.NoError(t, err)
	assert.False(t, handled)

	res, handled, err = f.tr.Press(ctx, h, 'l')
	require.NoError(t, err)
	assert.True(t, handled)
	require.NotNil(t, res.Trade)

	// The streak cap is reached; the loss key does nothing.
	before := f.tr.State()
	res, handled, err = f.tr.Press(ctx, h, 'l')
	assert.NoError(t, err)
	assert.False(t, handled)
	assert.Nil(t, res.Trade)
	assert.Equal(t, before, f.tr.State())

	res, handled, err = f.tr.Press(ctx, h, 'n')
	require.NoError(t, err)
	assert.True(t, handled)
	require.NotNil(t, res.Session)
	assert.Equal(t, 2, res.Session.TradeCount)
}

func TestPressLossBelowMinimumBalance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		stake       string
		wantHandled bool
		wantErr     error
	}{
		// MaxStake on a balance under one keeps the stake equal to the balance.
		{name: "critical balance reports", stake: "0.5", wantHandled: true, wantErr: stake.ErrBalanceCritical},
		{name: "bankrupt is ignored", stake: "1", wantHandled: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			st := stake.NewState(stake.DefaultSettings())
			st.Balance = dec("0.5")
			st.CurrentStake = dec(tt.stake)
			st.NextStake = dec(tt.stake)
			f := newFixture(t, func(o *Options) { o.Store = &memStore{st: &st} })

			res, handled, err := f.tr.Press(context.Background(), DefaultHotkeys(), 'l')
			assert.Equal(t, tt.wantHandled, handled)
			assert.Nil(t, res.Trade)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.True(t, f.tr.State().Balance.Equal(dec("0.5")))
		})
	}
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	res, err := f.tr.Dispatch(ctx, ActionReset)
	require.NoError(t, err)
	assert.Nil(t, res.Session)

	_, err = f.tr.Dispatch(ctx, Action(99))
	assert.ErrorContains(t, err, "unknown action 99")
	assert.Equal(t, "action(99)", Action(99).String())
	assert.Equal(t, "new-session", ActionNewSession.String())
}
