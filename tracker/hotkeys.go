package tracker

import (
	"context"
	"fmt"
	"unicode"

	"github.com/rustyeddy/tradeguard/config"
	"github.com/rustyeddy/tradeguard/stake"
)

// Action is a session action that can be bound to a key.
type Action int

const (
	ActionWin Action = iota
	ActionLoss
	ActionNewSession
	ActionReset
)

func (a Action) String() string {
	switch a {
	case ActionWin:
		return "win"
	case ActionLoss:
		return "loss"
	case ActionNewSession:
		return "new-session"
	case ActionReset:
		return "reset"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Result carries whatever an action produced.
type Result struct {
	Action  Action
	Trade   *stake.Trade
	Session *stake.Session
}

// Dispatch runs a.
func (t *Tracker) Dispatch(ctx context.Context, a Action) (Result, error) {
	res := Result{Action: a}
	switch a {
	case ActionWin, ActionLoss:
		var tr stake.Trade
		var err error
		if a == ActionWin {
			tr, err = t.Win(ctx)
		} else {
			tr, err = t.Loss(ctx)
		}
		if tr.ID != "" {
			res.Trade = &tr
		}
		return res, err
	case ActionNewSession:
		s, err := t.NewSession(ctx)
		res.Session = s
		return res, err
	case ActionReset:
		s, err := t.Reset(ctx)
		res.Session = s
		return res, err
	default:
		return res, fmt.Errorf("unknown action %d", int(a))
	}
}

// Hotkeys maps lower-case keys to actions.
type Hotkeys map[rune]Action

func DefaultHotkeys() Hotkeys {
	return Hotkeys{'w': ActionWin, 'l': ActionLoss, 'n': ActionNewSession, 'r': ActionReset}
}

// HotkeysFrom builds the key map from validated configuration.
func HotkeysFrom(cfg config.HotkeysConfig) Hotkeys {
	h := Hotkeys{}
	for key, a := range map[string]Action{
		cfg.Win:        ActionWin,
		cfg.Loss:       ActionLoss,
		cfg.NewSession: ActionNewSession,
		cfg.Reset:      ActionReset,
	} {
		for _, r := range key {
			h[unicode.ToLower(r)] = a
			break
		}
	}
	return h
}

// Lookup is case-insensitive.
func (h Hotkeys) Lookup(key rune) (Action, bool) {
	a, ok := h[unicode.ToLower(key)]
	return a, ok
}

// Press runs the action bound to key. Unbound keys are ignored, and so is
// a loss key once the streak cap is reached or the next stake exceeds the
// balance. A critical balance still reaches Loss and reports its error.
// handled reports whether an action ran.
func (t *Tracker) Press(ctx context.Context, h Hotkeys, key rune) (res Result, handled bool, err error) {
	a, ok := h.Lookup(key)
	if !ok {
		return Result{}, false, nil
	}
	if a == ActionLoss && t.lossKeyBlocked() {
		return Result{Action: a}, false, nil
	}
	res, err = t.Dispatch(ctx, a)
	return res, true, err
}

func (t *Tracker) lossKeyBlocked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.st.MaxLossesReached(t.set) || t.st.Bankrupt()
}
