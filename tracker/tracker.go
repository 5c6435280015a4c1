// Package tracker hosts the single live trading state. It applies actions
// one at a time, then persists, journals and instruments the result.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rustyeddy/tradeguard/journal"
	"github.com/rustyeddy/tradeguard/metrics"
	"github.com/rustyeddy/tradeguard/risk"
	"github.com/rustyeddy/tradeguard/session"
	"github.com/rustyeddy/tradeguard/stake"
	"github.com/rustyeddy/tradeguard/store"
	"github.com/shopspring/decimal"
)

type Options struct {
	Store    store.Store     // optional
	Journal  journal.Journal // optional
	Settings stake.Settings  // used when nothing has been saved yet
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Clock    func() time.Time

	// MaxSessions caps the archive. Zero keeps every session.
	MaxSessions int
}

type Tracker struct {
	mu  sync.Mutex
	set stake.Settings
	st  stake.State

	store       store.Store
	journal     journal.Journal
	log         *slog.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
	maxSessions int
}

// New restores the last saved settings and state from opts.Store. Saved
// settings win over opts.Settings; a missing state starts fresh.
func New(ctx context.Context, opts Options) (*Tracker, error) {
	t := &Tracker{
		set:         opts.Settings,
		store:       opts.Store,
		journal:     opts.Journal,
		log:         opts.Logger,
		metrics:     opts.Metrics,
		now:         opts.Clock,
		maxSessions: opts.MaxSessions,
	}
	if t.journal == nil {
		t.journal = journal.Nop{}
	}
	if t.log == nil {
		t.log = slog.Default()
	}
	if t.now == nil {
		t.now = time.Now
	}

	var saved *stake.State
	if t.store != nil {
		set, st, err := t.store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("tracker: load: %w", err)
		}
		if set != nil {
			t.set = *set
		}
		saved = st
	}

	if err := t.set.Validate(); err != nil {
		return nil, fmt.Errorf("tracker: %w", err)
	}

	if saved != nil {
		t.st = *saved
		if t.st.Trades == nil {
			t.st.Trades = []stake.Trade{}
		}
		if t.st.Sessions == nil {
			t.st.Sessions = []stake.Session{}
		}
		t.log.Debug("state restored",
			"balance", t.st.Balance.String(),
			"trades", len(t.st.Trades),
			"sessions", len(t.st.Sessions))
	} else {
		t.st = stake.NewState(t.set)
		t.log.Debug("fresh state", "balance", t.st.Balance.String())
	}

	t.metrics.UpdateState(t.st)
	return t, nil
}

// State returns a copy of the live state.
func (t *Tracker) State() stake.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.st.Clone()
}

// Settings returns a copy of the active settings.
func (t *Tracker) Settings() stake.Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.set.Clone()
}

// Check reports which trade actions are currently allowed.
func (t *Tracker) Check() risk.Decision {
	t.mu.Lock()
	defer t.mu.Unlock()
	return stake.Check(t.st, t.set)
}

// Win books a win at the current stake.
func (t *Tracker) Win(ctx context.Context) (stake.Trade, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, trade, err := stake.RecordWin(t.st, t.set, t.now())
	if err != nil {
		t.blockedLocked("win", err)
		return stake.Trade{}, err
	}
	t.log.Info("win",
		"trade", trade.ID,
		"stake", trade.Stake.String(),
		"profit", trade.Profit.String(),
		"balance", next.Balance.String(),
		"next_stake", next.NextStake.String())
	t.metrics.RecordTrade(stake.Win)

	return trade, t.commitLocked(ctx, next, &trade, nil)
}

// Loss books a loss of the current stake.
func (t *Tracker) Loss(ctx context.Context) (stake.Trade, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, trade, err := stake.RecordLoss(t.st, t.set, t.now())
	if err != nil {
		t.blockedLocked("loss", err)
		return stake.Trade{}, err
	}
	t.log.Info("loss",
		"trade", trade.ID,
		"stake", trade.Stake.String(),
		"balance", next.Balance.String(),
		"next_stake", next.NextStake.String(),
		"streak", next.ConsecutiveLosses)
	t.metrics.RecordTrade(stake.Loss)

	return trade, t.commitLocked(ctx, next, &trade, nil)
}

// NewSession archives the live trades and restarts the stake at 2% of the
// balance. The returned session is nil when there was nothing to archive.
func (t *Tracker) NewSession(ctx context.Context) (*stake.Session, error) {
	return t.end(ctx, session.NewSession)
}

// Reset archives the live trades and restores the initial capital.
func (t *Tracker) Reset(ctx context.Context) (*stake.Session, error) {
	return t.end(ctx, session.Reset)
}

func (t *Tracker) end(ctx context.Context, trigger session.Trigger) (*stake.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, archived := session.End(t.st, t.set, trigger, t.now())
	next = session.Prune(next, t.maxSessions)

	if archived != nil {
		t.log.Info("session archived",
			"trigger", trigger.String(),
			"session", archived.ID,
			"trades", archived.TradeCount,
			"net_profit", archived.NetProfit.String())
		t.metrics.RecordSession(trigger.String())
	}
	t.log.Info(trigger.String(),
		"balance", next.Balance.String(),
		"next_stake", next.NextStake.String())

	return archived, t.commitLocked(ctx, next, nil, archived)
}

// SetManualStake overrides the stake for the next trade.
func (t *Tracker) SetManualStake(ctx context.Context, value decimal.Decimal) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := stake.SetManualStake(t.st, value)
	if err != nil {
		t.log.Warn("manual stake rejected", "value", value.String(), "err", err)
		return err
	}
	t.log.Info("manual stake", "stake", value.String())
	return t.commitLocked(ctx, next, nil, nil)
}

// MaxStake stakes the whole balance on the next trade.
func (t *Tracker) MaxStake(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := stake.MaxStake(t.st)
	t.log.Info("max stake", "stake", next.NextStake.String())
	return t.commitLocked(ctx, next, nil, nil)
}

// UpdateSettings replaces the settings. With no live trades, a change of
// initial capital or initial stake also re-funds the balance and stakes.
func (t *Tracker) UpdateSettings(ctx context.Context, set stake.Settings) error {
	if err := set.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.applySettingsLocked(ctx, set)
}

// SelectAsset makes asset i active, copying its payout override if it has
// one.
func (t *Tracker) SelectAsset(ctx context.Context, i int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, err := t.set.SelectAsset(i)
	if err != nil {
		return err
	}
	return t.applySettingsLocked(ctx, set)
}

// SetAssetPayout sets or clears the payout override of asset i.
func (t *Tracker) SetAssetPayout(ctx context.Context, i int, payout *decimal.Decimal) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, err := t.set.SetAssetPayout(i, payout)
	if err != nil {
		return err
	}
	return t.applySettingsLocked(ctx, set)
}

func (t *Tracker) applySettingsLocked(ctx context.Context, set stake.Settings) error {
	next := t.st
	resync := !set.InitialCapital.Equal(t.set.InitialCapital) ||
		!set.InitialStake.Equal(t.set.InitialStake)
	if resync && len(t.st.Trades) == 0 {
		base := set.BaseStake()
		next.Balance = set.InitialCapital
		next.CurrentStake = base
		next.NextStake = base
		next.LastWinningStake = base
		t.log.Info("balance re-synced", "balance", next.Balance.String(), "stake", base.String())
	}

	t.set = set
	t.log.Info("settings updated",
		"asset", set.AssetName(),
		"payout", set.Payout().String(),
		"max_losses", set.MaxConsecutiveLosses)
	return t.commitLocked(ctx, next, nil, nil)
}

// ClearArchive drops every archived session.
func (t *Tracker) ClearArchive(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.st
	next.Sessions = []stake.Session{}
	t.log.Info("archive cleared", "sessions", len(t.st.Sessions))
	return t.commitLocked(ctx, next, nil, nil)
}

// LiveReport summarises the live trades.
func (t *Tracker) LiveReport() stake.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return session.BuildLiveReport(t.st.Clone(), t.set, t.now())
}

// ArchiveReport merges every archived session.
func (t *Tracker) ArchiveReport() (stake.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return session.BuildArchiveReport(t.st.Clone().Sessions, t.set)
}

// commitLocked installs next as the live state, then saves it and journals
// whatever the action produced. Write failures are reported but the
// transition stands.
func (t *Tracker) commitLocked(ctx context.Context, next stake.State, trade *stake.Trade, archived *stake.Session) error {
	t.st = next
	t.metrics.UpdateState(next)

	var errs []error

	if t.store != nil {
		start := time.Now()
		err := t.store.Save(ctx, t.set, t.st)
		t.metrics.RecordSave(time.Since(start).Seconds(), err)
		if err != nil {
			t.log.Error("save failed", "err", err)
			errs = append(errs, fmt.Errorf("tracker: save state: %w", err))
		}
	}

	if trade != nil {
		if err := t.journal.RecordTrade(*trade); err != nil {
			t.log.Error("journal trade failed", "trade", trade.ID, "err", err)
			t.metrics.RecordJournalError()
			errs = append(errs, fmt.Errorf("tracker: journal trade: %w", err))
		}
	}
	if archived != nil {
		if err := t.journal.RecordSession(*archived); err != nil {
			t.log.Error("journal session failed", "session", archived.ID, "err", err)
			t.metrics.RecordJournalError()
			errs = append(errs, fmt.Errorf("tracker: journal session: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (t *Tracker) blockedLocked(action string, err error) {
	code := "UNKNOWN"
	for _, v := range stake.Check(t.st, t.set).Violations {
		if errors.Is(err, v.Err) {
			code = v.Code
			break
		}
	}
	t.log.Warn("action blocked", "action", action, "code", code, "err", err)
	t.metrics.RecordBlocked(action, code)
}

// Close releases the store and the journal.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	if t.store != nil {
		errs = append(errs, t.store.Close())
	}
	errs = append(errs, t.journal.Close())
	return errors.Join(errs...)
}
