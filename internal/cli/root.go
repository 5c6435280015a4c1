package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rustyeddy/tradeguard/config"
	"github.com/rustyeddy/tradeguard/journal"
	"github.com/rustyeddy/tradeguard/metrics"
	"github.com/rustyeddy/tradeguard/store"
	"github.com/rustyeddy/tradeguard/tracker"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

// RootConfig carries the global flags and what PersistentPreRunE builds from
// them.
type RootConfig struct {
	ConfigPath string
	LogLevel   string

	Config *config.Config
	Log    *slog.Logger
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "tradeguard",
		Short: "Tradeguard — martingale stake manager for fixed-payout trading",
		Long: `Tradeguard keeps the books for a fixed-payout trading session.

Record each trade as a win or a loss and it computes the next stake with a
martingale progression, guards the balance with loss-streak and bankruptcy
checks, archives finished sessions and reports on them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rc.ConfigPath)
		if err != nil {
			return err
		}
		if rc.LogLevel != "" {
			cfg.Log.Level = rc.LogLevel
		}
		lvl, err := parseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}

		rc.Config = cfg
		rc.Log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
		return nil
	}

	// Subcommands
	cmd.AddCommand(
		newWinCmd(rc),
		newLossCmd(rc),
		newNewSessionCmd(rc),
		newResetCmd(rc),
		newStakeCmd(rc),
		newStatusCmd(rc),
		newReportCmd(rc),
		newSettingsCmd(rc),
		newArchiveCmd(rc),
		newJournalCmd(rc),
		newPlayCmd(rc),
		newConfigCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tradeguard version %s\n", version)
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, fmt.Errorf("log level %q: %w", s, err)
	}
	return lvl, nil
}

// openTracker wires the configured store and journal into a tracker. The
// caller closes it.
func (rc *RootConfig) openTracker(ctx context.Context, m *metrics.Metrics) (*tracker.Tracker, error) {
	s, err := store.Open(ctx, rc.Config.Storage)
	if err != nil {
		return nil, err
	}
	j, err := journal.Open(rc.Config.Journal)
	if err != nil {
		s.Close()
		return nil, err
	}

	t, err := tracker.New(ctx, tracker.Options{
		Store:       s,
		Journal:     j,
		Settings:    rc.Config.Settings.ToSettings(),
		Logger:      rc.Log,
		Metrics:     m,
		MaxSessions: rc.Config.Archive.MaxSessions,
	})
	if err != nil {
		s.Close()
		j.Close()
		return nil, err
	}
	return t, nil
}

// withTracker opens a tracker for the duration of fn.
func (rc *RootConfig) withTracker(cmd *cobra.Command, fn func(t *tracker.Tracker) error) error {
	t, err := rc.openTracker(cmd.Context(), nil)
	if err != nil {
		return err
	}
	ferr := fn(t)
	if err := t.Close(); err != nil && ferr == nil {
		return fmt.Errorf("close: %w", err)
	}
	return ferr
}
