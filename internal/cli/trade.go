package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rustyeddy/tradeguard/tracker"
	"github.com/spf13/cobra"
)

func newWinCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "win",
		Short: "Record a win at the current stake",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withTracker(cmd, func(t *tracker.Tracker) error {
				tr, err := t.Win(cmd.Context())
				if tr.ID != "" {
					printTrade(cmd.OutOrStdout(), tr, t.State())
				}
				return err
			})
		},
	}
}

func newLossCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "loss",
		Short: "Record a loss of the current stake",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withTracker(cmd, func(t *tracker.Tracker) error {
				tr, err := t.Loss(cmd.Context())
				if tr.ID != "" {
					printTrade(cmd.OutOrStdout(), tr, t.State())
				}
				return err
			})
		},
	}
}

func newNewSessionCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "new-session",
		Short: "Archive the live trades and restart at 2% of the balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withTracker(cmd, func(t *tracker.Tracker) error {
				s, err := t.NewSession(cmd.Context())
				printSessionEnd(cmd.OutOrStdout(), "new session", s, t.State())
				return err
			})
		},
	}
}

func newResetCmd(rc *RootConfig) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Archive the live trades and restore the initial capital",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withTracker(cmd, func(t *tracker.Tracker) error {
				if !yes {
					set := t.Settings()
					prompt := fmt.Sprintf("Reset balance to %s and archive %d live trades? [y/N]: ",
						money(set.InitialCapital), len(t.State().Trades))
					if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
						fmt.Fprintln(cmd.OutOrStdout(), "reset cancelled")
						return nil
					}
				}
				s, err := t.Reset(cmd.Context())
				printSessionEnd(cmd.OutOrStdout(), "reset", s, t.State())
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	return isYes(line)
}

func isYes(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
