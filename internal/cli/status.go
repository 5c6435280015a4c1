package cli

import (
	"github.com/rustyeddy/tradeguard/tracker"
	"github.com/spf13/cobra"
)

func newStatusCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show balance, stake and risk status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withTracker(cmd, func(t *tracker.Tracker) error {
				printStatus(cmd.OutOrStdout(), t.State(), t.Settings(), t.Check())
				return nil
			})
		},
	}
}
