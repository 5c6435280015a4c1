package cli

import (
	"fmt"

	"github.com/rustyeddy/tradeguard/tracker"
	"github.com/spf13/cobra"
)

func newArchiveCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Manage archived sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List archived sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withTracker(cmd, func(t *tracker.Tracker) error {
				printSessions(cmd.OutOrStdout(), t.State().Sessions)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every archived session (the journal keeps its copy)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withTracker(cmd, func(t *tracker.Tracker) error {
				n := len(t.State().Sessions)
				if err := t.ClearArchive(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared %d sessions\n", n)
				return nil
			})
		},
	})

	return cmd
}
