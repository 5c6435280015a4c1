package cli

import (
	"fmt"

	"github.com/rustyeddy/tradeguard/tracker"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newStakeCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stake",
		Short: "Override the stake for the next trade",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <amount>",
		Short: "Set the next stake (between 1 and the balance)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("stake %q: %w", args[0], err)
			}
			return rc.withTracker(cmd, func(t *tracker.Tracker) error {
				if err := t.SetManualStake(cmd.Context(), v); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "next stake: %s\n", money(t.State().NextStake))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "max",
		Short: "Stake the whole balance on the next trade",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withTracker(cmd, func(t *tracker.Tracker) error {
				if err := t.MaxStake(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "next stake: %s\n", money(t.State().NextStake))
				return nil
			})
		},
	})

	return cmd
}
