package cli

import (
	"fmt"
	"strconv"

	"github.com/rustyeddy/tradeguard/stake"
	"github.com/rustyeddy/tradeguard/tracker"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newSettingsCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the stake settings",
		Long: `Show or change the persisted stake settings.

Keys for "settings set":
  initial-capital, initial-stake, payout (number or "default"),
  win-increase, loss-multiplier, max-losses, strategy

Changing initial-capital or initial-stake with no live trades also resets the
balance and stakes.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withTracker(cmd, func(t *tracker.Tracker) error {
				printSettings(cmd.OutOrStdout(), t.Settings())
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withTracker(cmd, func(t *tracker.Tracker) error {
				set, err := applySetting(t.Settings(), args[0], args[1])
				if err != nil {
					return err
				}
				if err := t.UpdateSettings(cmd.Context(), set); err != nil {
					return err
				}
				printSettings(cmd.OutOrStdout(), t.Settings())
				return nil
			})
		},
	})

	cmd.AddCommand(newSettingsAssetCmd(rc))
	return cmd
}

func newSettingsAssetCmd(rc *RootConfig) *cobra.Command {
	var payout, name string
	var clearPayout bool

	cmd := &cobra.Command{
		Use:   "asset <index>",
		Short: "Select an asset, optionally renaming it or setting its payout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("asset index %q: %w", args[0], err)
			}

			return rc.withTracker(cmd, func(t *tracker.Tracker) error {
				ctx := cmd.Context()

				if name != "" {
					set := t.Settings()
					if i < 0 || i >= len(set.Assets) {
						return fmt.Errorf("asset index %d out of range [0, %d)", i, len(set.Assets))
					}
					set.Assets[i].Name = name
					if err := t.UpdateSettings(ctx, set); err != nil {
						return err
					}
				}

				switch {
				case clearPayout:
					if err := t.SetAssetPayout(ctx, i, nil); err != nil {
						return err
					}
				case payout != "":
					p, err := decimal.NewFromString(payout)
					if err != nil {
						return fmt.Errorf("payout %q: %w", payout, err)
					}
					if err := t.SetAssetPayout(ctx, i, &p); err != nil {
						return err
					}
				}

				if err := t.SelectAsset(ctx, i); err != nil {
					return err
				}
				set := t.Settings()
				fmt.Fprintf(cmd.OutOrStdout(), "asset: %s @ %s%%\n", set.AssetName(), set.Payout().String())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&payout, "payout", "", "payout percentage for this asset")
	cmd.Flags().BoolVar(&clearPayout, "clear-payout", false, "remove the asset payout override")
	cmd.Flags().StringVar(&name, "name", "", "rename the asset")
	return cmd
}

func applySetting(set stake.Settings, key, value string) (stake.Settings, error) {
	num := func() (decimal.Decimal, error) {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return d, fmt.Errorf("%s %q: %w", key, value, err)
		}
		return d, nil
	}

	var err error
	switch key {
	case "initial-capital":
		set.InitialCapital, err = num()
	case "initial-stake":
		set.InitialStake, err = num()
	case "win-increase":
		set.WinIncreasePercentage, err = num()
	case "loss-multiplier":
		set.LossMultiplier, err = num()
	case "payout":
		if value == "default" {
			set.PayoutPercentage = nil
			return set, nil
		}
		var p decimal.Decimal
		if p, err = num(); err == nil {
			set.PayoutPercentage = &p
		}
	case "max-losses":
		set.MaxConsecutiveLosses, err = strconv.Atoi(value)
		if err != nil {
			err = fmt.Errorf("%s %q: %w", key, value, err)
		}
	case "strategy":
		set.StrategyName = value
	default:
		err = fmt.Errorf("unknown setting %q", key)
	}
	return set, err
}
