package cli

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradeguard/internal/id"
	"github.com/rustyeddy/tradeguard/journal"
	"github.com/spf13/cobra"
)

func newJournalCmd(rc *RootConfig) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Query the trade journal",
		Long: `Query and display journal records from the SQLite journal.

Subcommands:
  trade     - Get details of a specific trade by ID
  today     - List trades settled today
  day       - List trades settled on a specific day
  sessions  - List journaled sessions

Examples:
  tradeguard journal trade <trade-id>
  tradeguard journal today
  tradeguard journal day 2026-01-15`,
	}
	cmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite journal DB (default from config)")

	open := func() (*journal.SQLite, error) {
		path := dbPath
		if path == "" {
			if rc.Config.Journal.Type != "sqlite" {
				return nil, fmt.Errorf("journal queries need journal.type sqlite (configured %q) or --db", rc.Config.Journal.Type)
			}
			path = rc.Config.Journal.DBPath
		}
		j, err := journal.NewSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return j, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "trade <trade-id>",
		Short: "Get details of a specific trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := id.Time(args[0]); err != nil {
				return fmt.Errorf("trade id %q: %w", args[0], err)
			}

			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			rec, err := j.GetTrade(args[0])
			if err != nil {
				return fmt.Errorf("get trade: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
			return nil
		},
	})

	listDay := func(cmd *cobra.Command, day string) error {
		j, err := open()
		if err != nil {
			return err
		}
		defer j.Close()

		start, end, err := dayBounds(time.Local, day)
		if err != nil {
			return fmt.Errorf("date: %w", err)
		}
		recs, err := j.ListTradesBetween(start, end)
		if err != nil {
			return fmt.Errorf("query trades: %w", err)
		}
		if len(recs) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no trades on %s\n", day)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradesOrg(recs))
		return nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "List trades settled today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDay(cmd, time.Now().Format("2006-01-02"))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "List trades settled on a specific day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDay(cmd, args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sessions",
		Short: "List journaled sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := open()
			if err != nil {
				return err
			}
			defer j.Close()

			sessions, err := j.ListSessions()
			if err != nil {
				return fmt.Errorf("query sessions: %w", err)
			}
			printSessions(cmd.OutOrStdout(), sessions)
			return nil
		},
	})

	return cmd
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start, end, nil
}
