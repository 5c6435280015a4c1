package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rustyeddy/tradeguard/journal"
	"github.com/rustyeddy/tradeguard/session"
	"github.com/rustyeddy/tradeguard/stake"
	"github.com/rustyeddy/tradeguard/tracker"
	"github.com/spf13/cobra"
)

func newReportCmd(rc *RootConfig) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "report <live|archive>",
		Short: "Report on the live session or the whole archive",
		Long: `Summarise trades as a session report.

  live     - the trades since the last new session or reset
  archive  - every archived session merged into one

Formats: text (default), org (Org-mode report), csv (trade list).

Examples:
  tradeguard report live
  tradeguard report archive --format org --out archive.org`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"live", "archive"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.withTracker(cmd, func(t *tracker.Tracker) error {
				var s stake.Session
				var curve []session.Point
				var title string

				switch args[0] {
				case "live":
					s = t.LiveReport()
					curve = session.EquityCurve(s)
					title = "Live session"
				case "archive":
					var err error
					if s, err = t.ArchiveReport(); err != nil {
						return err
					}
					st := t.State()
					curve = session.ArchiveCurve(st.Sessions, t.Settings().InitialCapital, st.Balance)
					title = "Archive"
				default:
					return fmt.Errorf("unknown report %q (want live or archive)", args[0])
				}

				if out == "" {
					return writeReport(cmd.OutOrStdout(), format, title, s, curve)
				}
				if err := writeReportFile(out, format, title, s, curve); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s report: %s\n", format, out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text|org|csv")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the report to a file instead of stdout")
	return cmd
}

func writeReportFile(path, format, title string, s stake.Session, curve []session.Point) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report file: %w", cerr)
		}
	}()

	return writeReport(f, format, title, s, curve)
}

func writeReport(w io.Writer, format, title string, s stake.Session, curve []session.Point) error {
	switch format {
	case "text":
		printReport(w, title, s, curve)
		return nil
	case "org":
		return journal.WriteSessionOrg(w, journal.NewSessionReport(title, s, time.Now()))
	case "csv":
		return journal.WriteTradesCSV(w, s.Trades)
	default:
		return fmt.Errorf("unknown format %q (want text, org or csv)", format)
	}
}
