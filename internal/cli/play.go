package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rustyeddy/tradeguard/config"
	"github.com/rustyeddy/tradeguard/metrics"
	"github.com/rustyeddy/tradeguard/tracker"
	"github.com/spf13/cobra"
)

func newPlayCmd(rc *RootConfig) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Interactive session driven by hotkeys",
		Long: `Read hotkeys from stdin, one or more per line, and apply them as they
arrive. The default keys are w (win), l (loss), n (new session) and r (reset,
asks for confirmation). ? prints help and q quits.

A loss key is ignored while losses are blocked.

With --metrics-addr, Prometheus metrics are served on /metrics for the
duration of the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if metricsAddr == "" {
				metricsAddr = rc.Config.Metrics.Addr
			}

			var m *metrics.Metrics
			if metricsAddr != "" {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				m = metrics.New("", reg)

				shutdown := serveMetrics(rc, metricsAddr, reg)
				defer shutdown()
			}

			t, err := rc.openTracker(ctx, m)
			if err != nil {
				return err
			}
			defer t.Close()

			p := &player{
				t:    t,
				keys: rc.Config.Hotkeys,
				hk:   tracker.HotkeysFrom(rc.Config.Hotkeys),
				out:  cmd.OutOrStdout(),
				rc:   rc,
			}
			return p.run(ctx, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9102")
	return cmd
}

func serveMetrics(rc *RootConfig, addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		rc.Log.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rc.Log.Error("metrics server", "err", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

type player struct {
	t    *tracker.Tracker
	keys config.HotkeysConfig
	hk   tracker.Hotkeys
	out  io.Writer
	rc   *RootConfig

	pendingReset bool
}

func (p *player) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	p.help()
	p.status()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := p.line(ctx, line); quit {
				return nil
			}
		}
	}
}

// line handles one line of input and reports whether to quit.
func (p *player) line(ctx context.Context, line string) bool {
	if p.pendingReset {
		p.pendingReset = false
		if !isYes(line) {
			fmt.Fprintln(p.out, "reset cancelled")
			return false
		}
		s, err := p.t.Reset(ctx)
		if err != nil {
			fmt.Fprintln(p.out, "error:", err)
		}
		printSessionEnd(p.out, "reset", s, p.t.State())
		return false
	}

	for _, r := range strings.TrimSpace(line) {
		a, bound := p.hk.Lookup(r)
		switch {
		case !bound && (r == 'q' || r == 'Q'):
			return true
		case !bound && r == '?':
			p.help()
			continue
		case !bound && r == ' ':
			continue
		case !bound:
			fmt.Fprintf(p.out, "unknown key %q (? for help)\n", r)
			continue
		case a == tracker.ActionReset:
			fmt.Fprintf(p.out, "Reset balance to %s? [y/N]: ", money(p.t.Settings().InitialCapital))
			p.pendingReset = true
			return false
		}

		res, handled, err := p.t.Press(ctx, p.hk, r)
		if !handled {
			p.rc.Log.Debug("key ignored", "key", string(r), "action", a.String())
			continue
		}
		if err != nil {
			fmt.Fprintln(p.out, "error:", err)
		}

		st := p.t.State()
		switch {
		case res.Trade != nil:
			printTrade(p.out, *res.Trade, st)
		case res.Action == tracker.ActionNewSession:
			printSessionEnd(p.out, "new session", res.Session, st)
		}
	}
	return false
}

func (p *player) help() {
	fmt.Fprintf(p.out, "keys: %s win  %s loss  %s new session  %s reset  ? help  q quit\n",
		p.keys.Win, p.keys.Loss, p.keys.NewSession, p.keys.Reset)
}

func (p *player) status() {
	st := p.t.State()
	fmt.Fprintf(p.out, "balance %s  stake %s  streak %d\n", money(st.Balance), money(st.NextStake), st.ConsecutiveLosses)
}
