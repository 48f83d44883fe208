package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/stockpile/internal/ledger"
	"github.com/mesh-intelligence/stockpile/internal/metrics"
	"github.com/mesh-intelligence/stockpile/internal/server"
)

const shutdownTimeout = 5 * time.Second

func (a *app) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a read-only HTTP view with /health and /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.GetString(cfgKeyServeAddr)
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m, err := metrics.New(reg)
			if err != nil {
				return systemErr(err)
			}

			l, err := a.ledger(ledger.WithMetrics(m))
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			n, err := l.CountCritical(ctx)
			if err != nil {
				return err
			}
			m.SetCritical(n)

			srv := server.New(addr, l, reg, a.log)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()
			a.log.Info("serving", "addr", addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return systemErr(err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return systemErr(err)
			}
			a.log.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: serve_addr from config)")
	return cmd
}
