package main

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reflow-dev/reflow/internal/errors"
	"github.com/reflow-dev/reflow/pkg/devserver"
	"github.com/reflow-dev/reflow/pkg/host/memhost"
	"github.com/reflow-dev/reflow/pkg/metrics"
	"github.com/reflow-dev/reflow/pkg/reactive"
	"github.com/reflow-dev/reflow/pkg/reconcile"
	"github.com/reflow-dev/reflow/pkg/record"
)

func serveCmd() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development inspection server",
		Long: `Runs an in-memory host tree with a small live workload and serves it
for inspection:

  GET /tree     current host tree as JSON
  GET /events   WebSocket stream of host mutations
  GET /metrics  Prometheus metrics
  GET /healthz  liveness`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Dev.Addr = addr
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			tree := memhost.New(cfg.Dev.Tags...)
			tree.RegisterTags("body")
			rec := record.New[memhost.Handle](tree)
			m := metrics.NewReconciler(
				metrics.WithNamespace(cfg.Metrics.Namespace),
				metrics.WithSubsystem(cfg.Metrics.Subsystem),
			)
			r := reconcile.New[memhost.Handle](rec, reconcile.WithMetrics[memhost.Handle](m))
			body := rec.CreateElement("body")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// A ticking region so the event stream and metrics show live
			// reconciliation while the server runs.
			uptime := reactive.NewSignal(0)
			root := r.Render(body, func() any {
				return fmt.Sprintf("Uptime: %ds", uptime.Get())
			})
			defer root.Dispose()

			go func() {
				ticker := time.NewTicker(time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						uptime.Update(func(v int) int { return v + 1 })
					}
				}
			}()

			srv := devserver.New(&devserver.Config{
				Addr:   cfg.Dev.Addr,
				Tree:   tree,
				Events: rec,
				Logger: logger,
			})
			if err := srv.ListenAndServe(ctx); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				return errors.New("E141").Wrap(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides reflow.json)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to reflow.json")

	return cmd
}
