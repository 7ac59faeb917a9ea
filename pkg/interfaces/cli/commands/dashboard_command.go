package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vsinha/bayplan/pkg/application/dto"
	"github.com/vsinha/bayplan/pkg/domain/entities"
)

func newDashboardCommand(rt *runtime) *cobra.Command {
	var (
		watch  bool
		listen string
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show every report computed from one snapshot",
		Long: `Show utilization, lanes, forecasts, availability and variance computed
from a single consistent snapshot.

With --watch the snapshot is refreshed every snapshot.refresh_interval and the
dashboard is re-rendered whenever its version changes, until interrupted.
Prometheus metrics are served on --listen (or metrics.listen_address when
metrics.enabled is set) while watching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !watch {
				return rt.renderDashboard(cmd)
			}
			if listen == "" && rt.app.Config.Metrics.Enabled {
				listen = rt.app.Config.Metrics.ListenAddress
			}
			return rt.watchDashboard(cmd, listen)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep refreshing until interrupted")
	cmd.Flags().StringVar(&listen, "listen", "", "address for the /metrics endpoint while watching")
	return cmd
}

func (rt *runtime) renderDashboard(cmd *cobra.Command) error {
	result, err := rt.build(cmd, dto.DashboardParams{})
	if err != nil {
		return err
	}
	printer, err := rt.printer(cmd)
	if err != nil {
		return err
	}
	return printer.Dashboard(result)
}

func (rt *runtime) watchDashboard(cmd *cobra.Command, listen string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	logger := rt.app.Logger

	if listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(rt.app.Registry, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "address", listen, "error", err.Error())
				cancel()
			}
		}()
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = server.Shutdown(shutdownCtx)
		}()
		logger.Info("serving metrics", "address", listen)
	}

	changed := make(chan struct{}, 1)
	rt.app.Poller.OnChange(func(*entities.Snapshot) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	done := make(chan error, 1)
	go func() { done <- rt.app.Poller.Run(ctx) }()

	for {
		select {
		case err := <-done:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case <-changed:
			if err := rt.renderDashboard(cmd); err != nil {
				if ctx.Err() != nil {
					continue
				}
				return err
			}
		}
	}
}
