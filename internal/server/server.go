package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/iris/internal/lib/logger/sl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// New returns an http.Server listening on every interface at port.
func New(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// NewMonitoringHandler serves the metrics of reg on /metrics and the health checks on /healthz.
func NewMonitoringHandler(reg *prometheus.Registry, health http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true, Registry: reg}))
	mux.Handle("/healthz", health)

	return mux
}

// Run serves srv until ctx is done and then shuts it down gracefully.
func Run(ctx context.Context, log *slog.Logger, name string, srv *http.Server) error {
	log = log.With(slog.String("server", name), slog.String("addr", srv.Addr))

	errCh := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve %s: %w", name, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorContext(ctx, "Forced shutdown", sl.Err(err))
		return fmt.Errorf("failed to shut down %s: %w", name, err)
	}
	log.InfoContext(ctx, "Server stopped gracefully")

	return nil
}
