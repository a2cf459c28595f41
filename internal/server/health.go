package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/iris/internal/lib/logger/sl"
)

// StorePinger reports whether the document store is reachable.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// ReadyChecker reports whether the first remote snapshot has been applied.
type ReadyChecker interface {
	Loading() bool
}

type HealthChecker struct {
	store   StorePinger
	mirror  ReadyChecker
	timeout time.Duration
	log     *slog.Logger
}

func NewHealthChecker(store StorePinger, mirror ReadyChecker, log *slog.Logger) *HealthChecker {
	pingTO := 5
	return &HealthChecker{
		store:   store,
		mirror:  mirror,
		timeout: time.Duration(pingTO) * time.Second,
		log:     log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	h.log.DebugContext(req.Context(), "Performing health checks...")

	status := make(map[string]string)
	overallStatus := http.StatusOK

	ctx, cancel := context.WithTimeout(req.Context(), h.timeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		status["store"] = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(req.Context(), "Health check failed: store ping", sl.Err(err))
	} else {
		status["store"] = "ok"
	}

	// A mirror that is still loading serves placeholders but is not broken.
	if h.mirror.Loading() {
		status["mirror"] = "loading"
	} else {
		status["mirror"] = "ready"
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write health check response", sl.Err(err))
	}

	h.log.DebugContext(req.Context(), "Health checks completed", "status", overallStatus)
}
