package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/UnknownOlympus/iris/internal/config"
	"github.com/UnknownOlympus/iris/internal/lib/logger/sl"
	"github.com/UnknownOlympus/iris/internal/metrics"
	"github.com/UnknownOlympus/iris/internal/models"
	"github.com/UnknownOlympus/iris/internal/repository"
	"github.com/UnknownOlympus/iris/internal/server"
	"github.com/UnknownOlympus/iris/internal/services/directory"
	"github.com/UnknownOlympus/iris/internal/store"
	"github.com/UnknownOlympus/iris/internal/vcard"
	"github.com/UnknownOlympus/iris/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	backend, closeBackend, err := repository.OpenBackend(ctx, cfg, logger, appMetrics)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Store.Driver, err)
	}
	defer closeBackend()

	initial := []models.Employee{}
	if cfg.Store.Seed {
		initial = models.SeedEmployees()
	}

	handle, err := store.Open(ctx, logger, backend, cfg.Store.Key, initial, appMetrics)
	if err != nil {
		log.Fatalf("Failed to open employee collection: %v", err)
	}
	defer handle.Close()

	dir := directory.NewDirectory(logger, handle, appMetrics)
	defer dir.Close()

	if cfg.Env != envLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := web.NewHandler(logger, dir, vcard.NewEncoder(cfg.Card.Organization), cfg.HTTP.BaseURL)
	webServer := server.New(cfg.HTTP.Port, web.NewRouter(logger, handler))
	webServer.RegisterOnShutdown(handler.Shutdown)

	health := server.NewHealthChecker(backend, dir, logger)
	monitoringServer := server.New(cfg.Monitoring.Port, server.NewMonitoringHandler(reg, health))

	servers := map[string]*http.Server{"web": webServer, "monitoring": monitoringServer}
	wgr.Add(len(servers))
	for name, srv := range servers {
		go func() {
			defer wgr.Done()
			if err := server.Run(ctx, logger, name, srv); err != nil {
				logger.ErrorContext(ctx, "Server failed", slog.String("server", name), sl.Err(err))
				stop()
			}
		}()
	}

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.",
		slog.String("store", cfg.Store.Driver), slog.String("key", cfg.Store.Key))

	wgr.Wait()

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				AddSource:   false,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				AddSource:   false,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{Key: "", Value: slog.Value{}}
	}
	return a
}
