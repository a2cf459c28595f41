// Command importer appends the employees of a CSV file to the shared collection.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/iris/internal/config"
	"github.com/UnknownOlympus/iris/internal/metrics"
	"github.com/UnknownOlympus/iris/internal/models"
	"github.com/UnknownOlympus/iris/internal/repository"
	"github.com/UnknownOlympus/iris/internal/services/directory"
	"github.com/UnknownOlympus/iris/internal/store"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	file := flag.String("file", "", "path to the CSV file to import")
	timeout := flag.Duration("timeout", 30*time.Second, "how long to wait for the store")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg := config.MustLoad()
	if cfg.Store.Driver == config.DriverMemory {
		log.Fatalf("The %s store is local to one process; choose postgres or redis", config.DriverMemory)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())

	backend, closeBackend, err := repository.OpenBackend(ctx, cfg, logger, appMetrics)
	if err != nil {
		log.Panicf("Failed to open %s store: %v", cfg.Store.Driver, err)
	}
	defer closeBackend()

	handle, err := store.Open(ctx, logger, backend, cfg.Store.Key, []models.Employee{}, appMetrics)
	if err != nil {
		log.Panicf("Failed to open employee collection: %v", err)
	}
	defer handle.Close()

	if err = handle.WaitReady(ctx); err != nil {
		log.Panicf("Employee collection did not load: %v", err)
	}

	dir := directory.NewDirectory(logger, handle, appMetrics).WithStrictWrites()
	defer dir.Close()

	result, err := dir.ImportFile(ctx, *file)
	if err != nil {
		log.Panicf("Import failed: %v", err)
	}

	log.Printf("%d employees imported, %d rows skipped", len(result.Employees), result.Dropped)
}
