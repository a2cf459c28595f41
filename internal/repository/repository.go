package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/iris/internal/config"
	"github.com/UnknownOlympus/iris/internal/metrics"
	"github.com/UnknownOlympus/iris/internal/store"
)

const redisConnectRetries = 5

// Backend is a remote the employee collection can be kept in.
type Backend interface {
	store.Remote
	Ping(ctx context.Context) error
}

// DocumentStore is a Backend that can also read a document once.
type DocumentStore interface {
	Backend
	Get(ctx context.Context, key string) (store.Snapshot, error)
}

var (
	_ DocumentStore = (*DocumentRepository)(nil)
	_ DocumentStore = (*RedisDocuments)(nil)
	_ Backend       = (*store.MemoryRemote)(nil)
)

// OpenBackend connects to the backend selected by the store driver. The returned
// function releases its connections.
func OpenBackend(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	metrics *metrics.Metrics,
) (Backend, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := NewDatabase(cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return NewDocumentRepository(pool, NewPoolListener(pool), metrics, log), pool.Close, nil
	case config.DriverRedis:
		client, err := NewRedisClient(ctx, cfg.Redis, redisConnectRetries)
		if err != nil {
			return nil, nil, err
		}
		docs := NewRedisDocuments(client, NewClientMessageSource(client), cfg.Redis.Prefix, metrics, log)
		return docs, func() { _ = client.Close() }, nil
	case config.DriverMemory:
		return store.NewMemoryRemote(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}
