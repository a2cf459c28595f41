//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/UnknownOlympus/iris/internal/lib/logger/sl"
	"github.com/UnknownOlympus/iris/internal/metrics"
	"github.com/UnknownOlympus/iris/internal/repository"
	"github.com/UnknownOlympus/iris/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("iris"),
		postgres.WithUsername("iris"),
		postgres.WithPassword("iris"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, goose.Up(stdlib.OpenDBFromPool(pool), "../../migrations"))

	return pool
}

func TestDocumentRepository_Postgres(t *testing.T) {
	pool := startPostgres(t)

	m := metrics.NewMetrics(prometheus.NewRegistry())
	writer := repository.NewDocumentRepository(pool, repository.NewPoolListener(pool), m, sl.Discard())
	reader := repository.NewDocumentRepository(pool, repository.NewPoolListener(pool), m, sl.Discard())

	got := make(chan store.Snapshot, 4)
	unsubscribe, err := reader.Subscribe(t.Context(), "employees", func(s store.Snapshot) { got <- s })
	require.NoError(t, err)
	defer unsubscribe()

	assert.False(t, receive(t, got).Exists)

	require.NoError(t, writer.Set(t.Context(), "other", []byte(`[]`)))
	require.NoError(t, writer.Set(t.Context(), "employees", []byte(`[{"id":"1"}]`)))

	snapshot := receive(t, got)
	assert.True(t, snapshot.Exists)
	assert.JSONEq(t, `[{"id":"1"}]`, string(snapshot.Value))

	require.NoError(t, writer.Set(t.Context(), "employees", []byte(`[]`)))
	assert.JSONEq(t, `[]`, string(receive(t, got).Value))

	require.NoError(t, reader.Ping(t.Context()))
}

func TestHandle_PostgresSync(t *testing.T) {
	pool := startPostgres(t)

	m := metrics.NewMetrics(prometheus.NewRegistry())
	repo := repository.NewDocumentRepository(pool, repository.NewPoolListener(pool), m, sl.Discard())

	first, err := store.Open(t.Context(), sl.Discard(), repo, "names", []string{"seed"}, m)
	require.NoError(t, err)
	defer first.Close()
	second, err := store.Open(t.Context(), sl.Discard(), repo, "names", []string{"seed"}, m)
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, first.Write(t.Context(), []string{"alpha", "beta"}))

	assert.Eventually(t, func() bool {
		v := second.Value()
		return len(v) == 2 && v[0] == "alpha"
	}, 5*time.Second, 10*time.Millisecond)
}
