package repository_test

import (
	"testing"

	"github.com/UnknownOlympus/iris/internal/config"
	"github.com/UnknownOlympus/iris/internal/lib/logger/sl"
	"github.com/UnknownOlympus/iris/internal/metrics"
	"github.com/UnknownOlympus/iris/internal/repository"
	"github.com/UnknownOlympus/iris/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_Memory(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}

	backend, closeBackend, err := repository.OpenBackend(
		t.Context(), cfg, sl.Discard(), metrics.NewMetrics(prometheus.NewRegistry()))

	require.NoError(t, err)
	defer closeBackend()
	assert.IsType(t, &store.MemoryRemote{}, backend)
	require.NoError(t, backend.Ping(t.Context()))
}

func TestOpenBackend_UnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Store: config.StoreConfig{Driver: "etcd"}}

	_, _, err := repository.OpenBackend(t.Context(), cfg, sl.Discard(), metrics.NewMetrics(prometheus.NewRegistry()))

	require.EqualError(t, err, "unknown store driver: etcd")
}
