package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters for store writes, received snapshots and imports,
// gauges for the mirrored collection and histograms for backend queries.
type Metrics struct {
	StoreWrites       *prometheus.CounterVec
	SnapshotsReceived *prometheus.CounterVec
	LastSnapshot      *prometheus.GaugeVec
	CollectionSize    *prometheus.GaugeVec
	StoreQueryDur     *prometheus.HistogramVec
	Imports           *prometheus.CounterVec
	EmployeesImported prometheus.Counter
}

// NewMetrics creates a new Metrics instance registered on reg.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		StoreWrites: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "iris_store_writes_total",
			Help: "Total whole-collection writes pushed to the remote store.",
		}, []string{"status"}),
		SnapshotsReceived: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "iris_store_snapshots_total",
			Help: "Total snapshots delivered by the remote subscription.",
		}, []string{"key"}),
		LastSnapshot: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "iris_last_snapshot_timestamp",
			Help: "Last time a remote snapshot was applied to the local mirror",
		}, []string{"key"}),
		CollectionSize: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "iris_collection_size",
			Help: "Number of entries in the local mirror.",
		}, []string{"key"}),
		StoreQueryDur: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iris_store_query_duration_seconds",
			Help:    "Duration of remote store queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'get_document', 'set_document'
		Imports: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "iris_imports_total",
			Help: "CSV imports by outcome.",
		}, []string{"status"}),
		EmployeesImported: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "iris_employees_imported_total",
			Help: "Total number of employees added through CSV import.",
		}),
	}

	metrics.StoreWrites.WithLabelValues("success")
	metrics.StoreWrites.WithLabelValues("failure")

	return metrics
}
