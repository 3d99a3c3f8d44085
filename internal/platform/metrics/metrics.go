// Package metrics holds the Prometheus instruments for the claims service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles all instruments so handlers and the registry receive them
// by injection rather than touching globals.
type Metrics struct {
	ClaimsCreated      prometheus.Counter
	StatusUpdates      prometheus.Counter
	SnapshotRefreshes  prometheus.Counter
	RefreshFailures    prometheus.Counter
	DocumentsProcessed prometheus.Counter
	DuplicateDocuments prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
}

// New registers all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers all metrics on the given registerer. Tests pass a fresh
// prometheus.NewRegistry to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ClaimsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fra_gis_claims_created_total",
			Help: "Total claims created through this service",
		}),
		StatusUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "fra_gis_status_updates_total",
			Help: "Total successful claim status transitions",
		}),
		SnapshotRefreshes: factory.NewCounter(prometheus.CounterOpts{
			Name: "fra_gis_snapshot_refreshes_total",
			Help: "Total full snapshot refreshes from the claims store",
		}),
		RefreshFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "fra_gis_snapshot_refresh_failures_total",
			Help: "Snapshot refreshes that failed and kept the previous snapshot",
		}),
		DocumentsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "fra_gis_documents_processed_total",
			Help: "Documents digitized into claim drafts",
		}),
		DuplicateDocuments: factory.NewCounter(prometheus.CounterOpts{
			Name: "fra_gis_documents_duplicate_total",
			Help: "Documents rejected because their text was already processed",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fra_gis_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
