package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	// QueriesTotal counts answered queries by outcome.
	// Labels: kind (ok, empty_query, no_match, no_category, empty_category)
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron",
		Subsystem: "chat",
		Name:      "queries_total",
		Help:      "Total answered queries by outcome kind",
	}, []string{"kind"})

	QueryDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron",
		Subsystem: "chat",
		Name:      "query_duration_seconds",
		Help:      "Time spent resolving and rendering one query",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	// SourcesTotal counts source files seen by the loader.
	// Labels: status (loaded, missing, malformed)
	SourcesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron",
		Subsystem: "loader",
		Name:      "sources_total",
		Help:      "Source files processed by the loader, by status",
	}, []string{"status"})

	Players = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron",
		Subsystem: "roster",
		Name:      "players",
		Help:      "Unique players in the loaded roster",
	})
)
