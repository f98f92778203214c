package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline.
type Metrics struct {
	ReportsCollected *prometheus.CounterVec // labels: source
	CollectErrors    *prometheus.CounterVec // labels: source
	ReportsDropped   *prometheus.CounterVec // labels: reason={no_asset_type,no_asset_match}
	IncidentsBuilt   prometheus.Counter
	BatchCollapsed   prometheus.Counter
	LedgerUpdated    prometheus.Counter
	LedgerAppended   prometheus.Counter
	LedgerSize       prometheus.Gauge
	RunDuration      prometheus.Histogram
	LastRunTimestamp prometheus.Gauge
	PipelineRunning  prometheus.Gauge

	// Incident stream sink metrics.
	SinkPublished prometheus.Counter
	SinkErrors    prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportsCollected,
		m.CollectErrors,
		m.ReportsDropped,
		m.IncidentsBuilt,
		m.BatchCollapsed,
		m.LedgerUpdated,
		m.LedgerAppended,
		m.LedgerSize,
		m.RunDuration,
		m.LastRunTimestamp,
		m.PipelineRunning,
		m.SinkPublished,
		m.SinkErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsCollected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drone_etl",
			Name:      "reports_collected_total",
			Help:      "Raw reports fetched, by source.",
		}, []string{"source"}),
		CollectErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drone_etl",
			Name:      "collect_errors_total",
			Help:      "Failed source fetches (non-fatal), by source.",
		}, []string{"source"}),
		ReportsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drone_etl",
			Name:      "reports_dropped_total",
			Help:      "Reports dropped during classification/resolution, by reason.",
		}, []string{"reason"}),
		IncidentsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drone_etl",
			Name:      "incidents_built_total",
			Help:      "Incidents constructed from resolved reports.",
		}),
		BatchCollapsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drone_etl",
			Name:      "batch_collapsed_total",
			Help:      "Incidents absorbed by intra-batch deduplication.",
		}),
		LedgerUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drone_etl",
			Name:      "ledger_updated_total",
			Help:      "Existing ledger entries updated by a merge.",
		}),
		LedgerAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drone_etl",
			Name:      "ledger_appended_total",
			Help:      "New incidents appended to the ledger.",
		}),
		LedgerSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "drone_etl",
			Name:      "ledger_size",
			Help:      "Incidents in the ledger after the last run.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "drone_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete collect-resolve-merge-persist run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "drone_etl",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "drone_etl",
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
		SinkPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drone_etl",
			Name:      "sink_published_total",
			Help:      "Incidents published to the incident stream sink.",
		}),
		SinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "drone_etl",
			Name:      "sink_errors_total",
			Help:      "Failed incident stream publishes (non-fatal).",
		}),
	}
}
