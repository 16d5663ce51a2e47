package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gdd_planner"

// Metrics holds the Prometheus counters, histograms, and gauges for the planner and batch worker.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Dataset metrics.
	DatasetFetches       *prometheus.CounterVec   // labels: dataset={frost,stations,series}, outcome={success,error}
	DatasetCache         *prometheus.CounterVec   // labels: dataset={frost,stations,series}, result={hit,miss}
	DatasetFetchDuration *prometheus.HistogramVec // labels: dataset={frost,stations,series}

	// Planner metrics.
	Plans         *prometheus.CounterVec // labels: status
	CropEstimates *prometheus.CounterVec // labels: risk={comfortable,at_risk,unlikely}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total plan requests read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total plan results written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total plan requests that could not be decoded.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the batch worker is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of plan requests per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-plan-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		DatasetFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_fetches_total",
			Help:      "Dataset fetches by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		DatasetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_cache_total",
			Help:      "Dataset cache lookups by dataset and result.",
		}, []string{"dataset", "result"}),
		DatasetFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_fetch_duration_seconds",
			Help:      "Dataset fetch duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"dataset"}),
		Plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Planner runs by status.",
		}, []string{"status"}),
		CropEstimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crop_estimates_total",
			Help:      "Crop estimates by risk tier.",
		}, []string{"risk"}),
	}

	reg.MustRegister(
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.DatasetFetches,
		m.DatasetCache,
		m.DatasetFetchDuration,
		m.Plans,
		m.CropEstimates,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		MessagesConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "messages_consumed_total"}),
		MessagesProduced:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "messages_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "transform_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "batch_processing_duration_seconds"}),
		DatasetFetches:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "dataset_fetches_total"}, []string{"dataset", "outcome"}),
		DatasetCache:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "dataset_cache_total"}, []string{"dataset", "result"}),
		DatasetFetchDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "dataset_fetch_duration_seconds"}, []string{"dataset"}),
		Plans:                   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "plans_total"}, []string{"status"}),
		CropEstimates:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "crop_estimates_total"}, []string{"risk"}),
	}
}
