// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
// All Record methods are safe to call on a nil *Metrics.
type Metrics struct {
	// Feature engineering metrics
	TransactionsProcessed prometheus.Counter
	FeatureRecordsStored  prometheus.Counter
	CustomersAggregated   prometheus.Counter
	EngineeringErrors     *prometheus.CounterVec

	// WoE/IV metrics
	FeaturesEvaluated    prometheus.Counter
	EmptyFeatureWarnings prometheus.Counter
	FeatureIV            *prometheus.GaugeVec

	// Scoring metrics
	PredictionsTotal *prometheus.CounterVec
	ScoringErrors    *prometheus.CounterVec
	ScoringLatency   prometheus.Histogram

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec

	// Health metrics
	LastSuccessfulPipeline prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics creates a Metrics instance registered on reg.
// A nil reg uses a fresh private registry.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	if namespace == "" {
		namespace = "credit_risk_lab"
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "transactions_processed_total",
			Help:      "Total number of transactions passed through feature engineering",
		}),
		FeatureRecordsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "records_stored_total",
			Help:      "Total number of feature records written to storage",
		}),
		CustomersAggregated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "customers_aggregated_total",
			Help:      "Total number of distinct customers aggregated",
		}),
		EngineeringErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "features",
			Name:      "errors_total",
			Help:      "Total number of feature engineering failures by kind",
		}, []string{"kind"}),

		FeaturesEvaluated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "woe",
			Name:      "features_evaluated_total",
			Help:      "Total number of feature columns evaluated for WoE/IV",
		}),
		EmptyFeatureWarnings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "woe",
			Name:      "empty_feature_warnings_total",
			Help:      "Total number of feature columns with no rows",
		}),
		FeatureIV: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "woe",
			Name:      "information_value",
			Help:      "Information value of each feature from the latest evaluation",
		}, []string{"variable"}),

		PredictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "predictions_total",
			Help:      "Total number of predictions by label",
		}, []string{"label"}),
		ScoringErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "errors_total",
			Help:      "Total number of scoring failures by kind",
		}, []string{"kind"}),
		ScoringLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "latency_seconds",
			Help:      "Scoring latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		PipelineRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"phase", "status"}),
		PipelineDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}, []string{"phase"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"method", "route", "code"}),

		LastSuccessfulPipeline: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_pipeline_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),

		gatherer: reg,
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// RecordEngineering records the outcome of one feature engineering pass.
func (m *Metrics) RecordEngineering(transactions, customers, stored int) {
	if m == nil {
		return
	}
	m.TransactionsProcessed.Add(float64(transactions))
	m.CustomersAggregated.Add(float64(customers))
	m.FeatureRecordsStored.Add(float64(stored))
}

// RecordEngineeringError counts a failed engineering pass by error kind.
func (m *Metrics) RecordEngineeringError(kind string) {
	if m == nil {
		return
	}
	m.EngineeringErrors.WithLabelValues(kind).Inc()
}

// RecordFeatureIV records the IV of one evaluated feature.
func (m *Metrics) RecordFeatureIV(variable string, iv float64, empty bool) {
	if m == nil {
		return
	}
	m.FeaturesEvaluated.Inc()
	m.FeatureIV.WithLabelValues(variable).Set(iv)
	if empty {
		m.EmptyFeatureWarnings.Inc()
	}
}

// RecordPrediction records a successful prediction.
func (m *Metrics) RecordPrediction(label string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PredictionsTotal.WithLabelValues(label).Inc()
	m.ScoringLatency.Observe(elapsed.Seconds())
}

// RecordScoringError counts a failed prediction by error kind.
func (m *Metrics) RecordScoringError(kind string) {
	if m == nil {
		return
	}
	m.ScoringErrors.WithLabelValues(kind).Inc()
}

// RecordPipelineRun records a pipeline run.
func (m *Metrics) RecordPipelineRun(phase, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PipelineRunsTotal.WithLabelValues(phase, status).Inc()
	m.PipelineDuration.WithLabelValues(phase).Observe(elapsed.Seconds())
	if status == StatusSuccess {
		m.LastSuccessfulPipeline.SetToCurrentTime()
	}
}

// RecordHTTPRequest counts one served request.
func (m *Metrics) RecordHTTPRequest(method, route string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

// Pipeline run statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)
