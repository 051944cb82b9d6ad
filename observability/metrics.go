package observability

import (
	"errors"
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DocumentOperationsTotal counts document operations by document kind, operation, and status
	DocumentOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propman_document_operations_total",
			Help: "Total number of document operations by kind, operation and status",
		},
		[]string{"document", "operation", "status"}, // document: project, sheet; status: success, failure
	)

	// DocumentOperationDuration tracks load-mutate-save duration in seconds
	DocumentOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "propman_document_operation_duration_seconds",
			Help:    "Document operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to 1s
		},
		[]string{"document", "operation"},
	)

	// IntentsTotal counts controller intents by kind and outcome
	IntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propman_intents_total",
			Help: "Total number of controller intents by kind and outcome",
		},
		[]string{"intent", "outcome"}, // outcome: applied, rejected, failed
	)

	// SheetsGauge tracks the sheets listed for the current configuration
	SheetsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "propman_sheets",
			Help: "Property sheets in the sheet directory by state",
		},
		[]string{"state"}, // active, inactive
	)
)

// RecordDocumentOperation records the outcome and duration of one document operation.
func RecordDocumentOperation(document, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	DocumentOperationsTotal.WithLabelValues(document, operation, status).Inc()
	DocumentOperationDuration.WithLabelValues(document, operation).Observe(time.Since(start).Seconds())
}

// MetricsHandler returns an HTTP handler for Prometheus metrics
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// NewMetricsMux routes /metrics to Prometheus and, when health is non-nil,
// /health to its checks.
func NewMetricsMux(health *HealthChecker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler())
	if health != nil {
		mux.Handle("/health", health.Handler())
	}
	return mux
}

// StartMetricsServer serves NewMetricsMux(health) on srv.Addr.
// It returns once the server stops; http.ErrServerClosed is reported as nil.
func StartMetricsServer(srv *http.Server, health *HealthChecker) error {
	srv.Handler = NewMetricsMux(health)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// GetCounterValue retrieves the current value of a counter metric with the given labels
// This is primarily intended for testing
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}

	return 0, nil
}

// GetGaugeValue retrieves the current value of a gauge metric with the given labels
func GetGaugeValue(gauge *prometheus.GaugeVec, labels ...string) (float64, error) {
	metric, err := gauge.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Gauge != nil {
		return pb.Gauge.GetValue(), nil
	}

	return 0, nil
}
