package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type moduleMetrics struct {
	entriesTotal       *prometheus.CounterVec
	validationErrors   *prometheus.CounterVec
	captureTotal       *prometheus.CounterVec
	captureDuration    *prometheus.HistogramVec
	activeSessions     prometheus.Gauge
	documentSaveTotal  *prometheus.CounterVec
	documentSaveTiming prometheus.Histogram
	documentRows       prometheus.Gauge
}

var (
	metricsOnce sync.Once
	metricsInst *moduleMetrics
)

func getMetrics() *moduleMetrics {
	metricsOnce.Do(func() {
		m := &moduleMetrics{
			entriesTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "tclog_entries_total",
					Help: "Total log entries recorded by severity.",
				},
				[]string{"severity"},
			),
			validationErrors: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "tclog_validation_errors_total",
					Help: "Total rejected append calls by offending field.",
				},
				[]string{"field"},
			),
			captureTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "tclog_screenshot_capture_total",
					Help: "Total screenshot captures by backend and status.",
				},
				[]string{"backend", "status"},
			),
			captureDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "tclog_screenshot_capture_duration_seconds",
					Help:    "Screenshot capture duration in seconds by backend.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"backend"},
			),
			activeSessions: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "tclog_active_sessions",
					Help: "Current number of open log sessions.",
				},
			),
			documentSaveTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "tclog_document_save_total",
					Help: "Total spreadsheet saves by status.",
				},
				[]string{"status"},
			),
			documentSaveTiming: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "tclog_document_save_duration_seconds",
					Help:    "Spreadsheet save duration in seconds.",
					Buckets: prometheus.DefBuckets,
				},
			),
			documentRows: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "tclog_document_rows",
					Help: "Row count of the most recently saved document.",
				},
			),
		}

		prometheus.MustRegister(
			m.entriesTotal,
			m.validationErrors,
			m.captureTotal,
			m.captureDuration,
			m.activeSessions,
			m.documentSaveTotal,
			m.documentSaveTiming,
			m.documentRows,
		)

		metricsInst = m
	})

	return metricsInst
}

// EnsureRegistered initializes and registers metrics the first time it is called.
func EnsureRegistered() {
	_ = getMetrics()
}

// WriteTextfile dumps the default registry in the text exposition format,
// for node_exporter's textfile collector after a batch run.
func WriteTextfile(path string) error {
	EnsureRegistered()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

func RecordEntry(severity string) {
	getMetrics().entriesTotal.WithLabelValues(severity).Inc()
}

func RecordValidationError(field string) {
	getMetrics().validationErrors.WithLabelValues(field).Inc()
}

func RecordCapture(backend string, duration time.Duration, success bool) {
	m := getMetrics()
	status := "error"
	if success {
		status = "success"
	}
	m.captureTotal.WithLabelValues(backend, status).Inc()
	m.captureDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

func SessionOpened() {
	getMetrics().activeSessions.Inc()
}

func SessionClosed() {
	getMetrics().activeSessions.Dec()
}

func RecordDocumentSave(duration time.Duration, rows int, success bool) {
	m := getMetrics()
	status := "error"
	if success {
		status = "success"
		m.documentRows.Set(float64(rows))
	}
	m.documentSaveTotal.WithLabelValues(status).Inc()
	m.documentSaveTiming.Observe(duration.Seconds())
}
