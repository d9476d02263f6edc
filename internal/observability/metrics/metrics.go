// Package metrics exposes Prometheus counters for form activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "ration_form_"

	ResultSuccess = "success"
	ResultError   = "error"
	// ResultFallback marks an OCR scan answered by the fallback text
	ResultFallback = "fallback"
)

// Metrics holds the collectors registered against one registry
type Metrics struct {
	registry *prometheus.Registry

	actionsTotal     *prometheus.CounterVec
	rationRejections *prometheus.CounterVec
	submissionsTotal *prometheus.CounterVec
	submitLatency    prometheus.Histogram
	ocrScansTotal    *prometheus.CounterVec
	activeForms      prometheus.Gauge
	billDraftItems   prometheus.Counter
}

// New creates and registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "actions_total",
				Help: "Total dispatched form actions by type",
			},
			[]string{"type"},
		),
		rationRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ration_rejections_total",
				Help: "Ration edits left unapplied by action type",
			},
			[]string{"type"},
		),
		submissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "submissions_total",
				Help: "Total spreadsheet submissions by result",
			},
			[]string{"result"},
		),
		submitLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "submit_latency_seconds",
				Help:    "Spreadsheet append latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ocrScansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ocr_scans_total",
				Help: "Total receipt scans by result",
			},
			[]string{"result"},
		),
		activeForms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "active_forms",
				Help: "Open form sessions",
			},
		),
		billDraftItems: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "bill_draft_items_total",
				Help: "Line items imported from bill drafts",
			},
		),
	}

	m.registry.MustRegister(
		m.actionsTotal,
		m.rationRejections,
		m.submissionsTotal,
		m.submitLatency,
		m.ocrScansTotal,
		m.activeForms,
		m.billDraftItems,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveAction counts a dispatched action
func (m *Metrics) ObserveAction(kind string) {
	if m == nil {
		return
	}
	m.actionsTotal.WithLabelValues(kind).Inc()
}

// ObserveRationRejection counts a ration edit that left the map unchanged
func (m *Metrics) ObserveRationRejection(kind string) {
	if m == nil {
		return
	}
	m.rationRejections.WithLabelValues(kind).Inc()
}

// ObserveSubmission records a submit attempt
func (m *Metrics) ObserveSubmission(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(result).Inc()
	m.submitLatency.Observe(elapsed.Seconds())
}

// ObserveScan records a receipt scan
func (m *Metrics) ObserveScan(result string) {
	if m == nil {
		return
	}
	m.ocrScansTotal.WithLabelValues(result).Inc()
}

// ObserveBillDraft counts imported line items
func (m *Metrics) ObserveBillDraft(items int) {
	if m == nil {
		return
	}
	m.billDraftItems.Add(float64(items))
}

// SetActiveForms reports the number of open sessions
func (m *Metrics) SetActiveForms(n int) {
	if m == nil {
		return
	}
	m.activeForms.Set(float64(n))
}
