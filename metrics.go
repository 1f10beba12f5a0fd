package foldbench

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports matrix results in Prometheus text format, for node
// exporter's textfile collector or any scraper that reads .prom files.
type Metrics struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	cells    *prometheus.CounterVec
}

// NewMetrics creates a registry labelled with runID.
func NewMetrics(runID string) *Metrics {
	constLabels := prometheus.Labels{"run_id": runID}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "foldbench",
			Name:        "cell_duration_seconds",
			Help:        "Wall-clock time of successful tool invocations.",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 2, 16),
		}, []string{"configuration"}),
		cells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "foldbench",
			Name:        "cells_total",
			Help:        "Matrix cells run, by outcome.",
			ConstLabels: constLabels,
		}, []string{"configuration", "outcome"}),
	}
	m.registry.MustRegister(m.duration, m.cells)
	return m
}

// Observe records one cell. Only successful cells feed the histogram.
func (m *Metrics) Observe(c Cell) {
	m.cells.WithLabelValues(c.Config.Label, c.Sample.Outcome.String()).Inc()
	if c.Sample.OK() {
		m.duration.WithLabelValues(c.Config.Label).Observe(c.Sample.ElapsedMS / 1000)
	}
}

// Gatherer exposes the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
