// Package metrics holds the process-wide request latency summary and error
// counter shared by the dispatcher and the health monitor. The accumulator
// is injected explicitly rather than wrapped around call sites, so the
// points where time and errors are recorded stay visible in the code.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics accumulates process-wide counters. Values are monotonic and reset
// only on process restart. Safe for concurrent use.
type Metrics struct {
	latency prometheus.Summary
	errors  prometheus.Counter
}

// New constructs the accumulator and registers its collectors on reg.
// Passing a fresh prometheus.NewRegistry keeps tests isolated from the
// default registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		latency: prometheus.NewSummary(prometheus.SummaryOpts{
			Name:       "request_processing_seconds",
			Help:       "Time spent processing request",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "error_count",
			Help: "Count of errors encountered in the system",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.latency, m.errors)
	}
	return m
}

// ObserveLatency records one request's wall-clock duration.
func (m *Metrics) ObserveLatency(d time.Duration) {
	m.latency.Observe(d.Seconds())
}

// IncErrors increments the process-wide error counter by one.
func (m *Metrics) IncErrors() {
	m.errors.Add(1)
}
