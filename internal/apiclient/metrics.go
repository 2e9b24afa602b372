package apiclient

import (
	"sync/atomic"
	"time"
)

// Metrics is a snapshot of the calls made through one Client
type Metrics struct {
	Calls   int64
	Errors  int64
	Latency time.Duration // cumulative
}

type callMetrics struct {
	calls   atomic.Int64
	errors  atomic.Int64
	latency atomic.Int64
}

func (m *callMetrics) record(duration time.Duration, err error) {
	m.calls.Add(1)
	m.latency.Add(duration.Nanoseconds())
	if err != nil {
		m.errors.Add(1)
	}
}

func (m *callMetrics) snapshot() Metrics {
	return Metrics{
		Calls:   m.calls.Load(),
		Errors:  m.errors.Load(),
		Latency: time.Duration(m.latency.Load()),
	}
}

// AverageLatency returns the average latency in milliseconds
func (m Metrics) AverageLatency() float64 {
	if m.Calls == 0 {
		return 0
	}
	return float64(m.Latency.Nanoseconds()) / float64(m.Calls) / 1e6
}

// ErrorRate returns the error rate as a percentage
func (m Metrics) ErrorRate() float64 {
	if m.Calls == 0 {
		return 0
	}
	return float64(m.Errors) / float64(m.Calls) * 100
}
