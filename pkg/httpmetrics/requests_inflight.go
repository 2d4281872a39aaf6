package httpmetrics

import (
	"sync"

	"github.com/servicebase/metrics/pkg/metrics"
)

var (
	// RequestsInProgress tracks the HTTP requests currently being
	// processed.
	RequestsInProgress InProgressMetric = &requestsInProgress{}
)

type requestsInProgress struct {
	mutex         sync.Mutex
	metric        *metrics.Gauge
	loggedFailure bool
}

func (m *requestsInProgress) collector() *metrics.Gauge {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.metric == nil {
		gauge, err := metrics.RegisterGauge(
			"requests_in_progress",
			"The number of requests by method and route currently being processed.",
			MethodLabel, RouteLabel,
		)
		if err != nil {
			if !m.loggedFailure {
				logger.Error(err, "cannot register collector", "metric", "requests_in_progress")
				m.loggedFailure = true
			}
			return nil
		}
		m.metric = gauge
	}
	return m.metric
}

func (m *requestsInProgress) Inc(method, route string) {
	if gauge := m.collector(); gauge != nil {
		gauge.WithLabelValues(method, route).Inc()
	}
}

func (m *requestsInProgress) Dec(method, route string) {
	if gauge := m.collector(); gauge != nil {
		gauge.WithLabelValues(method, route).Dec()
	}
}

func (m *requestsInProgress) reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.metric = nil
	m.loggedFailure = false
}
