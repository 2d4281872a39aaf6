package httpmetrics

import (
	"sync"

	"github.com/servicebase/metrics/pkg/metrics"
)

var (
	// Requests counts the received HTTP requests.
	Requests RequestsMetric = &requestsTotal{}
)

type requestsTotal struct {
	mutex         sync.Mutex
	metric        *metrics.Counter
	loggedFailure bool
}

func (m *requestsTotal) collector() *metrics.Counter {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.metric == nil {
		counter, err := metrics.RegisterCounter(
			"requests_total",
			"The total count of requests by method and route.",
			MethodLabel, RouteLabel,
		)
		if err != nil {
			if !m.loggedFailure {
				logger.Error(err, "cannot register collector", "metric", "requests_total")
				m.loggedFailure = true
			}
			return nil
		}
		m.metric = counter
	}
	return m.metric
}

func (m *requestsTotal) Inc(method, route string) {
	if counter := m.collector(); counter != nil {
		counter.WithLabelValues(method, route).Inc()
	}
}

func (m *requestsTotal) reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.metric = nil
	m.loggedFailure = false
}
