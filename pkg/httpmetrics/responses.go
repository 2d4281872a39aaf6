package httpmetrics

import (
	"sync"

	"github.com/servicebase/metrics/pkg/metrics"
)

var (
	// Responses counts the completed HTTP responses, partitioned by status
	// code.
	Responses ResponsesMetric = &responsesTotal{}
)

type responsesTotal struct {
	mutex         sync.Mutex
	metric        *metrics.Counter
	loggedFailure bool
}

func (m *responsesTotal) collector() *metrics.Counter {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.metric == nil {
		counter, err := metrics.RegisterCounter(
			"responses_total",
			"The total count of responses by method, route and status code.",
			MethodLabel, RouteLabel, StatusCodeLabel,
		)
		if err != nil {
			if !m.loggedFailure {
				logger.Error(err, "cannot register collector", "metric", "responses_total")
				m.loggedFailure = true
			}
			return nil
		}
		m.metric = counter
	}
	return m.metric
}

func (m *responsesTotal) Inc(method, route, statusCode string) {
	if counter := m.collector(); counter != nil {
		counter.WithLabelValues(method, route, statusCode).Inc()
	}
}

func (m *responsesTotal) reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.metric = nil
	m.loggedFailure = false
}
