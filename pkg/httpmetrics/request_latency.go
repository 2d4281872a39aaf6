package httpmetrics

import (
	"sync"
	"time"

	"github.com/servicebase/metrics/pkg/metrics"
)

var (
	// RequestLatency observes the processing time of HTTP requests.
	RequestLatency LatencyMetric = &requestLatency{}
)

type requestLatency struct {
	mutex         sync.Mutex
	metric        *metrics.Histogram
	loggedFailure bool
}

func (m *requestLatency) collector() *metrics.Histogram {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.metric == nil {
		histogram, err := metrics.RegisterHistogram(
			"requests_processing_time_seconds",
			"A histogram of the request processing time by method and route (in seconds).",
			nil,
			MethodLabel, RouteLabel,
		)
		if err != nil {
			if !m.loggedFailure {
				logger.Error(err, "cannot register collector", "metric", "requests_processing_time_seconds")
				m.loggedFailure = true
			}
			return nil
		}
		m.metric = histogram
	}
	return m.metric
}

func (m *requestLatency) Observe(method, route string, duration time.Duration) {
	if histogram := m.collector(); histogram != nil {
		histogram.WithLabelValues(method, route).Observe(duration.Seconds())
	}
}

func (m *requestLatency) reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.metric = nil
	m.loggedFailure = false
}
