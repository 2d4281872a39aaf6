package httpmetrics

import (
	"sync"

	"github.com/servicebase/metrics/pkg/metrics"
)

var (
	// HandlerPanics counts the panics raised by downstream HTTP handlers.
	// The middleware re-raises each panic after counting it.
	HandlerPanics RequestsMetric = &handlerPanics{}
)

type handlerPanics struct {
	mutex         sync.Mutex
	metric        *metrics.Counter
	loggedFailure bool
}

func (m *handlerPanics) collector() *metrics.Counter {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.metric == nil {
		counter, err := metrics.RegisterCounter(
			"handler_panics_total",
			"The total count of panics raised by handlers, by method and route.",
			MethodLabel, RouteLabel,
		)
		if err != nil {
			if !m.loggedFailure {
				logger.Error(err, "cannot register collector", "metric", "handler_panics_total")
				m.loggedFailure = true
			}
			return nil
		}
		m.metric = counter
	}
	return m.metric
}

func (m *handlerPanics) Inc(method, route string) {
	if counter := m.collector(); counter != nil {
		counter.WithLabelValues(method, route).Inc()
	}
}

func (m *handlerPanics) reset() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.metric = nil
	m.loggedFailure = false
}
