package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewPedanticRegistry()
)

// Registerer returns the registerer for metrics that should be exported
// by this package.
func Registerer() prometheus.Registerer {
	return registry
}

// Gatherer returns the gatherer providing the state of all metrics
// registered via this package.
func Gatherer() prometheus.Gatherer {
	return registry
}
