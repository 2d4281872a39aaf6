package metrics

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Counter is a counter vector whose label set is the declared custom labels
// followed by the identity labels. The accessors take only the custom label
// values; the identity values are injected.
type Counter struct {
	vec *prometheus.CounterVec
}

// With returns the counter child for the given custom label values.
func (c *Counter) With(labels prometheus.Labels) prometheus.Counter {
	return c.vec.With(withIdentityValues(labels))
}

// WithLabelValues returns the counter child for the given custom label
// values, in declaration order.
func (c *Counter) WithLabelValues(values ...string) prometheus.Counter {
	return c.vec.WithLabelValues(appendIdentityValues(values)...)
}

// Gauge is a gauge vector with injected identity labels. See Counter.
type Gauge struct {
	vec *prometheus.GaugeVec
}

// With returns the gauge child for the given custom label values.
func (g *Gauge) With(labels prometheus.Labels) prometheus.Gauge {
	return g.vec.With(withIdentityValues(labels))
}

// WithLabelValues returns the gauge child for the given custom label
// values, in declaration order.
func (g *Gauge) WithLabelValues(values ...string) prometheus.Gauge {
	return g.vec.WithLabelValues(appendIdentityValues(values)...)
}

// Histogram is a histogram vector with injected identity labels. See Counter.
type Histogram struct {
	vec *prometheus.HistogramVec
}

// With returns the histogram child for the given custom label values.
func (h *Histogram) With(labels prometheus.Labels) prometheus.Observer {
	return h.vec.With(withIdentityValues(labels))
}

// WithLabelValues returns the histogram child for the given custom label
// values, in declaration order.
func (h *Histogram) WithLabelValues(values ...string) prometheus.Observer {
	return h.vec.WithLabelValues(appendIdentityValues(values)...)
}

type collectorKind string

const (
	counterKind   collectorKind = "counter"
	gaugeKind     collectorKind = "gauge"
	histogramKind collectorKind = "histogram"
)

type registeredCollector struct {
	kind      collectorKind
	collector interface{}
}

var (
	collectorsMutex  sync.Mutex
	collectorsByName = map[string]registeredCollector{}
)

// RegisterCounter creates a counter vector with the given custom labels plus
// the identity labels and registers it with the registry. Registering the
// same name again returns the previously created instance.
//
// It fails if the identity labels have not been set yet (see Start) or if a
// custom label name collides with a reserved identity label name.
func RegisterCounter(name, help string, labelNames ...string) (*Counter, error) {
	entry, err := register(counterKind, name, func(labels []string) prometheus.Collector {
		return prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: name,
				Help: help,
			},
			labels,
		)
	}, labelNames)
	if err != nil {
		return nil, err
	}
	return entry.(*Counter), nil
}

// RegisterGauge is like RegisterCounter for gauges.
func RegisterGauge(name, help string, labelNames ...string) (*Gauge, error) {
	entry, err := register(gaugeKind, name, func(labels []string) prometheus.Collector {
		return prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: name,
				Help: help,
			},
			labels,
		)
	}, labelNames)
	if err != nil {
		return nil, err
	}
	return entry.(*Gauge), nil
}

// RegisterHistogram is like RegisterCounter for histograms. The bucket
// boundaries are fixed at registration time; a nil value selects the
// Prometheus default buckets.
func RegisterHistogram(name, help string, buckets []float64, labelNames ...string) (*Histogram, error) {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	entry, err := register(histogramKind, name, func(labels []string) prometheus.Collector {
		return prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name,
				Help:    help,
				Buckets: buckets,
			},
			labels,
		)
	}, labelNames)
	if err != nil {
		return nil, err
	}
	return entry.(*Histogram), nil
}

// RegisterMethodHistogram creates a histogram with the single custom label
// "method", suitable as timing target of a MethodObserver.
func RegisterMethodHistogram(name, help string) (*Histogram, error) {
	return RegisterHistogram(name, help, nil, MethodLabel)
}

// RegisterMethodGauge creates a gauge with the single custom label "method",
// suitable as in-progress target of a MethodObserver.
func RegisterMethodGauge(name, help string) (*Gauge, error) {
	return RegisterGauge(name, help, MethodLabel)
}

// MethodLabel is the label carrying the method identifier of observed calls.
const MethodLabel = "method"

func register(
	kind collectorKind,
	name string,
	create func(labels []string) prometheus.Collector,
	labelNames []string,
) (interface{}, error) {
	if _, _, ok := identity.get(); !ok {
		return nil, errors.Errorf(
			"cannot register metric %q: identity labels are not configured yet", name)
	}
	for _, label := range labelNames {
		if label == ServiceLabel || label == InstanceLabel {
			return nil, errors.Errorf(
				"cannot register metric %q: label name %q is reserved", name, label)
		}
	}

	collectorsMutex.Lock()
	defer collectorsMutex.Unlock()

	if existing, ok := collectorsByName[name]; ok {
		if existing.kind != kind {
			return nil, errors.Errorf(
				"cannot register metric %q as %s: already registered as %s",
				name, kind, existing.kind)
		}
		return existing.collector, nil
	}

	vec := create(append(append([]string{}, labelNames...), identityLabels...))
	if err := registry.Register(vec); err != nil {
		already := prometheus.AlreadyRegisteredError{}
		if errors.As(err, &already) {
			vec = already.ExistingCollector
		} else {
			return nil, errors.Wrapf(err, "cannot register metric %q", name)
		}
	}

	var wrapped interface{}
	switch kind {
	case counterKind:
		wrapped = &Counter{vec: vec.(*prometheus.CounterVec)}
	case gaugeKind:
		wrapped = &Gauge{vec: vec.(*prometheus.GaugeVec)}
	case histogramKind:
		wrapped = &Histogram{vec: vec.(*prometheus.HistogramVec)}
	}
	collectorsByName[name] = registeredCollector{kind: kind, collector: wrapped}
	return wrapped, nil
}

func withIdentityValues(labels prometheus.Labels) prometheus.Labels {
	service, instance, _ := identity.get()
	merged := make(prometheus.Labels, len(labels)+2)
	for name, value := range labels {
		merged[name] = value
	}
	merged[ServiceLabel] = service
	merged[InstanceLabel] = instance
	return merged
}

func appendIdentityValues(values []string) []string {
	service, instance, _ := identity.get()
	return append(append([]string{}, values...), service, instance)
}
