package metrics

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
)

// MethodObserver records the duration of method calls into a histogram and
// optionally tracks the number of in-flight calls in a gauge. Both collectors
// must carry "method" as their only custom label (see RegisterMethodHistogram
// and RegisterMethodGauge).
type MethodObserver struct {
	timings    *Histogram
	inProgress *Gauge
	clock      clock.Clock
}

// NewMethodObserver creates a MethodObserver. inProgress may be nil, in which
// case no in-flight bookkeeping takes place.
func NewMethodObserver(timings *Histogram, inProgress *Gauge) *MethodObserver {
	return &MethodObserver{
		timings:    timings,
		inProgress: inProgress,
		clock:      clock.New(),
	}
}

// Start begins an observation of the given method and returns the function
// finishing it. Meant to be used in defer position:
//
//	defer observer.Start("loadReport")()
//
// The finish function observes the elapsed wall-clock time and runs also when
// the observed method panics. If metrics are disabled, both Start and the
// returned function do nothing.
func (o *MethodObserver) Start(method string) func() {
	if !Enabled() {
		return func() {}
	}
	labels := prometheus.Labels{MethodLabel: method}
	if o.inProgress != nil {
		o.inProgress.With(labels).Inc()
	}
	start := o.clock.Now()
	return func() {
		o.timings.With(labels).Observe(o.clock.Since(start).Seconds())
		if o.inProgress != nil {
			o.inProgress.With(labels).Dec()
		}
	}
}

// Observe runs fn with timing and in-flight bookkeeping. The error returned
// by fn is passed through unchanged; panics propagate after the bookkeeping
// has completed.
func (o *MethodObserver) Observe(ctx context.Context, method string, fn func(context.Context) error) error {
	defer o.Start(method)()
	return fn(ctx)
}

// Wrap returns a function with the same signature as fn that performs the
// bookkeeping of Observe on each invocation.
func (o *MethodObserver) Wrap(method string, fn func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		return o.Observe(ctx, method, fn)
	}
}
