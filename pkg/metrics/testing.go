package metrics

import (
	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Testing provides utility functions for testing with this package.
// Do not use it for non-testing purposes!
type Testing struct{}

// PatchRegistry replaces the internal Prometheus metrics registry with a
// replacement and returns a function that reverts the patch. Identity
// labels, the enabled flag and the set of registered collectors are cleared
// together with the registry and restored by the revert function.
// Multiple nested replacements must be reverted in exactly the opposite
// order (revert last replacement first).
func (Testing) PatchRegistry(replacement *prometheus.Registry) func() {
	origRegistry := registry
	origCollectors := collectorsByName
	origEnabled := enabledFlag.Load()
	origService, origInstance, origIsSet := identity.get()

	registry = replacement
	collectorsByName = map[string]registeredCollector{}
	identity.clear()
	setEnabled(false)

	return func() {
		if registry != replacement {
			panic("reverting not possible because current value is not the former replacement")
		}
		registry = origRegistry
		collectorsByName = origCollectors
		setEnabled(origEnabled)
		identity.clear()
		if origIsSet {
			identity.set(origService, origInstance)
		}
	}
}

// PatchClock replaces the clock used by the file export loop and returns a
// function that reverts the patch. Must be called before Start.
func (Testing) PatchClock(replacement clock.Clock) func() {
	origValue := exporterClock
	exporterClock = replacement
	return func() {
		if exporterClock != replacement {
			panic("reverting not possible because current value is not the former replacement")
		}
		exporterClock = origValue
	}
}

// SetIdentity sets the identity label values directly, bypassing Start.
func (Testing) SetIdentity(service, instance string) {
	identity.clear()
	identity.set(service, instance)
}

// SetEnabled sets the enabled flag directly, bypassing Start.
func (Testing) SetEnabled(value bool) {
	setEnabled(value)
}

// SampleValue gathers the registry and returns the value of the sample of
// the named metric whose label set contains all given label pairs. The
// second return value indicates whether such a sample exists. For
// histograms the sample count is returned.
func (Testing) SampleValue(name string, labels map[string]string) (float64, bool) {
	families, err := registry.Gather()
	if err != nil {
		return 0, false
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if !labelsMatch(metric.GetLabel(), labels) {
				continue
			}
			switch {
			case metric.Counter != nil:
				return metric.Counter.GetValue(), true
			case metric.Gauge != nil:
				return metric.Gauge.GetValue(), true
			case metric.Histogram != nil:
				return float64(metric.Histogram.GetSampleCount()), true
			case metric.Untyped != nil:
				return metric.Untyped.GetValue(), true
			}
		}
	}
	return 0, false
}

func labelsMatch(actual []*dto.LabelPair, expected map[string]string) bool {
	byName := make(map[string]string, len(actual))
	for _, pair := range actual {
		byName[pair.GetName()] = pair.GetValue()
	}
	for name, value := range expected {
		if byName[name] != value {
			return false
		}
	}
	return true
}
