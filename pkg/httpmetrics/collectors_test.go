package httpmetrics

import (
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/prometheus/client_golang/prometheus"
	"gotest.tools/v3/assert"

	"github.com/servicebase/metrics/pkg/metrics"
)

func Test_collectors_beforeIdentityIsConfigured(t *testing.T) {
	// no parallel: patching global state

	// SETUP
	reg := prometheus.NewPedanticRegistry()
	t.Cleanup(metrics.Testing{}.PatchRegistry(reg))
	t.Cleanup(Testing{}.Reset)
	Testing{}.Reset()
	t.Cleanup(Testing{}.PatchLogger(logr.Discard()))

	// EXERCISE: must not panic while registration is impossible
	Requests.Inc("GET", "/ok")
	Responses.Inc("GET", "/ok", "200")
	RequestsInProgress.Inc("GET", "/ok")
	RequestsInProgress.Dec("GET", "/ok")
	HandlerPanics.Inc("GET", "/ok")

	// VERIFY
	families, err := reg.Gather()
	assert.NilError(t, err)
	assert.Equal(t, len(families), 0)
}

func Test_collectors_registrationFailureIsLoggedOnce(t *testing.T) {
	// no parallel: patching global state

	// SETUP
	reg := prometheus.NewPedanticRegistry()
	t.Cleanup(metrics.Testing{}.PatchRegistry(reg))
	t.Cleanup(Testing{}.Reset)
	Testing{}.Reset()

	var logLines []string
	capturingLogger := funcr.New(
		func(prefix, args string) {
			logLines = append(logLines, args)
		},
		funcr.Options{},
	)
	t.Cleanup(Testing{}.PatchLogger(capturingLogger))

	// EXERCISE: identity labels are not configured, registration keeps failing
	Requests.Inc("GET", "/ok")
	Requests.Inc("GET", "/ok")
	Requests.Inc("POST", "/other")

	// VERIFY
	assert.Equal(t, len(logLines), 1)
	assert.Assert(t, strings.Contains(logLines[0], `"metric"="requests_total"`), logLines[0])
	assert.Assert(t, strings.Contains(logLines[0], "identity labels are not configured"), logLines[0])

	// a reset collector reports a persisting failure again
	Testing{}.Reset()
	Requests.Inc("GET", "/ok")
	assert.Equal(t, len(logLines), 2)
}

func Test_collectors_registerOnce(t *testing.T) {
	// no parallel: patching global state

	// SETUP
	patchForTest(t)

	// EXERCISE
	first := Requests.(*requestsTotal).collector()
	second := Requests.(*requestsTotal).collector()

	// VERIFY
	assert.Assert(t, first != nil)
	assert.Assert(t, first == second)
}
