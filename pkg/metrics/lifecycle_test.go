package metrics

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/poll"
)

func Test_Stop_beforeStart(t *testing.T) {
	// no parallel: patching global state

	// SETUP
	patchForTest(t)

	// EXERCISE
	Stop()
}

func Test_Start_missingFilePath(t *testing.T) {
	// no parallel: patching global state

	// SETUP
	patchForTest(t)

	// EXERCISE
	err := Start(Options{
		Service:     "service1",
		WriteToFile: true,
	})

	// VERIFY
	assert.ErrorContains(t, err, "output file path")
}

func Test_Start_disabled(t *testing.T) {
	// no parallel: patching global state

	// SETUP
	patchForTest(t)

	// EXERCISE
	err := Start(Options{
		Service:     "service1",
		Instance:    "instance1",
		Enabled:     false,
		WriteToFile: true,
		OutFilePath: filepath.Join(t.TempDir(), "metrics.prom"),
	})

	// VERIFY
	assert.NilError(t, err)
	assert.Assert(t, !Enabled())
	assert.Assert(t, activeExporter == nil)

	service, instance, isSet := identity.get()
	assert.Assert(t, isSet)
	assert.Equal(t, service, "service1")
	assert.Equal(t, instance, "instance1")
}

func Test_Start_twice_startsOnlyOneExportLoop(t *testing.T) {
	// no parallel: patching global state

	// SETUP
	patchForTest(t)
	t.Cleanup(Testing{}.PatchClock(clock.NewMock()))
	t.Cleanup(Stop)

	options := Options{
		Service:            "service1",
		Instance:           "instance1",
		Enabled:            true,
		WriteToFile:        true,
		OutFilePath:        filepath.Join(t.TempDir(), "metrics.prom"),
		FileUpdateInterval: time.Hour,
		SkipFinalDump:      true,
	}
	assert.NilError(t, Start(options))
	firstExporter := activeExporter
	assert.Assert(t, firstExporter != nil)

	// EXERCISE
	assert.NilError(t, Start(options))

	// VERIFY
	assert.Assert(t, activeExporter == firstExporter)
}

func Test_Stop_writesFinalSnapshot(t *testing.T) {
	// no parallel: patching global state

	// SETUP
	patchForTest(t)
	t.Cleanup(Testing{}.PatchClock(clock.NewMock()))

	path := filepath.Join(t.TempDir(), "metrics.prom")
	assert.NilError(t, Start(Options{
		Service:            "service1",
		Instance:           "instance1",
		Enabled:            true,
		WriteToFile:        true,
		OutFilePath:        path,
		FileUpdateInterval: time.Hour,
	}))
	incTestCounter(t)

	// EXERCISE
	Stop()

	// VERIFY
	assert.Assert(t, activeExporter == nil)
	content, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Assert(t, len(content) > 0)
}

func Test_Start_endToEnd(t *testing.T) {
	// no parallel: patching global state

	// SETUP
	patchForTest(t)
	t.Cleanup(Stop)

	path := filepath.Join(t.TempDir(), "metrics.prom")

	// EXERCISE
	assert.NilError(t, Start(Options{
		Service:            "service1",
		Instance:           "instance1",
		Enabled:            true,
		WriteToFile:        true,
		OutFilePath:        path,
		FileUpdateInterval: 20 * time.Millisecond,
	}))

	requests, err := RegisterCounter(
		"requests_total", "The total count of requests by method and route.",
		"method", "route",
	)
	assert.NilError(t, err)
	requests.WithLabelValues("GET", "/x").Inc()

	// VERIFY
	expectedLine := regexp.MustCompile(
		`requests_total\{.*method="GET".*route="/x".*\} 1`)
	poll.WaitOn(t, func(poll.LogT) poll.Result {
		content, err := os.ReadFile(path)
		if err != nil {
			return poll.Continue("file %q does not exist yet", path)
		}
		if !expectedLine.Match(content) {
			return poll.Continue("file %q does not contain the sample yet", path)
		}
		return poll.Success()
	}, poll.WithTimeout(5*time.Second), poll.WithDelay(10*time.Millisecond))
}

func Test_Start_identityIsImmutable(t *testing.T) {
	// no parallel: patching global state

	// SETUP
	patchForTest(t)

	assert.NilError(t, Start(Options{Service: "service1", Instance: "instance1"}))

	// EXERCISE
	assert.NilError(t, Start(Options{Service: "service2", Instance: "instance2"}))

	// VERIFY
	service, instance, isSet := identity.get()
	assert.Assert(t, isSet)
	assert.Equal(t, service, "service1")
	assert.Equal(t, instance, "instance1")
}
