package httpmetrics

import "github.com/go-logr/logr"

// Testing provides utility functions for testing with this package.
// Do not use it for non-testing purposes!
type Testing struct{}

// PatchLogger replaces the package logger with a replacement and returns a
// function that reverts the patch.
func (Testing) PatchLogger(replacement logr.Logger) func() {
	origValue := logger
	logger = replacement
	return func() {
		logger = origValue
	}
}

// Reset discards the lazily created collector singletons and the route
// filter so that subsequent use re-registers them. Combine with
// metrics.Testing{}.PatchRegistry to isolate registry state per test.
func (Testing) Reset() {
	Requests.(*requestsTotal).reset()
	Responses.(*responsesTotal).reset()
	RequestLatency.(*requestLatency).reset()
	RequestsInProgress.(*requestsInProgress).reset()
	HandlerPanics.(*handlerPanics).reset()
	SetRouteFilter(nil, nil)
}
