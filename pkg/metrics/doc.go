/*

Package metrics provides the metrics support shared among web services built
with this module:

-   the metrics registry
-   the identity labels attached to every collector
-   registration of labelled counters, gauges and histograms
-   timing of method calls
-   exporting metrics via HTTP and periodically into a file

It does NOT include the HTTP request/response collectors, which live in
package httpmetrics.


Global State

The API of this package makes use of global state to get access to instances so
that keeping and passing references is not necessary. For non-test use cases
this perfectly fits to the global nature of metric support.

For testing it may be required to let SUTs use test doubles instead of the
original global instances of this package. This can be achieved by patching the
global state of this package during test setup and reverting the patch at test
teardown. Be aware that tests patching global state must not run concurrently to
other tests to avoid interference. See the Testing type for test support.

*/
package metrics
