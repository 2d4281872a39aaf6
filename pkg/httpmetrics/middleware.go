package httpmetrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/servicebase/metrics/pkg/metrics"
)

// Middleware returns a handler that records request/response metrics around
// next. It is compatible with mux.Router.Use.
//
// Requests without a matched route are passed through unobserved to bound
// the cardinality of the route label. Observed requests increment Requests
// and RequestsInProgress before the downstream call; afterwards the
// processing time and the response (with its resolved status code) are
// recorded and RequestsInProgress is decremented, also when the downstream
// handler panics. Panics are counted in HandlerPanics and re-raised.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, handled := routeTemplate(r)
		if !metrics.Enabled() || !handled || routeFilter.isExcluded(route) {
			next.ServeHTTP(w, r)
			return
		}

		method := r.Method
		RequestsInProgress.Inc(method, route)
		Requests.Inc(method, route)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		panicked := true
		defer func() {
			status := recorder.status
			if panicked {
				status = http.StatusInternalServerError
				HandlerPanics.Inc(method, route)
			}
			RequestLatency.Observe(method, route, time.Since(start))
			Responses.Inc(method, route, strconv.Itoa(status))
			RequestsInProgress.Dec(method, route)
		}()

		next.ServeHTTP(recorder, r)
		panicked = false
	})
}

// routeTemplate resolves the matched route template of the request, e.g.
// "/items/{id}". The second return value is false if the request was not
// dispatched through a mux route or the route has no path template.
func routeTemplate(r *http.Request) (string, bool) {
	if route := mux.CurrentRoute(r); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			return template, true
		}
	}
	return r.URL.Path, false
}

// statusRecorder captures the status code written by the downstream handler.
// The zero status is 200, matching the implicit WriteHeader of net/http.
// Flushing is forwarded to the underlying writer; http.Hijacker is not
// implemented, so hijacking handlers (e.g. websocket upgrades) must not be
// placed behind this middleware.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
