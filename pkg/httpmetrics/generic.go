package httpmetrics

import "time"

// RequestsMetric counts HTTP requests by method and route.
type RequestsMetric interface {
	Inc(method, route string)
}

// ResponsesMetric counts HTTP responses by method, route and status code.
type ResponsesMetric interface {
	Inc(method, route, statusCode string)
}

// LatencyMetric observes HTTP request processing durations.
type LatencyMetric interface {
	Observe(method, route string, duration time.Duration)
}

// InProgressMetric tracks the number of HTTP requests currently being
// processed.
type InProgressMetric interface {
	Inc(method, route string)
	Dec(method, route string)
}
