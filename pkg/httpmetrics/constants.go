package httpmetrics

const (
	// MethodLabel carries the HTTP request method.
	MethodLabel = "method"

	// RouteLabel carries the matched route template.
	RouteLabel = "route"

	// StatusCodeLabel carries the HTTP response status code.
	StatusCodeLabel = "status_code"
)
