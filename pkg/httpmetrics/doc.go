/*

Package httpmetrics provides the ready-made HTTP request/response collectors
and the middleware populating them.

The collectors are process-wide singletons created lazily on first use, after
the identity labels have been configured via metrics.Start. The route label
of every collector carries the matched route template (e.g. "/items/{id}"),
not the raw request path, to bound label cardinality.

*/
package httpmetrics
