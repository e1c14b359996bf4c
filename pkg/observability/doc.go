/*
Package observability turns search lifecycle hooks into Prometheus metrics.

The engine reports through domain.SearchHooks; this package only supplies a
set of hooks, so callers can merge them with their own logging or tracing hooks.
*/
package observability
