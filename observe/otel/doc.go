// Package otel is the OpenTelemetry observer slot. The real implementation
// emits span events for scope creation, cancellation, joins, and task
// outcomes; only the no-op form ships here so the core stays free of the
// SDK dependency.
package otel
