// Package tracing wraps OpenTelemetry so that dispatcher and worker code can
// open spans without importing the upstream packages directly. Until Init (or
// InitWithExporter) installs a provider all spans are no-op.
package tracing
