// Package tracing integrates OpenTelemetry with the font runtime.  It is
// kept in its own package so applications that do not need tracing can
// leave it out of their wiring entirely; every helper is nil-safe and
// becomes a no-op when no provider has been installed.
package tracing
