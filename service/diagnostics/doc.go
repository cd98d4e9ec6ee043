// Package diagnostics provides best-effort anomaly reporting for the font
// runtime.  Reports never fail the operation that emitted them: until a sink
// is installed every report is silently dropped (or logged locally when the
// debug fallback is enabled), and a panicking sink is contained.  The
// package exists because internal bookkeeping inconsistencies are more
// useful as logged anomalies than as hard failures.
package diagnostics
