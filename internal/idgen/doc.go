// Package idgen wraps the UUID generator used for fallback debug labels.
// It lives under `internal` because callers must treat the produced
// identifiers as opaque strings with no stable format.
package idgen
