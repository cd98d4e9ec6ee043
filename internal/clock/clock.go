// Package clock wraps the time source used by watchdog bookkeeping so tests
// can freeze or advance it without real timers.
package clock

import "time"

// NowFunc returns the current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Since reports the elapsed time relative to NowFunc.
func Since(t time.Time) time.Duration { return Now().Sub(t) }
