package sequence

import (
	"time"

	"github.com/typeflow/fontcache/service/diagnostics"
)

// Option customises a Sequencer.
type Option func(s *Sequencer)

// WithReporter sets the diagnostics reporter used for anomaly reports.
func WithReporter(r diagnostics.Reporter) Option {
	return func(s *Sequencer) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithWatchdogInterval sets the watchdog sampling interval.
func WithWatchdogInterval(interval time.Duration) Option {
	return func(s *Sequencer) { s.interval = interval }
}

// WithGiveUpThreshold sets how many consecutive non-idle samples the
// watchdog tolerates before reporting once and stopping.
func WithGiveUpThreshold(threshold int) Option {
	return func(s *Sequencer) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithoutWatchdog disables the watchdog goroutine.  The tick logic stays
// reachable for tests driving it directly.
func WithoutWatchdog() Option {
	return func(s *Sequencer) { s.interval = 0 }
}
