package sequence

import (
	"sync"
	"time"

	"github.com/typeflow/fontcache/internal/clock"
	"github.com/typeflow/fontcache/internal/idgen"
	"github.com/typeflow/fontcache/service/diagnostics"
)

const (
	// DefaultWatchdogInterval is how often the watchdog samples the pending
	// counter.
	DefaultWatchdogInterval = 10 * time.Second

	// DefaultGiveUpThreshold is the number of consecutive non-idle samples
	// after which the watchdog reports once and stops.  The give-up is a
	// fail-safe against a runaway timer, not a correctness mechanism.
	DefaultGiveUpThreshold = 10
)

// Sequencer owns a FIFO queue of Deferred units guarding one shared
// asynchronous resource.  Each issued unit is linked after the current tail,
// so callers that honour the Preceding contract execute their protected
// work in strict issuance order.
//
// The queue starts with a sentinel unit, pre-settled successfully, whose
// handle anchors the first real unit's dependency.  Retirement never drains
// the queue below one entry, so there is always a tail to link after.
type Sequencer struct {
	label    string
	reporter diagnostics.Reporter

	mu         sync.Mutex
	queue      []*Deferred
	issued     int64
	pending    int64
	missStreak int
	gaveUp     bool
	startedAt  time.Time

	interval  time.Duration
	threshold int
	stop      chan struct{}
	stopOnce  sync.Once
}

// Stats is a point-in-time snapshot of the sequencer counters.
type Stats struct {
	Label      string
	Issued     int64
	Pending    int64
	QueueLen   int
	MissStreak int
}

// New creates a Sequencer for one logical resource.  The watchdog goroutine
// starts immediately unless disabled via WithoutWatchdog.
func New(label string, opts ...Option) *Sequencer {
	s := &Sequencer{
		label:     label,
		reporter:  diagnostics.Default(),
		interval:  DefaultWatchdogInterval,
		threshold: DefaultGiveUpThreshold,
		startedAt: clock.Now(),
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	sentinel := &Deferred{
		label:    label + ".sentinel",
		handle:   newSettledHandle(nil),
		reporter: s.reporter,
	}
	s.queue = append(s.queue, sentinel)
	if s.interval > 0 {
		go s.watch()
	}
	return s
}

// Chained issues a new unit ordered after the current tail and appends it
// as the new tail.  The caller must wait on the unit's Preceding handle
// before touching the guarded resource, and must eventually settle the unit
// or the pending counter leaks (the watchdog will report it, nothing will
// unblock it).
func (s *Sequencer) Chained(label string) *Deferred {
	if label == "" {
		label = idgen.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.pending++
	tail := s.queue[len(s.queue)-1]
	d := &Deferred{
		label:     label,
		handle:    newHandle(),
		preceding: tail.handle,
		owner:     s,
		reporter:  s.reporter,
	}
	s.queue = append(s.queue, d)
	return d
}

// retire runs the settle-side bookkeeping: pop the oldest retained unit and
// decrement the pending counter.  Retirement only happens while a non-
// sentinel entry is queued; settling against a queue already down to the
// sentinel is reported as an anomaly and otherwise ignored — failing the
// caller over internal bookkeeping would be worse than a logged mismatch.
func (s *Sequencer) retire(d *Deferred) {
	s.mu.Lock()
	if len(s.queue) <= 1 {
		issued := s.issued
		s.mu.Unlock()
		s.reporter.Report(diagnostics.CodeShortQueue, s.label, map[string]interface{}{
			"unit":   d.label,
			"issued": issued,
		})
		return
	}
	s.queue[0] = nil // release the retired slot
	s.queue = s.queue[1:]
	s.pending--
	s.mu.Unlock()
}

// Stats returns a snapshot of the sequencer counters.
func (s *Sequencer) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Label:      s.label,
		Issued:     s.issued,
		Pending:    s.pending,
		QueueLen:   len(s.queue),
		MissStreak: s.missStreak,
	}
}

// Close stops the watchdog goroutine.  It does not settle pending units and
// does not unblock their callers; the sequencer itself has no terminal
// state beyond this teardown.
func (s *Sequencer) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Sequencer) watch() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if !s.tick() {
				return
			}
		}
	}
}

// tick performs one watchdog observation and reports whether the watchdog
// should keep running.  It is a plain method so tests can drive it without
// real timers.
func (s *Sequencer) tick() bool {
	s.mu.Lock()
	if s.gaveUp {
		s.mu.Unlock()
		return false
	}
	if s.pending == 0 {
		s.missStreak = 0
		s.mu.Unlock()
		return true
	}
	s.missStreak++
	streak := s.missStreak
	pending := s.pending
	if streak >= s.threshold {
		s.gaveUp = true
	}
	gaveUp := s.gaveUp
	s.mu.Unlock()

	if gaveUp {
		// One-time error diagnostic: a unit was issued but never settled.
		s.reporter.Report(diagnostics.CodeLingering, s.label, map[string]interface{}{
			"pending": pending,
			"streak":  streak,
			"uptime":  clock.Since(s.startedAt).String(),
		})
		return false
	}
	s.reporter.Report(diagnostics.CodePendingTick, s.label, map[string]interface{}{
		"pending": pending,
		"streak":  streak,
	})
	return true
}
