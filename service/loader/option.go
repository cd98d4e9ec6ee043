package loader

import (
	"github.com/typeflow/fontcache/sequence"
	"github.com/typeflow/fontcache/service/diagnostics"
	"github.com/typeflow/fontcache/service/store"
)

// Option customises a loader Service.
type Option func(s *Service)

// WithReporter sets the diagnostics reporter shared with the sequencers.
func WithReporter(r diagnostics.Reporter) Option {
	return func(s *Service) {
		if r != nil {
			s.reporter = r
		}
	}
}

// WithStoreVersion sets the structural version record stores are opened at.
func WithStoreVersion(version int) Option {
	return func(s *Service) {
		if version > 0 {
			s.version = version
		}
	}
}

// WithMigration sets the callback run when a record store's stored version
// is older than the configured one.
func WithMigration(m store.Migration) Option {
	return func(s *Service) { s.migrate = m }
}

// WithSequencerOptions appends options applied to every per-face sequencer.
func WithSequencerOptions(opts ...sequence.Option) Option {
	return func(s *Service) { s.seqOpts = append(s.seqOpts, opts...) }
}
