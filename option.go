package fontcache

import (
	"time"

	"github.com/typeflow/fontcache/service/diagnostics"
	"github.com/typeflow/fontcache/service/fetch"
	"github.com/typeflow/fontcache/service/store"
	"github.com/typeflow/fontcache/tracing"
)

// Option customises the Service façade.
type Option func(s *Service)

// WithConfig replaces the whole configuration.  Unset fields inherit the
// package defaults.
func WithConfig(c *Config) Option {
	return func(s *Service) {
		if c != nil {
			s.config = c
		}
	}
}

// WithStoreVendor selects the persistent store vendor ("memory" or "fs").
func WithStoreVendor(vendor string) Option {
	return func(s *Service) { s.config.Store.Vendor = vendor }
}

// WithBaseURL roots the fs store vendor at the given location.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) { s.config.Store.BaseURL = baseURL }
}

// WithStoreVersion sets the structural version record stores open at.
func WithStoreVersion(version int) Option {
	return func(s *Service) { s.config.Store.Version = version }
}

// WithMigration sets the callback run when a record store needs a version
// bump.
func WithMigration(m store.Migration) Option {
	return func(s *Service) { s.migration = m }
}

// WithProvider supplies a ready store provider, overriding the vendor
// selection.
func WithProvider(p store.Provider) Option {
	return func(s *Service) { s.provider = p }
}

// WithFetcher supplies a custom font fetcher.
func WithFetcher(f fetch.Fetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

// WithReporter sets the diagnostics reporter shared across the runtime.
func WithReporter(r diagnostics.Reporter) Option {
	return func(s *Service) { s.reporter = r }
}

// WithWatchdog tunes the per-sequencer pending watchdog.
func WithWatchdog(interval time.Duration, giveUpThreshold int) Option {
	return func(s *Service) {
		s.config.Watchdog.Interval = Duration(interval)
		s.config.Watchdog.GiveUpThreshold = giveUpThreshold
	}
}

// WithTracing configures OpenTelemetry tracing.  If outputFile is empty the
// stdout exporter is used.  Safe to call multiple times; the first
// successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}
