package fontcache

import (
	"fmt"

	"github.com/viant/afs"

	"github.com/typeflow/fontcache/sequence"
	"github.com/typeflow/fontcache/service/diagnostics"
	"github.com/typeflow/fontcache/service/fetch"
	"github.com/typeflow/fontcache/service/loader"
	"github.com/typeflow/fontcache/service/store"
	storefs "github.com/typeflow/fontcache/service/store/fs"
	storememory "github.com/typeflow/fontcache/service/store/memory"
)

// Service is the font runtime façade.  It wires the persistent store
// provider, the network fetcher and the sequenced loader together according
// to the configuration and selected options.
type Service struct {
	config    *Config
	provider  store.Provider
	fetcher   fetch.Fetcher
	reporter  diagnostics.Reporter
	migration store.Migration
	loader    *loader.Service
}

// New creates a Service.  Options are applied over DefaultConfig; missing
// collaborators are constructed from the configuration.
func New(options ...Option) (*Service, error) {
	s := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(s)
	}
	s.config.normalize()
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureBaseSetup(); err != nil {
		return nil, err
	}

	seqOpts := []sequence.Option{
		sequence.WithWatchdogInterval(s.config.Watchdog.Interval.Std()),
		sequence.WithGiveUpThreshold(s.config.Watchdog.GiveUpThreshold),
	}
	s.loader = loader.New(s.provider, s.fetcher,
		loader.WithReporter(s.reporter),
		loader.WithStoreVersion(s.config.Store.Version),
		loader.WithMigration(s.migration),
		loader.WithSequencerOptions(seqOpts...))
	return s, nil
}

func (s *Service) ensureBaseSetup() error {
	if s.reporter == nil {
		s.reporter = diagnostics.Default()
	}
	if s.fetcher == nil {
		s.fetcher = fetch.NewHTTP(s.config.Fetch.Timeout.Std())
	}
	if s.provider == nil {
		switch s.config.Store.Vendor {
		case VendorMemory:
			s.provider = storememory.New()
		case VendorFS:
			provider, err := storefs.New(afs.New(), s.config.Store.BaseURL)
			if err != nil {
				return fmt.Errorf("failed to initialise fs store: %w", err)
			}
			s.provider = provider
		default:
			return fmt.Errorf("unsupported store vendor: %s", s.config.Store.Vendor)
		}
	}
	return nil
}

// Loader returns the font loading service.
func (s *Service) Loader() *loader.Service { return s.loader }

// Provider returns the persistent store provider.
func (s *Service) Provider() store.Provider { return s.provider }

// Config returns the effective configuration.
func (s *Service) Config() *Config { return s.config }

// Close tears down the loader, its sequencer watchdogs and store handles.
func (s *Service) Close() error {
	if s.loader != nil {
		return s.loader.Close()
	}
	return nil
}
