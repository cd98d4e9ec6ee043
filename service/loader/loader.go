// Package loader implements the cache-through font-loading logic on top of
// the sequenced store boundary.  Every store access acquires a chained unit
// from the sequencer guarding that record store and waits its turn before
// touching the store, because the store itself guarantees no ordering
// across independently issued operations.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/typeflow/fontcache/font"
	"github.com/typeflow/fontcache/sequence"
	"github.com/typeflow/fontcache/service/diagnostics"
	"github.com/typeflow/fontcache/service/fetch"
	"github.com/typeflow/fontcache/service/store"
	"github.com/typeflow/fontcache/tracing"
)

// ErrClosed is returned by operations on a closed loader.
var ErrClosed = errors.New("loader: closed")

// resource pairs one record store with the sequencer that serializes
// access to it.  One resource per font face; sharing a sequencer across
// faces would serialize unrelated work.
type resource struct {
	seq *sequence.Sequencer
	rs  store.RecordStore
}

// Service loads, stores and evicts font binaries.
type Service struct {
	provider store.Provider
	fetcher  fetch.Fetcher
	reporter diagnostics.Reporter
	version  int
	migrate  store.Migration
	seqOpts  []sequence.Option

	mu        sync.Mutex
	resources map[string]*resource
	closed    bool

	flight singleflight.Group
}

// New creates a loader over the given provider and fetcher.
func New(provider store.Provider, fetcher fetch.Fetcher, opts ...Option) *Service {
	s := &Service{
		provider:  provider,
		fetcher:   fetcher,
		reporter:  diagnostics.Default(),
		version:   1,
		resources: make(map[string]*resource),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the font asset for face, reading it from the record store or
// fetching and writing it through on a miss.  Concurrent loads of the same
// face are coalesced into a single store round-trip.
func (s *Service) Load(ctx context.Context, face font.Face) (*font.Asset, error) {
	if err := face.Validate(); err != nil {
		return nil, err
	}
	key := face.Key()
	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		return s.load(ctx, face, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*font.Asset), nil
}

func (s *Service) load(ctx context.Context, face font.Face, key string) (asset *font.Asset, err error) {
	ctx, span := tracing.StartSpan(ctx, "cache.load")
	span.WithAttributes(map[string]string{"face": key})
	defer func() { tracing.EndSpan(span, err) }()

	res, err := s.resource(ctx, key)
	if err != nil {
		return nil, err
	}
	unit := res.seq.Chained("load:" + key)
	if err = s.waitTurn(ctx, unit); err != nil {
		return nil, err
	}

	data, err := res.rs.Get(ctx)
	if err == nil {
		asset = font.NewAsset(face, data)
		unit.Resolve(asset)
		return asset, nil
	}
	if !errors.Is(err, store.ErrNotFound) || face.URL == "" {
		if !errors.Is(err, store.ErrNotFound) {
			s.reporter.Report(diagnostics.CodeStoreFailure, key, err.Error())
		}
		unit.Reject(err)
		return nil, err
	}

	// Cache miss: fetch and write through before releasing the next unit,
	// so later readers observe the stored blob.
	data, err = s.fetcher.Fetch(ctx, face.URL)
	if err != nil {
		unit.Reject(err)
		return nil, err
	}
	if err = res.rs.Put(ctx, data); err != nil {
		s.reporter.Report(diagnostics.CodeStoreFailure, key, err.Error())
		unit.Reject(err)
		return nil, err
	}
	asset = font.NewAsset(face, data)
	unit.Resolve(asset)
	return asset, nil
}

// Store writes data as the cached binary for face, replacing any previous
// blob, and returns the derived asset.
func (s *Service) Store(ctx context.Context, face font.Face, data []byte) (asset *font.Asset, err error) {
	if err = face.Validate(); err != nil {
		return nil, err
	}
	key := face.Key()

	ctx, span := tracing.StartSpan(ctx, "cache.store")
	span.WithAttributes(map[string]string{"face": key})
	defer func() { tracing.EndSpan(span, err) }()

	res, err := s.resource(ctx, key)
	if err != nil {
		return nil, err
	}
	unit := res.seq.Chained("store:" + key)
	if err = s.waitTurn(ctx, unit); err != nil {
		return nil, err
	}

	if err = res.rs.Put(ctx, data); err != nil {
		s.reporter.Report(diagnostics.CodeStoreFailure, key, err.Error())
		unit.Reject(err)
		return nil, err
	}
	asset = font.NewAsset(face, data)
	unit.Resolve(asset)
	return asset, nil
}

// Evict removes the cached binary and the record store for face.  The
// eviction takes its turn in the face's chain, then retires the sequencer.
func (s *Service) Evict(ctx context.Context, face font.Face) (err error) {
	if err = face.Validate(); err != nil {
		return err
	}
	key := face.Key()

	ctx, span := tracing.StartSpan(ctx, "cache.evict")
	span.WithAttributes(map[string]string{"face": key})
	defer func() { tracing.EndSpan(span, err) }()

	s.mu.Lock()
	res := s.resources[key]
	delete(s.resources, key)
	s.mu.Unlock()

	if res == nil {
		return s.provider.Delete(ctx, key)
	}

	unit := res.seq.Chained("evict:" + key)
	if err = s.waitTurn(ctx, unit); err != nil {
		// The resource is already unlinked; release it before bailing out.
		_ = res.rs.Close()
		res.seq.Close()
		return err
	}
	_ = res.rs.Close()
	if err = s.provider.Delete(ctx, key); err != nil {
		s.reporter.Report(diagnostics.CodeStoreFailure, key, err.Error())
		unit.Reject(err)
		res.seq.Close()
		return err
	}
	unit.Resolve(nil)
	res.seq.Close()
	return nil
}

// Stats returns per-face sequencer snapshots, keyed by record-store name.
func (s *Service) Stats() map[string]sequence.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]sequence.Stats, len(s.resources))
	for key, res := range s.resources {
		out[key] = res.seq.Stats()
	}
	return out
}

// Close tears down all sequencer watchdogs and record-store handles.  It
// does not settle in-flight units.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for _, res := range s.resources {
		res.seq.Close()
		_ = res.rs.Close()
	}
	s.resources = make(map[string]*resource)
	return nil
}

// waitTurn blocks on the unit's ordering barrier.  A predecessor's failure
// releases the barrier without failing this operation — failures do not
// propagate sideways.  Only the caller's own cancellation aborts, in which
// case the unit is settled so the chain keeps moving.
func (s *Service) waitTurn(ctx context.Context, unit *sequence.Deferred) error {
	_, err := unit.Preceding().Wait(ctx)
	if err != nil && ctx.Err() != nil {
		unit.Reject(ctx.Err())
		return ctx.Err()
	}
	return nil
}

// resource returns the sequencer/store pair for key, opening the record
// store and starting its sequencer on first use.
func (s *Service) resource(ctx context.Context, key string) (*resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if res, ok := s.resources[key]; ok {
		return res, nil
	}
	rs, err := s.provider.Open(ctx, key, s.version, s.migrate)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store %s: %w", key, err)
	}
	seqOpts := append([]sequence.Option{sequence.WithReporter(s.reporter)}, s.seqOpts...)
	res := &resource{
		seq: sequence.New(key, seqOpts...),
		rs:  rs,
	}
	s.resources[key] = res
	return res, nil
}
