// Package memory provides an in-memory store.Provider; useful for unit
// tests and single-process deployments.
package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/typeflow/fontcache/service/store"
)

type record struct {
	version int
	data    []byte
	hasData bool
}

// Provider keeps record stores in a mutex-guarded map.
type Provider struct {
	mu      sync.RWMutex
	records map[string]*record
	open    map[string]int
}

// New creates an empty in-memory provider.
func New() *Provider {
	return &Provider{
		records: make(map[string]*record),
		open:    make(map[string]int),
	}
}

// Open opens or creates the named record store at the requested version.
func (p *Provider) Open(ctx context.Context, name string, version int, migrate store.Migration) (store.RecordStore, error) {
	if name == "" {
		return nil, store.ErrInvalidName
	}
	p.mu.Lock()
	rec, ok := p.records[name]
	if !ok {
		rec = &record{version: version}
		p.records[name] = rec
	}
	from := rec.version
	p.mu.Unlock()

	if from > version {
		return nil, store.ErrVersionRegression
	}

	handle := &recordStore{provider: p, name: name}
	if from < version {
		if migrate != nil {
			if err := migrate(ctx, handle, from, version); err != nil {
				return nil, err
			}
		}
		p.mu.Lock()
		rec.version = version
		p.mu.Unlock()
	}

	p.mu.Lock()
	p.open[name]++
	p.mu.Unlock()
	return handle, nil
}

// Delete removes the named record store; blocked while handles are open.
func (p *Provider) Delete(_ context.Context, name string) error {
	if name == "" {
		return store.ErrInvalidName
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open[name] > 0 {
		return store.ErrStoreBlocked
	}
	delete(p.records, name)
	delete(p.open, name)
	return nil
}

type recordStore struct {
	provider *Provider
	name     string
	closed   atomic.Bool
}

func (r *recordStore) Name() string { return r.name }

func (r *recordStore) Version() int {
	r.provider.mu.RLock()
	defer r.provider.mu.RUnlock()
	if rec, ok := r.provider.records[r.name]; ok {
		return rec.version
	}
	return 0
}

func (r *recordStore) Put(_ context.Context, data []byte) error {
	if r.closed.Load() {
		return store.ErrClosed
	}
	r.provider.mu.Lock()
	defer r.provider.mu.Unlock()
	rec, ok := r.provider.records[r.name]
	if !ok {
		return store.ErrNotFound
	}
	rec.data = append([]byte(nil), data...)
	rec.hasData = true
	return nil
}

func (r *recordStore) Get(_ context.Context) ([]byte, error) {
	if r.closed.Load() {
		return nil, store.ErrClosed
	}
	r.provider.mu.RLock()
	defer r.provider.mu.RUnlock()
	rec, ok := r.provider.records[r.name]
	if !ok || !rec.hasData {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), rec.data...), nil
}

func (r *recordStore) Clear(_ context.Context) error {
	if r.closed.Load() {
		return store.ErrClosed
	}
	r.provider.mu.Lock()
	defer r.provider.mu.Unlock()
	if rec, ok := r.provider.records[r.name]; ok {
		rec.data = nil
		rec.hasData = false
	}
	return nil
}

func (r *recordStore) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	r.provider.mu.Lock()
	defer r.provider.mu.Unlock()
	if r.provider.open[r.name] > 0 {
		r.provider.open[r.name]--
	}
	return nil
}

// Ensure interface compliance.
var _ store.Provider = (*Provider)(nil)
var _ store.RecordStore = (*recordStore)(nil)
