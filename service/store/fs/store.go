// Package fs provides a filesystem-backed store.Provider built on the
// viant/afs abstraction, so the same code serves file://, mem:// and cloud
// URLs.  Each record store occupies one directory holding a version
// manifest and the blob file.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/typeflow/fontcache/service/store"
)

const (
	manifestFile = "manifest.json"
	blobFile     = store.FixedKey + ".bin"
)

// manifest is the persisted structural metadata of one record store.
type manifest struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// Provider stores record stores under a base path.
type Provider struct {
	fs       afs.Service
	basePath string
	mu       sync.Mutex
	open     map[string]int
}

// New creates a filesystem provider rooted at basePath.
func New(fileService afs.Service, basePath string) (*Provider, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if fileService == nil {
		fileService = afs.New()
	}
	p := &Provider{fs: fileService, basePath: basePath, open: make(map[string]int)}
	ctx := context.Background()
	if exists, _ := p.fs.Exists(ctx, basePath); !exists {
		if err := p.fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory %s: %w", basePath, err)
		}
	}
	return p, nil
}

// Open opens or creates the named record store at the requested version.
func (p *Provider) Open(ctx context.Context, name string, version int, migrate store.Migration) (store.RecordStore, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	storeDir := p.storePath(name)
	if exists, _ := p.fs.Exists(ctx, storeDir); !exists {
		if err := p.fs.Create(ctx, storeDir, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create record store %s: %w", name, err)
		}
	}

	m, err := p.readManifest(ctx, name)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = &manifest{Name: name, Version: version}
		if err := p.writeManifest(ctx, m); err != nil {
			return nil, err
		}
	}
	if m.Version > version {
		return nil, store.ErrVersionRegression
	}

	handle := &recordStore{provider: p, name: name, version: version}
	if m.Version < version {
		if migrate != nil {
			if err := migrate(ctx, handle, m.Version, version); err != nil {
				return nil, err
			}
		}
		m.Version = version
		if err := p.writeManifest(ctx, m); err != nil {
			return nil, err
		}
	}

	p.mu.Lock()
	p.open[name]++
	p.mu.Unlock()
	return handle, nil
}

// Delete removes the named record store directory; blocked while handles
// remain open.
func (p *Provider) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	p.mu.Lock()
	if p.open[name] > 0 {
		p.mu.Unlock()
		return store.ErrStoreBlocked
	}
	delete(p.open, name)
	p.mu.Unlock()

	storeDir := p.storePath(name)
	if exists, _ := p.fs.Exists(ctx, storeDir); !exists {
		return nil
	}
	if err := p.fs.Delete(ctx, storeDir); err != nil {
		return fmt.Errorf("failed to delete record store %s: %w", name, err)
	}
	return nil
}

func (p *Provider) storePath(name string) string {
	return path.Join(p.basePath, name)
}

func (p *Provider) readManifest(ctx context.Context, name string) (*manifest, error) {
	manifestPath := path.Join(p.storePath(name), manifestFile)
	exists, err := p.fs.Exists(ctx, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check manifest for %s: %w", name, err)
	}
	if !exists {
		return nil, nil
	}
	data, err := p.fs.DownloadWithURL(ctx, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest for %s: %w", name, err)
	}
	m := &manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest for %s: %w", name, err)
	}
	return m, nil
}

func (p *Provider) writeManifest(ctx context.Context, m *manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest for %s: %w", m.Name, err)
	}
	manifestPath := path.Join(p.storePath(m.Name), manifestFile)
	if err := p.fs.Upload(ctx, manifestPath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write manifest for %s: %w", m.Name, err)
	}
	return nil
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return store.ErrInvalidName
	}
	return nil
}

type recordStore struct {
	provider *Provider
	name     string
	version  int
	closed   atomic.Bool
}

func (r *recordStore) Name() string { return r.name }

func (r *recordStore) Version() int { return r.version }

func (r *recordStore) blobPath() string {
	return path.Join(r.provider.storePath(r.name), blobFile)
}

func (r *recordStore) Put(ctx context.Context, data []byte) error {
	if r.closed.Load() {
		return store.ErrClosed
	}
	if err := r.provider.fs.Upload(ctx, r.blobPath(), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write blob for %s: %w", r.name, err)
	}
	return nil
}

func (r *recordStore) Get(ctx context.Context) ([]byte, error) {
	if r.closed.Load() {
		return nil, store.ErrClosed
	}
	blobPath := r.blobPath()
	exists, err := r.provider.fs.Exists(ctx, blobPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check blob for %s: %w", r.name, err)
	}
	if !exists {
		return nil, store.ErrNotFound
	}
	data, err := r.provider.fs.DownloadWithURL(ctx, blobPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob for %s: %w", r.name, err)
	}
	return data, nil
}

func (r *recordStore) Clear(ctx context.Context) error {
	if r.closed.Load() {
		return store.ErrClosed
	}
	blobPath := r.blobPath()
	if exists, _ := r.provider.fs.Exists(ctx, blobPath); !exists {
		return nil
	}
	if err := r.provider.fs.Delete(ctx, blobPath); err != nil {
		return fmt.Errorf("failed to clear blob for %s: %w", r.name, err)
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
