// Package store defines the persistent blob-store boundary used by the font
// runtime.  A Provider manages named, versioned record stores; each record
// store holds a single font blob under a fixed record key.
//
// Every operation is asynchronous-friendly and individually atomic, but a
// Provider gives no ordering guarantee across separately issued operations.
// Callers must serialize access through a sequence.Sequencer dedicated to
// the record store they touch.
package store

import "context"

// FixedKey is the single record key under which a record store keeps its
// blob.  It exists because each store holds exactly one font binary; the
// store name, not the key, identifies the font.
const FixedKey = "blob"

// Migration is invoked by Open when the stored version is older than the
// requested one.  The callback may reshape or drop the store's contents
// (via Clear) before the new version is committed.  Returning an error
// aborts the open.
type Migration func(ctx context.Context, rs RecordStore, fromVersion, toVersion int) error

// Provider opens and deletes named record stores.
type Provider interface {
	// Open opens or creates the named record store at the requested version.
	// A stored version lower than the requested one triggers migrate (which
	// may be nil to accept the bump as-is); a stored version higher than the
	// requested one fails with ErrVersionRegression.
	Open(ctx context.Context, name string, version int, migrate Migration) (RecordStore, error)

	// Delete removes the named record store and its contents.  Providers
	// that track open handles fail with ErrStoreBlocked while any remain.
	Delete(ctx context.Context, name string) error
}

// RecordStore is an open handle onto one named record store.
type RecordStore interface {
	// Name returns the record store name.
	Name() string

	// Version returns the committed structural version.
	Version() int

	// Put stores data under the fixed record key, replacing any previous
	// blob.
	Put(ctx context.Context, data []byte) error

	// Get returns the blob stored under the fixed record key, or
	// ErrNotFound when the store holds none.
	Get(ctx context.Context) ([]byte, error)

	// Clear removes the stored blob without deleting the record store.
	// Primarily used by migration callbacks that drop and repopulate.
	Clear(ctx context.Context) error

	// Close releases the handle.  Closing is idempotent.
	Close() error
}
