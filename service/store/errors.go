package store

import "errors"

// Sentinel errors shared by all Provider implementations.  Callers detect
// conditions via errors.Is instead of string comparison.
var (
	// ErrNotFound is returned by Get when the record store holds no blob.
	ErrNotFound = errors.New("store: not found")

	// ErrInvalidName indicates an empty or otherwise unusable store name.
	ErrInvalidName = errors.New("store: invalid name")

	// ErrStoreBlocked is returned by Delete while open handles still
	// reference the record store.
	ErrStoreBlocked = errors.New("store: delete blocked by open handle")

	// ErrVersionRegression is returned by Open when the requested version
	// is lower than the committed one.
	ErrVersionRegression = errors.New("store: requested version below stored version")

	// ErrClosed is returned by operations on a closed record-store handle.
	ErrClosed = errors.New("store: handle closed")
)
