package fs

import (
	"context"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"github.com/typeflow/fontcache/service/store"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "fontstore-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(tempDir) })

	provider, err := New(afs.New(), tempDir)
	require.NoError(t, err)
	return provider
}

func TestRoundTrip(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	rs, err := provider.Open(ctx, "opensans-400", 1, nil)
	require.NoError(t, err)
	defer rs.Close()

	_, err = rs.Get(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	payload := []byte{0x00, 0x01, 0x00, 0x00, 0xCA, 0xFE}
	require.NoError(t, rs.Put(ctx, payload))

	got, err := rs.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestManifestPersistsVersion(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	rs, err := provider.Open(ctx, "merriweather-900", 2, nil)
	require.NoError(t, err)
	require.NoError(t, rs.Close())

	manifestPath := path.Join(provider.storePath("merriweather-900"), manifestFile)
	exists, err := provider.fs.Exists(ctx, manifestPath)
	require.NoError(t, err)
	assert.True(t, exists)

	reopened, err := provider.Open(ctx, "merriweather-900", 2, nil)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 2, reopened.Version())
}

func TestVersionBumpRunsMigration(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	rs, err := provider.Open(ctx, "sourcesans-600", 1, nil)
	require.NoError(t, err)
	require.NoError(t, rs.Put(ctx, []byte("stale")))
	require.NoError(t, rs.Close())

	calls := 0
	migrated, err := provider.Open(ctx, "sourcesans-600", 2, func(ctx context.Context, rs store.RecordStore, from, to int) error {
		calls++
		assert.Equal(t, 1, from)
		assert.Equal(t, 2, to)
		return rs.Clear(ctx)
	})
	require.NoError(t, err)
	defer migrated.Close()

	assert.Equal(t, 1, calls)
	_, err = migrated.Get(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Re-opening at the same version must not migrate again.
	again, err := provider.Open(ctx, "sourcesans-600", 2, func(context.Context, store.RecordStore, int, int) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	defer again.Close()
	assert.Equal(t, 1, calls)
}

func TestDeleteRemovesStore(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	rs, err := provider.Open(ctx, "firacode-500", 1, nil)
	require.NoError(t, err)
	require.NoError(t, rs.Put(ctx, []byte("blob")))

	assert.ErrorIs(t, provider.Delete(ctx, "firacode-500"), store.ErrStoreBlocked)
	require.NoError(t, rs.Close())
	require.NoError(t, provider.Delete(ctx, "firacode-500"))

	exists, _ := provider.fs.Exists(ctx, provider.storePath("firacode-500"))
	assert.False(t, exists)
	assert.NoError(t, provider.Delete(ctx, "firacode-500"), "delete of a missing store is a no-op")
}

func TestInvalidNames(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	_, err := provider.Open(ctx, "", 1, nil)
	assert.ErrorIs(t, err, store.ErrInvalidName)

	_, err = provider.Open(ctx, "../escape", 1, nil)
	assert.ErrorIs(t, err, store.ErrInvalidName)
}
