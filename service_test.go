package fontcache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeflow/fontcache/font"
	"github.com/typeflow/fontcache/service/fetch"
)

func TestServiceRoundTripWithMemoryVendor(t *testing.T) {
	payload := []byte{'w', 'O', 'F', 'F', 0x00, 0x01}
	srv, err := New(
		WithFetcher(fetch.Func(func(context.Context, string) ([]byte, error) {
			return payload, nil
		})),
	)
	require.NoError(t, err)
	defer srv.Close()

	face := font.Face{Family: "Open Sans", URL: "https://fonts.example/opensans.woff"}
	asset, err := srv.Loader().Load(context.Background(), face)
	require.NoError(t, err)
	assert.Equal(t, font.FormatWOFF, asset.Format)
	assert.Equal(t, payload, asset.Data)
}

func TestServiceFSVendorPersistsAcrossInstances(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "fontcache-test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	face := font.Face{Family: "Roboto"}
	payload := []byte{0x00, 0x01, 0x00, 0x00, 0x42}

	first, err := New(WithStoreVendor(VendorFS), WithBaseURL(tempDir))
	require.NoError(t, err)
	_, err = first.Loader().Store(context.Background(), face, payload)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(WithStoreVendor(VendorFS), WithBaseURL(tempDir))
	require.NoError(t, err)
	defer second.Close()

	asset, err := second.Loader().Load(context.Background(), face)
	require.NoError(t, err)
	assert.Equal(t, payload, asset.Data)
	assert.Equal(t, font.FormatTrueType, asset.Format)
}

func TestServiceRejectsInvalidConfig(t *testing.T) {
	_, err := New(WithStoreVendor("redis"))
	assert.Error(t, err)

	_, err = New(WithStoreVendor(VendorFS))
	assert.Error(t, err, "fs vendor requires a base URL")
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
store:
  vendor: fs
  baseURL: /var/cache/fonts
  version: 2
watchdog:
  interval: 5s
  giveUpThreshold: 4
`)
	c, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, VendorFS, c.Store.Vendor)
	assert.Equal(t, "/var/cache/fonts", c.Store.BaseURL)
	assert.Equal(t, 2, c.Store.Version)
	assert.Equal(t, 5*time.Second, c.Watchdog.Interval.Std())
	assert.Equal(t, 4, c.Watchdog.GiveUpThreshold)
	// Unset sections inherit defaults.
	assert.Equal(t, DefaultConfig().Fetch.Timeout, c.Fetch.Timeout)
}

func TestParseYAMLRejectsUnknownVendor(t *testing.T) {
	_, err := ParseYAML([]byte("store:\n  vendor: redis\n"))
	assert.Error(t, err)
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}
