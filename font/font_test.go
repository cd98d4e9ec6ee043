package font

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffFormat(t *testing.T) {
	cases := []struct {
		name   string
		data   []byte
		expect Format
	}{
		{"woff2", []byte{'w', 'O', 'F', '2', 0x00}, FormatWOFF2},
		{"woff", []byte{'w', 'O', 'F', 'F', 0x00}, FormatWOFF},
		{"truetype", []byte{0x00, 0x01, 0x00, 0x00, 0x00}, FormatTrueType},
		{"apple truetype", []byte{'t', 'r', 'u', 'e', 0x00}, FormatTrueType},
		{"opentype", []byte{'O', 'T', 'T', 'O', 0x00}, FormatOpenType},
		{"collection", []byte{'t', 't', 'c', 'f', 0x00}, FormatCollection},
		{"garbage", []byte{0xDE, 0xAD, 0xBE, 0xEF}, FormatUnknown},
		{"short", []byte{'w', 'O'}, FormatUnknown},
		{"empty", nil, FormatUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, SniffFormat(tc.data))
		})
	}
}

func TestDigestIsStable(t *testing.T) {
	a := Digest([]byte("glyph data"))
	b := Digest([]byte("glyph data"))
	c := Digest([]byte("other data"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64, "hex-encoded 256-bit digest")
}

func TestFaceKey(t *testing.T) {
	assert.Equal(t, "open-sans-400-normal", Face{Family: "Open Sans"}.Key())
	assert.Equal(t, "roboto-700-italic", Face{Family: "Roboto", Weight: 700, Style: "Italic"}.Key())
	assert.Equal(t, "lato-400-normal", Face{Family: "  Lato  "}.Key())
}

func TestFaceValidate(t *testing.T) {
	assert.Error(t, Face{}.Validate())
	assert.Error(t, Face{Family: "   "}.Validate())
	assert.NoError(t, Face{Family: "Inter"}.Validate())
}

func TestNewAssetDerivesMetadata(t *testing.T) {
	data := []byte{'w', 'O', 'F', '2', 0x01, 0x02}
	asset := NewAsset(Face{Family: "Inter"}, data)

	assert.Equal(t, FormatWOFF2, asset.Format)
	assert.Equal(t, Digest(data), asset.Digest)
	assert.Equal(t, data, asset.Data)
}
