// Package font holds the font asset model shared across the runtime:
// requested faces, sniffed binary formats and content digests.  It performs
// no font parsing beyond header magic detection.
package font

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Format identifies a font container format by its header magic.
type Format string

const (
	FormatWOFF2      Format = "woff2"
	FormatWOFF       Format = "woff"
	FormatTrueType   Format = "truetype"
	FormatOpenType   Format = "opentype"
	FormatCollection Format = "collection"
	FormatUnknown    Format = "unknown"
)

const (
	magicWOFF2      = 0x774F4632 // "wOF2"
	magicWOFF       = 0x774F4646 // "wOFF"
	magicTrueType   = 0x00010000
	magicAppleTrue  = 0x74727565 // "true"
	magicOpenType   = 0x4F54544F // "OTTO"
	magicCollection = 0x74746366 // "ttcf"
)

// SniffFormat inspects the first four bytes of data and reports the
// container format; inputs shorter than a header are FormatUnknown.
func SniffFormat(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}
	switch binary.BigEndian.Uint32(data) {
	case magicWOFF2:
		return FormatWOFF2
	case magicWOFF:
		return FormatWOFF
	case magicTrueType, magicAppleTrue:
		return FormatTrueType
	case magicOpenType:
		return FormatOpenType
	case magicCollection:
		return FormatCollection
	}
	return FormatUnknown
}

// Digest returns the hex-encoded BLAKE2b-256 digest of data, used as
// integrity metadata for cached blobs.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Face describes one requested font face.  URL is the network location the
// binary is fetched from on a cache miss; it may be empty for faces that
// are only ever written through Store.
type Face struct {
	Family string `json:"family" yaml:"family"`
	Style  string `json:"style,omitempty" yaml:"style,omitempty"`
	Weight int    `json:"weight,omitempty" yaml:"weight,omitempty"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Key returns the record-store name for this face.  The key is stable
// across processes: lowercase family with spaces collapsed, weight and
// style appended.
func (f Face) Key() string {
	family := strings.ToLower(strings.TrimSpace(f.Family))
	family = strings.ReplaceAll(family, " ", "-")
	weight := f.Weight
	if weight == 0 {
		weight = 400
	}
	style := strings.ToLower(f.Style)
	if style == "" {
		style = "normal"
	}
	return fmt.Sprintf("%s-%d-%s", family, weight, style)
}

// Validate reports whether the face identifies a font at all.
func (f Face) Validate() error {
	if strings.TrimSpace(f.Family) == "" {
		return fmt.Errorf("font face requires a family name")
	}
	return nil
}

// Asset is a loaded font binary together with its derived metadata.
type Asset struct {
	Face   Face
	Format Format
	Digest string
	Data   []byte
}

// NewAsset derives format and digest from the raw bytes.
func NewAsset(face Face, data []byte) *Asset {
	return &Asset{
		Face:   face,
		Format: SniffFormat(data),
		Digest: Digest(data),
		Data:   data,
	}
}
