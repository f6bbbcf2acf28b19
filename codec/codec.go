/*
Package codec converts raster images into the canonical format embedded by
img2go.

A Codec decodes PNG, GIF, JPEG, BMP, TIFF and WebP sources, optionally
replaces any transparency with a single mask colour and reduces the palette,
and then re-encodes the result in the requested Format. Sources that are
already in the target format and need no further processing are copied
verbatim.
*/
package codec

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

var errUnknownFormat = errors.New("codec: unknown image format")

// Format describes a canonical output format.
type Format struct {
	// Name is a short human readable name
	Name string
	// Ext is the filename extension, including the leading dot
	Ext string
	// Colors, if non-zero, limits the output to a palette of at most this
	// many colors
	Colors int

	encode func(io.Writer, image.Image) error
}

// Paletted returns a copy of f that reduces images to at most n colors.
func (f Format) Paletted(n int) Format {
	f.Colors = n
	return f
}

// PNG is the default canonical format.
var PNG = Format{
	Name:   "png",
	Ext:    ".png",
	encode: png.Encode,
}

type decoder struct {
	name   string
	magic  string
	decode func(io.Reader) (image.Image, error)
}

// Codec converts images. It holds no mutable state once created so a single
// Codec may be shared between goroutines.
type Codec struct {
	decoders []decoder
}

// New returns a Codec ready for use. It should be created once and reused for
// every conversion.
func New() *Codec {
	return &Codec{
		decoders: []decoder{
			{"png", "\x89PNG\r\n\x1a\n", png.Decode},
			{"gif", "GIF87a", gif.Decode},
			{"gif", "GIF89a", gif.Decode},
			{"jpeg", "\xff\xd8", jpeg.Decode},
			{"bmp", "BM????\x00\x00\x00\x00", bmp.Decode},
			{"tiff", "II\x2a\x00", tiff.Decode},
			{"tiff", "MM\x00\x2a", tiff.Decode},
			{"webp", "RIFF????WEBPVP8", webp.Decode},
		},
	}
}

// match reports whether magic matches b. Any "?" byte in magic matches any
// byte in b.
func match(magic string, b []byte) bool {
	if len(magic) > len(b) {
		return false
	}
	for i, c := range []byte(magic) {
		if c != '?' && c != b[i] {
			return false
		}
	}
	return true
}

func (c *Codec) decode(b []byte) (image.Image, string, error) {
	for _, d := range c.decoders {
		if match(d.magic, b) {
			m, err := d.decode(bytes.NewReader(b))
			return m, d.name, err
		}
	}
	return nil, "", errUnknownFormat
}
