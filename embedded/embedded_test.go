package embedded

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/bodgit/img2go/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, m image.Image) ([]byte, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, m))
	return buf.Bytes(), "\n" + strings.Join(payload.Encode(buf.Bytes()), "\n")
}

func testImage() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	m.SetNRGBA(0, 0, color.NRGBA{0xff, 0x00, 0x00, 0xff})
	m.SetNRGBA(2, 1, color.NRGBA{0x00, 0x00, 0xff, 0x80})
	return m
}

func TestData(t *testing.T) {
	want, text := encode(t, testImage())

	i := New(text)
	b, err := i.Data()
	require.NoError(t, err)
	assert.Equal(t, want, b)

	// Cached
	b2, err := i.Data()
	require.NoError(t, err)
	assert.Equal(t, b, b2)
}

func TestImageAndBitmap(t *testing.T) {
	_, text := encode(t, testImage())
	i := New(text)

	m, err := i.Image()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), m.Bounds())

	bm, err := i.Bitmap()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0xff, 0x00, 0x00, 0xff}, bm.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0x00, 0x00, 0xff, 0x80}, bm.NRGBAAt(2, 1))
}

func TestBitmapFromPaletted(t *testing.T) {
	p := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	p.SetColorIndex(1, 1, 1)
	_, text := encode(t, p)

	bm, err := New(text).Bitmap()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, bm.NRGBAAt(1, 1))
	assert.Equal(t, color.NRGBA{0x00, 0x00, 0x00, 0xff}, bm.NRGBAAt(0, 0))
}

func TestIcon(t *testing.T) {
	want, text := encode(t, testImage())

	b, err := New(text).Icon()
	require.NoError(t, err)
	require.Len(t, b, 22+len(want))

	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(b[0:]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(b[2:]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(b[4:]))
	assert.Equal(t, uint8(3), b[6])
	assert.Equal(t, uint8(2), b[7])
	assert.Equal(t, uint32(len(want)), binary.LittleEndian.Uint32(b[14:]))
	assert.Equal(t, uint32(22), binary.LittleEndian.Uint32(b[18:]))
	assert.Equal(t, want, b[22:])
}

func TestInvalid(t *testing.T) {
	i := New("    ***`)")

	_, err := i.Data()
	assert.Error(t, err)
	_, err = i.Image()
	assert.Error(t, err)
	_, err = i.Bitmap()
	assert.Error(t, err)
	_, err = i.Icon()
	assert.Error(t, err)
}
