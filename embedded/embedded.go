/*
Package embedded provides the runtime half of img2go.

Source files generated by img2go construct one Image for each embedded
picture using New, passing the encoded payload as a string literal. The
payload is only decoded the first time it is needed.
*/
package embedded

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/draw"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"sync"

	"github.com/bodgit/img2go/payload"
)

// Image is an image embedded in Go source.
type Image struct {
	text string

	once sync.Once
	data []byte
	err  error
}

// New returns an Image for the encoded payload text.
func New(text string) *Image {
	return &Image{text: text}
}

// Data returns the raw image bytes, normally PNG.
func (i *Image) Data() ([]byte, error) {
	i.once.Do(func() {
		i.data, i.err = payload.Decode(i.text)
	})
	return i.data, i.err
}

// Image returns the decoded image.
func (i *Image) Image() (image.Image, error) {
	b, err := i.Data()
	if err != nil {
		return nil, err
	}
	m, _, err := image.Decode(bytes.NewReader(b))
	return m, err
}

// Bitmap returns the image converted to non-premultiplied RGBA with the
// top-left corner at (0, 0), suitable for drawing.
func (i *Image) Bitmap() (*image.NRGBA, error) {
	m, err := i.Image()
	if err != nil {
		return nil, err
	}
	if nm, ok := m.(*image.NRGBA); ok && nm.Rect.Min == (image.Point{}) {
		return nm, nil
	}
	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	return dst, nil
}

// Icon returns the image wrapped in a Windows ICO container.
func (i *Image) Icon() ([]byte, error) {
	m, err := i.Image()
	if err != nil {
		return nil, err
	}

	// ICO entries must be PNG so re-encode anything else
	b, _ := i.Data()
	if !bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n")) {
		buf := new(bytes.Buffer)
		if err := png.Encode(buf, m); err != nil {
			return nil, err
		}
		b = buf.Bytes()
	}

	// ICO uses 0 to mean 256 pixels or more
	dim := func(n int) uint8 {
		if n >= 256 {
			return 0
		}
		return uint8(n)
	}

	buf := new(bytes.Buffer)
	header := struct {
		Reserved, Type, Count uint16
		Width, Height         uint8
		Colors, Reserved2     uint8
		Planes, BPP           uint16
		Size, Offset          uint32
	}{
		Type:   1,
		Count:  1,
		Width:  dim(m.Bounds().Dx()),
		Height: dim(m.Bounds().Dy()),
		Planes: 1,
		BPP:    32,
		Size:   uint32(len(b)),
		Offset: 22,
	}
	if err := binary.Write(buf, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	buf.Write(b)

	return buf.Bytes(), nil
}
