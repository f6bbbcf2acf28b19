package codec

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
)

const maxColors = 256

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

// Replace any existing transparency so that only pixels matching mask are
// transparent
func applyMask(m image.Image, mask color.Color) *image.NRGBA {
	b := m.Bounds()
	k := color.NRGBAModel.Convert(mask).(color.NRGBA)

	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if c.R == k.R && c.G == k.G && c.B == k.B {
				dst.SetNRGBA(x, y, color.NRGBA{})
				continue
			}
			c.A = 0xff
			dst.SetNRGBA(x, y, c)
		}
	}

	return dst
}

// Reduce m to a palette of no more than n colors. If transparent is set then
// one palette entry is reserved for the fully transparent color
func reduce(m image.Image, n int, transparent bool) *image.Paletted {
	b := m.Bounds()

	p := make(color.Palette, 0, n)
	if transparent {
		p = append(p, color.Transparent)
	}
	if !b.Empty() && cap(p) > len(p) {
		q := quantize.MedianCutQuantizer{}
		p = q.Quantize(p, m)
	}
	if len(p) == 0 {
		p = append(p, color.Transparent)
	}

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return pm
}

// Convert converts the image at src into format and writes it to dst. If mask
// is not nil then it is used as the transparent color, overriding any
// transparency in the source image.
//
// A source that already has the extension of format is copied unchanged
// unless a mask is given or the format reduces the palette.
//
// The returned message describes the outcome and is suitable for showing to
// a user; it is the only detail given when the conversion fails.
func (c *Codec) Convert(src string, mask color.Color, format Format, dst string) (bool, string) {
	if format.encode == nil {
		return false, fmt.Sprintf("Unsupported output format %q", format.Name)
	}
	if format.Colors < 0 || format.Colors > maxColors {
		return false, fmt.Sprintf("Invalid number of colors %d, must be between 0 and %d", format.Colors, maxColors)
	}

	if mask == nil && format.Colors == 0 && strings.EqualFold(filepath.Ext(src), format.Ext) {
		if err := copyFile(src, dst); err != nil {
			return false, fmt.Sprintf("Unable to copy %s: %v", src, err)
		}
		return true, "ok"
	}

	b, err := os.ReadFile(src)
	if err != nil {
		return false, fmt.Sprintf("Unable to read %s: %v", src, err)
	}

	m, name, err := c.decode(b)
	if err != nil {
		return false, fmt.Sprintf("Unable to decode %s: %v", src, err)
	}

	if mask != nil {
		m = applyMask(m, mask)
	}

	if format.Colors > 0 {
		m = reduce(m, format.Colors, mask != nil)
	}

	f, err := os.Create(dst)
	if err != nil {
		return false, fmt.Sprintf("Unable to create %s: %v", dst, err)
	}

	if err := format.encode(f, m); err != nil {
		f.Close()
		return false, fmt.Sprintf("Unable to encode %s as %s: %v", src, format.Name, err)
	}

	if err := f.Close(); err != nil {
		return false, fmt.Sprintf("Unable to write %s: %v", dst, err)
	}

	return true, fmt.Sprintf("Converted %s from %s to %s", src, name, format.Name)
}
