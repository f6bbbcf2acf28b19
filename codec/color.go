package codec

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var errBadColor = errors.New("codec: color must be in #rrggbb form")

// ParseColor parses a color in #rrggbb form, the leading # is optional.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return nil, errBadColor
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, errBadColor
	}

	return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}

// FormatColor returns c in #rrggbb form, ignoring any alpha.
func FormatColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}
