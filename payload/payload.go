/*
Package payload implements the text encoding used to embed binary image data
in generated Go source.

The data is base64 encoded using the standard alphabet with padding and the
result is split into lines of Width characters, each prefixed with Indent. The
final line has Terminator appended which closes the raw string literal and
the constructor call that the payload is embedded in.
*/
package payload

import (
	"encoding/base64"
	"strings"
	"unicode"
)

const (
	// Width is the number of encoded characters per line
	Width = 72

	// Indent prefixes every line
	Indent = "    "

	// Terminator is appended to the final line
	Terminator = "`)"
)

// Encode returns b encoded as a sequence of indented lines.
func Encode(b []byte) []string {
	data := base64.StdEncoding.EncodeToString(b)

	lines := make([]string, 0, len(data)/Width+1)
	for len(data) > Width {
		lines = append(lines, Indent+data[:Width])
		data = data[Width:]
	}

	return append(lines, Indent+data+Terminator)
}

// Decode reverses Encode. The lines may be passed joined with any amount of
// whitespace and the terminator is optional.
func Decode(s string) ([]byte, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), Terminator)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return base64.StdEncoding.DecodeString(s)
}
