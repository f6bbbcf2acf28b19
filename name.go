package img2go

import (
	"go/token"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Names that would clash with the declarations in a generated file
var reserved = map[string]struct{}{
	"_":        {},
	"catalog":  {},
	"embedded": {},
	"index":    {},
	"init":     {},
	"main":     {},
}

// Identifier returns name converted to a valid Go identifier. Every character
// that isn't a letter or digit is replaced with an underscore and an
// underscore is prepended if the result doesn't start with a letter or
// underscore, or would clash with a keyword or generated declaration.
//
// Distinct names can produce the same identifier.
func Identifier(name string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, name)

	if r, _ := utf8.DecodeRuneInString(s); !unicode.IsLetter(r) && r != '_' {
		s = "_" + s
	}

	if _, ok := reserved[s]; ok || token.IsKeyword(s) {
		s = "_" + s
	}

	return s
}

// Strip any directory and extension from file
func baseName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (e *Embedder) resolveName(source, name string) string {
	if name != "" {
		return name
	}
	name = baseName(source)
	e.logger.Warn("No name specified, using filename for name of image and/or catalog entry", "name", name)
	return name
}
