/*
Package img2go is a library for embedding images in Go source.

Each image is converted to PNG, base64 encoded and written to a generated Go
file as a call to embedded.New so that it can be used at runtime without
shipping a separate asset. Several images can be accumulated in the same file
by appending and, optionally, registered in a catalog keyed by name.
*/
package img2go

import (
	"image/color"
	"io"
	"os"

	"github.com/bodgit/img2go/codec"
	"github.com/charmbracelet/log"
)

const defaultGenerator = "img2go"

// Converter converts the image at src into format, writing the result to
// dst. If mask is not nil it should be used as the transparent color. It
// reports success along with a message describing the outcome.
type Converter interface {
	Convert(src string, mask color.Color, format codec.Format, dst string) (bool, string)
}

// Embedder embeds images into generated Go source.
type Embedder struct {
	converter Converter
	logger    *log.Logger

	// Stdout receives the summary for each image as well as any records
	// written to the "-" destination
	Stdout io.Writer

	// Generator is named in the header of generated files
	Generator string
}

// New returns an Embedder using converter to canonicalize images.
func New(converter Converter, logger *log.Logger) *Embedder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Embedder{
		converter: converter,
		logger:    logger,
		Stdout:    os.Stdout,
		Generator: defaultGenerator,
	}
}
