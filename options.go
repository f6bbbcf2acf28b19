package img2go

import (
	"fmt"
	"go/token"
	"image/color"
)

const (
	defaultPackage = "main"
	maxColors      = 256
)

// Options control how a single image is embedded.
type Options struct {
	// Append adds to the destination rather than overwriting it
	Append bool
	// Mask, if not nil, is the color treated as transparent, overriding
	// any transparency in the source image
	Mask color.Color
	// Name is the logical name of the image. If empty the source filename
	// without directory or extension is used
	Name string
	// Icon adds an icon accessor when Compatible is set
	Icon bool
	// Catalog registers the image in the catalog and index variables
	Catalog bool
	// Compatible adds getNameData style accessor variables
	Compatible bool
	// Package is the package name used when starting a new file
	Package string
	// Colors, if non-zero, reduces the image to a palette of at most this
	// many colors
	Colors int
}

func (o Options) validate() error {
	if o.Package != "" && !token.IsIdentifier(o.Package) {
		return fmt.Errorf("invalid package name %q", o.Package)
	}
	if o.Colors < 0 || o.Colors > maxColors {
		return fmt.Errorf("colors must be at most %d, or 0 to keep all colors", maxColors)
	}
	return nil
}

func (o Options) packageName() string {
	if o.Package == "" {
		return defaultPackage
	}
	return o.Package
}
