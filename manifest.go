package img2go

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/img2go/codec"
	"gopkg.in/yaml.v3"
)

// Manifest describes a batch of images to embed in a single file.
type Manifest struct {
	Output     string `yaml:"output"`
	Package    string `yaml:"package"`
	Append     bool   `yaml:"append"`
	Catalog    bool   `yaml:"catalog"`
	Compatible *bool  `yaml:"compatible"`
	// Compatibile is a misspelling of Compatible accepted from older
	// manifests. It takes precedence if both are set.
	Compatibile *bool  `yaml:"compatibile"`
	Icon        bool   `yaml:"icon"`
	Mask        string `yaml:"mask"`
	Colors      int    `yaml:"colors"`

	Images []ManifestImage `yaml:"images"`

	dir string
}

// ManifestImage is a single image in a Manifest. Mask, Icon and Colors
// override the manifest-wide values when set.
type ManifestImage struct {
	File   string `yaml:"file"`
	Name   string `yaml:"name"`
	Mask   string `yaml:"mask"`
	Icon   *bool  `yaml:"icon"`
	Colors *int   `yaml:"colors"`
}

// ParseManifest reads a manifest from r. Relative paths in the manifest are
// resolved against dir.
func ParseManifest(r io.Reader, dir string) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	m := new(Manifest)
	if err := dec.Decode(m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty manifest")
		}
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	m.dir = dir

	if m.Output == "" {
		return nil, errors.New("manifest has no output")
	}
	if len(m.Images) == 0 {
		return nil, errors.New("manifest has no images")
	}
	for i, img := range m.Images {
		if img.File == "" {
			return nil, fmt.Errorf("image %d has no file", i)
		}
	}

	return m, nil
}

// LoadManifest reads the manifest in file.
func LoadManifest(file string) (*Manifest, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	defer f.Close()

	return ParseManifest(f, filepath.Dir(file))
}

func (m *Manifest) path(file string) string {
	if file == Stdout || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(m.dir, file)
}

func (m *Manifest) compatible() bool {
	switch {
	case m.Compatibile != nil:
		return *m.Compatibile
	case m.Compatible != nil:
		return *m.Compatible
	default:
		return false
	}
}

// Resolve the options for a single image
func (m *Manifest) options(img ManifestImage) (Options, error) {
	opts := Options{
		Append:     m.Append,
		Name:       img.Name,
		Icon:       m.Icon,
		Catalog:    m.Catalog,
		Compatible: m.compatible(),
		Package:    m.Package,
		Colors:     m.Colors,
	}

	mask := m.Mask
	if img.Mask != "" {
		mask = img.Mask
	}
	if mask != "" {
		c, err := codec.ParseColor(mask)
		if err != nil {
			return Options{}, err
		}
		opts.Mask = c
	}

	if img.Icon != nil {
		opts.Icon = *img.Icon
	}
	if img.Colors != nil {
		opts.Colors = *img.Colors
	}

	return opts, nil
}
