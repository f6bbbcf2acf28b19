package img2go

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"image/color"
	"os"
	"regexp"
	"sync"
	"testing"

	"github.com/bodgit/img2go/codec"
	"github.com/bodgit/img2go/payload"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

type fakeConverter struct {
	mu      sync.Mutex
	data    []byte
	fail    string
	masks   []color.Color
	formats []codec.Format
	dsts    []string
}

func (f *fakeConverter) Convert(src string, mask color.Color, format codec.Format, dst string) (bool, string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.masks = append(f.masks, mask)
	f.formats = append(f.formats, format)
	f.dsts = append(f.dsts, dst)

	if f.fail != "" {
		return false, f.fail
	}
	if err := os.WriteFile(dst, f.data, 0644); err != nil {
		return false, err.Error()
	}
	return true, "ok"
}

func newTestEmbedder(c Converter) (*Embedder, *bytes.Buffer, *bytes.Buffer) {
	stdout, logs := new(bytes.Buffer), new(bytes.Buffer)
	e := New(c, log.New(logs))
	e.Stdout = stdout
	return e, stdout, logs
}

func requireParses(t *testing.T, src []byte) {
	t.Helper()
	_, err := parser.ParseFile(token.NewFileSet(), "generated.go", src, parser.ParseComments)
	require.NoError(t, err, "%s", src)
}

// Just enough of the embedded package to type check generated files
const embeddedStub = `package embedded

type Image struct{}

func New(s string) *Image { return &Image{} }

func (i *Image) Data() ([]byte, error)   { return nil, nil }
func (i *Image) Image() ([]byte, error)  { return nil, nil }
func (i *Image) Bitmap() ([]byte, error) { return nil, nil }
func (i *Image) Icon() ([]byte, error)   { return nil, nil }
`

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

func requireCompiles(t *testing.T, src []byte) {
	t.Helper()

	fset := token.NewFileSet()
	stub, err := parser.ParseFile(fset, "embedded.go", embeddedStub, 0)
	require.NoError(t, err)
	pkg, err := new(types.Config).Check(ImportPath, fset, []*ast.File{stub}, nil)
	require.NoError(t, err)

	f, err := parser.ParseFile(fset, "generated.go", src, parser.ParseComments)
	require.NoError(t, err, "%s", src)

	conf := types.Config{
		Importer: importerFunc(func(path string) (*types.Package, error) {
			require.Equal(t, ImportPath, path)
			return pkg, nil
		}),
	}
	_, err = conf.Check(f.Name.Name, fset, []*ast.File{f}, nil)
	require.NoError(t, err, "%s", src)
}

// Return the decoded payload assigned to ident
func extractPayload(t *testing.T, src []byte, ident string) []byte {
	t.Helper()
	re := regexp.MustCompile(`(?s)var ` + regexp.QuoteMeta(ident) + " = embedded\\.New\\(`(.*?)`\\)")
	m := re.FindSubmatch(src)
	require.NotNil(t, m, "no payload for %s", ident)
	b, err := payload.Decode(string(m[1]))
	require.NoError(t, err)
	return b
}

func writeFile(t *testing.T, file string, b []byte) string {
	t.Helper()
	require.NoError(t, os.WriteFile(file, b, 0644))
	return file
}
