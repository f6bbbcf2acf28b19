package img2go

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const existing = `//----------------------------------------------------------------------
// Code generated by img2go. DO NOT EDIT.

package icons

import "github.com/bodgit/img2go/embedded"

var catalog = map[string]*embedded.Image{}
var index = []string{}

var a = embedded.New(` + "`" + `
    AAAA` + "`" + `)

func init() {
	index = append(index, "a")
	catalog["a"] = a
}

//----------------------------------------------------------------------
var with_quote = embedded.New(` + "`" + `
    AAAA` + "`" + `)

func init() {
	index = append(index, "with \"quote\"")
	catalog["with \"quote\""] = with_quote
}

// index = append(index, "commented")
`

func TestReconcile(t *testing.T) {
	state, err := Reconcile(strings.NewReader(existing))
	require.NoError(t, err)

	assert.False(t, state.Fresh)
	assert.True(t, state.Scaffold)
	assert.Equal(t, []string{"a", "with \"quote\""}, state.Names)
	assert.True(t, state.Contains("a"))
	assert.False(t, state.Contains("b"))
	assert.False(t, state.Contains("commented"))
	assert.Equal(t, map[string]bool{"index": true, "a": true, "with_quote": true}, state.Declared)
}

func TestReconcileWithoutCatalog(t *testing.T) {
	src := "//---\n// Code generated by img2go. DO NOT EDIT.\n\npackage main\n\nvar a = embedded.New(`\n    AAAA`)\n"

	state, err := Reconcile(strings.NewReader(src))
	require.NoError(t, err)

	assert.False(t, state.Fresh)
	assert.False(t, state.Scaffold)
	assert.Empty(t, state.Names)
}

func TestReconcileCRLF(t *testing.T) {
	src := strings.ReplaceAll(existing, "\n", "\r\n")

	state, err := Reconcile(strings.NewReader(src))
	require.NoError(t, err)

	assert.True(t, state.Scaffold)
	assert.Equal(t, []string{"a", "with \"quote\""}, state.Names)
}

func TestReconcileScaffoldMustMatchExactly(t *testing.T) {
	state, err := Reconcile(strings.NewReader("  " + catalogLine + "\n" + catalogLine + " // x\n"))
	require.NoError(t, err)
	assert.False(t, state.Scaffold)
}

func TestReconcileEmpty(t *testing.T) {
	state, err := Reconcile(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, state.Fresh)
	assert.False(t, state.Scaffold)
}

func TestReconcileFileMissing(t *testing.T) {
	state, err := ReconcileFile(filepath.Join(t.TempDir(), "missing.go"))
	require.NoError(t, err)
	assert.Equal(t, &ArtifactState{Fresh: true}, state)
}

func TestReconcileFileUnreadable(t *testing.T) {
	_, err := ReconcileFile(t.TempDir())
	assert.Error(t, err)
}

func TestReconcileFile(t *testing.T) {
	file := writeFile(t, filepath.Join(t.TempDir(), "icons.go"), []byte(existing))

	state, err := ReconcileFile(file)
	require.NoError(t, err)
	assert.Len(t, state.Names, 2)
}

func TestIsEmpty(t *testing.T) {
	dir := t.TempDir()

	empty, err := isEmpty(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.True(t, empty)

	empty, err = isEmpty(writeFile(t, filepath.Join(dir, "empty"), nil))
	require.NoError(t, err)
	assert.True(t, empty)

	empty, err = isEmpty(writeFile(t, filepath.Join(dir, "full"), []byte("package main\n")))
	require.NoError(t, err)
	assert.False(t, empty)
}
