package img2go

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ImportPath is the package imported by generated files.
const ImportPath = "github.com/bodgit/img2go/embedded"

var separator = "//" + strings.Repeat("-", 70)

// Record is a single embedded image.
type Record struct {
	// Name is the logical name used for the catalog
	Name string
	// Identifier is the variable holding the image
	Identifier string
	// Payload is the encoded image, see the payload package
	Payload []string
}

func writeScaffold(b *bytes.Buffer) {
	fmt.Fprintln(b, catalogLine)
	fmt.Fprintln(b, indexLine)
	fmt.Fprintln(b)
}

// Serialize rec and write it to w in one go. state is updated with the
// catalog entry, if any, and the variables declared.
func (e *Embedder) writeRecord(w io.Writer, rec *Record, state *ArtifactState, opts Options) error {
	b := new(bytes.Buffer)

	// Appending a catalog to a file that was started without one
	if !state.Fresh && opts.Catalog && !state.Scaffold {
		fmt.Fprintln(b)
		fmt.Fprintln(b, "// ***************** Catalog starts here *******************")
		fmt.Fprintln(b)
		writeScaffold(b)
		state.Scaffold = true
	}

	fmt.Fprintln(b, separator)

	if state.Fresh {
		fmt.Fprintf(b, "// Code generated by %s. DO NOT EDIT.\n\n", e.Generator)
		fmt.Fprintf(b, "package %s\n\n", opts.packageName())
		fmt.Fprintf(b, "import %q\n\n", ImportPath)
		if opts.Catalog {
			writeScaffold(b)
			state.Scaffold = true
		}
		state.Fresh = false
	}

	var accessors []string
	if opts.Compatible {
		accessors = []string{"Data", "Image", "Bitmap"}
		if opts.Icon {
			accessors = append(accessors, "Icon")
		}
	}

	var name string
	if opts.Catalog {
		if state.Contains(rec.Name) {
			e.logger.Warn("Name already in catalog, only the last entry will be accessible", "name", rec.Name)
		}
		state.Names = append(state.Names, rec.Name)
		name = strconv.Quote(rec.Name)
	}

	if state.Declared[rec.Identifier] {
		writeReassignment(b, rec, state, name, accessors)
	} else {
		writeDeclaration(b, rec, state, name, accessors)
	}

	fmt.Fprintln(b)

	_, err := w.Write(b.Bytes())
	return err
}

// The identifier is new so declare it and its accessors at package level
func writeDeclaration(b *bytes.Buffer, rec *Record, state *ArtifactState, name string, accessors []string) {
	fmt.Fprintf(b, "var %s = embedded.New(`\n", rec.Identifier)
	for _, line := range rec.Payload {
		fmt.Fprintln(b, line)
	}
	state.declare(rec.Identifier)

	if name != "" {
		fmt.Fprintln(b)
		fmt.Fprintln(b, "func init() {")
		fmt.Fprintf(b, "\tindex = append(index, %s)\n", name)
		fmt.Fprintf(b, "\tcatalog[%s] = %s\n", name, rec.Identifier)
		fmt.Fprintln(b, "}")
	}

	if len(accessors) > 0 {
		fmt.Fprintln(b)
		for _, a := range accessors {
			fmt.Fprintf(b, "var get%s%s = %s.%s\n", rec.Identifier, a, rec.Identifier, a)
			state.declare("get" + rec.Identifier + a)
		}
	}
}

// The identifier already exists so replace it, and refresh its accessors, in
// an init function. Init functions run in source order so the last record
// wins.
func writeReassignment(b *bytes.Buffer, rec *Record, state *ArtifactState, name string, accessors []string) {
	var missing bool
	for _, a := range accessors {
		accessor := "get" + rec.Identifier + a
		if !state.Declared[accessor] {
			fmt.Fprintf(b, "var %s = %s.%s\n", accessor, rec.Identifier, a)
			state.declare(accessor)
			missing = true
		}
	}
	if missing {
		fmt.Fprintln(b)
	}

	fmt.Fprintln(b, "func init() {")
	fmt.Fprintf(b, "\t%s = embedded.New(`\n", rec.Identifier)
	for _, line := range rec.Payload {
		fmt.Fprintln(b, line)
	}
	if name != "" {
		fmt.Fprintf(b, "\tindex = append(index, %s)\n", name)
		fmt.Fprintf(b, "\tcatalog[%s] = %s\n", name, rec.Identifier)
	}
	for _, a := range accessors {
		fmt.Fprintf(b, "\tget%s%s = %s.%s\n", rec.Identifier, a, rec.Identifier, a)
	}
	fmt.Fprintln(b, "}")
}
