package img2go

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

const (
	catalogLine = "var catalog = map[string]*embedded.Image{}"
	indexLine   = "var index = []string{}"
)

// Matches the index registration emitted for each catalog entry, i.e.
// `index = append(index, "name")`
var indexPattern = regexp.MustCompile(`^\s*index = append\(index, ("(?:[^"\\]|\\.)*")\)\s*$`)

// Matches a package level variable declared by a record, either the image
// itself or one of its accessors
var declPattern = regexp.MustCompile(`^var ([\p{L}_][\p{L}\p{Nd}_]*) = `)

// ArtifactState is what is known about an existing generated file before a
// new record is appended to it.
type ArtifactState struct {
	// Fresh is set if nothing has been written to the file yet
	Fresh bool
	// Scaffold is set if the catalog and index variables are declared
	Scaffold bool
	// Names lists the catalog entries in the order they were registered
	Names []string
	// Declared holds the package level variables already declared
	Declared map[string]bool
}

// Contains reports whether name is already registered in the catalog.
func (s *ArtifactState) Contains(name string) bool {
	for _, n := range s.Names {
		if n == name {
			return true
		}
	}
	return false
}

func (s *ArtifactState) declare(ident string) {
	if s.Declared == nil {
		s.Declared = make(map[string]bool)
	}
	s.Declared[ident] = true
}

// Reconcile scans a previously generated file for catalog declarations and
// registered names.
func Reconcile(r io.Reader) (*ArtifactState, error) {
	state := &ArtifactState{Fresh: true}

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			state.Fresh = false
			state.scan(strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			return state, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (s *ArtifactState) scan(line string) {
	if line == catalogLine {
		s.Scaffold = true
		return
	}

	if m := declPattern.FindStringSubmatch(line); m != nil {
		s.declare(m[1])
		return
	}

	m := indexPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	if name, err := strconv.Unquote(m[1]); err == nil {
		s.Names = append(s.Names, name)
	}
}

// ReconcileFile is like Reconcile but reads the named file. A file that
// doesn't exist yet is treated as fresh.
func ReconcileFile(file string) (*ArtifactState, error) {
	f, err := os.Open(file)
	if err != nil {
		if os.IsNotExist(err) {
			return &ArtifactState{Fresh: true}, nil
		}
		return nil, err
	}
	defer f.Close()

	return Reconcile(f)
}

func isEmpty(file string) (bool, error) {
	info, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return info.Size() == 0, nil
}
