package img2go

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"runtime"
	"sync"

	"github.com/bodgit/img2go/codec"
	"github.com/bodgit/img2go/payload"
)

// Stdout is the destination name for writing to standard output.
const Stdout = "-"

// ConversionError is returned when an image could not be converted. The
// image is skipped but it is not a fatal error.
type ConversionError struct {
	Source  string
	Message string
}

func (e *ConversionError) Error() string {
	return e.Message
}

// Result describes the outcome of embedding a single image.
type Result struct {
	Source     string
	Dest       string
	Name       string
	Identifier string
	Mask       color.Color

	// Skipped is set if the image could not be converted, Message has the
	// reason
	Skipped bool
	Message string
}

func (r *Result) String() string {
	if r.Skipped {
		return r.Message
	}
	s := fmt.Sprintf("Embedded %s using \"%s\" into %s", r.Source, r.Name, r.Dest)
	if r.Mask != nil {
		s += " with mask " + codec.FormatColor(r.Mask)
	}
	return s
}

// Convert source via a temporary file and return the encoded payload
func (e *Embedder) convert(source string, opts Options) ([]string, error) {
	if _, err := os.Stat(source); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "img2go-*"+codec.PNG.Ext)
	if err != nil {
		return nil, err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := f.Close(); err != nil {
		return nil, err
	}

	format := codec.PNG
	if opts.Colors > 0 {
		format = format.Paletted(opts.Colors)
	}

	ok, msg := e.converter.Convert(source, opts.Mask, format, tmp)
	if !ok {
		return nil, &ConversionError{Source: source, Message: msg}
	}
	e.logger.Debug(msg, "source", source)

	b, err := os.ReadFile(tmp)
	if err != nil {
		return nil, err
	}

	return payload.Encode(b), nil
}

func (e *Embedder) artifactState(dest string, opts Options) (*ArtifactState, error) {
	switch {
	case dest == Stdout:
		// Nothing can be read back so assume appending continues a
		// complete file
		return &ArtifactState{Fresh: !opts.Append, Scaffold: opts.Append}, nil
	case !opts.Append:
		return &ArtifactState{Fresh: true}, nil
	case opts.Catalog:
		state, err := ReconcileFile(dest)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("Reconciled catalog", "file", dest, "scaffold", state.Scaffold, "entries", len(state.Names))
		return state, nil
	default:
		fresh, err := isEmpty(dest)
		if err != nil {
			return nil, err
		}
		return &ArtifactState{Fresh: fresh}, nil
	}
}

func (e *Embedder) write(dest string, rec *Record, opts Options) error {
	state, err := e.artifactState(dest, opts)
	if err != nil {
		return err
	}

	if dest == Stdout {
		return e.writeRecord(e.Stdout, rec, state, opts)
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if opts.Append {
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	f, err := os.OpenFile(dest, flag, 0644)
	if err != nil {
		return err
	}

	if err := e.writeRecord(f, rec, state, opts); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func (e *Embedder) report(r *Result) {
	if r.Dest == Stdout && !r.Skipped {
		e.logger.Info(r.String())
		return
	}
	fmt.Fprintln(e.Stdout, r)
}

func (e *Embedder) finish(source, dest, name string, lines []string, err error, opts Options) (*Result, error) {
	r := &Result{
		Source: source,
		Dest:   dest,
		Name:   name,
		Mask:   opts.Mask,
	}

	var ce *ConversionError
	switch {
	case errors.As(err, &ce):
		r.Skipped, r.Message = true, ce.Message
		e.report(r)
		return r, nil
	case err != nil:
		return nil, err
	}

	r.Identifier = Identifier(name)
	if err := e.write(dest, &Record{Name: name, Identifier: r.Identifier, Payload: lines}, opts); err != nil {
		return nil, err
	}
	e.report(r)

	return r, nil
}

// Embed converts the image in source and writes it to the Go source file
// dest, or to Stdout if dest is "-".
//
// If the image can't be converted the reason is printed and a Result with
// Skipped set is returned; nothing is written. Any other error is returned.
func (e *Embedder) Embed(source, dest string, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	name := e.resolveName(source, opts.Name)
	lines, err := e.convert(source, opts)

	return e.finish(source, dest, name, lines, err, opts)
}

type job struct {
	i      int
	source string
	opts   Options
}

type conversion struct {
	lines []string
	err   error
}

func queueJobs(ctx context.Context, jobs []job) (<-chan job, <-chan error, error) {
	out := make(chan job)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for _, j := range jobs {
			select {
			case out <- j:
			case <-ctx.Done():
				errc <- errors.New("batch cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

func (e *Embedder) conversionWorker(ctx context.Context, in <-chan job, results []conversion) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for j := range in {
			if err := ctx.Err(); err != nil {
				errc <- err
				return
			}

			lines, err := e.convert(j.source, j.opts)

			var ce *ConversionError
			if err != nil && !errors.As(err, &ce) {
				errc <- err
				return
			}

			// Each index is only ever written by one worker
			results[j.i] = conversion{lines, err}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// EmbedAll embeds every image in the manifest. The images are converted
// concurrently but written strictly in manifest order, the first in the mode
// given by the manifest and the rest appended, so the result is the same as
// calling Embed for each image in turn.
func (e *Embedder) EmbedAll(ctx context.Context, m *Manifest) ([]*Result, error) {
	if m.Compatibile != nil {
		e.logger.Warn("Manifest uses deprecated key \"compatibile\", use \"compatible\" instead")
	}

	jobs := make([]job, 0, len(m.Images))
	names := make([]string, 0, len(m.Images))
	for i, img := range m.Images {
		opts, err := m.options(img)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		if err := opts.validate(); err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		source := m.path(img.File)
		jobs = append(jobs, job{i: i, source: source, opts: opts})
		names = append(names, e.resolveName(source, opts.Name))
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	results := make([]conversion, len(jobs))

	var errcList []<-chan error

	in, errc, err := queueJobs(ctx, jobs)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	workers := runtime.NumCPU()
	if workers > len(jobs) {
		workers = len(jobs)
	}
	for i := 0; i < workers; i++ {
		errc, err := e.conversionWorker(ctx, in, results)
		if err != nil {
			return nil, err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}

	dest := m.path(m.Output)
	written := false
	out := make([]*Result, 0, len(jobs))
	for i, j := range jobs {
		opts := j.opts
		opts.Append = opts.Append || written

		r, err := e.finish(j.source, dest, names[i], results[i].lines, results[i].err, opts)
		if err != nil {
			return out, err
		}
		written = written || !r.Skipped
		out = append(out, r)
	}

	return out, nil
}
