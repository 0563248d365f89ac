// Package export renders composed documents into paginated A4 PDF files.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathsheet/internal/barrier"
	"github.com/abhisek/mathsheet/internal/compose"
	"github.com/abhisek/mathsheet/internal/mathtext"
	"github.com/abhisek/mathsheet/internal/store"
)

// Options configures a Pipeline.
type Options struct {
	// Scale is the capture scale. Zero means 2.
	Scale   float64
	Barrier barrier.Config
	// FontFamily is recorded on every render target.
	FontFamily string
	// Fonts used for layout. Nil means the Go fonts.
	Fonts *compose.Fonts
	// Engine typesets math. Nil leaves math as TeX and relies on the
	// barrier's fixed delay.
	Engine mathtext.Engine
	// OutputDir is where files are written. Empty means the working
	// directory.
	OutputDir string
}

// Result describes a written PDF.
type Result struct {
	Kind     compose.Kind
	Path     string
	Pages    int
	Bytes    int64
	Duration time.Duration
	// Warnings are non-fatal layout or typesetting problems.
	Warnings []string
}

// Pipeline exports documents. A Pipeline is safe for concurrent use; each
// Export owns its own render target.
type Pipeline struct {
	host   *Host
	opts   Options
	events store.EventRepo
}

// New returns a pipeline attaching targets to host. events may be nil.
func New(host *Host, opts Options, events store.EventRepo) *Pipeline {
	if opts.Scale <= 0 {
		opts.Scale = 2
	}
	return &Pipeline{host: host, opts: opts, events: events}
}

// Export renders doc and saves it as FileName(baseName, doc.Kind()) in the
// output directory. The render target is torn down before Export returns,
// whether or not it succeeded, and no file is left behind on failure.
func (p *Pipeline) Export(ctx context.Context, doc compose.Document, baseName string) (res Result, err error) {
	start := time.Now()
	fileName := FileName(baseName, doc.Kind())
	res = Result{Kind: doc.Kind(), Path: filepath.Join(p.opts.OutputDir, fileName)}
	defer func() {
		res.Duration = time.Since(start)
		p.record(ctx, fileName, res, err)
	}()

	target := NewRenderTarget(p.opts.FontFamily)
	if err := p.host.Attach(target); err != nil {
		return res, &Error{Stage: StageTarget, Err: err}
	}
	var mounted *compose.Mounted
	defer func() {
		if mounted != nil {
			mounted.Unmount()
		}
		p.host.Detach(target.ID)
		target.release()
	}()

	mounted = compose.Mount(ctx, doc, target, p.opts.Engine, p.opts.Barrier)
	if err := mounted.Wait(ctx); err != nil {
		return res, &Error{Stage: StageMount, Err: err}
	}
	if err := mounted.TypesetErr(); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("typesetting: %v", err))
	}
	if n := mounted.Pending(); n > 0 && p.opts.Engine != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d math runs captured before typesetting finished", n))
	}

	var img *image.RGBA
	err = target.withFlow(func() error {
		frame, err := target.layout(compose.Options{
			Scale: p.opts.Scale,
			Fonts: p.opts.Fonts,
		})
		if err != nil {
			return err
		}
		defer frame.Close()
		res.Warnings = append(res.Warnings, frame.Warnings...)
		img = frame.Paint()
		return nil
	})
	if err != nil {
		return res, &Error{Stage: StageCapture, Err: err}
	}

	data, pages, err := assemble(img)
	img = nil
	if err != nil {
		return res, &Error{Stage: StageAssemble, Err: err}
	}
	res.Pages = pages

	if err := writeFileAtomic(res.Path, data); err != nil {
		return res, &Error{Stage: StageSave, Err: err}
	}
	res.Bytes = int64(len(data))
	return res, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".mathsheet-*.pdf")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (p *Pipeline) record(ctx context.Context, fileName string, res Result, err error) {
	if p.events == nil {
		return
	}
	data := store.ExportEventData{
		ExportID:   uuid.NewString(),
		Kind:       res.Kind.String(),
		FileName:   fileName,
		Pages:      res.Pages,
		Bytes:      res.Bytes,
		DurationMs: res.Duration.Milliseconds(),
		Success:    err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		var ee *Error
		if errors.As(err, &ee) {
			data.Stage = string(ee.Stage)
		}
	}
	// Event logging is best-effort and must outlive a cancelled export.
	_ = p.events.AppendExport(context.WithoutCancel(ctx), data)
}
