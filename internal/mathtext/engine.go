package mathtext

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Engine typesets the math runs of rendered markup in place. Runs that are
// already typeset are skipped, so calling Typeset again on the same markup
// is cheap and doubles as a completion check.
type Engine interface {
	Typeset(ctx context.Context, docs ...*Markup) error
}

// RunError reports a math run that could not be typeset. The run keeps
// showing its TeX source.
type RunError struct {
	Source string
	Err    error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("typeset %q: %v", e.Source, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// UnicodeEngine typesets TeX into Unicode text. It has no external
// dependencies and never blocks.
type UnicodeEngine struct{}

// Typeset converts every pending math run. Failures on individual runs are
// collected and returned together after all other runs are processed.
func (UnicodeEngine) Typeset(ctx context.Context, docs ...*Markup) error {
	var errs []error
	for _, m := range docs {
		if m == nil {
			continue
		}
		for i, r := range m.Runs() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !r.IsMath() || r.Typeset {
				continue
			}
			out, err := ToUnicode(r.Source)
			if err != nil {
				errs = append(errs, &RunError{Source: r.Source, Err: err})
				continue
			}
			m.set(i, out)
		}
	}
	return errors.Join(errs...)
}

// Pass is one background typesetting pass over a set of markups.
type Pass struct {
	done chan struct{}
	once sync.Once
	err  error
}

// Start launches engine over docs in a new goroutine and returns at once.
// The pass stops early when ctx is cancelled.
func Start(ctx context.Context, engine Engine, docs ...*Markup) *Pass {
	p := &Pass{done: make(chan struct{})}
	if engine == nil {
		p.finish(nil)
		return p
	}
	go func() {
		p.finish(engine.Typeset(ctx, docs...))
	}()
	return p
}

func (p *Pass) finish(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

// Done is closed when the pass has finished.
func (p *Pass) Done() <-chan struct{} { return p.done }

// Wait blocks until the pass finishes or ctx ends, and returns the pass
// error.
func (p *Pass) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Plain renders s synchronously with the Unicode engine. Runs that fail to
// typeset keep their source.
func Plain(s string) string {
	m := Render(s)
	_ = UnicodeEngine{}.Typeset(context.Background(), m)
	return m.String()
}

// Typesetter binds an engine to the markups of one mounted document.
type Typesetter struct {
	engine Engine
	docs   []*Markup
}

// NewTypesetter returns a typesetter for docs. A nil engine yields a
// typesetter whose passes finish immediately.
func NewTypesetter(engine Engine, docs ...*Markup) *Typesetter {
	return &Typesetter{engine: engine, docs: docs}
}

// Start launches a background pass and returns at once.
func (t *Typesetter) Start(ctx context.Context) *Pass {
	return Start(ctx, t.engine, t.docs...)
}

// Promise re-runs the engine over the markups and delivers its result on the
// returned channel. Typeset runs are skipped, so once a background pass has
// finished the promise resolves straight away.
func (t *Typesetter) Promise(ctx context.Context) <-chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- t.Start(ctx).Wait(ctx)
	}()
	return ch
}

// Pending reports the number of math runs still waiting to be typeset.
func (t *Typesetter) Pending() int {
	n := 0
	for _, m := range t.docs {
		if m != nil {
			n += m.Pending()
		}
	}
	return n
}

// Version sums the versions of the markups. It changes whenever any run is
// typeset.
func (t *Typesetter) Version() uint64 {
	var v uint64
	for _, m := range t.docs {
		if m != nil {
			v += m.Version()
		}
	}
	return v
}
