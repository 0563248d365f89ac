package export

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/mathsheet/internal/compose"
)

// ErrBusy is returned when an export of the same kind is already running.
var ErrBusy = errors.New("export already in progress")

// Guard holds one busy flag per document kind. Exports of different kinds
// may overlap; a second export of a running kind is rejected.
type Guard struct {
	mu   sync.Mutex
	busy map[compose.Kind]bool
}

// NewGuard returns a guard with every kind idle.
func NewGuard() *Guard {
	return &Guard{busy: make(map[compose.Kind]bool)}
}

// Acquire marks kind busy. The returned func releases it.
func (g *Guard) Acquire(kind compose.Kind) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy[kind] {
		return nil, ErrBusy
	}
	g.busy[kind] = true
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, kind)
			g.mu.Unlock()
		})
	}, nil
}

// Busy reports whether an export of kind is running.
func (g *Guard) Busy(kind compose.Kind) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy[kind]
}

// Any reports whether any export is running.
func (g *Guard) Any() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.busy) > 0
}

// Guarded runs p.Export under g's busy flag for the document's kind.
func (p *Pipeline) Guarded(ctx context.Context, g *Guard, doc compose.Document, baseName string) (Result, error) {
	release, err := g.Acquire(doc.Kind())
	if err != nil {
		return Result{}, err
	}
	defer release()
	return p.Export(ctx, doc, baseName)
}

// All exports docs concurrently, each into its own render target. Results
// are returned in docs order. The first failure cancels the remaining
// exports.
func (p *Pipeline) All(ctx context.Context, g *Guard, baseName string, docs ...compose.Document) ([]Result, error) {
	results := make([]Result, len(docs))
	eg, ctx := errgroup.WithContext(ctx)
	for i, doc := range docs {
		eg.Go(func() error {
			res, err := p.Guarded(ctx, g, doc, baseName)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
