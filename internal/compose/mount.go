package compose

import (
	"context"
	"sync"

	"github.com/abhisek/mathsheet/internal/barrier"
	"github.com/abhisek/mathsheet/internal/mathtext"
)

// Surface receives the block tree of a mounted document.
type Surface interface {
	SetContent(blocks []Block)
}

// Mounted is one document mounted on a surface.
type Mounted struct {
	blocks     []Block
	typesetter *mathtext.Typesetter
	pass       *mathtext.Pass
	handle     *barrier.Handle
	cancel     context.CancelFunc
	unmount    sync.Once
}

// Mount composes doc into surface, starts background typesetting with
// engine and starts the document's readiness barrier. engine may be nil, in
// which case math stays as TeX source and the barrier falls back to its
// fixed delay. The caller must call Unmount.
func Mount(ctx context.Context, doc Document, surface Surface, engine mathtext.Engine, cfg barrier.Config) *Mounted {
	ctx, cancel := context.WithCancel(ctx)

	b := NewBuilder()
	doc.Compose(b)
	surface.SetContent(b.Blocks())

	m := &Mounted{
		blocks:     b.Blocks(),
		typesetter: mathtext.NewTypesetter(engine, b.Markups()...),
		cancel:     cancel,
	}
	m.pass = m.typesetter.Start(ctx)

	var confirm barrier.Confirmer
	if engine != nil {
		confirm = m.typesetter
	}
	m.handle = doc.Barrier(cfg, confirm).Start(ctx)
	return m
}

// Blocks returns the mounted block tree.
func (m *Mounted) Blocks() []Block { return m.blocks }

// Wait blocks until the document is ready, the mount is torn down, or ctx
// ends. Readiness is signalled exactly once per mount.
func (m *Mounted) Wait(ctx context.Context) error {
	return m.handle.Wait(ctx)
}

// Typeset is closed when the background typesetting pass has finished.
func (m *Mounted) Typeset() <-chan struct{} { return m.pass.Done() }

// TypesetErr returns the typesetting error seen by the barrier, if any.
func (m *Mounted) TypesetErr() error { return m.handle.Err() }

// Pending reports how many math runs are still untypeset.
func (m *Mounted) Pending() int { return m.typesetter.Pending() }

// Unmount stops the barrier and the typesetting pass. It is idempotent.
func (m *Mounted) Unmount() {
	m.unmount.Do(func() {
		m.handle.Stop()
		m.cancel()
	})
}
