package export

import (
	"image/color"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/mathsheet/internal/compose"
)

// Position is the CSS-style positioning of a render target.
type Position string

const (
	PositionAbsolute Position = "absolute"
	PositionRelative Position = "relative"
)

// offscreenLeft places a target outside the visible viewport.
const offscreenLeft = -9999

// RenderTarget is the off-screen container one export renders into. It is
// created per export, owned by a single pipeline run, and implements
// compose.Surface.
type RenderTarget struct {
	ID         string
	Left, Top  float64
	WidthMM    float64
	Background color.RGBA
	Foreground color.RGBA
	FontFamily string

	mu       sync.Mutex
	position Position
	blocks   []compose.Block
}

// NewRenderTarget returns an A4-wide, white, absolutely positioned target
// outside the viewport.
func NewRenderTarget(fontFamily string) *RenderTarget {
	return &RenderTarget{
		ID:         uuid.NewString(),
		Left:       offscreenLeft,
		WidthMM:    compose.A4WidthMM,
		Background: compose.White,
		Foreground: compose.Black,
		FontFamily: fontFamily,
		position:   PositionAbsolute,
	}
}

// SetContent replaces the target's block tree.
func (t *RenderTarget) SetContent(blocks []compose.Block) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.blocks = blocks
}

// Blocks returns the current block tree.
func (t *RenderTarget) Blocks() []compose.Block {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.blocks
}

// Position returns the target's current positioning.
func (t *RenderTarget) Position() Position {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

// WidthPx is the target width in CSS pixels.
func (t *RenderTarget) WidthPx() float64 { return t.WidthMM * compose.PxPerMM }

// layout lays out the target's blocks. An absolutely positioned target is
// out of flow and only yields its first page-height viewport; capture runs
// inside withFlow to get the full height.
func (t *RenderTarget) layout(opts compose.Options) (*compose.Frame, error) {
	opts.Width = t.WidthPx()
	opts.Viewport = 0
	if t.Position() == PositionAbsolute {
		opts.Viewport = opts.Width * compose.A4HeightMM / compose.A4WidthMM
	}
	return compose.Layout(t.Blocks(), opts)
}

// withFlow switches the target to normal flow for the duration of fn so its
// full height is laid out, then restores the previous positioning.
func (t *RenderTarget) withFlow(fn func() error) error {
	t.mu.Lock()
	prev := t.position
	t.position = PositionRelative
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.position = prev
		t.mu.Unlock()
	}()
	return fn()
}

// release drops the block tree.
func (t *RenderTarget) release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.blocks = nil
}
