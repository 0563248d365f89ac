package compose

import (
	"image/color"

	"github.com/abhisek/mathsheet/internal/mathtext"
	"github.com/abhisek/mathsheet/internal/radar"
)

// Align is horizontal text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Style describes how a text block is drawn. Sizes are CSS pixels.
type Style struct {
	Size       float64
	Bold       bool
	Color      color.RGBA
	Align      Align
	LineHeight float64 // multiple of Size; 0 means 1.5
	Indent     float64
}

// Palette used by the printable documents. Exports are always light.
var (
	Black     = color.RGBA{0, 0, 0, 255}
	Gray      = color.RGBA{0x66, 0x66, 0x66, 255}
	DarkGray  = color.RGBA{0x37, 0x41, 0x51, 255}
	LightGray = color.RGBA{0xe5, 0xe7, 0xeb, 255}
	Paper     = color.RGBA{0xf9, 0xfa, 0xfb, 255}
	Primary   = color.RGBA{0x3b, 0x82, 0xf6, 255}
	Wrong     = color.RGBA{0xdc, 0x26, 0x26, 255}
	White     = color.RGBA{255, 255, 255, 255}
)

// Block is a node of a composed document.
type Block interface {
	isBlock()
}

// Text is a paragraph of markup. Its math runs are typeset in place after
// mounting.
type Text struct {
	Markup *mathtext.Markup
	Style  Style
}

// Figure is an SVG image scaled to fit MaxWidth and then by Scale.
type Figure struct {
	SVG      string
	MaxWidth float64
	Scale    float64
	Opacity  float64
}

// Chart is a radar chart computed at its CSS size.
type Chart struct {
	Title string
	Chart radar.Chart
}

// Rule is a horizontal line.
type Rule struct {
	Width  float64
	Color  color.RGBA
	Dashed bool
}

// Spacer is vertical empty space.
type Spacer struct {
	Height float64
}

// Box draws children inside a padded, optionally filled and bordered
// rectangle.
type Box struct {
	Children []Block
	Padding  float64
	Fill     color.RGBA
	Border   color.RGBA
}

// Row lays its children out side by side in equal-width columns.
type Row struct {
	Children []Block
	Gap      float64
}

// Group stacks its children. A keep-together group is moved to the next
// page rather than split, as long as it fits on one page.
type Group struct {
	Children     []Block
	KeepTogether bool
}

func (Text) isBlock()   {}
func (Figure) isBlock() {}
func (Chart) isBlock()  {}
func (Rule) isBlock()   {}
func (Spacer) isBlock() {}
func (Box) isBlock()    {}
func (Row) isBlock()    {}
func (Group) isBlock()  {}

// Builder accumulates blocks and remembers every markup it creates so the
// mount can typeset them.
type Builder struct {
	blocks  []Block
	markups *[]*mathtext.Markup
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{markups: new([]*mathtext.Markup)}
}

func (b *Builder) sub() *Builder {
	return &Builder{markups: b.markups}
}

// Blocks returns the top-level blocks built so far.
func (b *Builder) Blocks() []Block { return b.blocks }

// Markups returns every markup created by this builder and its nested
// builders, in creation order.
func (b *Builder) Markups() []*mathtext.Markup { return *b.markups }

// Add appends a block verbatim.
func (b *Builder) Add(blk Block) { b.blocks = append(b.blocks, blk) }

// Text renders s and appends it as a paragraph.
func (b *Builder) Text(s string, st Style) *mathtext.Markup {
	m := mathtext.Render(s)
	*b.markups = append(*b.markups, m)
	b.Add(Text{Markup: m, Style: st})
	return m
}

// Figure appends an SVG figure. Empty markup is ignored.
func (b *Builder) Figure(svg string, maxWidth, scale, opacity float64) {
	if svg == "" {
		return
	}
	b.Add(Figure{SVG: svg, MaxWidth: maxWidth, Scale: scale, Opacity: opacity})
}

// Rule appends a horizontal line.
func (b *Builder) Rule(width float64, c color.RGBA, dashed bool) {
	b.Add(Rule{Width: width, Color: c, Dashed: dashed})
}

// Space appends vertical space.
func (b *Builder) Space(h float64) { b.Add(Spacer{Height: h}) }

// Box appends a box whose content is built by fn.
func (b *Builder) Box(padding float64, fill, border color.RGBA, fn func(*Builder)) {
	s := b.sub()
	fn(s)
	b.Add(Box{Children: s.blocks, Padding: padding, Fill: fill, Border: border})
}

// Row appends a row; every block fn adds becomes one column.
func (b *Builder) Row(gap float64, fn func(*Builder)) {
	s := b.sub()
	fn(s)
	b.Add(Row{Children: s.blocks, Gap: gap})
}

// Group appends a group built by fn.
func (b *Builder) Group(keepTogether bool, fn func(*Builder)) {
	s := b.sub()
	fn(s)
	b.Add(Group{Children: s.blocks, KeepTogether: keepTogether})
}
