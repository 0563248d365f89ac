package compose

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/srwiley/oksvg"
	"golang.org/x/image/font"

	"github.com/abhisek/mathsheet/internal/mathtext"
	"github.com/abhisek/mathsheet/internal/radar"
)

// A4 geometry in CSS pixels (96 per inch).
const (
	PxPerMM    = 96 / 25.4
	A4WidthMM  = 210.0
	A4HeightMM = 297.0
	A4Width    = A4WidthMM * PxPerMM
)

// pageTopGap is left above a block moved to the start of a new page.
const pageTopGap = 10 * PxPerMM

func colorHex(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// Options controls layout.
type Options struct {
	// Width of the surface in CSS pixels. Zero means A4 width.
	Width float64
	// Scale is the device pixel ratio used for capture. Zero means 1.
	Scale float64
	// Fonts used for measuring and drawing text. Nil means the Go fonts.
	Fonts *Fonts
	// Viewport, when positive, cuts the frame to this many CSS pixels of
	// height. An out-of-flow surface only yields its first viewport.
	Viewport float64
}

// Frame is a laid-out block tree in device pixels, ready to paint.
type Frame struct {
	Width, Height int
	// PageHeight is the height of one A4 page at this width.
	PageHeight float64
	Warnings   []string

	items []item
	scale float64
	fonts *Fonts
	faces *faceCache
}

type item interface{ isItem() }

type textItem struct {
	x, baseline float64
	text        string
	size        float64
	bold        bool
	color       color.RGBA
}

type rectItem struct {
	x, y, w, h   float64
	fill, border color.RGBA
	borderWidth  float64
}

type lineItem struct {
	x1, y1, x2, y2 float64
	width          float64
	color          color.RGBA
	dashed         bool
}

type figureItem struct {
	x, y, w, h float64
	icon       *oksvg.SvgIcon
	opacity    float64
}

type chartItem struct {
	x, y  float64
	chart radar.Chart
	// unit is the device-pixel size of one CSS pixel of the chart.
	unit float64
}

func (textItem) isItem()   {}
func (rectItem) isItem()   {}
func (lineItem) isItem()   {}
func (figureItem) isItem() {}
func (chartItem) isItem()  {}

// Layout positions blocks on a surface of opts.Width and returns the frame.
// Keep-together groups that would straddle a page boundary are moved to the
// next page when they fit on one page.
func Layout(blocks []Block, opts Options) (*Frame, error) {
	if opts.Width <= 0 {
		opts.Width = A4Width
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	fonts := opts.Fonts
	if fonts == nil {
		var err error
		if fonts, err = GoFonts(); err != nil {
			return nil, err
		}
	}

	width := opts.Width * opts.Scale
	// Pages are sliced from the integer-width capture, so page boundaries
	// follow the rounded width.
	widthPx := int(math.Ceil(width))
	l := &layouter{
		scale: opts.Scale,
		pageH: float64(widthPx) * A4HeightMM / A4WidthMM,
		faces: newFaceCache(fonts),
	}
	l.blocks(blocks, 0, width)

	height := int(math.Ceil(l.y))
	items := l.items
	if opts.Viewport > 0 {
		clip := opts.Viewport * opts.Scale
		height = min(height, int(math.Ceil(clip)))
		items = visible(items, clip)
	}

	return &Frame{
		Width:      widthPx,
		Height:     height,
		PageHeight: l.pageH,
		Warnings:   l.warnings,
		items:      items,
		scale:      opts.Scale,
		fonts:      fonts,
		faces:      l.faces,
	}, nil
}

// visible drops items that start at or below clip.
func visible(items []item, clip float64) []item {
	out := items[:0:0]
	for _, it := range items {
		var top float64
		switch it := it.(type) {
		case textItem:
			top = it.baseline - it.size
		case rectItem:
			top = it.y
		case lineItem:
			top = min(it.y1, it.y2)
		case figureItem:
			top = it.y
		case chartItem:
			top = it.y
		}
		if top < clip {
			out = append(out, it)
		}
	}
	return out
}

// Close releases the faces held by the frame.
func (f *Frame) Close() {
	if f.faces != nil {
		f.faces.close()
	}
}

type layouter struct {
	y        float64
	scale    float64
	pageH    float64
	noBreak  bool
	items    []item
	warnings []string
	faces    *faceCache
}

func (l *layouter) blocks(bs []Block, x, w float64) {
	for _, b := range bs {
		l.block(b, x, w)
	}
}

func (l *layouter) block(b Block, x, w float64) {
	switch b := b.(type) {
	case Text:
		l.text(b, x, w)
	case Figure:
		l.figure(b, x, w)
	case Chart:
		l.chart(b, x, w)
	case Rule:
		bw := math.Max(b.Width*l.scale, 1)
		l.items = append(l.items, lineItem{x1: x, y1: l.y + bw/2, x2: x + w, y2: l.y + bw/2, width: bw, color: b.Color, dashed: b.Dashed})
		l.y += bw
	case Spacer:
		l.y += b.Height * l.scale
	case Box:
		l.box(b, x, w)
	case Row:
		l.row(b, x, w)
	case Group:
		l.group(b, x, w)
	}
}

// measure returns the natural height of bs without emitting anything.
func (l *layouter) measure(bs []Block, x, w float64) float64 {
	sub := &layouter{scale: l.scale, pageH: l.pageH, noBreak: true, faces: l.faces}
	sub.blocks(bs, x, w)
	return sub.y
}

func (l *layouter) group(g Group, x, w float64) {
	if g.KeepTogether && !l.noBreak && l.pageH > 0 {
		h := l.measure(g.Children, x, w)
		if h <= l.pageH {
			page := math.Floor(l.y / l.pageH)
			pageEnd := (page + 1) * l.pageH
			if l.y+h > pageEnd+0.5 {
				gap := pageTopGap * l.scale
				if h+gap > l.pageH {
					gap = 0
				}
				l.y = pageEnd + gap
			}
		}
	}
	l.blocks(g.Children, x, w)
}

func (l *layouter) box(b Box, x, w float64) {
	pad := b.Padding * l.scale
	idx := len(l.items)
	l.items = append(l.items, nil)
	top := l.y
	l.y += pad
	l.blocks(b.Children, x+pad, w-2*pad)
	l.y += pad
	l.items[idx] = rectItem{x: x, y: top, w: w, h: l.y - top, fill: b.Fill, border: b.Border, borderWidth: l.scale}
}

func (l *layouter) row(r Row, x, w float64) {
	n := len(r.Children)
	if n == 0 {
		return
	}
	gap := r.Gap * l.scale
	cw := (w - gap*float64(n-1)) / float64(n)
	top, bottom := l.y, l.y
	saved := l.noBreak
	l.noBreak = true
	for i, c := range r.Children {
		l.y = top
		l.block(c, x+float64(i)*(cw+gap), cw)
		bottom = math.Max(bottom, l.y)
	}
	l.noBreak = saved
	l.y = bottom
}

func (l *layouter) text(t Text, x, w float64) {
	st := t.Style
	size := st.Size * l.scale
	if size <= 0 {
		size = 16 * l.scale
	}
	lh := st.LineHeight
	if lh <= 0 {
		lh = 1.5
	}
	lineH := lh * size
	indent := st.Indent * l.scale
	x, w = x+indent, w-indent
	col := st.Color
	if col.A == 0 {
		col = Black
	}

	face := l.faces.face(size, st.Bold)
	m := face.Metrics()
	asc, desc := fixedToFloat(m.Ascent), fixedToFloat(m.Descent)

	for _, para := range strings.Split(t.Markup.String(), "\n") {
		for _, line := range wrap(face, para, w) {
			lx := x
			switch st.Align {
			case AlignCenter:
				lx = x + (w-advance(face, line))/2
			case AlignRight:
				lx = x + w - advance(face, line)
			}
			baseline := l.y + (lineH-(asc+desc))/2 + asc
			if line != "" {
				l.items = append(l.items, textItem{x: lx, baseline: baseline, text: line, size: size, bold: st.Bold, color: col})
			}
			l.y += lineH
		}
	}
}

func (l *layouter) figure(f Figure, x, w float64) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(f.SVG), oksvg.IgnoreErrorMode)
	if err != nil {
		l.warnings = append(l.warnings, fmt.Sprintf("figure skipped: %v", err))
		return
	}
	vb := icon.ViewBox
	if vb.W <= 0 || vb.H <= 0 {
		l.warnings = append(l.warnings, "figure skipped: empty viewBox")
		return
	}
	scale := f.Scale
	if scale <= 0 {
		scale = 1
	}
	fw := w
	if f.MaxWidth > 0 {
		fw = math.Min(f.MaxWidth*l.scale, w)
	}
	fw *= scale
	fh := fw * vb.H / vb.W
	opacity := f.Opacity
	if opacity <= 0 {
		opacity = 1
	}
	l.items = append(l.items, figureItem{x: x + (w-fw)/2, y: l.y, w: fw, h: fh, icon: icon, opacity: opacity})
	l.y += fh
}

func (l *layouter) chart(c Chart, x, w float64) {
	if c.Title != "" {
		l.text(Text{Markup: mathtext.Render(c.Title), Style: Style{Size: 16, Bold: true, Align: AlignCenter}}, x, w)
	}
	size := math.Min(c.Chart.Size*l.scale, w)
	if c.Chart.Size <= 0 || size <= 0 {
		return
	}
	f := size / c.Chart.Size
	l.items = append(l.items, chartItem{x: x + (w-size)/2, y: l.y, chart: c.Chart.Scale(f), unit: f})
	l.y += size
}

// wrap breaks s into lines no wider than w. Words wider than w are broken
// between runes.
func wrap(face font.Face, s string, w float64) []string {
	var lines []string
	cur := ""
	for _, word := range strings.Fields(s) {
		cand := word
		if cur != "" {
			cand = cur + " " + word
		}
		if advance(face, cand) <= w {
			cur = cand
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		for word != "" && advance(face, word) > w {
			n := fitRunes(face, word, w)
			lines = append(lines, word[:n])
			word = word[n:]
		}
		cur = word
	}
	if cur != "" || len(lines) == 0 {
		lines = append(lines, cur)
	}
	return lines
}

// fitRunes returns the byte length of the longest prefix of s that fits in
// w. At least one rune is always taken.
func fitRunes(face font.Face, s string, w float64) int {
	_, first := utf8.DecodeRuneInString(s)
	n := first
	for n < len(s) {
		_, size := utf8.DecodeRuneInString(s[n:])
		if advance(face, s[:n+size]) > w {
			break
		}
		n += size
	}
	return n
}

func advance(face font.Face, s string) float64 {
	return fixedToFloat(font.MeasureString(face, s))
}
