package compose

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/abhisek/mathsheet/internal/radar"
)

var (
	chartGrid  = colorHex(0xd1d5db)
	chartFill  = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0x4d}
	chartLevel = colorHex(0x9ca3af)
)

// Paint rasterises the frame onto an opaque white image.
func (f *Frame) Paint() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(f.Width, 1), max(f.Height, 1)))
	draw.Draw(img, img.Bounds(), image.NewUniform(White), image.Point{}, draw.Src)

	p := &painter{dst: img, faces: f.faces, scale: f.scale, fakeBold: f.fonts != nil && f.fonts.Bold == f.fonts.Regular}
	for _, it := range f.items {
		switch it := it.(type) {
		case rectItem:
			p.rect(it)
		case lineItem:
			p.line(it)
		case textItem:
			p.text(it)
		case figureItem:
			p.figure(it)
		case chartItem:
			p.chart(it)
		}
	}
	return img
}

type painter struct {
	dst      *image.RGBA
	faces    *faceCache
	scale    float64
	fakeBold bool
}

type pt struct{ x, y float64 }

func (p *painter) rect(r rectItem) {
	box := []pt{{r.x, r.y}, {r.x + r.w, r.y}, {r.x + r.w, r.y + r.h}, {r.x, r.y + r.h}}
	if r.fill.A > 0 {
		p.fill(box, r.fill)
	}
	if r.border.A > 0 && r.border != r.fill {
		p.polyline(append(box, box[0]), r.borderWidth, r.border)
	}
}

func (p *painter) line(l lineItem) {
	if !l.dashed {
		p.segment(pt{l.x1, l.y1}, pt{l.x2, l.y2}, l.width, l.color)
		return
	}
	dash, gap := 6*p.scale, 4*p.scale
	length := math.Hypot(l.x2-l.x1, l.y2-l.y1)
	if length == 0 {
		return
	}
	ux, uy := (l.x2-l.x1)/length, (l.y2-l.y1)/length
	for d := 0.0; d < length; d += dash + gap {
		e := math.Min(d+dash, length)
		p.segment(pt{l.x1 + ux*d, l.y1 + uy*d}, pt{l.x1 + ux*e, l.y1 + uy*e}, l.width, l.color)
	}
}

func (p *painter) text(t textItem) {
	face := p.faces.face(t.size, t.bold)
	p.drawString(face, t.x, t.baseline, t.text, t.color)
	if t.bold && p.fakeBold {
		p.drawString(face, t.x+math.Max(p.scale/2, 1), t.baseline, t.text, t.color)
	}
}

func (p *painter) drawString(face font.Face, x, baseline float64, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  p.dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(baseline)},
	}
	d.DrawString(s)
}

func (p *painter) figure(f figureItem) {
	w, h := int(math.Round(f.w)), int(math.Round(f.h))
	if w <= 0 || h <= 0 {
		return
	}
	f.icon.SetTarget(0, 0, float64(w), float64(h))
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, src, src.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	f.icon.Draw(raster, f.opacity)

	x, y := int(math.Round(f.x)), int(math.Round(f.y))
	draw.Draw(p.dst, image.Rect(x, y, x+w, y+h), src, image.Point{}, draw.Over)
}

func (p *painter) chart(c chartItem) {
	ch := c.chart
	off := func(q radar.Point) pt { return pt{c.x + q.X, c.y + q.Y} }
	ring := func(pts []radar.Point) []pt {
		out := make([]pt, 0, len(pts)+1)
		for _, q := range pts {
			out = append(out, off(q))
		}
		return out
	}

	for _, r := range ch.Rings {
		pts := ring(r)
		p.polyline(append(pts, pts[0]), c.unit, chartGrid)
	}
	for _, a := range ch.Axes {
		p.segment(off(ch.Center), off(a.End), c.unit, chartGrid)
	}

	data := ring(ch.Data)
	p.fill(data, chartFill)
	p.polyline(append(data, data[0]), 2*c.unit, Primary)
	for _, q := range data {
		p.circle(q, 4*c.unit, Primary)
	}

	label := p.faces.face(12*c.unit, true)
	for _, a := range ch.Axes {
		at := off(a.LabelAt)
		p.centered(label, at, a.Label, DarkGray)
	}
	level := p.faces.face(10*c.unit, false)
	for _, l := range ch.LevelLabels {
		at := off(l.At)
		asc := fixedToFloat(level.Metrics().Ascent)
		p.drawString(level, at.x, at.y+asc/2, l.Text, chartLevel)
	}
}

// centered draws s with its centre at q.
func (p *painter) centered(face font.Face, q pt, s string, c color.Color) {
	m := face.Metrics()
	w := advance(face, s)
	h := fixedToFloat(m.Ascent) - fixedToFloat(m.Descent)
	p.drawString(face, q.x-w/2, q.y+h/2, s, c)
}

func (p *painter) circle(center pt, r float64, c color.Color) {
	const n = 24
	pts := make([]pt, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / n
		pts[i] = pt{center.x + r*math.Cos(a), center.y + r*math.Sin(a)}
	}
	p.fill(pts, c)
}

func (p *painter) polyline(pts []pt, width float64, c color.Color) {
	for i := 0; i+1 < len(pts); i++ {
		p.segment(pts[i], pts[i+1], width, c)
	}
}

// segment strokes a straight line as a filled quad.
func (p *painter) segment(a, b pt, width float64, c color.Color) {
	dx, dy := b.x-a.x, b.y-a.y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	hw := math.Max(width, 1) / 2
	nx, ny := -dy/length*hw, dx/length*hw
	p.fill([]pt{{a.x + nx, a.y + ny}, {b.x + nx, b.y + ny}, {b.x - nx, b.y - ny}, {a.x - nx, a.y - ny}}, c)
}

// fill rasterises a closed polygon with anti-aliasing. The rasteriser only
// covers the polygon's bounding box clipped to the destination.
func (p *painter) fill(pts []pt, c color.Color) {
	if len(pts) < 3 {
		return
	}
	minX, minY := pts[0].x, pts[0].y
	maxX, maxY := minX, minY
	for _, q := range pts[1:] {
		minX, maxX = math.Min(minX, q.x), math.Max(maxX, q.x)
		minY, maxY = math.Min(minY, q.y), math.Max(maxY, q.y)
	}
	r := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
	r = r.Intersect(p.dst.Bounds())
	if r.Empty() {
		return
	}

	ras := vector.NewRasterizer(r.Dx(), r.Dy())
	ras.DrawOp = draw.Over
	clamp := func(q pt) (float32, float32) {
		x := math.Min(math.Max(q.x-float64(r.Min.X), 0), float64(r.Dx()))
		y := math.Min(math.Max(q.y-float64(r.Min.Y), 0), float64(r.Dy()))
		return float32(x), float32(y)
	}
	ras.MoveTo(clamp(pts[0]))
	for _, q := range pts[1:] {
		ras.LineTo(clamp(q))
	}
	ras.ClosePath()
	ras.Draw(p.dst, r, image.NewUniform(c), image.Point{})
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }
