// Package radar computes the geometry of N-axis radar ("spider") charts.
//
// Compute is a pure function: identical inputs always produce identical
// coordinates. Painting is left to the caller, which receives polygons,
// spokes and label anchors in the chart's own pixel space.
package radar

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultSize is the chart edge length used when none is given.
	DefaultSize = 450.0

	// MaxScore is the score that maps to the outer ring.
	MaxScore = 100.0
)

var (
	ErrTooFewAxes     = errors.New("radar chart needs at least two axes")
	ErrLengthMismatch = errors.New("labels and scores differ in length")
)

// Config tunes the chart proportions.
type Config struct {
	// RadiusRatio is the outer ring radius as a fraction of Size.
	RadiusRatio float64
	// Levels is the number of concentric grid rings.
	Levels int
	// LabelRatio places axis labels at this multiple of the outer radius.
	LabelRatio float64
	// LevelAngle is the ray (degrees) along which ring captions are placed.
	LevelAngle float64
	// LevelOffsetX shifts ring captions right of their ray.
	LevelOffsetX float64
	// HorizontalNudge is added to the y of labels near due east/west.
	HorizontalNudge float64
}

// DefaultConfig returns the standard chart proportions.
func DefaultConfig() Config {
	return Config{
		RadiusRatio:     0.30,
		Levels:          4,
		LabelRatio:      1.25,
		LevelAngle:      -45,
		LevelOffsetX:    5,
		HorizontalNudge: 5,
	}
}

// Point is a position in chart pixel space (origin top-left, y down).
type Point struct {
	X, Y float64
}

// Axis is one spoke of the chart.
type Axis struct {
	Label string
	// Angle in degrees, measured clockwise from due east.
	Angle float64
	// End is the spoke's outer end on the outermost ring.
	End Point
	// LabelAt is the label anchor (centred text).
	LabelAt Point
}

// LevelLabel is a ring caption such as "25" or "100".
type LevelLabel struct {
	Text string
	At   Point
}

// Chart is the computed geometry of one radar chart.
type Chart struct {
	Size      float64
	Center    Point
	MaxRadius float64
	Axes      []Axis
	// Rings holds one closed polygon per grid level, innermost first.
	Rings [][]Point
	// Data is the score polygon, one vertex per axis.
	Data []Point
	// Radii holds the radius of each data vertex.
	Radii       []float64
	LevelLabels []LevelLabel
}

// Compute builds the chart geometry with the default configuration.
func Compute(labels []string, scores []float64, size float64) (Chart, error) {
	return DefaultConfig().Compute(labels, scores, size)
}

// Compute builds the chart geometry. Scores outside [0,100] are clamped.
func (c Config) Compute(labels []string, scores []float64, size float64) (Chart, error) {
	n := len(labels)
	if n < 2 {
		return Chart{}, ErrTooFewAxes
	}
	if len(scores) != n {
		return Chart{}, fmt.Errorf("%w: %d labels, %d scores", ErrLengthMismatch, n, len(scores))
	}
	if size <= 0 {
		size = DefaultSize
	}
	levels := c.Levels
	if levels < 1 {
		levels = 1
	}

	center := Point{X: size / 2, Y: size / 2}
	maxRadius := size * c.RadiusRatio
	angles := AxisAngles(n)

	ch := Chart{
		Size:      size,
		Center:    center,
		MaxRadius: maxRadius,
		Axes:      make([]Axis, n),
		Data:      make([]Point, n),
		Radii:     make([]float64, n),
	}

	for i, a := range angles {
		label := polar(center, a, maxRadius*c.LabelRatio)
		if nearHorizontal(a) {
			label.Y += c.HorizontalNudge
		}
		ch.Axes[i] = Axis{
			Label:   labels[i],
			Angle:   a,
			End:     polar(center, a, maxRadius),
			LabelAt: label,
		}

		r := (clampScore(scores[i]) / MaxScore) * maxRadius
		ch.Radii[i] = r
		ch.Data[i] = polar(center, a, r)
	}

	for l := range levels {
		r := maxRadius * float64(l+1) / float64(levels)
		ring := make([]Point, n)
		for i, a := range angles {
			ring[i] = polar(center, a, r)
		}
		ch.Rings = append(ch.Rings, ring)

		at := polar(center, c.LevelAngle, r)
		at.X += c.LevelOffsetX
		ch.LevelLabels = append(ch.LevelLabels, LevelLabel{
			Text: formatLevel(MaxScore / float64(levels) * float64(l+1)),
			At:   at,
		})
	}

	return ch, nil
}

// AxisAngles returns the angle in degrees of each of n axes. Axes start due
// north and advance clockwise; two axes are spread to -135 and -45 so they
// do not collapse onto a single vertical line.
func AxisAngles(n int) []float64 {
	if n == 2 {
		return []float64{-135, -45}
	}
	out := make([]float64, n)
	step := 360 / float64(n)
	for i := range out {
		out[i] = -90 + float64(i)*step
	}
	return out
}

// Scale returns a copy of the chart with every coordinate multiplied by f.
func (ch Chart) Scale(f float64) Chart {
	sp := func(p Point) Point { return Point{X: p.X * f, Y: p.Y * f} }
	out := Chart{
		Size:      ch.Size * f,
		Center:    sp(ch.Center),
		MaxRadius: ch.MaxRadius * f,
		Axes:      make([]Axis, len(ch.Axes)),
		Data:      make([]Point, len(ch.Data)),
		Radii:     make([]float64, len(ch.Radii)),
	}
	for i, a := range ch.Axes {
		out.Axes[i] = Axis{Label: a.Label, Angle: a.Angle, End: sp(a.End), LabelAt: sp(a.LabelAt)}
	}
	for i, p := range ch.Data {
		out.Data[i] = sp(p)
	}
	for i, r := range ch.Radii {
		out.Radii[i] = r * f
	}
	for _, ring := range ch.Rings {
		sr := make([]Point, len(ring))
		for i, p := range ring {
			sr[i] = sp(p)
		}
		out.Rings = append(out.Rings, sr)
	}
	for _, l := range ch.LevelLabels {
		out.LevelLabels = append(out.LevelLabels, LevelLabel{Text: l.Text, At: sp(l.At)})
	}
	return out
}

func polar(c Point, deg, r float64) Point {
	rad := deg * math.Pi / 180
	return Point{X: c.X + r*math.Cos(rad), Y: c.Y + r*math.Sin(rad)}
}

func nearHorizontal(deg float64) bool {
	return math.Abs(deg) < 10 || math.Abs(deg-180) < 10
}

func clampScore(s float64) float64 {
	switch {
	case math.IsNaN(s), s < 0:
		return 0
	case s > MaxScore:
		return MaxScore
	}
	return s
}

func formatLevel(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.1f", v)
}
