package radar

import (
	"fmt"
	"html"
	"strings"
)

// SVG renders the chart as standalone SVG markup. Colors follow the light
// page palette used in printed documents.
func (ch Chart) SVG() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(ch.Size), num(ch.Size), num(ch.Size), num(ch.Size))
	b.WriteString("\n")

	for _, ring := range ch.Rings {
		fmt.Fprintf(&b, `  <polygon points="%s" fill="none" stroke="#d1d5db" stroke-width="1"/>`+"\n", points(ring))
	}
	for _, a := range ch.Axes {
		fmt.Fprintf(&b, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#d1d5db" stroke-width="1"/>`+"\n",
			num(ch.Center.X), num(ch.Center.Y), num(a.End.X), num(a.End.Y))
	}
	for _, a := range ch.Axes {
		fmt.Fprintf(&b, `  <text x="%s" y="%s" font-size="12" font-weight="bold" fill="#6b7280" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			num(a.LabelAt.X), num(a.LabelAt.Y), html.EscapeString(a.Label))
	}
	for _, l := range ch.LevelLabels {
		fmt.Fprintf(&b, `  <text x="%s" y="%s" font-size="10" fill="#6b7280" text-anchor="start" dominant-baseline="middle">%s</text>`+"\n",
			num(l.At.X), num(l.At.Y), l.Text)
	}
	fmt.Fprintf(&b, `  <polygon points="%s" fill="#3b82f6" fill-opacity="0.3" stroke="#3b82f6" stroke-width="2"/>`+"\n", points(ch.Data))
	for _, p := range ch.Data {
		fmt.Fprintf(&b, `  <circle cx="%s" cy="%s" r="4" fill="#3b82f6"/>`+"\n", num(p.X), num(p.Y))
	}
	b.WriteString("</svg>\n")
	return b.String()
}

func points(ps []Point) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
