package problem

import (
	"fmt"
	"strings"
)

// OptionCount is the number of choices every problem carries.
const OptionCount = 5

// optionLabels are the circled numerals printed in front of each choice.
var optionLabels = [OptionCount]string{"①", "②", "③", "④", "⑤"}

// Problem is a single five-option multiple-choice math problem as produced
// by the generation service or loaded from a JSON file. Text fields may
// contain inline ($...$) or display ($$...$$) math markup and literal "\n"
// sequences.
type Problem struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Points             int      `json:"points"`
	ProblemType        string   `json:"problemType"`
	Analysis           string   `json:"analysis"`

	// SVGMarkup is an optional figure (geometry, graphs, tables).
	SVGMarkup string `json:"svgImage,omitempty"`
}

// Point limits used by the edit form.
const (
	MinPoints     = 2
	MaxPoints     = 4
	DefaultPoints = 2
)

// OptionLabel returns the circled label for a 0-based option index, or "?"
// when the index is out of range.
func OptionLabel(i int) string {
	if i < 0 || i >= OptionCount {
		return "?"
	}
	return optionLabels[i]
}

// Validate checks the structural invariants of a problem: exactly five
// options and a correct index that points at one of them.
func (p Problem) Validate() error {
	if strings.TrimSpace(p.Question) == "" {
		return fmt.Errorf("question is empty")
	}
	if len(p.Options) != OptionCount {
		return fmt.Errorf("expected %d options, got %d", OptionCount, len(p.Options))
	}
	if p.CorrectAnswerIndex < 0 || p.CorrectAnswerIndex >= OptionCount {
		return fmt.Errorf("correctAnswerIndex %d out of range [0,%d)", p.CorrectAnswerIndex, OptionCount)
	}
	return nil
}

// HasFigure reports whether the problem carries SVG markup.
func (p Problem) HasFigure() bool {
	return strings.TrimSpace(p.SVGMarkup) != ""
}

// ClampPoints parses a points value typed by the user. Values that do not
// parse fall back to DefaultPoints; parsed values are clamped to
// [MinPoints, MaxPoints].
func ClampPoints(s string) int {
	var n int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &n); err != nil {
		return DefaultPoints
	}
	switch {
	case n < MinPoints:
		return MinPoints
	case n > MaxPoints:
		return MaxPoints
	}
	return n
}

// Clone returns a deep copy of the problem.
func (p Problem) Clone() Problem {
	c := p
	c.Options = append([]string(nil), p.Options...)
	return c
}

// CloneAll deep-copies a problem list.
func CloneAll(ps []Problem) []Problem {
	if ps == nil {
		return nil
	}
	out := make([]Problem, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}
