package problemgen

import (
	"fmt"

	"github.com/abhisek/mathsheet/internal/mathtext"
	"github.com/abhisek/mathsheet/internal/problem"
)

// MarkupValidator checks that every math run in the question, the options
// and the analysis typesets. A run with unbalanced braces would be printed
// as raw TeX.
type MarkupValidator struct{}

func (v *MarkupValidator) Name() string { return "markup" }

func (v *MarkupValidator) Validate(p problem.Problem) *ValidationError {
	check := func(field, s string) *ValidationError {
		for _, run := range mathtext.Parse(mathtext.Normalize(s)) {
			if !run.IsMath() {
				continue
			}
			if _, err := mathtext.ToUnicode(run.Source); err != nil {
				return &ValidationError{
					Validator: v.Name(),
					Message:   fmt.Sprintf("%s: math %q: %v", field, run.Source, err),
				}
			}
		}
		return nil
	}

	if err := check("question", p.Question); err != nil {
		return err
	}
	for i, opt := range p.Options {
		if err := check("option "+problem.OptionLabel(i), opt); err != nil {
			return err
		}
	}
	return check("analysis", p.Analysis)
}
