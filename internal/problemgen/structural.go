package problemgen

import (
	"strings"
	"unicode/utf8"

	"github.com/abhisek/mathsheet/internal/problem"
)

// Length limits in runes.
const (
	maxQuestionLen = 2000
	maxAnalysisLen = 4000
	maxFigureLen   = 60000
)

// StructuralValidator checks that required text fields are present and
// within length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p problem.Problem) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg}
	}
	switch {
	case strings.TrimSpace(p.Question) == "":
		return fail("question is empty")
	case utf8.RuneCountInString(p.Question) > maxQuestionLen:
		return fail("question is too long")
	case strings.TrimSpace(p.Analysis) == "":
		return fail("analysis is empty")
	case utf8.RuneCountInString(p.Analysis) > maxAnalysisLen:
		return fail("analysis is too long")
	case strings.TrimSpace(p.ProblemType) == "":
		return fail("problemType is empty")
	case len(p.SVGMarkup) > maxFigureLen:
		return fail("svgImage is too large")
	}
	return nil
}
