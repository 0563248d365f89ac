package problemgen

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/abhisek/mathsheet/internal/problem"
)

// ChoiceValidator checks the option list: exactly five non-empty options,
// a correct index pointing at one of them, and no two options with the same
// value. Numeric options are compared by value, so "1/2" and "0.5" collide.
type ChoiceValidator struct{}

func (v *ChoiceValidator) Name() string { return "choices" }

func (v *ChoiceValidator) Validate(p problem.Problem) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...)}
	}
	if len(p.Options) != problem.OptionCount {
		return fail("expected %d options, got %d", problem.OptionCount, len(p.Options))
	}
	if p.CorrectAnswerIndex < 0 || p.CorrectAnswerIndex >= problem.OptionCount {
		return fail("correctAnswerIndex %d out of range", p.CorrectAnswerIndex)
	}

	seen := make(map[string]int, len(p.Options))
	for i, opt := range p.Options {
		if strings.TrimSpace(opt) == "" {
			return fail("option %s is empty", problem.OptionLabel(i))
		}
		key := optionKey(opt)
		if j, dup := seen[key]; dup {
			return fail("options %s and %s are equivalent", problem.OptionLabel(j), problem.OptionLabel(i))
		}
		seen[key] = i
	}
	return nil
}

// optionKey normalises an option for comparison. Math delimiters and
// whitespace are dropped; numeric values (integers, decimals, fractions)
// reduce to their canonical rational form.
func optionKey(opt string) string {
	s := strings.ReplaceAll(opt, "$", "")
	s = strings.Join(strings.Fields(s), "")
	if r, ok := parseNumber(s); ok {
		return "#" + r.RatString()
	}
	return strings.ToLower(s)
}

// parseNumber accepts "623", "-15", "3.50", "3/4" and \frac{3}{4}.
func parseNumber(s string) (*big.Rat, bool) {
	if strings.HasPrefix(s, `\frac{`) || strings.HasPrefix(s, `\dfrac{`) {
		rest := s[strings.Index(s, "{")+1:]
		num, den, ok := strings.Cut(rest, "}{")
		if !ok || !strings.HasSuffix(den, "}") {
			return nil, false
		}
		s = num + "/" + strings.TrimSuffix(den, "}")
	}
	if s == "" || strings.ContainsAny(s, "eE") {
		return nil, false
	}
	r, ok := new(big.Rat).SetString(s)
	return r, ok
}
