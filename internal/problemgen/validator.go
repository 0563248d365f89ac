package problemgen

import (
	"fmt"

	"github.com/abhisek/mathsheet/internal/problem"
)

// Validator checks a generated problem.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator, e.g.
	// "structural" or "choices".
	Name() string

	// Validate returns nil if p passes.
	Validate(p problem.Problem) *ValidationError
}

// ValidationError describes why a problem failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Index     int    // 0-based problem index within the set, -1 for the set
	Message   string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("validator %q: problem %d: %s", e.Validator, e.Index+1, e.Message)
	}
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
