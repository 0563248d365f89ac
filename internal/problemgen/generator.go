package problemgen

import "context"

// Generator produces multiple-choice problem sets.
type Generator interface {
	// Generate produces the problem set described by params. The result has
	// passed every configured validator; any failure rejects the whole set.
	Generate(ctx context.Context, params Params) (*Set, error)
}
