package llm

import "context"

// Purposes label each request in the llm_requests event log so usage can
// be split by what the tokens were spent on.
const (
	PurposeProblemGen = "problem-gen"
	PurposeLevelTest  = "level-test"
	PurposeReport     = "report"

	// PurposeUnlabeled is recorded for requests made without WithPurpose.
	PurposeUnlabeled = "unlabeled"
)

type purposeKey struct{}

// WithPurpose tags ctx with the purpose recorded for the next request.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the purpose set by WithPurpose, or PurposeUnlabeled.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnlabeled
}
