package llm

import (
	"regexp"
	"strings"
)

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of one request's token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// modelCosts covers the models the friendly names in geminiModels,
// anthropicModels and openaiModels resolve to, plus the OpenRouter default.
// Prices from models.dev, 2026-02.
var modelCosts = map[string]ModelCost{
	"gemini-3-flash-preview":    {0.5, 3},
	"gemini-3-pro-preview":      {2, 12},
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-sonnet-4-20250514":  {3, 15},
	"gpt-4o":                    {2.5, 10},
	"gpt-4o-mini":               {0.15, 0.6},
	"mock":                      {0, 0},
}

// snapshotSuffix matches the dated snapshot OpenAI reports back, e.g. the
// "-2024-07-18" of gpt-4o-mini-2024-07-18.
var snapshotSuffix = regexp.MustCompile(`-\d{4}-\d{2}-\d{2}$`)

// LookupCost returns pricing for a model ID as recorded in the event log,
// or nil when the model is not priced. OpenRouter's "vendor/" prefix and
// OpenAI's snapshot date are ignored.
func LookupCost(modelID string) *ModelCost {
	candidates := []string{modelID}
	if _, bare, ok := strings.Cut(modelID, "/"); ok {
		candidates = append(candidates, bare)
	}
	for _, id := range candidates {
		if c, ok := modelCosts[id]; ok {
			return &c
		}
		if c, ok := modelCosts[snapshotSuffix.ReplaceAllString(id, "")]; ok {
			return &c
		}
	}
	return nil
}
