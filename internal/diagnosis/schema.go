package diagnosis

import "github.com/abhisek/mathsheet/internal/llm"

func axisSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"archetype":            map[string]any{"type": "string"},
			"archetypeDescription": map[string]any{"type": "string"},
			"summary":              map[string]any{"type": "string"},
		},
		"required": []any{"archetype", "archetypeDescription", "summary"},
	}
}

func scoresSchema() map[string]any {
	props := make(map[string]any, len(SubScores))
	required := make([]any, len(SubScores))
	for i, s := range SubScores {
		props[s.Key] = map[string]any{"type": "integer"}
		required[i] = s.Key
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// ReportSchema is the response schema of the diagnostic report.
var ReportSchema = &llm.Schema{
	Name:        "diagnostic-report",
	Description: "Five-axis diagnostic report of a student's level test",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scores":                   scoresSchema(),
			"axis1_cognitiveBase":      axisSchema(),
			"axis2_metacognition":      axisSchema(),
			"axis3_knowledgeState":     axisSchema(),
			"axis4_executionStamina":   axisSchema(),
			"axis5_curriculumProgress": axisSchema(),
			"overallSummary":           map[string]any{"type": "string"},
		},
		"required": []any{
			"scores", "axis1_cognitiveBase", "axis2_metacognition", "axis3_knowledgeState",
			"axis4_executionStamina", "axis5_curriculumProgress", "overallSummary",
		},
	},
}
