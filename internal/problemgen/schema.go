package problemgen

import (
	"github.com/abhisek/mathsheet/internal/llm"
	"github.com/abhisek/mathsheet/internal/problem"
)

// ProblemSetSchema is the response schema for both custom sets and level
// tests: an object wrapping the problem array.
var ProblemSetSchema = &llm.Schema{
	Name:        "problem-set",
	Description: "A set of five-option multiple-choice math problems",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"problems": map[string]any{
				"type":  "array",
				"items": problem.SchemaDefinition(),
			},
		},
		"required": []any{"problems"},
	},
}
