package problem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrNotArray is returned when an imported document's root is not a JSON
// array of problems.
var ErrNotArray = errors.New("올바른 문제 배열 형식이 아닙니다")

// ImportError wraps any failure while reading a problem file. The UI shows
// it as "JSON 파일 처리 오류: <cause>".
type ImportError struct {
	Index int // element index, -1 for document-level failures
	Err   error
}

func (e *ImportError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("JSON 파일 처리 오류: %d번 문항: %v", e.Index+1, e.Err)
	}
	return fmt.Sprintf("JSON 파일 처리 오류: %v", e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// SchemaDefinition returns the JSON Schema of a single problem object.
// A fresh map is returned on each call so callers may embed it.
func SchemaDefinition() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The math problem question text.",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "An array of 5 multiple-choice options.",
			},
			"correctAnswerIndex": map[string]any{
				"type":        "integer",
				"description": "The 0-based index of the correct answer in the options array.",
			},
			"points": map[string]any{
				"type":        "integer",
				"description": "The point value of the problem (e.g., 2, 3, or 4).",
			},
			"problemType": map[string]any{
				"type":        "string",
				"description": "A short classification of the problem type (e.g., \"개념 이해\", \"계산 능력\", \"응용 문제\").",
			},
			"analysis": map[string]any{
				"type":        "string",
				"description": "A detailed solution and analysis.",
			},
			"svgImage": map[string]any{
				"type":        "string",
				"description": "Optional SVG code for geometry or graphs with a white background and a viewBox.",
			},
		},
		"required": []any{"question", "options", "correctAnswerIndex", "points", "problemType", "analysis"},
	}
}

var (
	elementSchemaOnce sync.Once
	elementSchema     *jsonschema.Schema
	elementSchemaErr  error
)

func compiledElementSchema() (*jsonschema.Schema, error) {
	elementSchemaOnce.Do(func() {
		raw, err := json.Marshal(SchemaDefinition())
		if err != nil {
			elementSchemaErr = err
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			elementSchemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://problem.json"
		if err := c.AddResource(url, doc); err != nil {
			elementSchemaErr = err
			return
		}
		elementSchema, elementSchemaErr = c.Compile(url)
	})
	return elementSchema, elementSchemaErr
}

// Import parses a problem file. The root must be a bare JSON array of
// problem objects. Every element is checked against the problem schema and
// the structural invariants; any failure rejects the whole file.
func Import(data []byte) ([]Problem, error) {
	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, &ImportError{Index: -1, Err: err}
	}
	elems, ok := root.([]any)
	if !ok {
		return nil, &ImportError{Index: -1, Err: ErrNotArray}
	}

	schema, err := compiledElementSchema()
	if err != nil {
		return nil, &ImportError{Index: -1, Err: fmt.Errorf("compile problem schema: %w", err)}
	}
	for i, e := range elems {
		if err := schema.Validate(e); err != nil {
			return nil, &ImportError{Index: i, Err: err}
		}
	}

	var out []Problem
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ImportError{Index: -1, Err: err}
	}
	for i, p := range out {
		if err := p.Validate(); err != nil {
			return nil, &ImportError{Index: i, Err: err}
		}
	}
	if out == nil {
		out = []Problem{}
	}
	return out, nil
}

// Export serialises problems as a pretty-printed JSON array (two-space
// indent), the same shape Import accepts.
func Export(problems []Problem) ([]byte, error) {
	if problems == nil {
		problems = []Problem{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(problems); err != nil {
		return nil, fmt.Errorf("encode problems: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
