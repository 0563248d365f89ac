package llm_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/mathsheet/internal/diagnosis"
	"github.com/abhisek/mathsheet/internal/llm"
	"github.com/abhisek/mathsheet/internal/problemgen"
)

const oneProblem = `{"problems":[{"question":"$2 + 3$의 값은?","options":["$1$","$3$","$5$","$7$","$9$"],"correctAnswerIndex":2,"points":2,"problemType":"계산 능력","analysis":"$2 + 3 = 5$"}]}`

func TestConform_ProblemSet(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "valid set", raw: oneProblem},
		{name: "empty set", raw: `{"problems":[]}`},
		{name: "figure is optional", raw: strings.Replace(oneProblem, `"analysis"`, `"svgImage":"<svg viewBox=\"0 0 10 10\"/>","analysis"`, 1)},
		{name: "bare array", raw: `[]`, wantErr: true},
		{name: "missing problems", raw: `{"items":[]}`, wantErr: true},
		{name: "missing correct index", raw: strings.Replace(oneProblem, `"correctAnswerIndex":2,`, ``, 1), wantErr: true},
		{name: "index as string", raw: strings.Replace(oneProblem, `"correctAnswerIndex":2`, `"correctAnswerIndex":"2"`, 1), wantErr: true},
		{name: "options not array", raw: strings.Replace(oneProblem, `["$1$","$3$","$5$","$7$","$9$"]`, `"$1$ $3$ $5$"`, 1), wantErr: true},
		{name: "points not integer", raw: strings.Replace(oneProblem, `"points":2`, `"points":2.5`, 1), wantErr: true},
		{name: "truncated", raw: oneProblem[:60], wantErr: true},
		{name: "trailing text", raw: oneProblem + ` 이상입니다.`, wantErr: true},
		{name: "empty", raw: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := llm.Conform(problemgen.ProblemSetSchema, json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var invalid *llm.ErrInvalidResponse
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
			}
			if invalid.Schema != "problem-set" {
				t.Errorf("schema = %q, want problem-set", invalid.Schema)
			}
		})
	}
}

func TestConform_StripsCodeFence(t *testing.T) {
	for _, raw := range []string{
		"```json\n" + oneProblem + "\n```",
		"```\n" + oneProblem + "\n```",
		"  \n" + oneProblem + "\n\n",
	} {
		got, err := llm.Conform(problemgen.ProblemSetSchema, json.RawMessage(raw))
		if err != nil {
			t.Fatalf("Conform(%q): %v", raw[:12], err)
		}
		if string(got) != oneProblem {
			t.Errorf("content = %s, want the bare object", got)
		}
	}
}

func TestConform_NilSchemaPassesThrough(t *testing.T) {
	raw := json.RawMessage("자유 서술 응답")
	got, err := llm.Conform(nil, raw)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(raw) {
		t.Errorf("content = %s", got)
	}
}

func reportBody(t *testing.T, mutate func(map[string]any)) json.RawMessage {
	t.Helper()
	scores := map[string]any{}
	for _, s := range diagnosis.SubScores {
		scores[s.Key] = 65
	}
	axis := map[string]any{"archetype": "균형형", "archetypeDescription": "고르게 분포", "summary": "안정적"}
	body := map[string]any{
		"scores":                   scores,
		"axis1_cognitiveBase":      axis,
		"axis2_metacognition":      axis,
		"axis3_knowledgeState":     axis,
		"axis4_executionStamina":   axis,
		"axis5_curriculumProgress": axis,
		"overallSummary":           "전반적으로 안정적입니다.",
	}
	if mutate != nil {
		mutate(body)
	}
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestConform_DiagnosticReport(t *testing.T) {
	if _, err := llm.Conform(diagnosis.ReportSchema, reportBody(t, nil)); err != nil {
		t.Fatalf("complete report rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing axis", func(m map[string]any) { delete(m, "axis4_executionStamina") }},
		{"missing summary", func(m map[string]any) { delete(m, "overallSummary") }},
		{"missing sub-score", func(m map[string]any) { delete(m["scores"].(map[string]any), "axis2_piv") }},
		{"fractional score", func(m map[string]any) { m["scores"].(map[string]any)["axis1_geo"] = 62.5 }},
		{"axis without archetype", func(m map[string]any) {
			m["axis1_cognitiveBase"] = map[string]any{"archetypeDescription": "x", "summary": "y"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := llm.Conform(diagnosis.ReportSchema, reportBody(t, tt.mutate))
			var invalid *llm.ErrInvalidResponse
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ErrInvalidResponse, got %v", err)
			}
			if invalid.Schema != "diagnostic-report" {
				t.Errorf("schema = %q", invalid.Schema)
			}
		})
	}
}
