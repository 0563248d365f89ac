// Package diagnosis turns a submitted level test into a five-axis
// diagnostic report written by the generation service.
package diagnosis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/mathsheet/internal/llm"
	"github.com/abhisek/mathsheet/internal/problem"
)

// ErrNoProblems is returned when there is nothing to analyse.
var ErrNoProblems = errors.New("no problems to analyse")

// Config holds configuration for the Analyzer.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   16384,
		Temperature: 0.4,
	}
}

// Analyzer requests diagnostic reports from an LLM provider.
type Analyzer struct {
	provider llm.Provider
	cfg      Config
}

// NewAnalyzer creates an LLM-backed analyzer.
func NewAnalyzer(provider llm.Provider, cfg Config) *Analyzer {
	return &Analyzer{provider: provider, cfg: cfg}
}

// Request is the input of a report.
type Request struct {
	Problems           []problem.Problem
	Answers            problem.AnswerSet
	StudentDescription string
}

// problemResult is what the model sees of each item.
type problemResult struct {
	Question    string `json:"question"`
	ProblemType string `json:"problemType"`
	IsCorrect   bool   `json:"isCorrect"`
	Analysis    string `json:"analysis"`
}

func problemResults(ps []problem.Problem, answers problem.AnswerSet) []problemResult {
	results := problem.Grade(ps, answers)
	out := make([]problemResult, len(ps))
	for i, p := range ps {
		out[i] = problemResult{
			Question:    p.Question,
			ProblemType: p.ProblemType,
			IsCorrect:   results[i].IsCorrect,
			Analysis:    p.Analysis,
		}
	}
	return out
}

// Analyze grades the answers and asks the model for the report. Scores are
// clamped into [0,100]; a response missing any analysis text is rejected.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*problem.DiagnosticReport, error) {
	if len(req.Problems) == 0 {
		return nil, ErrNoProblems
	}
	if req.Answers.Len() != len(req.Problems) {
		return nil, fmt.Errorf("answers cover %d of %d problems", req.Answers.Len(), len(req.Problems))
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeReport)

	userMsg, err := buildReportMessage(req)
	if err != nil {
		return nil, fmt.Errorf("build report prompt: %w", err)
	}

	resp, err := a.provider.Generate(ctx, llm.Request{
		System: reportSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      ReportSchema,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM report failed: %w", err)
	}

	var report problem.DiagnosticReport
	if err := json.Unmarshal(resp.Content, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report response: %w", err)
	}
	if err := checkReport(report); err != nil {
		return nil, &llm.ErrInvalidResponse{Schema: ReportSchema.Name, Content: resp.Content, Err: err}
	}
	report.Scores.Clamp()
	return &report, nil
}

func checkReport(r problem.DiagnosticReport) error {
	if strings.TrimSpace(r.OverallSummary) == "" {
		return errors.New("overallSummary is empty")
	}
	for i, ax := range r.Axes() {
		if strings.TrimSpace(ax.Archetype) == "" || strings.TrimSpace(ax.Summary) == "" {
			return fmt.Errorf("axis %d (%s) analysis is incomplete", i+1, axisNames[i])
		}
	}
	return nil
}

const reportSystemPrompt = `당신은 학생의 수학 풀이 결과를 분석하는 교육 진단 전문가입니다.
학부모에게 전달할 메시지이므로 정중하고 격려하는 어조를 사용하세요.
반드시 지정된 JSON 스키마를 준수하여 결과를 반환하세요.`

var reportUserTemplate = template.Must(template.New("report").Parse(`수학 문제 풀이 분석 및 진단 리포트 생성:
- 학생 배경: {{if .Description}}{{.Description}}{{else}}정보 없음{{end}}
- 풀이 결과: {{.Results}}

지정된 5축 모델에 따라 각 영역별 성취도를 0에서 100 사이의 정수로 점수화하고 상세 분석을 제공하세요.
{{range .SubScores}}- {{.Key}} (축 {{.Axis}}, {{.Name}}): {{.Description}}
{{end}}
각 축마다 학생의 유형(archetype), 유형 설명(archetypeDescription), 요약(summary)을 작성하고,
마지막으로 전체 총평(overallSummary)을 작성하세요.`))

func buildReportMessage(req Request) (string, error) {
	results, err := json.Marshal(problemResults(req.Problems, req.Answers))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = reportUserTemplate.Execute(&buf, map[string]any{
		"Description": strings.TrimSpace(req.StudentDescription),
		"Results":     string(results),
		"SubScores":   SubScores,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
