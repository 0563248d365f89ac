package problemgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/srwiley/oksvg"

	"github.com/abhisek/mathsheet/internal/llm"
	"github.com/abhisek/mathsheet/internal/problem"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// problemSetOutput is the raw LLM response before validation.
type problemSetOutput struct {
	Problems []problem.Problem `json:"problems"`
}

// Generate produces the problem set described by params.
func (g *LLMGenerator) Generate(ctx context.Context, params Params) (*Set, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	purpose := llm.PurposeProblemGen
	if params.Mode() == ModeLevelTest {
		purpose = llm.PurposeLevelTest
	}
	ctx = llm.WithPurpose(ctx, purpose)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(params)},
		},
		Schema:      ProblemSetSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw problemSetOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if len(raw.Problems) == 0 {
		return nil, &ValidationError{Validator: "set", Index: -1, Message: "no problems returned"}
	}

	set := &Set{}
	seen := make(map[string]int, len(raw.Problems))
	for i, p := range raw.Problems {
		for _, v := range g.config.Validators {
			if verr := v.Validate(p); verr != nil {
				verr.Index = i
				return nil, verr
			}
		}

		key := strings.Join(strings.Fields(p.Question), " ")
		if j, dup := seen[key]; dup {
			return nil, &ValidationError{
				Validator: "set",
				Index:     i,
				Message:   fmt.Sprintf("duplicates problem %d", j+1),
			}
		}
		seen[key] = i

		if clamped := clampPoints(p.Points); clamped != p.Points {
			set.Warnings = append(set.Warnings, fmt.Sprintf("%d번 문항: 배점 %d점을 %d점으로 조정했습니다", i+1, p.Points, clamped))
			p.Points = clamped
		}
		if p.HasFigure() {
			if err := checkFigure(p.SVGMarkup); err != nil {
				set.Warnings = append(set.Warnings, fmt.Sprintf("%d번 문항: 그림을 표시할 수 없어 제외했습니다 (%v)", i+1, err))
				p.SVGMarkup = ""
			}
		}
		set.Problems = append(set.Problems, p)
	}

	if n := params.Count(); len(set.Problems) != n {
		set.Warnings = append(set.Warnings, fmt.Sprintf("요청한 %d문항 중 %d문항이 생성되었습니다", n, len(set.Problems)))
	}
	return set, nil
}

func clampPoints(n int) int {
	switch {
	case n < problem.MinPoints:
		return problem.MinPoints
	case n > problem.MaxPoints:
		return problem.MaxPoints
	}
	return n
}

// checkFigure reports whether markup parses as SVG with a usable viewBox.
func checkFigure(markup string) error {
	icon, err := oksvg.ReadIconStream(strings.NewReader(markup), oksvg.IgnoreErrorMode)
	if err != nil {
		return err
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return fmt.Errorf("missing viewBox")
	}
	return nil
}
