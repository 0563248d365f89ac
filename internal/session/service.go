package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/mathsheet/internal/diagnosis"
	"github.com/abhisek/mathsheet/internal/problem"
	"github.com/abhisek/mathsheet/internal/problemgen"
	"github.com/abhisek/mathsheet/internal/store"
)

// ModeReport labels report requests in the generation history.
const ModeReport = "report"

// ErrNoAnalyzer is returned when a report is requested without an analyzer.
var ErrNoAnalyzer = errors.New("report generation is not configured")

// Service runs the session's generation requests and records each one in
// the event store.
type Service struct {
	generator problemgen.Generator
	analyzer  *diagnosis.Analyzer
	events    store.EventRepo
}

// NewService creates a Service. analyzer and events may be nil.
func NewService(gen problemgen.Generator, analyzer *diagnosis.Analyzer, events store.EventRepo) *Service {
	return &Service{generator: gen, analyzer: analyzer, events: events}
}

// Generate requests a problem set.
func (s *Service) Generate(ctx context.Context, p problemgen.Params) (*problemgen.Set, error) {
	set, err := s.generator.Generate(ctx, p)
	n := 0
	if set != nil {
		n = len(set.Problems)
	}
	s.record(ctx, string(p.Mode()), p.Summary(), n, err)
	return set, err
}

// Report requests a diagnostic report for answered problems.
func (s *Service) Report(ctx context.Context, ps []problem.Problem, answers problem.AnswerSet, description string) (*problem.DiagnosticReport, error) {
	if s.analyzer == nil {
		return nil, ErrNoAnalyzer
	}
	r, err := s.analyzer.Analyze(ctx, diagnosis.Request{
		Problems:           ps,
		Answers:            answers,
		StudentDescription: description,
	})
	correct, _, _ := problem.Score(ps, problem.Grade(ps, answers))
	summary := reportSummary(correct, len(ps))
	s.record(ctx, ModeReport, summary, len(ps), err)
	return r, err
}

func (s *Service) record(ctx context.Context, mode, summary string, n int, err error) {
	if s.events == nil {
		return
	}
	data := store.GenerationEventData{
		Mode:         mode,
		Summary:      summary,
		ProblemCount: n,
		Success:      err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	_ = s.events.AppendGeneration(context.WithoutCancel(ctx), data)
}

func reportSummary(correct, total int) string {
	return fmt.Sprintf("진단 리포트 (%d/%d 정답)", correct, total)
}
