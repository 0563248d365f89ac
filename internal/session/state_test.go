package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/mathsheet/internal/compose"
	"github.com/abhisek/mathsheet/internal/curriculum"
	"github.com/abhisek/mathsheet/internal/problem"
	"github.com/abhisek/mathsheet/internal/problemgen"
)

func testProblems(n int) []problem.Problem {
	ps := make([]problem.Problem, n)
	for i := range ps {
		ps[i] = problem.Problem{
			Question:           "문제",
			Options:            []string{"1", "2", "3", "4", "5"},
			CorrectAnswerIndex: i % problem.OptionCount,
			Points:             3,
			ProblemType:        "계산",
			Analysis:           "해설",
		}
	}
	return ps
}

func customParams() problemgen.Params {
	return problemgen.Custom(problemgen.CustomParams{
		Level:              curriculum.Middle,
		Subject:            "2학년",
		Topics:             []string{"일차함수와 그래프"},
		Count:              3,
		StudentDescription: "함수가 약함",
	})
}

func levelTestParams() problemgen.Params {
	return problemgen.LevelTest(problemgen.LevelTestParams{
		Level:    curriculum.Middle,
		Subjects: []string{"1학년"},
	})
}

func generated(t *testing.T, s *State, p problemgen.Params, n int) {
	t.Helper()
	if err := s.BeginGeneration(p); err != nil {
		t.Fatalf("BeginGeneration: %v", err)
	}
	s.CompleteGeneration(&problemgen.Set{Problems: testProblems(n)})
}

func TestNew(t *testing.T) {
	s := New(ThemeLight)
	if s.Page != PageGenerator {
		t.Errorf("Page = %v, want generator", s.Page)
	}
	if s.Theme != ThemeLight {
		t.Errorf("Theme = %q", s.Theme)
	}
	if New("").Theme != ThemeDark {
		t.Error("unknown theme should fall back to dark")
	}
	if s.Busy() {
		t.Error("new session should not be busy")
	}
}

func TestGenerationLifecycle(t *testing.T) {
	s := New(ThemeDark)
	s.Error = "old error"

	if err := s.BeginGeneration(customParams()); err != nil {
		t.Fatal(err)
	}
	if !s.Generating || !s.Busy() {
		t.Fatal("expected busy while generating")
	}
	if s.Error != "" {
		t.Error("begin should clear the previous error")
	}
	if s.StudentDescription != "함수가 약함" {
		t.Errorf("StudentDescription = %q", s.StudentDescription)
	}
	if err := s.BeginGeneration(customParams()); !errors.Is(err, ErrBusy) {
		t.Errorf("second begin: got %v, want ErrBusy", err)
	}

	s.CompleteGeneration(&problemgen.Set{Problems: testProblems(3), Warnings: []string{"w"}})
	if s.Generating {
		t.Error("Generating should be cleared")
	}
	if len(s.Problems) != 3 || s.Answers.Len() != 3 {
		t.Fatalf("problems=%d answers=%d", len(s.Problems), s.Answers.Len())
	}
	for i := 0; i < 3; i++ {
		if s.Answers.At(i) != problem.Unanswered {
			t.Errorf("answer %d should start unanswered", i)
		}
	}
	if s.Params == nil || s.Params.Mode() != problemgen.ModeCustom {
		t.Error("params should be committed")
	}
	if len(s.Warnings) != 1 {
		t.Errorf("warnings = %v", s.Warnings)
	}
}

func TestFailGeneration(t *testing.T) {
	tests := []struct {
		name   string
		params problemgen.Params
		want   string
	}{
		{"custom", customParams(), MsgGenerateFailed},
		{"level test", levelTestParams(), MsgLevelTestFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(ThemeDark)
			if err := s.BeginGeneration(tt.params); err != nil {
				t.Fatal(err)
			}
			s.FailGeneration(tt.params.Mode())
			if s.Generating {
				t.Error("busy flag should be cleared")
			}
			if s.Error != tt.want {
				t.Errorf("Error = %q, want %q", s.Error, tt.want)
			}
			if len(s.Problems) != 0 {
				t.Error("nothing should be committed on failure")
			}
		})
	}
}

func TestNavigate(t *testing.T) {
	s := New(ThemeDark)
	generated(t, s, customParams(), 2)

	if err := s.Navigate(PageLevelTest); err != nil {
		t.Fatal(err)
	}
	if s.Page != PageLevelTest {
		t.Errorf("Page = %v", s.Page)
	}
	if len(s.Problems) != 0 || s.Params != nil || s.Report != nil {
		t.Error("navigation should reset the session")
	}
}

func TestNavigateRefusedWhileBusy(t *testing.T) {
	s := New(ThemeDark)
	if err := s.BeginGeneration(customParams()); err != nil {
		t.Fatal(err)
	}
	if err := s.Navigate(PageLevelTest); !errors.Is(err, ErrBusy) {
		t.Fatalf("got %v, want ErrBusy", err)
	}
	if s.Page != PageGenerator {
		t.Error("page should not change while busy")
	}

	s.FailGeneration(problemgen.ModeCustom)
	release, err := s.Exports.Acquire(compose.KindReport)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Navigate(PageLevelTest); !errors.Is(err, ErrBusy) {
		t.Fatalf("got %v, want ErrBusy while exporting", err)
	}
	release()
	if err := s.Navigate(PageLevelTest); err != nil {
		t.Fatalf("navigate after export: %v", err)
	}
}

func TestSubmitScenario(t *testing.T) {
	s := New(ThemeDark)
	if err := s.Navigate(PageLevelTest); err != nil {
		t.Fatal(err)
	}
	generated(t, s, levelTestParams(), 2)

	if err := s.SelectAnswer(0, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginReport(); !errors.Is(err, problem.ErrIncomplete) {
		t.Fatalf("submit with unanswered: got %v", err)
	}
	if s.Generating {
		t.Fatal("incomplete submit must not start a request")
	}

	if err := s.SelectAnswer(1, 4); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginReport(); err != nil {
		t.Fatal(err)
	}
	if err := s.CompleteReport(&problem.DiagnosticReport{OverallSummary: "ok"}); err != nil {
		t.Fatal(err)
	}
	if !s.Submitted() || s.Report == nil {
		t.Fatal("expected submitted with report")
	}

	results := s.Results()
	if results[0].Label() != "정답" {
		t.Errorf("problem 1 = %s, want 정답", results[0].Label())
	}
	if results[1].Label() != "오답" {
		t.Errorf("problem 2 = %s, want 오답", results[1].Label())
	}

	if err := s.SelectAnswer(0, 1); !errors.Is(err, ErrSubmitted) {
		t.Errorf("select after submit: got %v", err)
	}
	if err := s.BeginReport(); !errors.Is(err, ErrSubmitted) {
		t.Errorf("second submit: got %v", err)
	}
}

func TestFailReportKeepsAnswersEditable(t *testing.T) {
	s := New(ThemeDark)
	generated(t, s, levelTestParams(), 1)
	_ = s.SelectAnswer(0, 2)
	if err := s.BeginReport(); err != nil {
		t.Fatal(err)
	}
	s.FailReport()
	if s.Error != MsgReportFailed {
		t.Errorf("Error = %q", s.Error)
	}
	if s.Submitted() {
		t.Error("failed report must not freeze answers")
	}
	if err := s.SelectAnswer(0, 3); err != nil {
		t.Errorf("answers should stay editable: %v", err)
	}
}

func TestBeginReportWithoutProblems(t *testing.T) {
	s := New(ThemeDark)
	if err := s.BeginReport(); !errors.Is(err, ErrNoProblems) {
		t.Errorf("got %v, want ErrNoProblems", err)
	}
}

func TestUpdateProblem(t *testing.T) {
	s := New(ThemeDark)
	generated(t, s, customParams(), 2)

	edited := s.Problems[1].Clone()
	edited.Question = "수정된 문제"
	edited.Points = 9
	if err := s.UpdateProblem(1, edited); err != nil {
		t.Fatal(err)
	}
	if s.Problems[1].Question != "수정된 문제" {
		t.Errorf("question = %q", s.Problems[1].Question)
	}
	if s.Problems[1].Points != problem.MaxPoints {
		t.Errorf("points = %d, want clamped to %d", s.Problems[1].Points, problem.MaxPoints)
	}

	edited.Points = 0
	_ = s.UpdateProblem(0, edited)
	if s.Problems[0].Points != problem.MinPoints {
		t.Errorf("points = %d, want %d", s.Problems[0].Points, problem.MinPoints)
	}

	bad := edited
	bad.Options = []string{"1", "2"}
	if err := s.UpdateProblem(0, bad); err == nil {
		t.Error("expected validation error for four-option problem")
	}
	if err := s.UpdateProblem(5, edited); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestImport(t *testing.T) {
	s := New(ThemeDark)
	generated(t, s, customParams(), 3)
	_ = s.SelectAnswer(0, 1)

	data, err := problem.Export(testProblems(2))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Import(data, PageLevelTest); err != nil {
		t.Fatal(err)
	}
	if s.Page != PageLevelTest || len(s.Problems) != 2 || s.Answers.Len() != 2 {
		t.Fatalf("page=%v problems=%d answers=%d", s.Page, len(s.Problems), s.Answers.Len())
	}
	if s.Answers.At(0) != problem.Unanswered {
		t.Error("answers should reset on import")
	}
	if s.Params != nil {
		t.Error("import clears generation params")
	}
	if got := s.BaseFilename(); got != "AI_Math" {
		t.Errorf("BaseFilename = %q, want AI_Math", got)
	}
}

func TestImportObjectRootLeavesStateUnchanged(t *testing.T) {
	s := New(ThemeDark)
	generated(t, s, customParams(), 3)
	before := s.Problems

	err := s.Import([]byte(`{"problems": []}`), PageLevelTest)
	if err == nil {
		t.Fatal("expected error for object root")
	}
	if !strings.HasPrefix(s.Error, "JSON 파일 처리 오류") {
		t.Errorf("Error = %q", s.Error)
	}
	if s.Page != PageGenerator || len(s.Problems) != 3 || &s.Problems[0] != &before[0] {
		t.Error("state should be untouched on import failure")
	}
}

func TestBaseFilename(t *testing.T) {
	s := New(ThemeDark)
	if got := s.BaseFilename(); got != "AI_Math" {
		t.Errorf("empty session: %q", got)
	}
	generated(t, s, customParams(), 1)
	if got := s.BaseFilename(); got != "맞춤문제" {
		t.Errorf("generator page: %q", got)
	}
	if err := s.Navigate(PageLevelTest); err != nil {
		t.Fatal(err)
	}
	generated(t, s, levelTestParams(), 1)
	if got := s.BaseFilename(); got != "진단테스트" {
		t.Errorf("level test page: %q", got)
	}
}

func TestExportJSON(t *testing.T) {
	s := New(ThemeDark)
	if _, err := s.ExportJSON(); !errors.Is(err, ErrNoProblems) {
		t.Errorf("empty: got %v", err)
	}
	generated(t, s, customParams(), 2)
	data, err := s.ExportJSON()
	if err != nil {
		t.Fatal(err)
	}
	back, err := problem.Import(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 {
		t.Errorf("round trip = %d problems", len(back))
	}
}

func TestToggleTheme(t *testing.T) {
	s := New(ThemeDark)
	s.ToggleTheme()
	if s.Theme != ThemeLight {
		t.Errorf("Theme = %q", s.Theme)
	}
	s.ToggleTheme()
	if s.Theme != ThemeDark {
		t.Errorf("Theme = %q", s.Theme)
	}
}
