package problems

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathsheet/internal/compose"
	"github.com/abhisek/mathsheet/internal/problem"
	"github.com/abhisek/mathsheet/internal/problemgen"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/screens/edit"
	"github.com/abhisek/mathsheet/internal/session"
	"github.com/abhisek/mathsheet/internal/ui/components"
)

type nopGenerator struct{}

func (nopGenerator) Generate(context.Context, problemgen.Params) (*problemgen.Set, error) {
	return &problemgen.Set{}, nil
}

func testProblems(n int) []problem.Problem {
	ps := make([]problem.Problem, n)
	for i := range ps {
		ps[i] = problem.Problem{
			Question:           "$2 \\times 3$의 값은?",
			Options:            []string{"5", "6", "7", "8", "9"},
			CorrectAnswerIndex: 1,
			Points:             2,
			ProblemType:        "곱셈",
			Analysis:           "$2 \\times 3 = 6$",
		}
	}
	return ps
}

func newEnv(page session.Page, n int) *screen.Env {
	st := session.New(session.ThemeDark)
	st.Page = page
	st.Problems = testProblems(n)
	st.Answers = problem.NewAnswerSet(n)
	return &screen.Env{
		State:   st,
		Service: session.NewService(nopGenerator{}, nil, nil),
	}
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	}
	return tea.KeyPressMsg{Code: []rune(s)[0], Text: s}
}

// answer picks option for the current problem and delivers the choice.
func answer(t *testing.T, s *ProblemsScreen, option string) {
	t.Helper()
	_, cmd := s.Update(key(option))
	if cmd == nil {
		t.Fatalf("digit %s produced no command", option)
	}
	msg := cmd()
	if _, ok := msg.(components.ChoiceMadeMsg); !ok {
		t.Fatalf("expected ChoiceMadeMsg, got %T", msg)
	}
	s.Update(msg)
}

func TestSelectAnswer(t *testing.T) {
	env := newEnv(session.PageGenerator, 3)
	s := New(env)

	answer(t, s, "3")
	if got := env.State.Answers.At(0); got != 2 {
		t.Errorf("answer[0] = %d, want 2", got)
	}

	s.Update(key("right"))
	if s.index != 1 {
		t.Fatalf("index = %d, want 1", s.index)
	}
	answer(t, s, "5")
	if got := env.State.Answers.At(1); got != 4 {
		t.Errorf("answer[1] = %d, want 4", got)
	}

	s.Update(key("left"))
	if s.choice.Chosen != 2 {
		t.Errorf("selector should restore the saved answer, got %d", s.choice.Chosen)
	}
}

func TestNavigationStaysInRange(t *testing.T) {
	s := New(newEnv(session.PageGenerator, 2))
	s.Update(key("left"))
	if s.index != 0 {
		t.Errorf("index = %d, want 0", s.index)
	}
	s.Update(key("right"))
	s.Update(key("right"))
	if s.index != 1 {
		t.Errorf("index = %d, want 1", s.index)
	}
}

func TestRevealOnGeneratorPage(t *testing.T) {
	s := New(newEnv(session.PageGenerator, 1))
	s.Update(key("v"))
	if !s.reveal || s.choice.Reveal != 1 {
		t.Errorf("reveal = %v, choice.Reveal = %d", s.reveal, s.choice.Reveal)
	}

	lt := New(newEnv(session.PageLevelTest, 1))
	lt.Update(key("v"))
	if lt.reveal {
		t.Error("answers must stay hidden on the level-test page before submission")
	}
}

func TestSubmit_RequiresAllAnswers(t *testing.T) {
	env := newEnv(session.PageLevelTest, 2)
	s := New(env)
	answer(t, s, "1")

	_, cmd := s.Update(key("s"))
	if cmd != nil {
		t.Fatal("submission with a blank problem should not start a request")
	}
	if env.State.Generating {
		t.Error("state must not be busy")
	}
	if s.errMsg == "" {
		t.Error("expected an error message")
	}
}

func TestSubmit_FailureKeepsAnswersEditable(t *testing.T) {
	env := newEnv(session.PageLevelTest, 1)
	s := New(env)
	answer(t, s, "2")

	_, cmd := s.Update(key("s"))
	if cmd == nil {
		t.Fatal("expected a report command")
	}
	if !env.State.Generating || !s.choice.Locked {
		t.Fatal("selector should lock while the report is requested")
	}

	// The service has no analyzer, so the request fails.
	msg := cmd()
	if rm, ok := msg.(reportMsg); !ok || rm.err == nil {
		t.Fatalf("expected a failed reportMsg, got %#v", msg)
	}
	s.Update(msg)

	st := env.State
	if st.Generating || st.Submitted() {
		t.Errorf("generating = %v, submitted = %v", st.Generating, st.Submitted())
	}
	if st.Error != session.MsgReportFailed {
		t.Errorf("error = %q", st.Error)
	}
	answer(t, s, "4")
	if st.Answers.At(0) != 3 {
		t.Error("answers should stay editable after a failed report")
	}
}

func TestReportCompletionFreezes(t *testing.T) {
	env := newEnv(session.PageLevelTest, 1)
	s := New(env)
	answer(t, s, "2")
	if err := env.State.BeginReport(); err != nil {
		t.Fatal(err)
	}

	r := &problem.DiagnosticReport{OverallSummary: "좋습니다"}
	_, cmd := s.Update(reportMsg{report: r})
	if cmd == nil {
		t.Fatal("expected navigation to the report")
	}
	st := env.State
	if !st.Submitted() || st.Report != r {
		t.Fatalf("submitted = %v, report = %v", st.Submitted(), st.Report)
	}
	if !s.choice.Locked || s.choice.Reveal != 1 {
		t.Error("selector should lock and reveal after submission")
	}

	// Choices after submission are rejected.
	_, cmd = s.Update(key("3"))
	if cmd != nil {
		t.Error("locked selector should ignore digits")
	}
	if _, cmd := s.Update(key("e")); cmd != nil {
		t.Error("editing is disabled after submission")
	}
}

func TestEditSavedRefreshes(t *testing.T) {
	env := newEnv(session.PageGenerator, 1)
	s := New(env)

	p := env.State.Problems[0].Clone()
	p.Options[0] = "10"
	if err := env.State.UpdateProblem(0, p); err != nil {
		t.Fatal(err)
	}
	_, cmd := s.Update(edit.SavedMsg{Index: 0})
	if cmd == nil {
		t.Error("expected a notice")
	}
	if s.choice.Options[0] != "10" {
		t.Errorf("option = %q", s.choice.Options[0])
	}
}

func TestExportBusyPerKind(t *testing.T) {
	env := newEnv(session.PageGenerator, 1)
	release, err := env.State.Exports.Acquire(compose.KindProblemSheet)
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	s := New(env)
	_, cmd := s.Update(key("p"))
	if cmd == nil {
		t.Fatal("expected a notice command")
	}
	msg, ok := cmd().(screen.NoticeMsg)
	if !ok || !msg.Error {
		t.Errorf("expected an error notice, got %#v", msg)
	}
}

func TestView(t *testing.T) {
	s := New(newEnv(session.PageGenerator, 2))
	out := s.View(80, 30)
	if out == "" {
		t.Fatal("empty view")
	}

	empty := New(newEnv(session.PageGenerator, 0))
	if empty.View(80, 30) == "" {
		t.Error("empty state should render a hint")
	}
}
