package setup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathsheet/internal/curriculum"
	"github.com/abhisek/mathsheet/internal/problem"
	"github.com/abhisek/mathsheet/internal/problemgen"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/session"
)

type stubGenerator struct {
	set    *problemgen.Set
	err    error
	params *problemgen.Params
}

func (g *stubGenerator) Generate(_ context.Context, p problemgen.Params) (*problemgen.Set, error) {
	g.params = &p
	return g.set, g.err
}

func testProblems(n int) []problem.Problem {
	ps := make([]problem.Problem, n)
	for i := range ps {
		ps[i] = problem.Problem{
			Question:           "$x + 1 = 2$ 일 때 $x$의 값은?",
			Options:            []string{"0", "1", "2", "3", "4"},
			CorrectAnswerIndex: 1,
			Points:             3,
			ProblemType:        "일차방정식",
			Analysis:           "양변에서 1을 빼면 $x = 1$",
		}
	}
	return ps
}

func newEnv(gen problemgen.Generator) *screen.Env {
	env := &screen.Env{State: session.New(session.ThemeDark)}
	if gen != nil {
		env.Service = session.NewService(gen, nil, nil)
	}
	return env
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "ctrl+s":
		return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	case "ctrl+o":
		return tea.KeyPressMsg{Code: 'o', Mod: tea.ModCtrl}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func press(s *SetupScreen, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = s.Update(key(k))
	}
	return cmd
}

func TestNew_Defaults(t *testing.T) {
	s := New(newEnv(nil), session.PageGenerator)
	if s.level() != curriculum.DefaultLevel {
		t.Errorf("level = %q, want %q", s.level(), curriculum.DefaultLevel)
	}
	if s.count.Value() != "5" {
		t.Errorf("custom count = %q, want 5", s.count.Value())
	}
	if len(s.items) == 0 {
		t.Error("expected topics for the first subject")
	}

	lt := New(newEnv(nil), session.PageLevelTest)
	if lt.count.Value() != "10" {
		t.Errorf("level test count = %q, want 10", lt.count.Value())
	}
	if len(lt.items) != len(curriculum.Subjects(curriculum.DefaultLevel)) {
		t.Errorf("level test lists %d items, want the subjects", len(lt.items))
	}
}

func TestSelectAllAndClear(t *testing.T) {
	s := New(newEnv(nil), session.PageLevelTest)
	press(s, "a")
	if got := len(s.selected()); got != len(s.items) {
		t.Fatalf("selected %d, want %d", got, len(s.items))
	}
	press(s, "x")
	if got := len(s.selected()); got != 0 {
		t.Fatalf("selected %d after clear, want 0", got)
	}
}

func TestToggleItem(t *testing.T) {
	s := New(newEnv(nil), session.PageLevelTest)
	press(s, "tab") // level -> list
	if s.focus != fieldList {
		t.Fatalf("focus = %d, want list", s.focus)
	}
	press(s, "space")
	if sel := s.selected(); len(sel) != 1 || sel[0] != s.items[0] {
		t.Fatalf("selected = %v", sel)
	}
	press(s, "space")
	if len(s.selected()) != 0 {
		t.Fatal("second space should uncheck")
	}
}

func TestLevelChangeClearsSelection(t *testing.T) {
	s := New(newEnv(nil), session.PageGenerator)
	press(s, "a")
	press(s, "right")
	if s.level() == curriculum.DefaultLevel {
		t.Fatal("right arrow on the level row should change level")
	}
	if len(s.selected()) != 0 {
		t.Error("changing level should clear the selection")
	}
}

func TestGenerate_RequiresSelection(t *testing.T) {
	gen := &stubGenerator{set: &problemgen.Set{Problems: testProblems(2)}}
	s := New(newEnv(gen), session.PageGenerator)

	if cmd := press(s, "ctrl+s"); cmd != nil {
		t.Fatal("expected no command without a selection")
	}
	if s.errMsg == "" {
		t.Error("expected an error message")
	}
	if s.env.State.Generating {
		t.Error("state must not be generating")
	}
}

func TestGenerate_NoService(t *testing.T) {
	s := New(newEnv(nil), session.PageGenerator)
	press(s, "a")
	if cmd := press(s, "ctrl+s"); cmd != nil {
		t.Fatal("expected no command without a service")
	}
	if !strings.Contains(s.errMsg, "LLM") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestGenerate_Success(t *testing.T) {
	gen := &stubGenerator{set: &problemgen.Set{Problems: testProblems(5), Warnings: []string{"figure dropped"}}}
	s := New(newEnv(gen), session.PageGenerator)
	press(s, "a")

	cmd := press(s, "ctrl+s")
	if cmd == nil {
		t.Fatal("expected a generation command")
	}
	st := s.env.State
	if !st.Generating {
		t.Fatal("state should be generating")
	}
	if s.canGenerate() {
		t.Error("button must be disabled while generating")
	}
	// A second request is ignored while the first runs.
	if again := press(s, "ctrl+s"); again != nil {
		t.Error("second request should be ignored")
	}

	msg := cmd()
	gm, ok := msg.(generatedMsg)
	if !ok {
		t.Fatalf("expected generatedMsg, got %T", msg)
	}
	if gm.mode != problemgen.ModeCustom {
		t.Errorf("mode = %q", gm.mode)
	}
	c, ok := gen.params.Custom()
	if !ok || c.Count != 5 || c.Level != curriculum.High || len(c.Topics) != len(s.items) {
		t.Errorf("params = %+v", c)
	}

	_, next := s.Update(msg)
	if next == nil {
		t.Fatal("expected a push command")
	}
	if st.Generating {
		t.Error("generation flag should be cleared")
	}
	if len(st.Problems) != 5 || st.Answers.Len() != 5 {
		t.Errorf("problems = %d, answers = %d", len(st.Problems), st.Answers.Len())
	}
	if st.Params == nil {
		t.Error("params should be committed")
	}
}

func TestGenerate_Failure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream 500")}
	s := New(newEnv(gen), session.PageLevelTest)
	press(s, "a")

	cmd := press(s, "ctrl+s")
	if cmd == nil {
		t.Fatal("expected a generation command")
	}
	_, next := s.Update(cmd())
	if next != nil {
		t.Error("failure should not navigate")
	}
	st := s.env.State
	if st.Generating {
		t.Error("generation flag should be cleared")
	}
	if st.Error != session.MsgLevelTestFailed || s.errMsg != session.MsgLevelTestFailed {
		t.Errorf("error = %q / %q", st.Error, s.errMsg)
	}
	if len(st.Problems) != 0 {
		t.Error("nothing should be committed")
	}
}

func TestCountIsClamped(t *testing.T) {
	gen := &stubGenerator{set: &problemgen.Set{Problems: testProblems(1)}}
	s := New(newEnv(gen), session.PageLevelTest)
	s.count.SetValue("99")
	press(s, "a")

	cmd := press(s, "ctrl+s")
	if cmd == nil {
		t.Fatal("expected a generation command")
	}
	cmd()
	lt, ok := gen.params.LevelTest()
	if !ok || lt.Count != problemgen.MaxLevelTestCount {
		t.Errorf("count = %d, want %d", lt.Count, problemgen.MaxLevelTestCount)
	}
}

func TestTextFieldCapturesShortcuts(t *testing.T) {
	s := New(newEnv(nil), session.PageLevelTest)
	press(s, "tab", "tab", "tab") // level -> list -> count -> description
	if s.focus != fieldDescription || !s.CapturingText() {
		t.Fatalf("focus = %d, capturing = %v", s.focus, s.CapturingText())
	}
	press(s, "a")
	if len(s.selected()) != 0 {
		t.Error("typing 'a' in a text field must not select all")
	}
	press(s, "esc")
	if s.CapturingText() {
		t.Error("esc should leave the text field")
	}
}

func TestImport(t *testing.T) {
	data, err := problem.Export(testProblems(3))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "set.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(newEnv(nil), session.PageLevelTest)
	press(s, "ctrl+o")
	if !s.importing {
		t.Fatal("ctrl+o should open the import prompt")
	}
	s.importPath.SetValue(path)
	cmd := press(s, "enter")
	if cmd == nil {
		t.Fatalf("expected navigation, errMsg = %q", s.errMsg)
	}
	st := s.env.State
	if len(st.Problems) != 3 || st.Page != session.PageLevelTest {
		t.Errorf("problems = %d, page = %v", len(st.Problems), st.Page)
	}
}

func TestImport_RejectsObjectRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obj.json")
	if err := os.WriteFile(path, []byte(`{"problems": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	env := newEnv(nil)
	env.State.Problems = testProblems(2)
	env.State.Answers = problem.NewAnswerSet(2)

	s := New(env, session.PageGenerator)
	press(s, "ctrl+o")
	s.importPath.SetValue(path)
	if cmd := press(s, "enter"); cmd != nil {
		t.Fatal("failed import should not navigate")
	}
	if !strings.HasPrefix(s.errMsg, "JSON 파일 처리 오류") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if len(env.State.Problems) != 2 {
		t.Error("state must be untouched")
	}
}
