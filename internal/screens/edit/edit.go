// Package edit is the single-problem edit form.
package edit

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsheet/internal/problem"
	"github.com/abhisek/mathsheet/internal/router"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/ui/components"
	"github.com/abhisek/mathsheet/internal/ui/layout"
	"github.com/abhisek/mathsheet/internal/ui/theme"
)

// SavedMsg is sent to the screen below after a problem was updated.
type SavedMsg struct {
	Index int
}

const (
	inputQuestion = 0
	inputOptions  = 1 // five option inputs follow
	inputPoints   = inputOptions + problem.OptionCount
	inputAnalysis = inputPoints + 1
	inputCount    = inputAnalysis + 1
)

// EditScreen edits the question, options, points and analysis of one
// problem. The correct answer and figure are kept as they are.
type EditScreen struct {
	env    *screen.Env
	index  int
	inputs []components.TextInput
	focus  int
	errMsg string
}

var (
	_ screen.Screen          = (*EditScreen)(nil)
	_ screen.KeyHintProvider = (*EditScreen)(nil)
	_ screen.TextCapturer    = (*EditScreen)(nil)
)

// New creates the form for problem index of env.State.
func New(env *screen.Env, index int) *EditScreen {
	p := env.State.Problems[index]

	inputs := make([]components.TextInput, inputCount)
	inputs[inputQuestion] = components.NewTextInput("문제 내용", "", false, 0)
	inputs[inputQuestion].SetValue(p.Question)
	for i := range problem.OptionCount {
		in := components.NewTextInput(problem.OptionLabel(i), "", false, 0)
		if i < len(p.Options) {
			in.SetValue(p.Options[i])
		}
		inputs[inputOptions+i] = in
	}
	inputs[inputPoints] = components.NewTextInput("배점", "2-4", true, 1)
	inputs[inputPoints].SetValue(fmt.Sprint(p.Points))
	inputs[inputAnalysis] = components.NewTextInput("해설", "", false, 0)
	inputs[inputAnalysis].SetValue(p.Analysis)

	return &EditScreen{env: env, index: index, inputs: inputs}
}

func (s *EditScreen) Init() tea.Cmd {
	return s.inputs[s.focus].Focus()
}

func (s *EditScreen) Title() string {
	return fmt.Sprintf("문제 %d 수정", s.index+1)
}

// CapturingText is always true: every field is free text.
func (s *EditScreen) CapturingText() bool { return true }

func (s *EditScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "다음 항목"},
		{Key: "Ctrl+S", Description: "저장"},
		{Key: "Esc", Description: "취소"},
	}
}

func (s *EditScreen) setFocus(i int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = (i + len(s.inputs)) % len(s.inputs)
	return s.inputs[s.focus].Focus()
}

func (s *EditScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
		return s, cmd
	}

	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "tab", "down", "enter":
		return s, s.setFocus(s.focus + 1)
	case "shift+tab", "up":
		return s, s.setFocus(s.focus - 1)
	case "ctrl+s":
		return s, s.save()
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

// edited returns the problem with the form values applied. An unparsable
// points value falls back to the default.
func (s *EditScreen) edited() problem.Problem {
	p := s.env.State.Problems[s.index].Clone()
	p.Question = s.inputs[inputQuestion].Value()
	p.Options = make([]string, problem.OptionCount)
	for i := range problem.OptionCount {
		p.Options[i] = s.inputs[inputOptions+i].Value()
	}
	p.Points = problem.ClampPoints(s.inputs[inputPoints].Value())
	p.Analysis = s.inputs[inputAnalysis].Value()
	return p
}

func (s *EditScreen) save() tea.Cmd {
	if err := s.env.State.UpdateProblem(s.index, s.edited()); err != nil {
		s.errMsg = "저장할 수 없습니다: " + err.Error()
		return nil
	}
	idx := s.index
	return tea.Sequence(
		func() tea.Msg { return router.PopScreenMsg{} },
		func() tea.Msg { return SavedMsg{Index: idx} },
	)
}

func (s *EditScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Selected.Render("문제 수정 중...") + "\n\n")
	for i, in := range s.inputs {
		if i == inputOptions || i == inputPoints {
			b.WriteString("\n")
		}
		b.WriteString("  " + in.View() + "\n")
	}
	if s.errMsg != "" {
		b.WriteString("\n  " + theme.Incorrect.Render(s.errMsg) + "\n")
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}
