// Package problems is the problem viewer: answer selection, submission,
// JSON save and PDF export of the current set.
package problems

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsheet/internal/compose"
	"github.com/abhisek/mathsheet/internal/mathtext"
	"github.com/abhisek/mathsheet/internal/problem"
	"github.com/abhisek/mathsheet/internal/router"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/screens/edit"
	"github.com/abhisek/mathsheet/internal/screens/report"
	"github.com/abhisek/mathsheet/internal/session"
	"github.com/abhisek/mathsheet/internal/ui/components"
	"github.com/abhisek/mathsheet/internal/ui/layout"
	"github.com/abhisek/mathsheet/internal/ui/theme"
)

type reportMsg struct {
	report *problem.DiagnosticReport
	err    error
}

// ProblemsScreen shows one problem at a time.
type ProblemsScreen struct {
	env    *screen.Env
	index  int
	choice components.MultiChoice
	reveal bool
	errMsg string
}

var (
	_ screen.Screen          = (*ProblemsScreen)(nil)
	_ screen.KeyHintProvider = (*ProblemsScreen)(nil)
)

// New creates the viewer over env.State.Problems.
func New(env *screen.Env) *ProblemsScreen {
	s := &ProblemsScreen{env: env}
	s.sync()
	return s
}

func (s *ProblemsScreen) Init() tea.Cmd {
	return nil
}

func (s *ProblemsScreen) Title() string {
	return s.env.State.Page.Label()
}

func (s *ProblemsScreen) levelTest() bool {
	return s.env.State.Page == session.PageLevelTest
}

func (s *ProblemsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "←→", Description: "문제 이동"},
		{Key: "1-5", Description: "선택"},
	}
	if s.levelTest() {
		if s.env.State.Submitted() {
			hints = append(hints, layout.KeyHint{Key: "r", Description: "리포트"})
		} else {
			hints = append(hints, layout.KeyHint{Key: "s", Description: "제출"})
		}
	} else {
		hints = append(hints, layout.KeyHint{Key: "v", Description: "해설"})
	}
	return append(hints,
		layout.KeyHint{Key: "e", Description: "편집"},
		layout.KeyHint{Key: "w", Description: "JSON 저장"},
		layout.KeyHint{Key: "p/a", Description: "문제지/해설지 PDF"},
		layout.KeyHint{Key: "Esc", Description: "뒤로"},
	)
}

// sync rebuilds the selector for the current problem from the state.
func (s *ProblemsScreen) sync() {
	st := s.env.State
	if len(st.Problems) == 0 {
		s.choice = components.MultiChoice{}
		return
	}
	s.index = min(max(s.index, 0), len(st.Problems)-1)
	p := st.Problems[s.index]
	s.choice = components.NewMultiChoice(p.Options, st.Answers.At(s.index))
	s.choice.Locked = st.Submitted() || st.Generating
	if s.reveal || st.Submitted() {
		s.choice.Reveal = p.CorrectAnswerIndex
	}
}

func (s *ProblemsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	st := s.env.State
	switch msg := msg.(type) {
	case components.ChoiceMadeMsg:
		if err := st.SelectAnswer(s.index, msg.Option); err != nil {
			s.errMsg = "제출한 답안은 바꿀 수 없습니다."
		}
		s.sync()
		return s, nil

	case reportMsg:
		return s, s.handleReport(msg)

	case edit.SavedMsg:
		s.sync()
		return s, screen.Notice(fmt.Sprintf("%d번 문제를 수정했습니다.", msg.Index+1), false)

	case tea.KeyMsg:
		if len(st.Problems) == 0 {
			return s, nil
		}
		switch msg.String() {
		case "left", "h":
			if s.index > 0 {
				s.index--
				s.sync()
			}
			return s, nil
		case "right", "l":
			if s.index < len(st.Problems)-1 {
				s.index++
				s.sync()
			}
			return s, nil
		case "v":
			if !s.levelTest() {
				s.reveal = !s.reveal
				s.sync()
			}
			return s, nil
		case "s":
			if s.levelTest() {
				return s, s.submit()
			}
			return s, nil
		case "r":
			if st.Report != nil {
				return s, pushReport(s.env)
			}
			return s, nil
		case "e":
			if st.Submitted() || st.Generating {
				return s, nil
			}
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: edit.New(s.env, s.index)}
			}
		case "w":
			return s, s.env.SaveJSON()
		case "p":
			return s, s.env.StartExport(compose.ProblemSheet(st.Problems))
		case "a":
			return s, s.env.StartExport(compose.AnswerSheet(st.Problems))
		}
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ProblemsScreen) submit() tea.Cmd {
	st := s.env.State
	if s.env.Service == nil {
		s.errMsg = "LLM 공급자가 설정되지 않았습니다."
		return nil
	}
	if err := st.BeginReport(); err != nil {
		switch {
		case errors.Is(err, problem.ErrIncomplete):
			s.errMsg = "모든 문제에 답을 선택해야 제출할 수 있습니다."
		case errors.Is(err, session.ErrSubmitted):
			s.errMsg = "이미 제출했습니다."
		default:
			s.errMsg = "다른 작업이 진행 중입니다."
		}
		return nil
	}
	s.errMsg = ""
	s.sync()

	svc := s.env.Service
	ps := problem.CloneAll(st.Problems)
	answers := problem.AnswerSetFrom(st.Answers.Values())
	desc := st.StudentDescription
	return func() tea.Msg {
		r, err := svc.Report(context.Background(), ps, answers, desc)
		return reportMsg{report: r, err: err}
	}
}

func (s *ProblemsScreen) handleReport(msg reportMsg) tea.Cmd {
	st := s.env.State
	if msg.err != nil {
		st.FailReport()
		s.errMsg = st.Error
		s.sync()
		return nil
	}
	if err := st.CompleteReport(msg.report); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.sync()
	return pushReport(s.env)
}

func pushReport(env *screen.Env) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: report.New(env)}
	}
}

func (s *ProblemsScreen) View(width, height int) string {
	st := s.env.State
	if len(st.Problems) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("문제가 없습니다."))
	}
	p := st.Problems[s.index]
	inner := max(width-8, 20)

	var b strings.Builder
	header := fmt.Sprintf("문제 %d / %d", s.index+1, len(st.Problems))
	answered := 0
	for i := 0; i < st.Answers.Len(); i++ {
		if st.Answers.At(i) != problem.Unanswered {
			answered++
		}
	}
	meta := fmt.Sprintf("%s · %d점 · 응답 %d/%d", p.ProblemType, p.Points, answered, len(st.Problems))
	b.WriteString(theme.Selected.Render(header) + "  " + theme.Hint.Render(meta) + "\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(inner).
		Render(mathtext.Plain(p.Question)))
	b.WriteString("\n")
	if p.HasFigure() {
		b.WriteString(theme.Hint.Render("[그림은 PDF에서 확인하세요]") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(s.choice.View())

	if s.reveal || st.Submitted() {
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render("정답 "+problem.OptionLabel(p.CorrectAnswerIndex)) + "\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(inner).
			Render(mathtext.Plain(p.Analysis)))
		b.WriteString("\n")
	}

	if st.Generating {
		b.WriteString("\n" + theme.Hint.Render("리포트를 생성하고 있습니다...") + "\n")
	}
	if len(st.Warnings) > 0 {
		b.WriteString("\n" + theme.Hint.Render("경고: "+strings.Join(st.Warnings, "; ")) + "\n")
	}
	if s.errMsg != "" {
		b.WriteString("\n" + theme.Incorrect.Render(s.errMsg) + "\n")
	}

	return theme.Card.Width(width - 2).Render(b.String())
}
