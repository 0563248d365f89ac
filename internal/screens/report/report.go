// Package report shows the diagnostic report of a submitted level test.
package report

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsheet/internal/compose"
	"github.com/abhisek/mathsheet/internal/mathtext"
	"github.com/abhisek/mathsheet/internal/problem"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/ui/components"
	"github.com/abhisek/mathsheet/internal/ui/layout"
	"github.com/abhisek/mathsheet/internal/ui/theme"
)

// ReportScreen renders the score bars, axis cards and per-item results.
type ReportScreen struct {
	env    *screen.Env
	offset int
}

var (
	_ screen.Screen          = (*ReportScreen)(nil)
	_ screen.KeyHintProvider = (*ReportScreen)(nil)
)

// New creates the report view over env.State.Report.
func New(env *screen.Env) *ReportScreen {
	return &ReportScreen{env: env}
}

func (s *ReportScreen) Init() tea.Cmd {
	return nil
}

func (s *ReportScreen) Title() string {
	return "진단 리포트"
}

func (s *ReportScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "스크롤"},
		{Key: "r", Description: "리포트 PDF"},
		{Key: "Esc", Description: "뒤로"},
	}
}

func (s *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		s.offset++
	case "pgup":
		s.offset = max(s.offset-10, 0)
	case "pgdown":
		s.offset += 10
	case "home", "g":
		s.offset = 0
	case "r":
		st := s.env.State
		if st.Report == nil {
			return s, nil
		}
		doc := compose.ReportDocument(*st.Report, st.Problems, st.Answers, true)
		return s, s.env.StartExport(doc)
	}
	return s, nil
}

func (s *ReportScreen) View(width, height int) string {
	st := s.env.State
	if st.Report == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("리포트가 없습니다."))
	}
	lines := strings.Split(s.render(st.Report, width), "\n")

	s.offset = min(s.offset, max(len(lines)-height, 0))
	end := min(s.offset+height, len(lines))
	return strings.Join(lines[s.offset:end], "\n")
}

func (s *ReportScreen) render(r *problem.DiagnosticReport, width int) string {
	st := s.env.State
	inner := max(width-6, 20)
	text := lipgloss.NewStyle().Foreground(theme.Text).Width(inner)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Width(inner)

	var b strings.Builder
	b.WriteString(theme.Title.Width(width).Render("AI 수학 학습 진단 리포트") + "\n\n")

	results := st.Results()
	correct, earned, total := problem.Score(st.Problems, results)
	b.WriteString(theme.Selected.Render(fmt.Sprintf("  %d / %d 정답 · %d / %d점", correct, len(results), earned, total)) + "\n\n")

	b.WriteString(theme.Selected.Render("  종합 분석") + "\n")
	b.WriteString("  " + text.Render(r.OverallSummary) + "\n\n")

	b.WriteString(theme.Selected.Render("  학생의 잠재 공간") + "\n")
	for _, g := range r.Scores.ChartGroups() {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(g.Title) + "\n")
		for i, label := range g.Labels {
			bar := components.NewScoreBar(label, int(g.Scores[i]), 12, min(inner-12, 40))
			b.WriteString("    " + bar.View() + "\n")
		}
	}
	b.WriteString("\n")

	for _, c := range r.Cards() {
		b.WriteString(theme.Selected.Render("  "+c.Title) + "\n")
		b.WriteString("  " + dim.Render(c.Description) + "\n")
		b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(c.Analysis.Archetype) + "\n")
		if c.Analysis.ArchetypeDescription != "" {
			b.WriteString("  " + dim.Render(c.Analysis.ArchetypeDescription) + "\n")
		}
		b.WriteString("  " + text.Render(c.Analysis.Summary) + "\n\n")
	}

	b.WriteString(theme.Selected.Render("  문항별 결과") + "\n")
	for _, res := range results {
		p := st.Problems[res.Index]
		mark := theme.Correct.Render(res.Label())
		if !res.IsCorrect {
			mark = theme.Incorrect.Render(res.Label())
		}
		b.WriteString(fmt.Sprintf("  %2d. %s  선택: %s  정답: %s  %s\n",
			res.Index+1, mark, res.SelectedLabel(), problem.OptionLabel(res.Correct),
			theme.Hint.Render(p.ProblemType)))
		if p.Analysis != "" {
			b.WriteString("      " + dim.Width(max(inner-4, 16)).Render(mathtext.Plain(p.Analysis)) + "\n")
		}
	}
	return b.String()
}
