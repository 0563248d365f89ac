package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsheet/internal/router"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/store"
	"github.com/abhisek/mathsheet/internal/ui/layout"
	"github.com/abhisek/mathsheet/internal/ui/theme"
)

const historyLimit = 50

type historyLoadedMsg struct {
	Generations []store.GenerationEventRecord
	Exports     []store.ExportEventRecord
	Err         error
}

type tab int

const (
	tabGenerations tab = iota
	tabExports
)

// HistoryScreen lists past generation requests and PDF exports.
type HistoryScreen struct {
	eventRepo   store.EventRepo
	generations []store.GenerationEventRecord
	exports     []store.ExportEventRecord
	tab         tab
	selected    int
	expanded    map[int]bool
	loaded      bool
	errMsg      string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		gens, err := s.eventRepo.QueryGenerations(ctx, store.QueryOpts{Limit: historyLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// A failed export query still shows the generations.
		exports, err := s.eventRepo.QueryExports(ctx, store.QueryOpts{Limit: historyLimit})
		if err != nil {
			return historyLoadedMsg{Generations: gens}
		}
		return historyLoadedMsg{Generations: gens, Exports: exports}
	}
}

func (s *HistoryScreen) Title() string {
	return "기록"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "생성/내보내기"},
		{Key: "Enter", Description: "자세히"},
		{Key: "↑↓", Description: "이동"},
		{Key: "Esc", Description: "뒤로"},
	}
}

func (s *HistoryScreen) rows() int {
	if s.tab == tabExports {
		return len(s.exports)
	}
	return len(s.generations)
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.generations = msg.Generations
			s.exports = msg.Exports
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab":
			if s.tab == tabGenerations {
				s.tab = tabExports
			} else {
				s.tab = tabGenerations
			}
			s.selected = 0
			clear(s.expanded)
			return s, nil
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < s.rows()-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n오류: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  기록을 불러오는 중...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.tabs()))
	b.WriteString("\n\n")

	if s.rows() == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("  아직 기록이 없습니다."))
		return b.String()
	}

	if s.tab == tabExports {
		s.renderExports(&b, width)
	} else {
		s.renderGenerations(&b, width)
	}
	return b.String()
}

func (s *HistoryScreen) tabs() string {
	on := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Underline(true)
	off := lipgloss.NewStyle().Foreground(theme.TextDim)
	g, e := off, off
	if s.tab == tabGenerations {
		g = on
	} else {
		e = on
	}
	return g.Render("생성 기록") + "   " + e.Render("내보내기 기록")
}

func (s *HistoryScreen) line(b *strings.Builder, width, i int, text string, ok bool) {
	prefix := "  "
	if i == s.selected {
		prefix = "> "
	}
	style := lipgloss.NewStyle().Foreground(statusColor(ok))
	if i == s.selected {
		style = style.Bold(true)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+text)))
	b.WriteString("\n")
}

func (s *HistoryScreen) detail(b *strings.Builder, width int, text string) {
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("    "+text)))
	b.WriteString("\n")
}

func (s *HistoryScreen) renderGenerations(b *strings.Builder, width int) {
	for i, g := range s.generations {
		status := "성공"
		if !g.Success {
			status = "실패"
		}
		s.line(b, width, i, fmt.Sprintf("%s  %-10s %s  %s",
			g.Timestamp.Local().Format("2006-01-02 15:04"), modeLabel(g.Mode), g.Summary, status), g.Success)

		if s.expanded[i] {
			s.detail(b, width, fmt.Sprintf("문항 수: %d", g.ProblemCount))
			if g.ErrorMessage != "" {
				s.detail(b, width, "오류: "+g.ErrorMessage)
			}
		}
	}
}

func (s *HistoryScreen) renderExports(b *strings.Builder, width int) {
	for i, e := range s.exports {
		status := fmt.Sprintf("%d쪽", e.Pages)
		if !e.Success {
			status = "실패"
		}
		s.line(b, width, i, fmt.Sprintf("%s  %-8s %s  %s",
			e.Timestamp.Local().Format("2006-01-02 15:04"), e.Kind, e.FileName, status), e.Success)

		if s.expanded[i] {
			s.detail(b, width, fmt.Sprintf("%d bytes · %s", e.Bytes, e.Duration.Round(time.Millisecond)))
			if e.Stage != "" {
				s.detail(b, width, fmt.Sprintf("실패 단계: %s · %s", e.Stage, e.Error))
			}
		}
	}
}

func modeLabel(mode string) string {
	switch mode {
	case "custom":
		return "맞춤 문제"
	case "leveltest":
		return "진단 테스트"
	case "report":
		return "리포트"
	default:
		return mode
	}
}

func statusColor(ok bool) color.Color {
	if ok {
		return theme.Text
	}
	return theme.Error
}
