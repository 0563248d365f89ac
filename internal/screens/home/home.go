package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathsheet/internal/router"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/screens/history"
	"github.com/abhisek/mathsheet/internal/screens/problems"
	"github.com/abhisek/mathsheet/internal/screens/setup"
	"github.com/abhisek/mathsheet/internal/session"
	"github.com/abhisek/mathsheet/internal/ui/components"
	"github.com/abhisek/mathsheet/internal/ui/theme"
)

const (
	itemGenerator = iota
	itemLevelTest
	itemProblems
	itemHistory
	itemExit
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	env        *screen.Env
	menu       components.Menu
	menuLabels []string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(env *screen.Env) *HomeScreen {
	menuLabels := []string{"맞춤 문제 생성", "진단 테스트", "현재 문제 보기", "기록", "종료"}

	open := func(page session.Page) func() tea.Cmd {
		return func() tea.Cmd {
			if err := env.State.Navigate(page); err != nil {
				return screen.Notice("작업이 끝난 뒤에 이동할 수 있습니다.", true)
			}
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: setup.New(env, page)}
			}
		}
	}

	items := []components.MenuItem{
		{Label: menuLabels[itemGenerator], Action: open(session.PageGenerator)},
		{Label: menuLabels[itemLevelTest], Action: open(session.PageLevelTest)},
		{Label: menuLabels[itemProblems], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: problems.New(env)}
			}
		}},
		{Label: menuLabels[itemHistory], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(env.Events)}
			}
		}},
		{Label: menuLabels[itemExit], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	h := &HomeScreen{
		env:        env,
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
	}
	h.refresh()
	return h
}

// refresh updates the disabled items from the session.
func (h *HomeScreen) refresh() {
	h.menu.Items[itemProblems].Disabled = len(h.env.State.Problems) == 0
	h.menu.Items[itemHistory].Disabled = h.env.Events == nil
}

func (h *HomeScreen) disabled() map[int]bool {
	d := make(map[int]bool)
	for i, it := range h.menu.Items {
		if it.Disabled {
			d[i] = true
		}
	}
	return d
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	h.refresh()
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	h.refresh()

	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100
	cw := contentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if h.env.Service == nil {
		sections = append(sections, renderLLMBanner(cw))
	}
	st := h.env.State
	sections = append(sections, renderStatsBar(len(st.Problems), st.Page.Label(), theme.Name(), cw))
	sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw, h.disabled(), compact))

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "홈"
}
