package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsheet/internal/export"
	"github.com/abhisek/mathsheet/internal/router"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/screens/home"
	"github.com/abhisek/mathsheet/internal/ui/layout"
	"github.com/abhisek/mathsheet/internal/ui/theme"
)

// Options configures the TUI.
type Options struct {
	Env *screen.Env
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env    *screen.Env
	router *router.Router
	width  int
	height int
	notice screen.NoticeMsg
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	theme.Use(string(opts.Env.State.Theme))
	return AppModel{
		env:    opts.Env,
		router: router.New(home.New(opts.Env)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.NoticeMsg:
		m.notice = msg
		return m, nil

	case screen.ExportDoneMsg:
		if msg.Release != nil {
			msg.Release()
		}
		if msg.Err != nil {
			m.notice = screen.NoticeMsg{Text: export.UserMessage, Error: true}
		} else {
			m.notice = screen.NoticeMsg{Text: fmt.Sprintf("저장됨: %s (%d쪽)", msg.Result.Path, msg.Result.Pages)}
		}
		return m, nil

	case tea.KeyMsg:
		if m.capturing() {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+t":
			m.env.State.ToggleTheme()
			theme.Use(string(m.env.State.Theme))
			return m, nil
		case "esc":
			// A request in flight reports back to the screen that started it.
			if m.env.State.Generating {
				return m, nil
			}
			if m.router.Depth() > 1 {
				m.notice = screen.NoticeMsg{}
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		case "ctrl+g":
			if m.env.State.Generating {
				return m, nil
			}
			m.notice = screen.NoticeMsg{}
			return m, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// capturing reports whether the active screen is reading free text.
func (m AppModel) capturing() bool {
	tc, ok := m.router.Active().(screen.TextCapturer)
	return ok && tc.CapturingText()
}

func (m AppModel) status() string {
	st := m.env.State
	switch {
	case st.Generating:
		return "생성 중..."
	case st.Exports.Any():
		return "PDF 생성 중..."
	case len(st.Problems) > 0:
		return fmt.Sprintf("%s · %d문항", st.Page.Label(), len(st.Problems))
	}
	return ""
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "뒤로"},
			{Key: "Ctrl+C", Description: "종료"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "이동"},
			{Key: "Enter", Description: "선택"},
			{Key: "Ctrl+T", Description: "테마"},
			{Key: "Ctrl+C", Description: "종료"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)
	if m.notice.Text != "" {
		style := lipgloss.NewStyle().Foreground(theme.Secondary).Padding(0, 2)
		if m.notice.Error {
			style = style.Foreground(theme.Error)
		}
		footer = style.Render(m.notice.Text) + "\n" + footer
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
