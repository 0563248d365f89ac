package app

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathsheet/internal/compose"
	"github.com/abhisek/mathsheet/internal/export"
	"github.com/abhisek/mathsheet/internal/router"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/session"
	"github.com/abhisek/mathsheet/internal/ui/theme"
)

type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func newModel() AppModel {
	return newAppModel(Options{Env: &screen.Env{State: session.New(session.ThemeDark)}})
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestThemeToggle(t *testing.T) {
	m := newModel()
	if theme.Name() != "dark" {
		t.Fatalf("theme = %q, want dark", theme.Name())
	}
	m, _ = update(m, tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl})
	if m.env.State.Theme != session.ThemeLight || theme.Name() != "light" {
		t.Errorf("state theme = %q, active = %q", m.env.State.Theme, theme.Name())
	}
	update(m, tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl})
	if theme.Name() != "dark" {
		t.Errorf("active = %q after second toggle", theme.Name())
	}
}

func TestExportDoneReleasesGuard(t *testing.T) {
	m := newModel()
	release, err := m.env.State.Exports.Acquire(compose.KindAnswerSheet)
	if err != nil {
		t.Fatal(err)
	}
	if !m.env.State.Busy() {
		t.Fatal("state should be busy during export")
	}

	m, _ = update(m, screen.ExportDoneMsg{
		Kind:    compose.KindAnswerSheet,
		Result:  export.Result{Path: "out/AI_Math_해설지.pdf", Pages: 2},
		Release: release,
	})
	if m.env.State.Busy() {
		t.Error("guard should be released")
	}
	if !strings.Contains(m.notice.Text, "AI_Math_해설지.pdf") || m.notice.Error {
		t.Errorf("notice = %+v", m.notice)
	}
}

func TestExportFailureNotice(t *testing.T) {
	m := newModel()
	release, _ := m.env.State.Exports.Acquire(compose.KindReport)
	m, _ = update(m, screen.ExportDoneMsg{
		Kind:    compose.KindReport,
		Err:     &export.Error{Stage: export.StageCapture, Err: errors.New("boom")},
		Release: release,
	})
	if m.notice.Text != export.UserMessage || !m.notice.Error {
		t.Errorf("notice = %+v", m.notice)
	}
}

func TestEscBlockedWhileGenerating(t *testing.T) {
	m := newModel()
	m.router.Push(&stubScreen{title: "setup"})

	m.env.State.Generating = true
	_, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("esc must not leave the screen that awaits a response")
	}

	m.env.State.Generating = false
	_, cmd = update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("esc should pop")
	}
}

func TestView(t *testing.T) {
	m := newModel()
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	v := m.View()
	if !v.AltScreen {
		t.Error("expected alt screen")
	}
}
