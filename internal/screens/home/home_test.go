package home

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathsheet/internal/problem"
	"github.com/abhisek/mathsheet/internal/router"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/session"
)

func TestDisabledItems(t *testing.T) {
	env := &screen.Env{State: session.New(session.ThemeDark)}
	h := New(env)
	d := h.disabled()
	if !d[itemProblems] || !d[itemHistory] {
		t.Errorf("disabled = %v, want problems and history disabled", d)
	}

	env.State.Problems = make([]problem.Problem, 1)
	h.Update(nil)
	if h.disabled()[itemProblems] {
		t.Error("problems should be enabled once a set is loaded")
	}
}

func TestOpenPageNavigates(t *testing.T) {
	env := &screen.Env{State: session.New(session.ThemeDark)}
	env.State.Problems = make([]problem.Problem, 2)
	h := New(env)

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Error("expected PushScreenMsg")
	}
	if env.State.Page != session.PageLevelTest || len(env.State.Problems) != 0 {
		t.Errorf("page = %v, problems = %d", env.State.Page, len(env.State.Problems))
	}
}

func TestOpenPageRefusedWhileBusy(t *testing.T) {
	env := &screen.Env{State: session.New(session.ThemeDark)}
	env.State.Generating = true
	h := New(env)

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a notice")
	}
	if msg, ok := cmd().(screen.NoticeMsg); !ok || !msg.Error {
		t.Errorf("expected an error notice, got %#v", msg)
	}
	if env.State.Page != session.PageGenerator {
		t.Error("page must not change while busy")
	}
}
