package history

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathsheet/internal/store"
)

func openEvents(t *testing.T) store.EventRepo {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	msg := s.Init()()
	if _, ok := msg.(historyLoadedMsg); !ok {
		t.Fatalf("expected historyLoadedMsg, got %T", msg)
	}
	s.Update(msg)
}

func TestHistory_Empty(t *testing.T) {
	s := New(openEvents(t))
	if out := s.View(80, 20); !strings.Contains(out, "불러오는 중") {
		t.Errorf("view before load = %q", out)
	}
	load(t, s)
	if out := s.View(80, 20); !strings.Contains(out, "아직 기록이 없습니다") {
		t.Errorf("view = %q", out)
	}
}

func TestHistory_Tabs(t *testing.T) {
	ctx := context.Background()
	events := openEvents(t)
	if err := events.AppendGeneration(ctx, store.GenerationEventData{
		Mode: "leveltest", Summary: "고등학교 수학Ⅰ 진단 (10문항)", ProblemCount: 10, Success: true,
	}); err != nil {
		t.Fatal(err)
	}
	if err := events.AppendGeneration(ctx, store.GenerationEventData{
		Mode: "custom", Summary: "중학교 수학", Success: false, ErrorMessage: "rate limited",
	}); err != nil {
		t.Fatal(err)
	}
	if err := events.AppendExport(ctx, store.ExportEventData{
		ExportID: "e1", Kind: "problems", FileName: "진단테스트_문제지.pdf", Pages: 3, Bytes: 2048, Success: true,
	}); err != nil {
		t.Fatal(err)
	}

	s := New(events)
	load(t, s)

	out := s.View(120, 30)
	if !strings.Contains(out, "진단 테스트") || !strings.Contains(out, "맞춤 문제") {
		t.Errorf("generation tab missing rows:\n%s", out)
	}

	// Expand the failed request.
	for i, g := range s.generations {
		if !g.Success {
			s.selected = i
		}
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if out := s.View(120, 30); !strings.Contains(out, "rate limited") {
		t.Errorf("expanded row should show the error:\n%s", out)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.tab != tabExports || s.selected != 0 {
		t.Fatalf("tab = %d, selected = %d", s.tab, s.selected)
	}
	if out := s.View(120, 30); !strings.Contains(out, "진단테스트_문제지.pdf") || !strings.Contains(out, "3쪽") {
		t.Errorf("export tab:\n%s", out)
	}
}

func TestHistory_NavigationBounds(t *testing.T) {
	ctx := context.Background()
	events := openEvents(t)
	for i := range 3 {
		if err := events.AppendGeneration(ctx, store.GenerationEventData{Mode: "custom", Summary: fmt.Sprint(i), Success: true}); err != nil {
			t.Fatal(err)
		}
	}
	s := New(events)
	load(t, s)

	for range 10 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if s.selected != 2 {
		t.Errorf("selected = %d, want 2", s.selected)
	}
	for range 10 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	}
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}
}
