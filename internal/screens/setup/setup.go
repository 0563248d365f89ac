// Package setup is the generation form shared by the custom problem page
// and the level-test page.
package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsheet/internal/curriculum"
	"github.com/abhisek/mathsheet/internal/problemgen"
	"github.com/abhisek/mathsheet/internal/router"
	"github.com/abhisek/mathsheet/internal/screen"
	"github.com/abhisek/mathsheet/internal/screens/problems"
	"github.com/abhisek/mathsheet/internal/session"
	"github.com/abhisek/mathsheet/internal/ui/components"
	"github.com/abhisek/mathsheet/internal/ui/layout"
	"github.com/abhisek/mathsheet/internal/ui/theme"
)

type field int

const (
	fieldLevel field = iota
	fieldSubject
	fieldList
	fieldCount
	fieldDescription
	fieldButton
)

// generatedMsg carries the result of a generation request.
type generatedMsg struct {
	mode problemgen.Mode
	set  *problemgen.Set
	err  error
}

// SetupScreen collects generation parameters for one page.
type SetupScreen struct {
	env  *screen.Env
	page session.Page

	focus    field
	levelIdx int
	subjIdx  int
	items    []string
	checked  map[string]bool
	cursor   int

	count       components.TextInput
	description components.TextInput

	importing  bool
	importPath components.TextInput

	errMsg string
}

var (
	_ screen.Screen          = (*SetupScreen)(nil)
	_ screen.KeyHintProvider = (*SetupScreen)(nil)
	_ screen.TextCapturer    = (*SetupScreen)(nil)
)

// New creates the form for page. The state is expected to be on page
// already.
func New(env *screen.Env, page session.Page) *SetupScreen {
	s := &SetupScreen{
		env:         env,
		page:        page,
		levelIdx:    slices.Index(curriculum.Levels, curriculum.DefaultLevel),
		checked:     make(map[string]bool),
		count:       components.NewTextInput("문항 수", "", true, 2),
		description: components.NewTextInput("학생 정보", "예: 고2, 수학 3등급, 함수 단원이 약함", false, 300),
		importPath:  components.NewTextInput("JSON 파일", "경로를 입력하세요", false, 0),
	}
	if page == session.PageLevelTest {
		s.count.SetValue(fmt.Sprint(problemgen.DefaultLevelTestCount))
	} else {
		s.count.SetValue(fmt.Sprint(problemgen.DefaultCustomCount))
	}
	s.reload()
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return s.page.Label()
}

// CapturingText reports whether a text field has focus.
func (s *SetupScreen) CapturingText() bool {
	return s.importing || s.count.Focused() || s.description.Focused()
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.importing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "불러오기"},
			{Key: "Esc", Description: "취소"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "다음 항목"},
		{Key: "←→", Description: "변경"},
		{Key: "Space", Description: "선택"},
		{Key: "a/x", Description: "전체 선택/해제"},
		{Key: "Ctrl+O", Description: "JSON 불러오기"},
		{Key: "Esc", Description: "뒤로"},
	}
}

func (s *SetupScreen) level() curriculum.Level {
	return curriculum.Levels[s.levelIdx]
}

func (s *SetupScreen) subject() string {
	subjects := curriculum.Subjects(s.level())
	if len(subjects) == 0 {
		return ""
	}
	return subjects[s.subjIdx%len(subjects)]
}

// reload rebuilds the checklist after the level or subject changed and
// clears the selection.
func (s *SetupScreen) reload() {
	if s.page == session.PageLevelTest {
		s.items = curriculum.Subjects(s.level())
	} else {
		s.items = curriculum.Topics(s.level(), s.subject())
	}
	clear(s.checked)
	s.cursor = 0
}

func (s *SetupScreen) selected() []string {
	var out []string
	for _, it := range s.items {
		if s.checked[it] {
			out = append(out, it)
		}
	}
	return out
}

func (s *SetupScreen) fields() []field {
	if s.page == session.PageLevelTest {
		return []field{fieldLevel, fieldList, fieldCount, fieldDescription, fieldButton}
	}
	return []field{fieldLevel, fieldSubject, fieldList, fieldCount, fieldDescription, fieldButton}
}

func (s *SetupScreen) move(delta int) tea.Cmd {
	fs := s.fields()
	i := slices.Index(fs, s.focus)
	i = (i + delta + len(fs)) % len(fs)
	s.focus = fs[i]

	s.count.Blur()
	s.description.Blur()
	switch s.focus {
	case fieldCount:
		return s.count.Focus()
	case fieldDescription:
		return s.description.Focus()
	}
	return nil
}

// canGenerate mirrors the button state: something must be selected and no
// request may be running.
func (s *SetupScreen) canGenerate() bool {
	return len(s.selected()) > 0 && !s.env.State.Generating
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		return s, s.handleGenerated(msg)
	case tea.KeyMsg:
		if s.importing {
			return s, s.updateImport(msg)
		}
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *SetupScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "tab":
		return s.move(1)
	case "shift+tab":
		return s.move(-1)
	case "ctrl+o":
		if s.env.State.Busy() {
			return nil
		}
		s.importing = true
		s.count.Blur()
		s.description.Blur()
		return s.importPath.Focus()
	case "ctrl+s":
		return s.generate()
	case "esc":
		s.count.Blur()
		s.description.Blur()
		s.focus = fieldLevel
		return nil
	}
	if s.env.State.Generating {
		return nil
	}

	switch s.focus {
	case fieldCount:
		if key == "enter" {
			return s.move(1)
		}
		var cmd tea.Cmd
		s.count, cmd = s.count.Update(msg)
		return cmd
	case fieldDescription:
		if key == "enter" {
			return s.move(1)
		}
		var cmd tea.Cmd
		s.description, cmd = s.description.Update(msg)
		return cmd
	}

	switch key {
	case "up", "k":
		if s.focus == fieldList && s.cursor > 0 {
			s.cursor--
		} else if s.focus != fieldList {
			return s.move(-1)
		}
	case "down", "j":
		if s.focus == fieldList && s.cursor < len(s.items)-1 {
			s.cursor++
		} else {
			return s.move(1)
		}
	case "left", "h":
		s.cycle(-1)
	case "right", "l":
		s.cycle(1)
	case "space":
		if s.focus == fieldList && len(s.items) > 0 {
			it := s.items[s.cursor]
			s.checked[it] = !s.checked[it]
		}
	case "a":
		for _, it := range s.items {
			s.checked[it] = true
		}
	case "x":
		clear(s.checked)
	case "enter":
		if s.focus == fieldButton {
			return s.generate()
		}
		return s.move(1)
	}
	return nil
}

func (s *SetupScreen) cycle(delta int) {
	switch s.focus {
	case fieldLevel:
		n := len(curriculum.Levels)
		s.levelIdx = (s.levelIdx + delta + n) % n
		s.subjIdx = 0
		s.reload()
	case fieldSubject:
		n := len(curriculum.Subjects(s.level()))
		if n == 0 {
			return
		}
		s.subjIdx = (s.subjIdx + delta + n) % n
		s.reload()
	}
}

// params builds the request from the form. The count is clamped by the
// constructors.
func (s *SetupScreen) params() problemgen.Params {
	n, err := s.count.NumericValue()
	if err != nil {
		n = 0
	}
	desc := strings.TrimSpace(s.description.Value())
	if s.page == session.PageLevelTest {
		return problemgen.LevelTest(problemgen.LevelTestParams{
			Level:              s.level(),
			Subjects:           s.selected(),
			Count:              n,
			StudentDescription: desc,
		})
	}
	return problemgen.Custom(problemgen.CustomParams{
		Level:              s.level(),
		Subject:            s.subject(),
		Topics:             s.selected(),
		Count:              n,
		StudentDescription: desc,
	})
}

func (s *SetupScreen) generate() tea.Cmd {
	if !s.canGenerate() {
		if len(s.selected()) == 0 {
			s.errMsg = "하나 이상 선택해 주세요."
		}
		return nil
	}
	if s.env.Service == nil {
		s.errMsg = "LLM 공급자가 설정되지 않았습니다. GEMINI_API_KEY 등을 확인해 주세요."
		return nil
	}
	p := s.params()
	if err := p.Validate(); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	if err := s.env.State.BeginGeneration(p); err != nil {
		s.errMsg = "다른 작업이 진행 중입니다."
		return nil
	}
	s.errMsg = ""
	s.count.Blur()
	s.description.Blur()

	svc := s.env.Service
	return func() tea.Msg {
		set, err := svc.Generate(context.Background(), p)
		return generatedMsg{mode: p.Mode(), set: set, err: err}
	}
}

func (s *SetupScreen) handleGenerated(msg generatedMsg) tea.Cmd {
	st := s.env.State
	if msg.err != nil {
		st.FailGeneration(msg.mode)
		s.errMsg = st.Error
		return nil
	}
	st.CompleteGeneration(msg.set)
	s.errMsg = ""
	cmds := []tea.Cmd{func() tea.Msg {
		return router.PushScreenMsg{Screen: problems.New(s.env)}
	}}
	for _, w := range msg.set.Warnings {
		cmds = append(cmds, screen.Notice("경고: "+w, false))
	}
	return tea.Sequence(cmds...)
}

func (s *SetupScreen) updateImport(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.importing = false
		s.importPath.Blur()
		return nil
	case "enter":
		path := strings.TrimSpace(s.importPath.Value())
		s.importing = false
		s.importPath.Blur()
		return s.load(path)
	}
	var cmd tea.Cmd
	s.importPath, cmd = s.importPath.Update(msg)
	return cmd
}

func (s *SetupScreen) load(path string) tea.Cmd {
	st := s.env.State
	data, err := os.ReadFile(path)
	if err != nil {
		st.Error = "JSON 파일 처리 오류: " + err.Error()
		s.errMsg = st.Error
		return nil
	}
	if err := st.Import(data, s.page); err != nil {
		if errors.Is(err, session.ErrBusy) {
			s.errMsg = "다른 작업이 진행 중입니다."
		} else {
			s.errMsg = st.Error
		}
		return nil
	}
	s.errMsg = ""
	return tea.Batch(
		func() tea.Msg { return router.PushScreenMsg{Screen: problems.New(s.env)} },
		screen.Notice(fmt.Sprintf("%d문항을 불러왔습니다.", len(st.Problems)), false),
	)
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render(s.page.Label()))
	b.WriteString("\n\n")

	b.WriteString(s.row(fieldLevel, "학교급", "◀ "+s.level().Label()+" ▶"))
	if s.page == session.PageGenerator {
		b.WriteString(s.row(fieldSubject, "과목", "◀ "+s.subject()+" ▶"))
	}

	listTitle := "단원"
	if s.page == session.PageLevelTest {
		listTitle = "과목"
	}
	b.WriteString(s.row(fieldList, listTitle, fmt.Sprintf("%d개 선택", len(s.selected()))))
	b.WriteString(s.checklist(height))

	b.WriteString("\n")
	b.WriteString("  " + s.count.View() + "\n")
	b.WriteString("  " + s.description.View() + "\n\n")

	label := "생성하기"
	if s.env.State.Generating {
		label = "생성 중..."
	}
	btn := components.Button{
		Label:    label,
		Focused:  s.focus == fieldButton,
		Disabled: !s.canGenerate(),
	}
	b.WriteString("  " + btn.View() + "\n")

	if s.importing {
		b.WriteString("\n  " + s.importPath.View() + "\n")
	}
	if s.errMsg != "" {
		b.WriteString("\n  " + theme.Incorrect.Render(s.errMsg) + "\n")
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (s *SetupScreen) row(f field, label, value string) string {
	style := lipgloss.NewStyle().Foreground(theme.Text)
	prefix := "  "
	if s.focus == f {
		style = theme.Selected
		prefix = "▸ "
	}
	name := lipgloss.NewStyle().Foreground(theme.TextDim).Width(10).Render(label)
	return prefix + name + style.Render(value) + "\n"
}

// checklist renders the items around the cursor so long lists fit.
func (s *SetupScreen) checklist(height int) string {
	visible := max(height-14, 3)
	start := 0
	if s.cursor >= visible {
		start = s.cursor - visible + 1
	}
	end := min(start+visible, len(s.items))

	var b strings.Builder
	for i := start; i < end; i++ {
		it := s.items[i]
		box := "[ ]"
		if s.checked[it] {
			box = "[x]"
		}
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if s.focus == fieldList && i == s.cursor {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		b.WriteString("      " + style.Render(box+" "+it) + "\n")
	}
	if end < len(s.items) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("      … %d개 더", len(s.items)-end)) + "\n")
	}
	return b.String()
}
