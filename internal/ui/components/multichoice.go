package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsheet/internal/mathtext"
	"github.com/abhisek/mathsheet/internal/problem"
	"github.com/abhisek/mathsheet/internal/ui/theme"
)

// MultiChoice is a five-option answer selector. Math in the options is shown
// as Unicode text.
type MultiChoice struct {
	Options []string
	// Cursor is the highlighted option.
	Cursor int
	// Chosen is the selected option, or problem.Unanswered.
	Chosen int
	// Locked disables selection, e.g. after submission.
	Locked bool
	// Reveal marks the correct option when >= 0.
	Reveal int
}

// NewMultiChoice creates a selector over options with chosen preselected.
func NewMultiChoice(options []string, chosen int) MultiChoice {
	cursor := 0
	if chosen >= 0 && chosen < len(options) {
		cursor = chosen
	}
	return MultiChoice{
		Options: options,
		Cursor:  cursor,
		Chosen:  chosen,
		Reveal:  -1,
	}
}

// ChoiceMadeMsg is emitted when the user picks an option.
type ChoiceMadeMsg struct {
	Option int
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection. Digits 1-5 pick an
// option directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Locked {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter", "space":
		return m.choose(m.Cursor)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Cursor = i
				return m.choose(i)
			}
		}
	}
	return m, nil
}

func (m MultiChoice) choose(i int) (MultiChoice, tea.Cmd) {
	m.Chosen = i
	return m, func() tea.Msg { return ChoiceMadeMsg{Option: i} }
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Locked {
			prefix = "▸ "
		}
		mark := ""
		if i == m.Chosen {
			mark = "  ●"
		}
		line := fmt.Sprintf("%s%s  %s%s", prefix, problem.OptionLabel(i), mathtext.Plain(opt), mark)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Reveal >= 0 && i == m.Reveal:
			style = theme.Correct
		case m.Reveal >= 0 && i == m.Chosen:
			style = theme.Incorrect
		case i == m.Chosen:
			style = theme.Selected
		case i == m.Cursor && !m.Locked:
			style = lipgloss.NewStyle().Foreground(theme.Primary)
		case m.Locked:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
