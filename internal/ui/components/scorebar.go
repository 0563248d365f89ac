package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathsheet/internal/ui/theme"
)

// ScoreBar displays a 0-100 score as a horizontal bar.
type ScoreBar struct {
	Label string
	Score int
	// LabelWidth pads labels so bars line up. Zero uses the label width.
	LabelWidth int
	Width      int
}

// NewScoreBar creates a score bar.
func NewScoreBar(label string, score, labelWidth, width int) ScoreBar {
	return ScoreBar{Label: label, Score: score, LabelWidth: labelWidth, Width: width}
}

// View renders the bar followed by the numeric score.
func (p ScoreBar) View() string {
	label := p.Label
	if pad := p.LabelWidth - lipgloss.Width(label); pad > 0 {
		label += strings.Repeat(" ", pad)
	}
	result := lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "

	barWidth := p.Width - lipgloss.Width(result) - 5
	if barWidth < 4 {
		barWidth = 4
	}

	score := min(max(p.Score, 0), 100)
	filled := barWidth * score / 100
	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
	result += lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf(" %3d", score))
	return result
}
