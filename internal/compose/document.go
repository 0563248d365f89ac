// Package compose builds printable documents as block trees, mounts them on
// a render surface, and lays them out and paints them for capture.
package compose

import (
	"fmt"

	"github.com/abhisek/mathsheet/internal/barrier"
	"github.com/abhisek/mathsheet/internal/problem"
	"github.com/abhisek/mathsheet/internal/radar"
)

// Kind identifies a printable document type.
type Kind int

const (
	KindProblemSheet Kind = iota
	KindAnswerSheet
	KindReport
)

// Kinds lists every document kind.
var Kinds = []Kind{KindProblemSheet, KindAnswerSheet, KindReport}

func (k Kind) String() string {
	switch k {
	case KindProblemSheet:
		return "problems"
	case KindAnswerSheet:
		return "answers"
	case KindReport:
		return "report"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Label is the Korean document name used in file names.
func (k Kind) Label() string {
	switch k {
	case KindProblemSheet:
		return "문제지"
	case KindAnswerSheet:
		return "해설지"
	case KindReport:
		return "리포트"
	default:
		return k.String()
	}
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown document kind %q", s)
}

// Document is a printable document.
type Document interface {
	Kind() Kind
	Title() string
	// Compose appends the document's block tree to b.
	Compose(b *Builder)
	// Barrier returns the readiness barrier for one mount. confirm is nil
	// when no typesetting engine is available.
	Barrier(cfg barrier.Config, confirm barrier.Confirmer) barrier.Barrier
}

// Page padding of the exam-style sheets (20mm).
const sheetPadding = 20 * PxPerMM

var (
	figureFill   = colorHex(0xfafafa)
	figureBorder = colorHex(0xf0f0f0)
	dashColor    = colorHex(0xdddddd)
	tagColor     = colorHex(0x4b5563)
	summaryFill  = colorHex(0xeff6ff)
	primaryTint  = colorHex(0xdbeafe)
	correctTint  = colorHex(0xdbeafe)
	wrongTint    = colorHex(0xfee2e2)
)

type problemSheet struct {
	problems []problem.Problem
}

// ProblemSheet is the exam-style sheet students write on.
func ProblemSheet(problems []problem.Problem) Document {
	return problemSheet{problems: problem.CloneAll(problems)}
}

func (problemSheet) Kind() Kind     { return KindProblemSheet }
func (problemSheet) Title() string { return "AI 생성 맞춤 수학 문제지" }

func (d problemSheet) Barrier(cfg barrier.Config, confirm barrier.Confirmer) barrier.Barrier {
	return barrier.Sheet(cfg, confirm)
}

func (d problemSheet) Compose(b *Builder) {
	b.Box(sheetPadding, White, White, func(b *Builder) {
		b.Text(d.Title(), Style{Size: 28.8, Bold: true, Align: AlignCenter})
		b.Space(16)
		b.Row(16, func(b *Builder) {
			b.Text("제 2 교시   수학 영역", Style{Size: 28, Bold: true})
			b.Text("성명: __________________", Style{Size: 22, Bold: true, Align: AlignRight})
		})
		b.Space(12)
		b.Rule(3, Black, false)
		b.Space(32)

		for i, p := range d.problems {
			b.Group(true, func(b *Builder) {
				q := fmt.Sprintf("%d. %s  [%d점]", i+1, p.Question, p.Points)
				b.Text(q, Style{Size: 17.6, LineHeight: 1.7})
				if p.HasFigure() {
					b.Space(24)
					b.Box(16, figureFill, figureBorder, func(b *Builder) {
						b.Figure(p.SVGMarkup, 400, 1, 1)
					})
					b.Space(8)
				}
				b.Space(16)
				for j, opt := range p.Options {
					b.Text(problem.OptionLabel(j)+" "+opt, Style{Size: 16, LineHeight: 1.4, Indent: 24})
					b.Space(12.8)
				}
			})
			b.Space(40)
		}
	})
}

type answerSheet struct {
	problems []problem.Problem
}

// AnswerSheet lists the correct answer, type and rationale of every problem.
func AnswerSheet(problems []problem.Problem) Document {
	return answerSheet{problems: problem.CloneAll(problems)}
}

func (answerSheet) Kind() Kind     { return KindAnswerSheet }
func (answerSheet) Title() string { return "정답 및 해설" }

func (d answerSheet) Barrier(cfg barrier.Config, confirm barrier.Confirmer) barrier.Barrier {
	return barrier.Sheet(cfg, confirm)
}

func (d answerSheet) Compose(b *Builder) {
	b.Box(sheetPadding, White, White, func(b *Builder) {
		b.Text(d.Title(), Style{Size: 28.8, Bold: true, Align: AlignCenter})
		b.Space(12)
		b.Rule(3, Black, false)
		b.Space(32)

		for i, p := range d.problems {
			b.Group(true, func(b *Builder) {
				b.Row(16, func(b *Builder) {
					b.Text(fmt.Sprintf("%d번 문항", i+1), Style{Size: 19.2, Bold: true, Color: Primary})
					b.Text("정답: "+problem.OptionLabel(p.CorrectAnswerIndex), Style{Size: 17.6, Bold: true, Align: AlignRight})
				})
				b.Space(16)
				if p.HasFigure() {
					b.Figure(p.SVGMarkup, 250, 0.9, 0.8)
					b.Space(16)
				}
				b.Text("유형: "+p.ProblemType, Style{Size: 13.6, Bold: true, Color: tagColor})
				b.Space(16)
				b.Box(19.2, Paper, LightGray, func(b *Builder) {
					b.Text("[출제 의도 및 해설]", Style{Size: 16, Bold: true})
					b.Space(12.8)
					b.Text(p.Analysis, Style{Size: 15.2, LineHeight: 1.8, Color: DarkGray})
				})
				b.Space(24)
				b.Rule(1, dashColor, true)
			})
			b.Space(32)
		}
	})
}

// ChartSize is the CSS size of each radar chart in the report.
const ChartSize = 250

type report struct {
	report     problem.DiagnosticReport
	problems   []problem.Problem
	answers    problem.AnswerSet
	exportMode bool
}

// ReportDocument renders a diagnostic report. In export mode the per-item
// breakdown is expanded; otherwise only its heading is shown.
func ReportDocument(r problem.DiagnosticReport, problems []problem.Problem, answers problem.AnswerSet, exportMode bool) Document {
	return report{
		report:     r,
		problems:   problem.CloneAll(problems),
		answers:    problem.AnswerSetFrom(answers.Values()),
		exportMode: exportMode,
	}
}

func (report) Kind() Kind     { return KindReport }
func (report) Title() string { return "AI 수학 학습 진단 리포트" }

func (d report) Barrier(cfg barrier.Config, confirm barrier.Confirmer) barrier.Barrier {
	return barrier.Typeset(confirm, cfg)
}

func (d report) Compose(b *Builder) {
	b.Box(16, White, White, func(b *Builder) {
		b.Text(d.Title(), Style{Size: 24, Bold: true, Align: AlignCenter})
		b.Space(16)
		b.Rule(2, Black, false)
		b.Space(16)

		b.Box(16, summaryFill, summaryFill, func(b *Builder) {
			b.Text("AI 총평", Style{Size: 16, Bold: true, Color: Primary, Align: AlignCenter})
			b.Space(8)
			b.Text(d.report.OverallSummary, Style{Size: 14, Color: Gray, Align: AlignCenter})
		})
		b.Space(32)

		b.Box(16, White, LightGray, func(b *Builder) {
			b.Text("문항별 진단 상세 보기 (AI 분석 근거)", Style{Size: 16, Bold: true, Color: Primary})
			if !d.exportMode {
				return
			}
			b.Space(16)
			d.composeResults(b)
		})
		b.Space(32)

		d.composeCharts(b)
		b.Space(32)

		for _, card := range d.report.Cards() {
			b.Group(true, func(b *Builder) {
				composeCard(b, card)
			})
			b.Space(32)
		}
	})
}

func (d report) composeResults(b *Builder) {
	for _, r := range problem.Grade(d.problems, d.answers) {
		p := d.problems[r.Index]
		b.Group(true, func(b *Builder) {
			b.Box(16, Paper, LightGray, func(b *Builder) {
				badge, tint := Primary, correctTint
				if !r.IsCorrect {
					badge, tint = Wrong, wrongTint
				}
				b.Row(16, func(b *Builder) {
					b.Text(fmt.Sprintf("%d번 문항", r.Index+1), Style{Size: 18, Bold: true})
					b.Box(4, tint, tint, func(b *Builder) {
						b.Text(r.Label(), Style{Size: 14, Bold: true, Color: badge, Align: AlignCenter})
					})
				})
				b.Space(12)

				student := r.SelectedLabel()
				if r.Selected != problem.Unanswered {
					student += " " + optionText(p, r.Selected)
				}
				b.Row(16, func(b *Builder) {
					b.Text("학생 답안: "+student, Style{Size: 14, Color: Gray})
					b.Text("정답: "+problem.OptionLabel(r.Correct)+" "+optionText(p, r.Correct), Style{Size: 14, Bold: true, Color: Gray})
				})
				b.Space(12)
				b.Box(12, White, LightGray, func(b *Builder) {
					b.Text("AI 출제 의도 분석", Style{Size: 14, Bold: true})
					b.Space(4)
					b.Text(p.Analysis, Style{Size: 12, LineHeight: 1.6, Color: Gray})
				})
			})
		})
		b.Space(16)
	}
}

func optionText(p problem.Problem, i int) string {
	if i < 0 || i >= len(p.Options) {
		return ""
	}
	return p.Options[i]
}

func (d report) composeCharts(b *Builder) {
	groups := d.report.Scores.ChartGroups()
	b.Group(true, func(b *Builder) {
		b.Text("학생의 잠재 공간", Style{Size: 20, Bold: true, Align: AlignCenter})
		b.Space(8)
		b.Row(16, func(b *Builder) {
			for _, g := range groups[:3] {
				addChart(b, g)
			}
		})
	})
	b.Space(16)
	b.Group(true, func(b *Builder) {
		b.Row(16, func(b *Builder) {
			for _, g := range groups[3:] {
				addChart(b, g)
			}
		})
	})
}

func addChart(b *Builder, g problem.ChartGroup) {
	ch, err := radar.Compute(g.Labels, g.Scores, ChartSize)
	if err != nil {
		// Label and score lists come from ChartGroups and always match.
		return
	}
	b.Box(8, Paper, LightGray, func(b *Builder) {
		b.Add(Chart{Title: g.Title, Chart: ch})
	})
}

func composeCard(b *Builder, card problem.AxisCard) {
	b.Box(24, White, LightGray, func(b *Builder) {
		b.Text(card.Title, Style{Size: 20, Bold: true, Color: Primary})
		b.Space(4)
		b.Text(card.Description, Style{Size: 14, Color: Gray})
		b.Space(16)
		b.Box(16, primaryTint, primaryTint, func(b *Builder) {
			b.Text("AI 분석 학생 유형", Style{Size: 16, Bold: true, Color: Primary})
			b.Space(4)
			b.Text(card.Analysis.Archetype, Style{Size: 16, Bold: true})
			b.Space(4)
			b.Text(card.Analysis.ArchetypeDescription, Style{Size: 14, Color: Gray})
		})
		b.Space(24)
		b.Text("AI 종합 분석", Style{Size: 16, Bold: true})
		b.Space(8)
		b.Box(12, Paper, LightGray, func(b *Builder) {
			b.Text(card.Analysis.Summary, Style{Size: 14, LineHeight: 1.6, Color: Gray})
		})
	})
}
