// Package session holds the state of one working session: the current page,
// the problem set, the student's answers and the report, plus the
// transitions between them.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/mathsheet/internal/export"
	"github.com/abhisek/mathsheet/internal/problem"
	"github.com/abhisek/mathsheet/internal/problemgen"
)

// Page is one of the two top-level pages.
type Page int

const (
	PageGenerator Page = iota // custom problem generator
	PageLevelTest             // level test and diagnostic report
)

func (p Page) String() string {
	if p == PageLevelTest {
		return "leveltest"
	}
	return "generator"
}

// Label is the page's navigation title.
func (p Page) Label() string {
	if p == PageLevelTest {
		return "진단 테스트"
	}
	return "맞춤 문제 생성"
}

// Theme is the colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// User-facing failure messages, one per request type.
const (
	MsgGenerateFailed  = "문제 생성 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
	MsgLevelTestFailed = "진단 테스트 생성 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
	MsgReportFailed    = "리포트 생성 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
)

var (
	// ErrBusy is returned when a transition is attempted while a generation
	// request or an export is running.
	ErrBusy = errors.New("session is busy")

	// ErrNoProblems is returned by operations that need a problem set.
	ErrNoProblems = errors.New("no problems loaded")

	// ErrSubmitted is returned when editing after submission.
	ErrSubmitted = errors.New("test already submitted")
)

// State is the single source of truth for a session. It is owned by the
// top-level controller and is not safe for concurrent use; background work
// reports back through the Complete/Fail transitions.
type State struct {
	Page     Page
	Problems []problem.Problem
	Answers  problem.AnswerSet
	// Params are the parameters of the last generation, nil after an
	// import or a reset.
	Params *problemgen.Params
	// StudentDescription is forwarded to the report request.
	StudentDescription string
	Report             *problem.DiagnosticReport
	// Error is the message shown to the user, empty when there is none.
	Error    string
	Warnings []string
	Theme    Theme

	// Generating is set while a problem set or report is requested.
	Generating bool
	// Exports holds the per-kind export busy flags.
	Exports *export.Guard

	pending *problemgen.Params
}

// New returns an empty session on the generator page.
func New(theme Theme) *State {
	if theme != ThemeLight {
		theme = ThemeDark
	}
	return &State{
		Page:    PageGenerator,
		Theme:   theme,
		Exports: export.NewGuard(),
	}
}

// Busy reports whether a generation request or any export is running.
func (s *State) Busy() bool {
	return s.Generating || s.Exports.Any()
}

// Submitted reports whether the answers have been submitted.
func (s *State) Submitted() bool { return s.Answers.Frozen() }

// Reset clears everything except the page and theme.
func (s *State) Reset() {
	s.Problems = nil
	s.Answers = problem.AnswerSet{}
	s.Params = nil
	s.StudentDescription = ""
	s.Report = nil
	s.Error = ""
	s.Warnings = nil
	s.pending = nil
}

// Navigate switches page and resets the session. It is refused while busy.
func (s *State) Navigate(p Page) error {
	if s.Busy() {
		return ErrBusy
	}
	s.Page = p
	s.Reset()
	return nil
}

// ToggleTheme switches between light and dark.
func (s *State) ToggleTheme() {
	if s.Theme == ThemeDark {
		s.Theme = ThemeLight
	} else {
		s.Theme = ThemeDark
	}
}

// BeginGeneration resets the session and marks a generation request as in
// flight.
func (s *State) BeginGeneration(p problemgen.Params) error {
	if s.Busy() {
		return ErrBusy
	}
	s.Reset()
	s.Generating = true
	s.StudentDescription = p.StudentDescription()
	s.pending = &p
	return nil
}

// CompleteGeneration commits a generated set and resets the answers.
func (s *State) CompleteGeneration(set *problemgen.Set) {
	s.Generating = false
	s.Params = s.pending
	s.pending = nil
	s.Problems = set.Problems
	s.Answers = problem.NewAnswerSet(len(set.Problems))
	s.Warnings = set.Warnings
	s.Error = ""
}

// FailGeneration records a failed request. Nothing is committed.
func (s *State) FailGeneration(mode problemgen.Mode) {
	s.Generating = false
	s.Params = s.pending
	s.pending = nil
	if mode == problemgen.ModeLevelTest {
		s.Error = MsgLevelTestFailed
	} else {
		s.Error = MsgGenerateFailed
	}
}

// SelectAnswer records the student's choice for problem i.
func (s *State) SelectAnswer(i, option int) error {
	if s.Submitted() {
		return ErrSubmitted
	}
	return s.Answers.Select(i, option)
}

// BeginReport checks that every problem is answered and marks the report
// request as in flight.
func (s *State) BeginReport() error {
	if s.Busy() {
		return ErrBusy
	}
	if len(s.Problems) == 0 {
		return ErrNoProblems
	}
	if s.Submitted() {
		return ErrSubmitted
	}
	if !s.Answers.Complete() {
		return problem.ErrIncomplete
	}
	s.Generating = true
	s.Error = ""
	return nil
}

// CompleteReport stores the report and freezes the answers.
func (s *State) CompleteReport(r *problem.DiagnosticReport) error {
	s.Generating = false
	if err := s.Answers.Freeze(); err != nil {
		return err
	}
	s.Report = r
	return nil
}

// FailReport records a failed report request. Answers stay editable.
func (s *State) FailReport() {
	s.Generating = false
	s.Error = MsgReportFailed
}

// UpdateProblem replaces problem i with an edited copy. Points are clamped
// into their allowed range.
func (s *State) UpdateProblem(i int, p problem.Problem) error {
	if i < 0 || i >= len(s.Problems) {
		return fmt.Errorf("problem index %d out of range", i)
	}
	if s.Submitted() {
		return ErrSubmitted
	}
	p.Points = min(max(p.Points, problem.MinPoints), problem.MaxPoints)
	if err := p.Validate(); err != nil {
		return err
	}
	s.Problems[i] = p.Clone()
	return nil
}

// Import replaces the session with problems read from data and switches to
// page. On failure the state is left untouched and the error message is set.
func (s *State) Import(data []byte, page Page) error {
	if s.Busy() {
		return ErrBusy
	}
	ps, err := problem.Import(data)
	if err != nil {
		s.Error = importMessage(err)
		return err
	}
	s.Reset()
	s.Page = page
	s.Problems = ps
	s.Answers = problem.NewAnswerSet(len(ps))
	return nil
}

func importMessage(err error) string {
	msg := err.Error()
	if strings.HasPrefix(msg, "JSON 파일 처리 오류") {
		return msg
	}
	return "JSON 파일 처리 오류: " + msg
}

// ExportJSON returns the problem set as pretty-printed JSON.
func (s *State) ExportJSON() ([]byte, error) {
	if len(s.Problems) == 0 {
		return nil, ErrNoProblems
	}
	return problem.Export(s.Problems)
}

// BaseFilename is the file name stem for exports: "AI_Math" without
// generation parameters, otherwise named after the current page.
func (s *State) BaseFilename() string {
	if s.Params == nil {
		return problem.DefaultBaseName
	}
	if s.Page == PageLevelTest {
		return problem.Sanitize("진단테스트")
	}
	return problem.Sanitize("맞춤문제")
}

// Results grades the current answers.
func (s *State) Results() []problem.Result {
	return problem.Grade(s.Problems, s.Answers)
}
