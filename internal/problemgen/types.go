package problemgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathsheet/internal/curriculum"
	"github.com/abhisek/mathsheet/internal/problem"
)

// Mode tells which kind of problem set a Params value requests.
type Mode string

const (
	ModeCustom    Mode = "custom"
	ModeLevelTest Mode = "leveltest"
)

// Problem count limits per mode, as offered by the generation forms.
const (
	MinCustomCount     = 1
	MaxCustomCount     = 10
	DefaultCustomCount = 5

	MinLevelTestCount     = 5
	MaxLevelTestCount     = 20
	DefaultLevelTestCount = 10
)

// CustomParams requests a practice set on chosen topics of one subject.
type CustomParams struct {
	Level              curriculum.Level
	Subject            string
	Topics             []string
	Count              int
	StudentDescription string
}

// LevelTestParams requests a diagnostic test across one or more subjects.
type LevelTestParams struct {
	Level              curriculum.Level
	Subjects           []string
	Count              int
	StudentDescription string
}

// Params is a generation request: exactly one of a custom set or a level
// test. Build it with Custom or LevelTest.
type Params struct {
	mode      Mode
	custom    CustomParams
	levelTest LevelTestParams
}

// Custom wraps p as a custom problem-set request. A zero count takes the
// default; other counts are clamped to the allowed range.
func Custom(p CustomParams) Params {
	p.Count = clampCount(p.Count, MinCustomCount, MaxCustomCount, DefaultCustomCount)
	p.Topics = append([]string(nil), p.Topics...)
	return Params{mode: ModeCustom, custom: p}
}

// LevelTest wraps p as a level-test request. A zero count takes the
// default; other counts are clamped to the allowed range.
func LevelTest(p LevelTestParams) Params {
	p.Count = clampCount(p.Count, MinLevelTestCount, MaxLevelTestCount, DefaultLevelTestCount)
	p.Subjects = append([]string(nil), p.Subjects...)
	return Params{mode: ModeLevelTest, levelTest: p}
}

func clampCount(n, lo, hi, def int) int {
	switch {
	case n == 0:
		return def
	case n < lo:
		return lo
	case n > hi:
		return hi
	}
	return n
}

// Mode returns the request kind. The zero Params has an empty mode.
func (p Params) Mode() Mode { return p.mode }

// Custom returns the custom-set parameters when p is a custom request.
func (p Params) Custom() (CustomParams, bool) {
	return p.custom, p.mode == ModeCustom
}

// LevelTest returns the level-test parameters when p is a level test.
func (p Params) LevelTest() (LevelTestParams, bool) {
	return p.levelTest, p.mode == ModeLevelTest
}

// Count is the number of problems requested.
func (p Params) Count() int {
	switch p.mode {
	case ModeCustom:
		return p.custom.Count
	case ModeLevelTest:
		return p.levelTest.Count
	}
	return 0
}

// StudentDescription is the free-text learner background.
func (p Params) StudentDescription() string {
	switch p.mode {
	case ModeCustom:
		return p.custom.StudentDescription
	case ModeLevelTest:
		return p.levelTest.StudentDescription
	}
	return ""
}

// BaseName is the file-name stem for documents made from this request.
func (p Params) BaseName() string {
	switch p.mode {
	case ModeCustom:
		return problem.Sanitize("맞춤문제")
	case ModeLevelTest:
		return problem.Sanitize("진단테스트")
	}
	return problem.DefaultBaseName
}

// Summary is a one-line description for history listings.
func (p Params) Summary() string {
	switch p.mode {
	case ModeCustom:
		c := p.custom
		s := fmt.Sprintf("%s %s", c.Level.Label(), c.Subject)
		if len(c.Topics) > 0 {
			s += " / " + strings.Join(c.Topics, ", ")
		}
		return fmt.Sprintf("%s (%d문항)", s, c.Count)
	case ModeLevelTest:
		l := p.levelTest
		return fmt.Sprintf("%s %s 진단 (%d문항)", l.Level.Label(), strings.Join(l.Subjects, ", "), l.Count)
	}
	return ""
}

// Validate checks the request against the curriculum catalogue.
func (p Params) Validate() error {
	switch p.mode {
	case ModeCustom:
		c := p.custom
		if !curriculum.HasSubject(c.Level, c.Subject) {
			return fmt.Errorf("%s 과정에 %q 과목이 없습니다", c.Level.Label(), c.Subject)
		}
		for _, t := range c.Topics {
			if !curriculum.HasTopic(c.Level, c.Subject, t) {
				return fmt.Errorf("%q 과목에 %q 단원이 없습니다", c.Subject, t)
			}
		}
	case ModeLevelTest:
		l := p.levelTest
		if len(l.Subjects) == 0 {
			return fmt.Errorf("과목을 하나 이상 선택해야 합니다")
		}
		for _, s := range l.Subjects {
			if !curriculum.HasSubject(l.Level, s) {
				return fmt.Errorf("%s 과정에 %q 과목이 없습니다", l.Level.Label(), s)
			}
		}
	default:
		return fmt.Errorf("generation parameters are empty")
	}
	return nil
}

// Set is a generated problem set.
type Set struct {
	Problems []problem.Problem
	// Warnings lists non-fatal repairs, such as dropped figures.
	Warnings []string
}
