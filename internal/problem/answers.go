package problem

import (
	"errors"
	"fmt"
)

// Unanswered marks a problem the student has not answered yet.
const Unanswered = -1

var (
	// ErrFrozen is returned when an answer is changed after submission.
	ErrFrozen = errors.New("answers are frozen after submission")

	// ErrIncomplete is returned when submitting with unanswered problems.
	ErrIncomplete = errors.New("every problem must be answered before submission")
)

// AnswerSet holds one selected option index per problem, in problem order.
type AnswerSet struct {
	selected []int
	frozen   bool
}

// NewAnswerSet returns an all-unanswered set for n problems.
func NewAnswerSet(n int) AnswerSet {
	sel := make([]int, n)
	for i := range sel {
		sel[i] = Unanswered
	}
	return AnswerSet{selected: sel}
}

// Len returns the number of slots.
func (a AnswerSet) Len() int { return len(a.selected) }

// At returns the selected option for problem i, or Unanswered.
func (a AnswerSet) At(i int) int {
	if i < 0 || i >= len(a.selected) {
		return Unanswered
	}
	return a.selected[i]
}

// Frozen reports whether the set has been submitted.
func (a AnswerSet) Frozen() bool { return a.frozen }

// Select records option for problem i.
func (a *AnswerSet) Select(i, option int) error {
	if a.frozen {
		return ErrFrozen
	}
	if i < 0 || i >= len(a.selected) {
		return fmt.Errorf("problem index %d out of range", i)
	}
	if option < 0 || option >= OptionCount {
		return fmt.Errorf("option %d out of range", option)
	}
	a.selected[i] = option
	return nil
}

// Complete reports whether every slot holds an answer.
func (a AnswerSet) Complete() bool {
	for _, s := range a.selected {
		if s == Unanswered {
			return false
		}
	}
	return len(a.selected) > 0
}

// Freeze marks the set as submitted. It fails unless every slot is answered.
func (a *AnswerSet) Freeze() error {
	if !a.Complete() {
		return ErrIncomplete
	}
	a.frozen = true
	return nil
}

// Values returns a copy of the raw selections.
func (a AnswerSet) Values() []int {
	return append([]int(nil), a.selected...)
}

// AnswerSetFrom builds a set from raw selections. Out-of-range entries are
// treated as unanswered.
func AnswerSetFrom(values []int) AnswerSet {
	a := NewAnswerSet(len(values))
	for i, v := range values {
		if v >= 0 && v < OptionCount {
			a.selected[i] = v
		}
	}
	return a
}

// Result is the graded outcome of one problem.
type Result struct {
	Index     int
	Selected  int
	Correct   int
	IsCorrect bool
}

// Label returns "정답" for a correct answer and "오답" otherwise.
func (r Result) Label() string {
	if r.IsCorrect {
		return "정답"
	}
	return "오답"
}

// SelectedLabel returns the circled option the student picked, or
// "선택 안함" when the problem was left blank.
func (r Result) SelectedLabel() string {
	if r.Selected == Unanswered {
		return "선택 안함"
	}
	return OptionLabel(r.Selected)
}

// Grade compares each answer with the problem's correct index by strict
// equality. Unanswered problems are never correct.
func Grade(problems []Problem, answers AnswerSet) []Result {
	out := make([]Result, len(problems))
	for i, p := range problems {
		sel := answers.At(i)
		out[i] = Result{
			Index:     i,
			Selected:  sel,
			Correct:   p.CorrectAnswerIndex,
			IsCorrect: sel != Unanswered && sel == p.CorrectAnswerIndex,
		}
	}
	return out
}

// Score sums correct counts and earned points over graded results.
func Score(problems []Problem, results []Result) (correct, earned, total int) {
	for i, r := range results {
		if i >= len(problems) {
			break
		}
		total += problems[i].Points
		if r.IsCorrect {
			correct++
			earned += problems[i].Points
		}
	}
	return correct, earned, total
}
