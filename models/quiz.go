package models

import (
	"encoding/json"
	"strings"

	"github.com/samber/lo"
)

const (
	QuizTypeMultipleChoice = "multiple_choice"
	QuizTypeMultiSelect    = "multi_select"
	QuizTypeShortAnswer    = "short_answer"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Quiz is a single assessment item attached to at most one slide.
// IdealAnswer doubles as user-facing feedback and as the grading reference
// for short answers.
type Quiz struct {
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer Answer   `json:"correct_answer"`
	IdealAnswer   string   `json:"ideal_answer"`
	Difficulty    string   `json:"difficulty"`
}

// Answer normalizes the two wire shapes an answer can arrive in: a plain
// string or a list of strings. Upstream content generation is not consistent
// about which one it emits for correct_answer, so the distinction is resolved
// once here instead of at every evaluation branch.
type Answer struct {
	values []string
	multi  bool
}

func SingleAnswer(value string) Answer {
	return Answer{values: []string{value}}
}

func MultiAnswer(values []string) Answer {
	return Answer{values: values, multi: true}
}

// Value returns the scalar form of the answer. For a multi-valued answer it
// returns the first element.
func (a Answer) Value() string {
	if len(a.values) == 0 {
		return ""
	}
	return a.values[0]
}

func (a Answer) Values() []string {
	return a.values
}

func (a Answer) IsMulti() bool {
	return a.multi
}

func (a Answer) IsEmpty() bool {
	for _, v := range a.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Set returns the answer as a deduplicated set of trimmed values, the shape
// multi-select comparison operates on.
func (a Answer) Set() []string {
	trimmed := lo.Map(a.values, func(v string, _ int) string {
		return strings.TrimSpace(v)
	})
	trimmed = lo.Filter(trimmed, func(v string, _ int) bool {
		return v != ""
	})
	return lo.Uniq(trimmed)
}

func (a Answer) String() string {
	if a.multi {
		return strings.Join(a.values, ", ")
	}
	return a.Value()
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.multi {
		values := a.values
		if values == nil {
			values = []string{}
		}
		return json.Marshal(values)
	}
	return json.Marshal(a.Value())
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = SingleAnswer(single)
		return nil
	}

	var multiple []string
	if err := json.Unmarshal(data, &multiple); err == nil {
		*a = MultiAnswer(multiple)
		return nil
	}

	// Tolerate null and other scalar shapes rather than failing the whole
	// document parse.
	*a = Answer{}
	return nil
}
