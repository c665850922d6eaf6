package models

import "time"

// EvaluationResult is the outcome of grading one submitted answer.
// KeyMissing and Strengths are only populated for AI-graded short answers.
type EvaluationResult struct {
	IsCorrect     bool     `json:"is_correct"`
	Score         int      `json:"score"`
	Feedback      string   `json:"feedback"`
	CorrectAnswer Answer   `json:"correct_answer"`
	KeyMissing    []string `json:"key_missing,omitempty"`
	Strengths     []string `json:"strengths,omitempty"`
}

// Progress is the per-user, per-course mutable study state. It is created
// with defaults on first access and only ever written wholesale.
type Progress struct {
	CurrentSlide int                      `json:"current_slide"`
	QuizAnswers  map[int]Answer           `json:"quiz_answers"`
	Bookmarks    []int                    `json:"bookmarks"`
	QuizScores   map[int]EvaluationResult `json:"quiz_scores"`
	LastAccessed time.Time                `json:"last_accessed"`
}

// NewProgress returns the default progress record for a (course, user) pair.
func NewProgress() *Progress {
	return &Progress{
		CurrentSlide: 0,
		QuizAnswers:  map[int]Answer{},
		Bookmarks:    []int{},
		QuizScores:   map[int]EvaluationResult{},
	}
}
