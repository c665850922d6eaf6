// Package evaluator grades submitted quiz answers. Evaluation is stateless
// and total: every input yields a result, never an error.
package evaluator

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"quickstudy/models"
	"quickstudy/services/textgen"
)

// Grader is the slice of the structured content requester used for
// AI-assisted short-answer grading.
type Grader interface {
	GradeShortAnswer(ctx context.Context, question, idealAnswer, userAnswer, slideContext string) (*textgen.GradingResult, error)
}

// Heuristic grading constants. They have no principled derivation; they are
// kept configurable rather than buried as magic numbers.
type Config struct {
	// CorrectThreshold is the minimum score for a short answer to count as
	// correct.
	CorrectThreshold int
	// KeywordLimit caps how many leading ideal-answer words the fallback
	// keyword match considers.
	KeywordLimit int
	// PointsPerKeyword is the fallback score contribution per matched
	// keyword.
	PointsPerKeyword int
	// ContextLimit bounds how much slide context is sent along for AI
	// grading.
	ContextLimit int
}

func DefaultConfig() Config {
	return Config{
		CorrectThreshold: 7,
		KeywordLimit:     10,
		PointsPerKeyword: 2,
		ContextLimit:     500,
	}
}

type Service struct {
	grader Grader
	cfg    Config
}

// NewService builds an evaluator. grader may be nil, in which case short
// answers are scored by the keyword heuristic only.
func NewService(grader Grader, cfg Config) *Service {
	if cfg.CorrectThreshold <= 0 {
		cfg = DefaultConfig()
	}
	return &Service{grader: grader, cfg: cfg}
}

// Evaluate grades one answer against one quiz. The algorithm is selected by
// quiz type; unknown types and corrupt quiz data produce a zero-score result
// rather than an error.
func (s *Service) Evaluate(ctx context.Context, userAnswer models.Answer, quiz *models.Quiz, slideContext string) models.EvaluationResult {
	if quiz == nil || strings.TrimSpace(quiz.Question) == "" {
		return models.EvaluationResult{
			Feedback: "This slide has no quiz to evaluate.",
		}
	}

	switch quiz.Type {
	case models.QuizTypeMultipleChoice:
		return s.evaluateMultipleChoice(userAnswer, quiz)
	case models.QuizTypeMultiSelect:
		return s.evaluateMultiSelect(userAnswer, quiz)
	case models.QuizTypeShortAnswer:
		return s.evaluateShortAnswer(ctx, userAnswer, quiz, slideContext)
	default:
		log.Printf("[ERROR] Unknown quiz type %q, returning zero-score result", quiz.Type)
		return models.EvaluationResult{
			Feedback:      fmt.Sprintf("Cannot evaluate answer: unknown quiz type %q.", quiz.Type),
			CorrectAnswer: quiz.CorrectAnswer,
		}
	}
}

func (s *Service) evaluateMultipleChoice(userAnswer models.Answer, quiz *models.Quiz) models.EvaluationResult {
	correct := userAnswer.Value() == quiz.CorrectAnswer.Value()

	result := models.EvaluationResult{
		IsCorrect:     correct,
		CorrectAnswer: quiz.CorrectAnswer,
		Feedback:      quiz.IdealAnswer,
	}
	if correct {
		result.Score = 10
	}
	return result
}

func (s *Service) evaluateMultiSelect(userAnswer models.Answer, quiz *models.Quiz) models.EvaluationResult {
	selected := userAnswer.Set()
	expected := quiz.CorrectAnswer.Set()

	correct := sameSet(selected, expected)

	result := models.EvaluationResult{
		IsCorrect:     correct,
		CorrectAnswer: quiz.CorrectAnswer,
	}
	if correct {
		result.Score = 10
		result.Feedback = fmt.Sprintf("Correct. You selected: %s.", joinSorted(selected))
	} else {
		result.Feedback = fmt.Sprintf("You selected: %s. Correct selection: %s.",
			joinSorted(selected), joinSorted(expected))
	}
	return result
}

func (s *Service) evaluateShortAnswer(ctx context.Context, userAnswer models.Answer, quiz *models.Quiz, slideContext string) models.EvaluationResult {
	answerText := strings.TrimSpace(userAnswer.Value())

	if answerText == "" {
		return models.EvaluationResult{
			Feedback:      "Please provide an answer before checking.",
			CorrectAnswer: quiz.CorrectAnswer,
		}
	}

	if len(slideContext) > s.cfg.ContextLimit {
		slideContext = slideContext[:s.cfg.ContextLimit]
	}

	if s.grader != nil {
		graded, err := s.grader.GradeShortAnswer(ctx, quiz.Question, quiz.IdealAnswer, answerText, slideContext)
		if err == nil {
			return models.EvaluationResult{
				IsCorrect:     graded.Score >= s.cfg.CorrectThreshold,
				Score:         graded.Score,
				Feedback:      graded.Feedback,
				CorrectAnswer: quiz.CorrectAnswer,
				KeyMissing:    graded.KeyMissing,
				Strengths:     graded.Strengths,
			}
		}
		log.Printf("[ERROR] AI grading unavailable, using keyword fallback: %v", err)
	}

	return s.keywordFallback(answerText, quiz)
}

// keywordFallback scores a short answer by overlap between the user's words
// and the leading words of the ideal answer. It always produces a result.
func (s *Service) keywordFallback(answerText string, quiz *models.Quiz) models.EvaluationResult {
	keywords := strings.Fields(strings.ToLower(quiz.IdealAnswer))
	if len(keywords) > s.cfg.KeywordLimit {
		keywords = keywords[:s.cfg.KeywordLimit]
	}

	answerWords := map[string]bool{}
	for _, word := range strings.Fields(strings.ToLower(answerText)) {
		answerWords[word] = true
	}

	seen := map[string]bool{}
	overlap := 0
	for _, keyword := range keywords {
		if answerWords[keyword] && !seen[keyword] {
			seen[keyword] = true
			overlap++
		}
	}

	score := overlap * s.cfg.PointsPerKeyword
	if score > 10 {
		score = 10
	}

	return models.EvaluationResult{
		IsCorrect:     score >= s.cfg.CorrectThreshold,
		Score:         score,
		Feedback:      fmt.Sprintf("Your answer mentions %d of the expected key terms. Reference answer: %s", overlap, quiz.IdealAnswer),
		CorrectAnswer: quiz.CorrectAnswer,
	}
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	members := map[string]bool{}
	for _, v := range a {
		members[v] = true
	}
	for _, v := range b {
		if !members[v] {
			return false
		}
	}
	return true
}

func joinSorted(values []string) string {
	if len(values) == 0 {
		return "(nothing)"
	}
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}
