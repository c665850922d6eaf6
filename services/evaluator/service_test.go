package evaluator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quickstudy/models"
	"quickstudy/services/textgen"
)

type fakeGrader struct {
	result *textgen.GradingResult
	err    error
	calls  int
}

func (f *fakeGrader) GradeShortAnswer(ctx context.Context, question, idealAnswer, userAnswer, slideContext string) (*textgen.GradingResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestEvaluateMultipleChoice(t *testing.T) {
	quiz := &models.Quiz{
		Question:      "Which algorithm minimizes a loss by following its gradient?",
		Type:          models.QuizTypeMultipleChoice,
		Options:       []string{"Gradient descent", "Binary search", "Quicksort"},
		CorrectAnswer: models.SingleAnswer("Gradient descent"),
		IdealAnswer:   "Gradient descent follows the negative gradient of the loss.",
	}

	svc := NewService(nil, DefaultConfig())

	t.Run("correct answer scores 10", func(t *testing.T) {
		result := svc.Evaluate(context.Background(), models.SingleAnswer("Gradient descent"), quiz, "")

		if !result.IsCorrect || result.Score != 10 {
			t.Errorf("Expected correct with score 10, got correct=%v score=%d", result.IsCorrect, result.Score)
		}
		if result.Feedback != quiz.IdealAnswer {
			t.Errorf("Expected feedback from ideal answer, got %q", result.Feedback)
		}
	})

	t.Run("wrong answer scores 0", func(t *testing.T) {
		result := svc.Evaluate(context.Background(), models.SingleAnswer("Quicksort"), quiz, "")

		if result.IsCorrect || result.Score != 0 {
			t.Errorf("Expected incorrect with score 0, got correct=%v score=%d", result.IsCorrect, result.Score)
		}
		if result.CorrectAnswer.Value() != "Gradient descent" {
			t.Errorf("Expected correct answer in result, got %q", result.CorrectAnswer.Value())
		}
	})
}

func TestEvaluateMultiSelect(t *testing.T) {
	quiz := &models.Quiz{
		Question:      "Select all supervised methods.",
		Type:          models.QuizTypeMultiSelect,
		Options:       []string{"regression", "clustering", "classification"},
		CorrectAnswer: models.MultiAnswer([]string{"regression", "classification"}),
	}

	svc := NewService(nil, DefaultConfig())

	tests := []struct {
		name        string
		answer      models.Answer
		wantCorrect bool
	}{
		{"exact match", models.MultiAnswer([]string{"regression", "classification"}), true},
		{"order independent", models.MultiAnswer([]string{"classification", "regression"}), true},
		{"duplicates collapse", models.MultiAnswer([]string{"regression", "regression", "classification"}), true},
		{"missing selection", models.MultiAnswer([]string{"regression"}), false},
		{"extra selection", models.MultiAnswer([]string{"regression", "classification", "clustering"}), false},
		{"empty selection", models.MultiAnswer(nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.Evaluate(context.Background(), tt.answer, quiz, "")
			if result.IsCorrect != tt.wantCorrect {
				t.Errorf("Expected correct=%v, got %v (feedback: %s)", tt.wantCorrect, result.IsCorrect, result.Feedback)
			}
		})
	}
}

func TestEvaluateMultiSelectScalarCoercion(t *testing.T) {
	// A single-valued correct answer still compares as a set when the quiz is
	// marked multi-select.
	quiz := &models.Quiz{
		Question:      "Select the supervised method.",
		Type:          models.QuizTypeMultiSelect,
		CorrectAnswer: models.SingleAnswer("regression"),
	}

	svc := NewService(nil, DefaultConfig())

	result := svc.Evaluate(context.Background(), models.MultiAnswer([]string{"regression"}), quiz, "")
	if !result.IsCorrect {
		t.Errorf("Expected scalar correct answer to match single selection, got %+v", result)
	}
}

func TestEvaluateShortAnswerEmpty(t *testing.T) {
	grader := &fakeGrader{}
	quiz := &models.Quiz{
		Question:    "Explain overfitting.",
		Type:        models.QuizTypeShortAnswer,
		IdealAnswer: "Overfitting is memorizing training noise instead of generalizing.",
	}

	svc := NewService(grader, DefaultConfig())

	result := svc.Evaluate(context.Background(), models.SingleAnswer("   "), quiz, "")

	if result.Score != 0 || result.IsCorrect {
		t.Errorf("Expected zero score for empty answer, got %+v", result)
	}
	if grader.calls != 0 {
		t.Errorf("Expected no grading call for empty answer, got %d", grader.calls)
	}
	if !strings.Contains(result.Feedback, "provide an answer") {
		t.Errorf("Unexpected feedback %q", result.Feedback)
	}
}

func TestEvaluateShortAnswerAIGraded(t *testing.T) {
	grader := &fakeGrader{
		result: &textgen.GradingResult{
			Score:      8,
			Feedback:   "Good explanation.",
			KeyMissing: []string{"regularization"},
			Strengths:  []string{"clear definition"},
		},
	}
	quiz := &models.Quiz{
		Question:    "Explain overfitting.",
		Type:        models.QuizTypeShortAnswer,
		IdealAnswer: "Overfitting is memorizing training noise instead of generalizing.",
	}

	svc := NewService(grader, DefaultConfig())

	result := svc.Evaluate(context.Background(), models.SingleAnswer("The model memorizes noise."), quiz, "slide context")

	if !result.IsCorrect || result.Score != 8 {
		t.Errorf("Expected correct with score 8, got correct=%v score=%d", result.IsCorrect, result.Score)
	}
	if len(result.KeyMissing) != 1 || len(result.Strengths) != 1 {
		t.Errorf("Expected grading detail to carry through, got %+v", result)
	}
}

func TestEvaluateShortAnswerBelowThreshold(t *testing.T) {
	grader := &fakeGrader{result: &textgen.GradingResult{Score: 6, Feedback: "Partial."}}
	quiz := &models.Quiz{
		Question:    "Explain overfitting.",
		Type:        models.QuizTypeShortAnswer,
		IdealAnswer: "Overfitting.",
	}

	svc := NewService(grader, DefaultConfig())

	result := svc.Evaluate(context.Background(), models.SingleAnswer("something"), quiz, "")
	if result.IsCorrect {
		t.Errorf("Expected score 6 to be below the correctness threshold, got %+v", result)
	}
}

func TestEvaluateShortAnswerKeywordFallback(t *testing.T) {
	grader := &fakeGrader{err: errors.New("model unavailable")}
	quiz := &models.Quiz{
		Question:    "Name the concepts.",
		Type:        models.QuizTypeShortAnswer,
		IdealAnswer: "alpha beta gamma",
	}

	svc := NewService(grader, DefaultConfig())

	result := svc.Evaluate(context.Background(), models.SingleAnswer("alpha beta"), quiz, "")

	if result.Score != 4 {
		t.Errorf("Expected 2 keyword matches to score 4, got %d", result.Score)
	}
	if result.IsCorrect {
		t.Error("Expected score 4 to be below the correctness threshold")
	}
	if !strings.Contains(result.Feedback, "2 of the expected key terms") {
		t.Errorf("Unexpected fallback feedback %q", result.Feedback)
	}
}

func TestKeywordFallbackCapsAndLimits(t *testing.T) {
	svc := NewService(nil, DefaultConfig())

	t.Run("score is capped at 10", func(t *testing.T) {
		quiz := &models.Quiz{
			Question:    "Q",
			Type:        models.QuizTypeShortAnswer,
			IdealAnswer: "a b c d e f g",
		}
		result := svc.Evaluate(context.Background(), models.SingleAnswer("a b c d e f g"), quiz, "")
		if result.Score != 10 || !result.IsCorrect {
			t.Errorf("Expected capped score 10 and correct, got %+v", result)
		}
	})

	t.Run("only leading ideal words count", func(t *testing.T) {
		quiz := &models.Quiz{
			Question:    "Q",
			Type:        models.QuizTypeShortAnswer,
			IdealAnswer: "w1 w2 w3 w4 w5 w6 w7 w8 w9 w10 w11",
		}
		result := svc.Evaluate(context.Background(), models.SingleAnswer("w11"), quiz, "")
		if result.Score != 0 {
			t.Errorf("Expected word beyond the keyword limit to score 0, got %d", result.Score)
		}
	})

	t.Run("repeated matches count once", func(t *testing.T) {
		quiz := &models.Quiz{
			Question:    "Q",
			Type:        models.QuizTypeShortAnswer,
			IdealAnswer: "alpha alpha beta",
		}
		result := svc.Evaluate(context.Background(), models.SingleAnswer("alpha"), quiz, "")
		if result.Score != 2 {
			t.Errorf("Expected duplicate keyword to count once, got score %d", result.Score)
		}
	})
}

func TestEvaluateEdgeCases(t *testing.T) {
	svc := NewService(nil, DefaultConfig())

	t.Run("nil quiz", func(t *testing.T) {
		result := svc.Evaluate(context.Background(), models.SingleAnswer("x"), nil, "")
		if result.Score != 0 || result.IsCorrect {
			t.Errorf("Expected zero result for nil quiz, got %+v", result)
		}
	})

	t.Run("empty question", func(t *testing.T) {
		result := svc.Evaluate(context.Background(), models.SingleAnswer("x"), &models.Quiz{Type: models.QuizTypeMultipleChoice}, "")
		if !strings.Contains(result.Feedback, "no quiz") {
			t.Errorf("Expected no-quiz feedback, got %q", result.Feedback)
		}
	})

	t.Run("unknown quiz type", func(t *testing.T) {
		quiz := &models.Quiz{Question: "Q", Type: "essay"}
		result := svc.Evaluate(context.Background(), models.SingleAnswer("x"), quiz, "")
		if result.Score != 0 || result.IsCorrect {
			t.Errorf("Expected zero result for unknown type, got %+v", result)
		}
		if !strings.Contains(result.Feedback, "unknown quiz type") {
			t.Errorf("Unexpected feedback %q", result.Feedback)
		}
	})
}
