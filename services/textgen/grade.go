package textgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
)

const gradingValidationSchema = `{
	"type": "object",
	"properties": {
		"score": {"type": "number", "minimum": 0, "maximum": 10},
		"feedback": {"type": "string"},
		"key_missing": {"type": "array", "items": {"type": "string"}},
		"strengths": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["score", "feedback"]
}`

// GradingResult is the model's assessment of a free-text answer.
type GradingResult struct {
	Score      int      `json:"score"`
	Feedback   string   `json:"feedback"`
	KeyMissing []string `json:"key_missing"`
	Strengths  []string `json:"strengths"`
}

// GradeShortAnswer asks the model to grade a free-text answer against the
// ideal answer. Unlike the generation calls, a parse failure here surfaces as
// an error: the evaluator owns the deterministic fallback for grading.
func (s *Service) GradeShortAnswer(ctx context.Context, question, idealAnswer, userAnswer, slideContext string) (*GradingResult, error) {
	prompt := fmt.Sprintf(GRADING_PROMPT, question, idealAnswer, userAnswer, slideContext)

	raw, err := s.request(ctx, prompt, GRADING_SYSTEM_PROMPT, s.cfg.GradingTemperature)
	if err != nil {
		return nil, fmt.Errorf("failed to grade answer: %w", err)
	}

	doc := extractJSONSpan(raw, '{', '}')
	if err := validateJSON(gradingValidationSchema, doc); err != nil {
		return nil, err
	}

	// Some models hand back fractional scores even when asked for integers.
	var payload struct {
		Score      float64  `json:"score"`
		Feedback   string   `json:"feedback"`
		KeyMissing []string `json:"key_missing"`
		Strengths  []string `json:"strengths"`
	}
	if err := json.Unmarshal([]byte(doc), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode grading output: %w", err)
	}

	score := int(math.Round(payload.Score))
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}

	log.Printf("[INFO] AI graded short answer with score %d/10", score)
	return &GradingResult{
		Score:      score,
		Feedback:   payload.Feedback,
		KeyMissing: emptyIfNil(payload.KeyMissing),
		Strengths:  emptyIfNil(payload.Strengths),
	}, nil
}
