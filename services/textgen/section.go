package textgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"quickstudy/models"
)

const sectionValidationSchema = `{
	"type": "object",
	"properties": {
		"slides": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"properties": {
					"title": {"type": "string"},
					"content": {"type": "string"},
					"image_prompt": {"type": "string"},
					"key_points": {"type": "array", "items": {"type": "string"}}
				},
				"required": ["content"]
			}
		},
		"quizzes": {"type": "array"},
		"youtube_queries": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["slides"]
}`

// SlidePayload is one slide as returned by content generation, before the
// assembler attaches identity and placement.
type SlidePayload struct {
	Title       string   `json:"title" jsonschema:"description=Short slide title"`
	Content     string   `json:"content" jsonschema:"required,description=Slide body in markdown"`
	ImagePrompt string   `json:"image_prompt" jsonschema:"description=Description of an illustrative image or empty"`
	KeyPoints   []string `json:"key_points" jsonschema:"description=3-5 key takeaways"`
}

// SectionPayload is the full generation result for one TOC entry.
// YouTubeQueries are advisory for downstream media lookup and are carried
// through without further processing here.
type SectionPayload struct {
	Slides         []SlidePayload `json:"slides"`
	Quizzes        []models.Quiz  `json:"quizzes"`
	YouTubeQueries []string       `json:"youtube_queries"`
}

// GenerateSectionContent asks the model for the slides and quizzes of one
// section. Transport failure propagates to the caller; malformed output
// degrades to a deterministic one-slide, one-quiz payload keyed by the
// section title, so the assembler never sees an empty section.
func (s *Service) GenerateSectionContent(ctx context.Context, section models.TOCEntry, sectionText, userPrompt string) (*SectionPayload, error) {
	prompt := fmt.Sprintf(SECTION_PROMPT, section.Title, describePreference(userPrompt), sectionText, slidePromptSchema)

	log.Printf("[INFO] Requesting content for section %q", section.Title)
	raw, err := s.request(ctx, prompt, SECTION_SYSTEM_PROMPT, s.cfg.SectionTemperature)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content for section %q: %w", section.Title, err)
	}

	return parseSectionPayload(raw, section.Title), nil
}

func parseSectionPayload(raw, sectionTitle string) *SectionPayload {
	doc := extractJSONSpan(raw, '{', '}')

	if err := validateJSON(sectionValidationSchema, doc); err != nil {
		log.Printf("[ERROR] Section output for %q unusable, using fallback content: %v", sectionTitle, err)
		return FallbackSectionPayload(sectionTitle)
	}

	var payload SectionPayload
	if err := json.Unmarshal([]byte(doc), &payload); err != nil {
		log.Printf("[ERROR] Failed to decode section output for %q, using fallback content: %v", sectionTitle, err)
		return FallbackSectionPayload(sectionTitle)
	}

	if len(payload.Slides) == 0 {
		return FallbackSectionPayload(sectionTitle)
	}

	for i := range payload.Slides {
		payload.Slides[i].KeyPoints = emptyIfNil(payload.Slides[i].KeyPoints)
	}
	payload.YouTubeQueries = emptyIfNil(payload.YouTubeQueries)

	return &payload
}

// FallbackSectionPayload is the deterministic stand-in used whenever section
// generation returns something unusable. It is parameterized only by the
// section title.
func FallbackSectionPayload(sectionTitle string) *SectionPayload {
	return &SectionPayload{
		Slides: []SlidePayload{
			{
				Title:     sectionTitle,
				Content:   fmt.Sprintf("This section covers **%s**. The source material for this section could not be summarized automatically; review the original document for details.", sectionTitle),
				KeyPoints: []string{fmt.Sprintf("Review the material on %s", sectionTitle)},
			},
		},
		Quizzes: []models.Quiz{
			{
				Question:      fmt.Sprintf("Summarize the key ideas of %s in your own words.", sectionTitle),
				Type:          models.QuizTypeShortAnswer,
				CorrectAnswer: models.SingleAnswer(""),
				IdealAnswer:   fmt.Sprintf("A short summary of the main points covered in %s.", sectionTitle),
				Difficulty:    models.DifficultyMedium,
			},
		},
		YouTubeQueries: []string{},
	}
}
