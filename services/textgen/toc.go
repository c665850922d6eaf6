package textgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"quickstudy/models"
)

// defaultSlideEstimate replaces a missing or nonsensical slide estimate from
// the model.
const defaultSlideEstimate = 3

// tocValidationSchema is the minimum shape a usable table of contents must
// have. Anything weaker degrades to the fallback TOC.
const tocValidationSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"properties": {
			"title": {"type": "string", "minLength": 1},
			"pages": {"type": "string"},
			"subtopics": {"type": "array", "items": {"type": "string"}},
			"key_concepts": {"type": "array", "items": {"type": "string"}},
			"estimated_slide_count": {"type": "integer"}
		},
		"required": ["title"]
	}
}`

// tocEntryPayload is the TOC shape requested from the model. start_slide is
// deliberately absent: it is always derived, never supplied by generation.
type tocEntryPayload struct {
	Title               string   `json:"title" jsonschema:"required,description=Section title as it appears in the document"`
	Pages               string   `json:"pages" jsonschema:"description=Page range covered by the section e.g. 1-5"`
	Subtopics           []string `json:"subtopics" jsonschema:"description=Ordered list of subtopics"`
	KeyConcepts         []string `json:"key_concepts" jsonschema:"description=Key concepts the section teaches"`
	EstimatedSlideCount int      `json:"estimated_slide_count" jsonschema:"required,description=How many study slides the section needs"`
}

// GenerateTOC asks the model for a table of contents over the head of the
// document. Long documents are truncated, not chunked. Transport failure
// propagates; malformed output degrades to a single-entry fallback so the
// pipeline always has some structure to work with.
func (s *Service) GenerateTOC(ctx context.Context, docText, userPrompt string) ([]models.TOCEntry, error) {
	contextText := docText
	if len(contextText) > s.cfg.TOCContextChars {
		contextText = contextText[:s.cfg.TOCContextChars]
	}

	prompt := fmt.Sprintf(TOC_PROMPT, describePreference(userPrompt), tocEntryPromptSchema, contextText)

	log.Printf("[INFO] Requesting table of contents (%d context chars)", len(contextText))
	raw, err := s.request(ctx, prompt, TOC_SYSTEM_PROMPT, s.cfg.TOCTemperature)
	if err != nil {
		return nil, fmt.Errorf("failed to generate table of contents: %w", err)
	}

	entries := parseTOC(raw)
	ComputeStartSlides(entries)

	log.Printf("[INFO] Generated table of contents with %d sections", len(entries))
	return entries, nil
}

func parseTOC(raw string) []models.TOCEntry {
	doc := extractJSONSpan(raw, '[', ']')

	if err := validateJSON(tocValidationSchema, doc); err != nil {
		log.Printf("[ERROR] TOC output unusable, falling back to a single section: %v", err)
		return fallbackTOC()
	}

	var payloads []tocEntryPayload
	if err := json.Unmarshal([]byte(doc), &payloads); err != nil {
		log.Printf("[ERROR] Failed to decode TOC output, falling back to a single section: %v", err)
		return fallbackTOC()
	}

	entries := make([]models.TOCEntry, 0, len(payloads))
	for _, p := range payloads {
		estimate := p.EstimatedSlideCount
		if estimate < 1 {
			estimate = defaultSlideEstimate
		}

		entries = append(entries, models.TOCEntry{
			Title:               p.Title,
			Pages:               p.Pages,
			Subtopics:           emptyIfNil(p.Subtopics),
			KeyConcepts:         emptyIfNil(p.KeyConcepts),
			EstimatedSlideCount: estimate,
		})
	}

	return entries
}

func fallbackTOC() []models.TOCEntry {
	return []models.TOCEntry{
		{
			Title:               "Introduction",
			Pages:               "1",
			Subtopics:           []string{},
			KeyConcepts:         []string{},
			EstimatedSlideCount: defaultSlideEstimate,
		},
	}
}

// ComputeStartSlides derives start_slide for every entry: the sum of the
// estimated slide counts of all entries before it.
func ComputeStartSlides(entries []models.TOCEntry) {
	total := 0
	for i := range entries {
		entries[i].StartSlide = total
		total += entries[i].EstimatedSlideCount
	}
}

func describePreference(userPrompt string) string {
	if userPrompt == "" {
		return "Standard study session"
	}
	return userPrompt
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
