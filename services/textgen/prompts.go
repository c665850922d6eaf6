package textgen

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

const (
	TOC_SYSTEM_PROMPT = `You are a study-course planner. You analyze documents and produce structured study plans. You always answer with valid JSON and nothing else.`

	TOC_PROMPT = `Analyze this document and create a hierarchical table of contents for a study course.

Study preference from the user: %s

Return ONLY a valid JSON array. Every element must match this schema:
%s

Order the sections as they appear in the document. Keep estimated_slide_count realistic (2-6 slides per section).

Document:
%s`

	SECTION_SYSTEM_PROMPT = `You are an educational content author. You turn source material into concise study slides with quizzes. You always answer with valid JSON and nothing else.`

	SECTION_PROMPT = `Create educational content for the section: %s

Study preference from the user: %s

Section content:
%s

Return ONLY a valid JSON object with these fields:
- "slides": array of slide objects, each matching this schema:
%s
- "quizzes": array of 1-2 quiz objects with fields: "question", "type" (one of multiple_choice, multi_select, short_answer), "options" (array of strings, required for the choice types), "correct_answer" (string, or array of strings for multi_select), "ideal_answer" (explanation of the correct answer), "difficulty" (easy, medium, or hard).
- "youtube_queries": array of video search strings for this section.

Write slide content as markdown. Make image_prompt a short description of an illustrative image, or an empty string when no image would help.`

	GRADING_SYSTEM_PROMPT = `You are a strict but fair teaching assistant grading short free-text answers. You always answer with valid JSON and nothing else.`

	GRADING_PROMPT = `Evaluate the user's answer on a scale of 0-10.

Question: %s
Ideal Answer: %s
User Answer: %s
Slide Context: %s

Grade using this rubric:
- 40%% coverage of the key concepts
- 40%% accuracy of the information
- 20%% clarity and completeness

Return ONLY a JSON object: {"score": <0-10>, "feedback": "constructive feedback", "key_missing": ["concepts the answer missed"], "strengths": ["what the answer did well"]}`
)

// promptSchema reflects a payload struct into the JSON schema shown to the
// model, so the prompts and the Go types cannot drift apart.
func promptSchema(v any) string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(v)

	data, err := json.Marshal(schema)
	if err != nil {
		return "{}"
	}
	return string(data)
}

var (
	tocEntryPromptSchema = promptSchema(&tocEntryPayload{})
	slidePromptSchema    = promptSchema(&SlidePayload{})
)
