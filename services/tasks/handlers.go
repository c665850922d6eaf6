package tasks

import (
	"context"
	"fmt"

	"quickstudy/services/llm"
)

const (
	contentHandlerPrompt = `Create descriptive educational content from the following text.
Focus on explanations, not keywords. Make it suitable for learning slides.

Text: %s

Provide:
1. A descriptive title
2. Key concepts with detailed explanations
3. Real-world applications
4. A short summary`

	quizHandlerPrompt = `Create an educational quiz with multiple choice questions based on this content:

%s

Generate 5 questions with:
- Clear question text
- 4 options (A, B, C, D)
- The correct answer
- An explanation

Format the quiz as JSON.`

	queryHandlerPrompt = `You are an educational tutor. Answer the student's question based on the provided context.

Context: %s

Student Question: %s

Provide a clear, educational response:`

	imageSelectPrompt = `Given the following slide content, write one short image search query (5-8 words) describing the single most helpful illustrative image. Answer with the query only.

Slide content:
%s`

	handlerTemperature = 0.7
	handlerInputLimit  = 3000
)

// ContentHandler expands raw text into slide-ready educational prose.
type ContentHandler struct {
	completer llm.Completer
}

func NewContentHandler(completer llm.Completer) ContentHandler {
	return ContentHandler{completer: completer}
}

func (h ContentHandler) Type() Type { return TypeGenerateContent }

func (h ContentHandler) Run(ctx context.Context, input map[string]string) (string, error) {
	text, err := requireInput(input, "text")
	if err != nil {
		return "", err
	}
	return h.completer.Complete(ctx, fmt.Sprintf(contentHandlerPrompt, clip(text)), "", handlerTemperature)
}

// QuizHandler drafts standalone quiz questions from content.
type QuizHandler struct {
	completer llm.Completer
}

func NewQuizHandler(completer llm.Completer) QuizHandler {
	return QuizHandler{completer: completer}
}

func (h QuizHandler) Type() Type { return TypeCreateQuiz }

func (h QuizHandler) Run(ctx context.Context, input map[string]string) (string, error) {
	content, err := requireInput(input, "content")
	if err != nil {
		return "", err
	}
	return h.completer.Complete(ctx, fmt.Sprintf(quizHandlerPrompt, clip(content)), "", handlerTemperature)
}

// QueryHandler answers one-off questions against supplied context.
type QueryHandler struct {
	completer llm.Completer
}

func NewQueryHandler(completer llm.Completer) QueryHandler {
	return QueryHandler{completer: completer}
}

func (h QueryHandler) Type() Type { return TypeAnswerQuery }

func (h QueryHandler) Run(ctx context.Context, input map[string]string) (string, error) {
	query, err := requireInput(input, "query")
	if err != nil {
		return "", err
	}
	return h.completer.Complete(ctx, fmt.Sprintf(queryHandlerPrompt, clip(input["context"]), query), "", handlerTemperature)
}

// ImageSelectHandler condenses slide content into an image search query.
type ImageSelectHandler struct {
	completer llm.Completer
}

func NewImageSelectHandler(completer llm.Completer) ImageSelectHandler {
	return ImageSelectHandler{completer: completer}
}

func (h ImageSelectHandler) Type() Type { return TypeSelectImage }

func (h ImageSelectHandler) Run(ctx context.Context, input map[string]string) (string, error) {
	content, err := requireInput(input, "content")
	if err != nil {
		return "", err
	}
	return h.completer.Complete(ctx, fmt.Sprintf(imageSelectPrompt, clip(content)), "", handlerTemperature)
}

func requireInput(input map[string]string, key string) (string, error) {
	value := input[key]
	if value == "" {
		return "", fmt.Errorf("task input %q is required", key)
	}
	return value, nil
}

func clip(text string) string {
	if len(text) > handlerInputLimit {
		return text[:handlerInputLimit]
	}
	return text
}
