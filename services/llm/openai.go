package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// OpenAICompleter backs the Completer interface with an OpenAI-compatible
// chat model via langchaingo.
type OpenAICompleter struct {
	model llms.Model
}

func NewOpenAICompleter(apiKey, modelName string) (*OpenAICompleter, error) {
	model, err := openai.New(
		openai.WithModel(modelName),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}

	return &OpenAICompleter{model: model}, nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
	var history []llms.MessageContent
	if systemMessage != "" {
		history = append(history, llms.TextParts(schema.ChatMessageTypeSystem, systemMessage))
	}
	history = append(history, llms.TextParts(schema.ChatMessageTypeHuman, prompt))

	resp, err := c.model.GenerateContent(ctx, history, llms.WithTemperature(temperature))
	if err != nil {
		return "", fmt.Errorf("failed to generate LLM response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in LLM response")
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}
