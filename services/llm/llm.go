package llm

import "context"

// Completer is the single text-generation capability the content pipeline
// depends on. Any backing model service satisfying this signature is
// interchangeable.
type Completer interface {
	Complete(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error)
}
