// Package textgen wraps the single text-completion capability with retry,
// JSON extraction from free-form model output, and schema validation with
// deterministic fallbacks. Callers above this layer never observe a parse
// failure, only well-typed content.
package textgen

import (
	"context"
	"fmt"
	"log"
	"time"

	"quickstudy/services/llm"
)

type Config struct {
	MaxAttempts        int
	BaseDelay          time.Duration
	TOCContextChars    int
	TOCTemperature     float64
	SectionTemperature float64
	GradingTemperature float64
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:        3,
		BaseDelay:          2 * time.Second,
		TOCContextChars:    8000,
		TOCTemperature:     0.3,
		SectionTemperature: 0.7,
		GradingTemperature: 0.2,
	}
}

type Service struct {
	completer llm.Completer
	cfg       Config
}

func NewService(completer llm.Completer, cfg Config) *Service {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	if cfg.TOCContextChars <= 0 {
		cfg.TOCContextChars = DefaultConfig().TOCContextChars
	}

	return &Service{completer: completer, cfg: cfg}
}

// request performs one completion call with bounded retries. The delay grows
// linearly with the attempt number. After the retry budget is exhausted the
// last failure propagates to the caller; this layer does not mask transport
// errors.
func (s *Service) request(ctx context.Context, prompt, systemMessage string, temperature float64) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		completion, err := s.completer.Complete(ctx, prompt, systemMessage, temperature)
		if err == nil {
			return completion, nil
		}

		lastErr = err
		log.Printf("[ERROR] Completion attempt %d/%d failed: %v", attempt, s.cfg.MaxAttempts, err)

		if attempt < s.cfg.MaxAttempts {
			select {
			case <-time.After(s.cfg.BaseDelay * time.Duration(attempt)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("completion failed after %d attempts: %w", s.cfg.MaxAttempts, lastErr)
}
