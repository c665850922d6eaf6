// Package generator drives content generation across a table of contents,
// assembling the final ordered slide list with quizzes and optional images.
package generator

import (
	"context"
	"time"

	"quickstudy/models"
	"quickstudy/services/textgen"
)

const defaultWindowSize = 1000

// ContentRequester is the slice of the structured content requester the
// assembler needs.
type ContentRequester interface {
	GenerateTOC(ctx context.Context, docText, userPrompt string) ([]models.TOCEntry, error)
	GenerateSectionContent(ctx context.Context, section models.TOCEntry, sectionText, userPrompt string) (*textgen.SectionPayload, error)
}

// ImageLookup resolves an image prompt to a local file path. A failed lookup
// must never abort course assembly.
type ImageLookup interface {
	Lookup(ctx context.Context, query, courseID, slideName string) (string, error)
}

type Config struct {
	WindowSize      int
	SectionInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		WindowSize:      defaultWindowSize,
		SectionInterval: time.Second,
	}
}

type Service struct {
	requester ContentRequester
	images    ImageLookup
	pacer     Pacer
	cfg       Config
}

// NewService builds an assembler. images may be nil when no image lookup is
// configured; pacer may be nil to use the default inter-section interval.
func NewService(requester ContentRequester, images ImageLookup, pacer Pacer, cfg Config) *Service {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = defaultWindowSize
	}
	if pacer == nil {
		pacer = NewIntervalPacer(cfg.SectionInterval)
	}

	return &Service{
		requester: requester,
		images:    images,
		pacer:     pacer,
		cfg:       cfg,
	}
}
