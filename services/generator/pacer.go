package generator

import (
	"context"
	"sync"
	"time"
)

// Pacer throttles calls to the generation service between sections. It is an
// injected policy so tests can run the assembler without wall-clock delays.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewIntervalPacer returns a Pacer that enforces a minimum interval between
// successive waits. The first wait returns immediately.
func NewIntervalPacer(min time.Duration) Pacer {
	return &intervalPacer{min: min}
}

type intervalPacer struct {
	mu   sync.Mutex
	min  time.Duration
	last time.Time
}

func (p *intervalPacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	now := time.Now()
	remaining := p.min - now.Sub(p.last)
	if remaining < 0 {
		remaining = 0
	}
	p.last = now.Add(remaining)
	p.mu.Unlock()

	if remaining == 0 {
		return nil
	}

	select {
	case <-time.After(remaining):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NopPacer never waits.
type NopPacer struct{}

func (NopPacer) Wait(context.Context) error { return nil }
