package brain

import (
	"context"
	"errors"
)

// Provider abstracts the AI API (Claude, Gemini, etc.).
type Provider interface {
	// Send runs a single-turn completion and returns the model's text.
	Send(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

var (
	// ErrRateLimited is returned when the sliding window is full.
	ErrRateLimited = errors.New("brain: rate limited")
	// ErrEmptyResponse is returned when the provider answers with no text.
	ErrEmptyResponse = errors.New("brain: empty response")
)
