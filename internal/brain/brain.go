package brain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/moorebrett0/ziggy/internal/personality"
	"github.com/moorebrett0/ziggy/internal/pet"
)

// Brain wraps an AI provider with prompt building and rate limiting.
type Brain struct {
	provider    Provider
	personality *personality.Personality

	// Sliding-window rate limiter
	mu      sync.Mutex
	window  []time.Time
	rateMax int
	rateDur time.Duration
	now     func() time.Time
}

// Config for creating a Brain.
type Config struct {
	// Claude
	ClaudeAPIKey string
	ClaudeModel  string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Which provider to force ("claude", "gemini", or "" for auto-detect)
	Provider string

	MaxTokens  int64
	RateLimit  int
	RateWindow time.Duration
}

// New creates a Brain. Returns nil if no API key is configured.
func New(ctx context.Context, cfg Config, p *personality.Personality) *Brain {
	provider := newProvider(ctx, cfg)
	if provider == nil {
		slog.Info("brain: no API key configured, AI features disabled")
		return nil
	}
	return NewWithProvider(provider, cfg, p)
}

// NewWithProvider creates a Brain around an existing provider.
func NewWithProvider(provider Provider, cfg Config, p *personality.Personality) *Brain {
	if p == nil {
		p = personality.Get(personality.DefaultID)
	}
	b := &Brain{
		provider:    provider,
		personality: p,
		rateMax:     cfg.RateLimit,
		rateDur:     cfg.RateWindow,
		now:         time.Now,
	}
	if b.rateMax <= 0 {
		b.rateMax = 10
	}
	if b.rateDur <= 0 {
		b.rateDur = time.Minute
	}
	return b
}

// newProvider auto-detects or forces the AI provider.
func newProvider(ctx context.Context, cfg Config) Provider {
	pick := cfg.Provider

	// Auto-detect if not forced
	if pick == "" {
		switch {
		case cfg.ClaudeAPIKey != "":
			pick = "claude"
		case cfg.GeminiAPIKey != "":
			pick = "gemini"
		}
	}

	switch pick {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			slog.Error("brain: AI_PROVIDER=claude but ANTHROPIC_API_KEY is not set")
			return nil
		}
		slog.Info("brain: using claude", "model", cfg.ClaudeModel)
		return newClaudeProvider(cfg.ClaudeAPIKey, cfg.ClaudeModel, cfg.MaxTokens)
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			slog.Error("brain: AI_PROVIDER=gemini but GOOGLE_API_KEY is not set")
			return nil
		}
		slog.Info("brain: using gemini", "model", cfg.GeminiModel)
		p, err := newGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.MaxTokens)
		if err != nil {
			slog.Error("brain: failed to create gemini provider", "err", err)
			return nil
		}
		return p
	default:
		return nil
	}
}

// Personality returns the temperament the brain writes for.
func (b *Brain) Personality() *personality.Personality {
	return b.personality
}

// Ask sends a chat message with the creature's live state and returns an
// in-character reply.
func (b *Brain) Ask(ctx context.Context, snap pet.Snapshot, userMessage string) (string, error) {
	if !b.rateAllow() {
		return "*curls up*\nToo many words...\nask me later.", nil
	}

	reply, err := b.provider.Send(ctx, b.chatSystemPrompt(snap), userMessage)
	if err != nil {
		slog.Error("brain: AI API error", "err", err)
		return "", fmt.Errorf("AI API error: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

func (b *Brain) chatSystemPrompt(snap pet.Snapshot) string {
	state := "awake"
	if snap.Sleeping {
		state = "asleep (answer drowsily, as if talking in your sleep)"
	}
	if snap.HP == 0 {
		state = "dormant in tun state (answer with a faint twitch at most)"
	}

	return fmt.Sprintf(`You are Ziggy, a tardigrade virtual pet (generation %d).

## Your Personality
%s

## Current State
- Mood: %s
- Fullness: %.0f/100
- Happiness: %.0f/100
- Bond: %.0f/100 (%s)
- HP: %.0f/100
- Life stage: %s
- Time of day: %s, you are %s

## Guidelines
- Stay in character as a %s tardigrade at all times.
- Keep responses short (2-4 sentences, max 200 chars).
- Reference tardigrade facts occasionally (survive space, radiation, extreme temps).
- Match your mood to the current state.
- Never use emoji.`,
		snap.Generation, b.personality.Prompt,
		snap.Mood, snap.Fullness, snap.Happiness, snap.Bond, BondDescription(snap.Bond), snap.HP,
		snap.Stage, snap.TimeOfDay, state,
		strings.ToLower(b.personality.Name))
}

// BondDescription turns a bond value into the phrase used in prompts.
func BondDescription(bond float64) string {
	switch {
	case bond >= 80:
		return "deeply bonded (best friends)"
	case bond >= 60:
		return "close bond (good friends)"
	case bond >= 40:
		return "developing bond (getting to know each other)"
	case bond >= 20:
		return "new acquaintance (still shy)"
	default:
		return "barely met (very timid)"
	}
}

// --- Sliding-window rate limiter ---

func (b *Brain) rateAllow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	cutoff := now.Add(-b.rateDur)

	// Remove expired entries
	valid := b.window[:0]
	for _, t := range b.window {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	b.window = valid

	if len(b.window) >= b.rateMax {
		return false
	}

	b.window = append(b.window, now)
	return true
}
