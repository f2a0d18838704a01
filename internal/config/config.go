package config

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moorebrett0/ziggy/internal/personality"
)

type Config struct {
	Pet       PetConfig       `yaml:"pet"`
	Log       LogConfig       `yaml:"log"`
	Discord   DiscordConfig   `yaml:"discord"`
	AI        AIConfig        `yaml:"ai"`
	Claude    ClaudeConfig    `yaml:"claude"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Proactive ProactiveConfig `yaml:"proactive"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type PetConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	Timezone     string        `yaml:"timezone"` // IANA name, "" or "Local" for the host zone
	Personality  string        `yaml:"personality"`
	Generation   int           `yaml:"generation"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type DiscordConfig struct {
	BotToken          string   `yaml:"bot_token"`
	ChannelID         string   `yaml:"channel_id"`
	OwnerIDs          []string `yaml:"owner_ids"`
	AllowSpectatorPet bool     `yaml:"allow_spectator_pet"`
}

// AIConfig holds settings shared by whichever provider is active.
type AIConfig struct {
	Provider  string `yaml:"provider"` // "claude", "gemini", or "" (auto-detect)
	MaxTokens int64  `yaml:"max_tokens"`
	// Sliding window rate limiter
	RateLimit  int           `yaml:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window"`
}

type ClaudeConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type ProactiveConfig struct {
	Enabled       bool          `yaml:"enabled"`
	CheckInterval time.Duration `yaml:"check_interval"`
	NeedCooldown  time.Duration `yaml:"need_cooldown"`
	PoolInterval  time.Duration `yaml:"pool_interval"`
	Evolve        bool          `yaml:"evolve"`
}

type TelemetryConfig struct {
	Dir string `yaml:"dir"` // "" disables the CSV trace
}

// DiscordEnabled reports whether enough is configured to connect the bot.
func (c *Config) DiscordEnabled() bool {
	return c.Discord.BotToken != "" && c.Discord.ChannelID != ""
}

// Location resolves Pet.Timezone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Pet.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Pet.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Pet.Timezone, err)
	}
	return loc, nil
}

// SlogLevel maps Log.Level to a slog level. Unknown names mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	// Load .env file first (from working dir)
	loadDotEnv(".env")

	// Load YAML config if it exists
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// File doesn't exist: defaults + env vars
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv lets environment variables override the file (secrets live in
// .env or the environment).
func applyEnv(cfg *Config) {
	if env := os.Getenv("DISCORD_BOT_TOKEN"); env != "" {
		cfg.Discord.BotToken = env
	}
	if env := os.Getenv("DISCORD_CHANNEL_ID"); env != "" {
		cfg.Discord.ChannelID = env
	}
	if env := os.Getenv("DISCORD_OWNER_IDS"); env != "" {
		if ids := splitIDs(env); len(ids) > 0 {
			cfg.Discord.OwnerIDs = ids
		}
	}
	if env := os.Getenv("ANTHROPIC_API_KEY"); env != "" {
		cfg.Claude.APIKey = env
	}
	if env := os.Getenv("GOOGLE_API_KEY"); env != "" {
		cfg.Gemini.APIKey = env
	}
	if env := os.Getenv("AI_PROVIDER"); env != "" {
		cfg.AI.Provider = env
	}
	if env := os.Getenv("ZIGGY_TIMEZONE"); env != "" {
		cfg.Pet.Timezone = env
	}
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		cfg.Log.Level = env
	}
}

// splitIDs parses a comma-separated list, dropping blanks.
func splitIDs(s string) []string {
	var cleaned []string
	for _, id := range strings.Split(s, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			cleaned = append(cleaned, id)
		}
	}
	return cleaned
}

// loadDotEnv reads a .env file and sets env vars that aren't already set.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return // no .env, that's fine
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		val = strings.TrimSpace(val)

		// Strip surrounding quotes
		if len(val) >= 2 {
			if (val[0] == '"' && val[len(val)-1] == '"') ||
				(val[0] == '\'' && val[len(val)-1] == '\'') {
				val = val[1 : len(val)-1]
			}
		}

		// Only set if not already in environment
		if os.Getenv(key) == "" && val != "" {
			os.Setenv(key, val)
		}
	}
}

func defaults() *Config {
	return &Config{
		Pet: PetConfig{
			TickInterval: 2 * time.Second,
			Personality:  personality.DefaultID,
			Generation:   1,
		},
		Log: LogConfig{
			Level: "info",
		},
		Discord: DiscordConfig{
			AllowSpectatorPet: true,
		},
		AI: AIConfig{
			MaxTokens:  2048,
			RateLimit:  10,
			RateWindow: time.Minute,
		},
		Claude: ClaudeConfig{
			Model: "claude-sonnet-4-5-20250929",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Proactive: ProactiveConfig{
			Enabled:       true,
			CheckInterval: 30 * time.Second,
			NeedCooldown:  15 * time.Minute,
			PoolInterval:  time.Hour,
			Evolve:        true,
		},
	}
}

func validate(cfg *Config) error {
	if cfg.Pet.TickInterval <= 0 {
		return fmt.Errorf("pet.tick_interval must be positive, got %s", cfg.Pet.TickInterval)
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	if _, ok := personality.Registry[cfg.Pet.Personality]; !ok {
		return fmt.Errorf("unknown personality %q (choose from %s)",
			cfg.Pet.Personality, strings.Join(personality.OrderedIDs, ", "))
	}
	if (cfg.Discord.BotToken == "") != (cfg.Discord.ChannelID == "") {
		return fmt.Errorf("DISCORD_BOT_TOKEN and DISCORD_CHANNEL_ID must be set together")
	}
	switch cfg.AI.Provider {
	case "", "claude", "gemini":
	default:
		return fmt.Errorf("unknown ai.provider %q (claude or gemini)", cfg.AI.Provider)
	}
	if cfg.Proactive.Enabled && cfg.Proactive.CheckInterval <= 0 {
		return fmt.Errorf("proactive.check_interval must be positive, got %s", cfg.Proactive.CheckInterval)
	}
	return nil
}
