package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"DISCORD_BOT_TOKEN", "DISCORD_CHANNEL_ID", "DISCORD_OWNER_IDS",
	"ANTHROPIC_API_KEY", "GOOGLE_API_KEY", "AI_PROVIDER",
	"ZIGGY_TIMEZONE", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pet.TickInterval != 2*time.Second {
		t.Errorf("expected 2s tick, got %s", cfg.Pet.TickInterval)
	}
	if cfg.Pet.Personality != "shy" {
		t.Errorf("expected shy, got %s", cfg.Pet.Personality)
	}
	if cfg.DiscordEnabled() {
		t.Error("expected discord disabled without credentials")
	}
	if cfg.AI.MaxTokens != 2048 || cfg.AI.RateLimit != 10 || cfg.AI.RateWindow != time.Minute {
		t.Errorf("unexpected ai limits: %+v", cfg.AI)
	}
}

func TestLoad_AILimitsApplyToAnyProvider(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
ai:
  provider: gemini
  max_tokens: 512
  rate_limit: 3
  rate_window: 30s
gemini:
  api_key: g-key
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := AIConfig{Provider: "gemini", MaxTokens: 512, RateLimit: 3, RateWindow: 30 * time.Second}
	if cfg.AI != want {
		t.Errorf("ai: got %+v, want %+v", cfg.AI, want)
	}
	if cfg.Gemini.APIKey != "g-key" || cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("gemini: %+v", cfg.Gemini)
	}
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
pet:
  tick_interval: 500ms
  timezone: UTC
  personality: stoic
  generation: 3
log:
  level: debug
proactive:
  need_cooldown: 5m
telemetry:
  dir: traces
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pet.TickInterval != 500*time.Millisecond {
		t.Errorf("tick: %s", cfg.Pet.TickInterval)
	}
	if cfg.Pet.Personality != "stoic" || cfg.Pet.Generation != 3 {
		t.Errorf("pet: %+v", cfg.Pet)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("level: %v", cfg.SlogLevel())
	}
	if cfg.Proactive.NeedCooldown != 5*time.Minute {
		t.Errorf("need cooldown: %s", cfg.Proactive.NeedCooldown)
	}
	// unset keys keep their defaults
	if cfg.Proactive.PoolInterval != time.Hour {
		t.Errorf("pool interval: %s", cfg.Proactive.PoolInterval)
	}
	if cfg.Telemetry.Dir != "traces" {
		t.Errorf("telemetry dir: %q", cfg.Telemetry.Dir)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("location: %v %v", loc, err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "discord:\n  bot_token: file-token\n  channel_id: \"1\"\n")
	t.Setenv("DISCORD_BOT_TOKEN", "env-token")
	t.Setenv("DISCORD_OWNER_IDS", " 11, ,22 ")
	t.Setenv("ZIGGY_TIMEZONE", "Europe/Berlin")
	t.Setenv("AI_PROVIDER", "gemini")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Discord.BotToken != "env-token" {
		t.Errorf("token: %q", cfg.Discord.BotToken)
	}
	if strings.Join(cfg.Discord.OwnerIDs, "|") != "11|22" {
		t.Errorf("owners: %v", cfg.Discord.OwnerIDs)
	}
	if cfg.Pet.Timezone != "Europe/Berlin" || cfg.AI.Provider != "gemini" {
		t.Errorf("overrides not applied: %+v %+v", cfg.Pet, cfg.AI)
	}
	if !cfg.DiscordEnabled() {
		t.Error("expected discord enabled")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero tick", "pet:\n  tick_interval: 0s\n", "tick_interval"},
		{"bad timezone", "pet:\n  timezone: Mars/Olympus\n", "timezone"},
		{"unknown personality", "pet:\n  personality: grumpy\n", "personality"},
		{"token without channel", "discord:\n  bot_token: x\n", "DISCORD_CHANNEL_ID"},
		{"unknown provider", "ai:\n  provider: gpt\n", "provider"},
		{"bad yaml", "pet: [\n", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("ZIGGY_TEST_A", "")
	t.Setenv("ZIGGY_TEST_B", "preset")
	t.Setenv("ZIGGY_TEST_C", "")

	path := filepath.Join(t.TempDir(), ".env")
	body := "# comment\nZIGGY_TEST_A=\"quoted\"\nZIGGY_TEST_B=ignored\nexport ZIGGY_TEST_C='single'\nnot a pair\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	loadDotEnv(path)

	if got := os.Getenv("ZIGGY_TEST_A"); got != "quoted" {
		t.Errorf("A: %q", got)
	}
	if got := os.Getenv("ZIGGY_TEST_B"); got != "preset" {
		t.Errorf("B should keep the existing value, got %q", got)
	}
	if got := os.Getenv("ZIGGY_TEST_C"); got != "single" {
		t.Errorf("C: %q", got)
	}
}

func TestSlogLevel_UnknownIsInfo(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "loud"}}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("expected info, got %v", cfg.SlogLevel())
	}
}
