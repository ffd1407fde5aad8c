package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chomins/autocommit/internal/model"
)

const sampleConfig = `
ai:
  provider: openai
  model: gpt-4o-mini
review:
  enabled: true
  level: detailed
  max_tokens_quick: 100
commit:
  auto_push: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "autocommit.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"AUTOCOMMIT_PROVIDER", "AUTOCOMMIT_MODEL", "AUTOCOMMIT_BASE_URL",
		"AUTOCOMMIT_API_KEY", "AUTOCOMMIT_LEVEL", "AUTOCOMMIT_LOG_LEVEL",
		"AUTOCOMMIT_TIMEOUT", "ANTHROPIC_API_KEY", "OPENAI_API_KEY",
		"GOOGLE_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(name, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.AI.Provider != "anthropic" {
		t.Errorf("Provider = %q, want anthropic", cfg.AI.Provider)
	}
	if cfg.Review.MaxTokensQuick != 150 || cfg.Review.MaxTokensNormal != 400 || cfg.Review.MaxTokensDetailed != 800 {
		t.Errorf("token ceilings = %d/%d/%d, want 150/400/800",
			cfg.Review.MaxTokensQuick, cfg.Review.MaxTokensNormal, cfg.Review.MaxTokensDetailed)
	}
	if !cfg.Review.AutoAdjust {
		t.Error("AutoAdjust should default to true")
	}
	if !cfg.Review.IncludeLowPriority {
		t.Error("IncludeLowPriority should default to true")
	}
	if len(cfg.Review.ExcludePatterns) == 0 {
		t.Error("default exclude patterns missing")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, sampleConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AI.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", cfg.AI.Provider)
	}
	if cfg.Review.Level != "detailed" {
		t.Errorf("Level = %q, want detailed", cfg.Review.Level)
	}
	if cfg.Review.MaxTokensQuick != 100 {
		t.Errorf("MaxTokensQuick = %d, want 100", cfg.Review.MaxTokensQuick)
	}
	// untouched keys keep their defaults
	if cfg.Review.MaxTokensNormal != 400 {
		t.Errorf("MaxTokensNormal = %d, want default 400", cfg.Review.MaxTokensNormal)
	}
	if !cfg.Commit.AutoPush {
		t.Error("AutoPush not taken from file")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Provider != "anthropic" {
		t.Errorf("Provider = %q, want default anthropic", cfg.AI.Provider)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "ai: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for malformed YAML")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, sampleConfig)
	t.Setenv("AUTOCOMMIT_PROVIDER", "ollama")
	t.Setenv("AUTOCOMMIT_LEVEL", "quick")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Provider != "ollama" {
		t.Errorf("Provider = %q, want ollama from env", cfg.AI.Provider)
	}
	if cfg.Review.Level != "quick" {
		t.Errorf("Level = %q, want quick from env", cfg.Review.Level)
	}
}

func TestAPIKeyResolution(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.APIKey != "sk-ant-test" {
		t.Errorf("APIKey = %q, want provider env key", cfg.AI.APIKey)
	}

	t.Setenv("AUTOCOMMIT_API_KEY", "sk-override")
	cfg, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.APIKey != "sk-override" {
		t.Errorf("APIKey = %q, AUTOCOMMIT_API_KEY should win", cfg.AI.APIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"unknown provider", func(c *Config) { c.AI.Provider = "skynet" }, false},
		{"temperature too high", func(c *Config) { c.AI.Temperature = 2.5 }, false},
		{"zero timeout", func(c *Config) { c.AI.TimeoutSeconds = 0 }, false},
		{"bad level", func(c *Config) { c.Review.Level = "thorough" }, false},
		{"zero ceiling", func(c *Config) { c.Review.MaxTokensNormal = 0 }, false},
		{"explicit level", func(c *Config) { c.Review.Level = "quick" }, true},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		err := cfg.Validate()
		if tt.wantOK && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.wantOK && err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestRequireAPIKey(t *testing.T) {
	cfg := Default()
	cfg.AI.Provider = "ollama"
	cfg.AI.APIKey = ""
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("ollama should not need a key, got %v", err)
	}

	cfg.AI.Provider = "anthropic"
	err := cfg.RequireAPIKey()
	if err == nil {
		t.Fatal("expected missing key error")
	}
	if !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Errorf("error %q should name the env var", err)
	}
}

func TestMaxTokensFor(t *testing.T) {
	cfg := Default()
	tests := []struct {
		level model.ReviewLevel
		want  int
	}{
		{model.LevelQuick, 150},
		{model.LevelNormal, 400},
		{model.LevelDetailed, 800},
		{model.LevelUnset, 400},
	}
	for _, tt := range tests {
		if got := cfg.MaxTokensFor(tt.level); got != tt.want {
			t.Errorf("MaxTokensFor(%v) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestDefaultLevel(t *testing.T) {
	cfg := Default()
	if got := cfg.DefaultLevel(); got != model.LevelUnset {
		t.Errorf("DefaultLevel() = %v, want unset", got)
	}
	cfg.Review.Level = "detailed"
	if got := cfg.DefaultLevel(); got != model.LevelDetailed {
		t.Errorf("DefaultLevel() = %v, want detailed", got)
	}
}
