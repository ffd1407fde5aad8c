// Package config loads autocommit settings from YAML and the
// environment. The effective config is built by layering: built-in
// defaults, then the config file, then environment variables. CLI flags
// override on top of that, applied by the command layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chomins/autocommit/internal/compress"
	"github.com/chomins/autocommit/internal/model"
)

// Config holds all application configuration.
type Config struct {
	AI     AIConfig     `yaml:"ai"`
	Review ReviewConfig `yaml:"review"`
	Commit CommitConfig `yaml:"commit"`
	Log    LogConfig    `yaml:"log"`
}

// AIConfig selects the model provider and its connection settings.
type AIConfig struct {
	Provider       string  `yaml:"provider"` // anthropic, openai, gemini, ollama
	Model          string  `yaml:"model"`
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"` // custom endpoint (proxies, local ollama)
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"` // reply ceiling for commit message calls
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// ReviewConfig controls compression, level selection and token ceilings.
type ReviewConfig struct {
	Enabled              bool     `yaml:"enabled"`
	Level                string   `yaml:"level"` // quick, normal, detailed; empty selects automatically
	AutoAdjust           bool     `yaml:"auto_adjust"`
	Temperature          float64  `yaml:"temperature"`
	MaxTokensQuick       int      `yaml:"max_tokens_quick"`
	MaxTokensNormal      int      `yaml:"max_tokens_normal"`
	MaxTokensDetailed    int      `yaml:"max_tokens_detailed"`
	IncludeLowPriority   bool     `yaml:"include_low_priority"`
	Parallel             int      `yaml:"parallel"`
	ExcludePatterns      []string `yaml:"exclude_patterns"`
	HighPriorityKeywords []string `yaml:"high_priority_keywords"`
}

// CommitConfig controls message generation and the git workflow.
type CommitConfig struct {
	Conventional     bool `yaml:"conventional"`
	MaxSubjectLength int  `yaml:"max_subject_length"`
	IncludeFileList  bool `yaml:"include_file_list"`
	AutoStage        bool `yaml:"auto_stage"`
	AutoPush         bool `yaml:"auto_push"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		AI: AIConfig{
			Provider:       "anthropic",
			Model:          "claude-sonnet-4-20250514",
			Temperature:    0.3,
			TimeoutSeconds: 60,
		},
		Review: ReviewConfig{
			Enabled:              false,
			AutoAdjust:           true,
			Temperature:          0.2,
			MaxTokensQuick:       150,
			MaxTokensNormal:      400,
			MaxTokensDetailed:    800,
			IncludeLowPriority:   true,
			Parallel:             1,
			ExcludePatterns:      compress.DefaultExcludePatterns(),
			HighPriorityKeywords: compress.DefaultHighPriorityKeywords(),
		},
		Commit: CommitConfig{
			Conventional:     true,
			MaxSubjectLength: 72,
			IncludeFileList:  true,
			AutoStage:        true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the effective configuration. With an empty path the usual
// locations are searched: ./autocommit.yaml, ./.autocommit.yaml, then
// ~/.config/autocommit/config.yaml. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	mergeEnv(cfg)
	resolveAPIKey(cfg)

	return cfg, nil
}

func findConfigFile() string {
	for _, candidate := range []string{"autocommit.yaml", ".autocommit.yaml"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(home, ".config", "autocommit", "config.yaml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("AUTOCOMMIT_PROVIDER"); v != "" {
		cfg.AI.Provider = v
	}
	if v := os.Getenv("AUTOCOMMIT_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("AUTOCOMMIT_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("AUTOCOMMIT_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("AUTOCOMMIT_LEVEL"); v != "" {
		cfg.Review.Level = v
	}
	if v := os.Getenv("AUTOCOMMIT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("AUTOCOMMIT_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AI.TimeoutSeconds = n
		}
	}
}

// resolveAPIKey fills AI.APIKey from the provider's conventional
// environment variable when the config did not set one.
func resolveAPIKey(cfg *Config) {
	if cfg.AI.APIKey != "" {
		return
	}
	switch strings.ToLower(cfg.AI.Provider) {
	case "anthropic":
		cfg.AI.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case "openai":
		cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	case "gemini":
		cfg.AI.APIKey = os.Getenv("GOOGLE_API_KEY")
		if cfg.AI.APIKey == "" {
			cfg.AI.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
}

// Validate checks the configuration for values no command could run with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.AI.Provider) {
	case "anthropic", "openai", "gemini", "ollama":
	default:
		return fmt.Errorf("unsupported provider: %s", c.AI.Provider)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai.temperature must be between 0 and 2, got %g", c.AI.Temperature)
	}
	if c.AI.TimeoutSeconds <= 0 {
		return fmt.Errorf("ai.timeout_seconds must be positive, got %d", c.AI.TimeoutSeconds)
	}
	if c.Review.Level != "" {
		if _, err := model.ParseLevel(c.Review.Level); err != nil {
			return fmt.Errorf("review.level: %w", err)
		}
	}
	for name, ceiling := range map[string]int{
		"max_tokens_quick":    c.Review.MaxTokensQuick,
		"max_tokens_normal":   c.Review.MaxTokensNormal,
		"max_tokens_detailed": c.Review.MaxTokensDetailed,
	} {
		if ceiling <= 0 {
			return fmt.Errorf("review.%s must be positive, got %d", name, ceiling)
		}
	}
	return nil
}

// RequireAPIKey reports a config error when the selected provider needs
// a key and none was resolved. Ollama runs without credentials.
func (c *Config) RequireAPIKey() error {
	provider := strings.ToLower(c.AI.Provider)
	if provider == "ollama" || c.AI.APIKey != "" {
		return nil
	}
	envName := map[string]string{
		"anthropic": "ANTHROPIC_API_KEY",
		"openai":    "OPENAI_API_KEY",
		"gemini":    "GOOGLE_API_KEY",
	}[provider]
	return fmt.Errorf("missing API key for %s: set %s or ai.api_key", c.AI.Provider, envName)
}

// DefaultLevel returns the configured review level, LevelUnset when the
// config leaves the choice to auto adjustment.
func (c *Config) DefaultLevel() model.ReviewLevel {
	lvl, err := model.ParseLevel(c.Review.Level)
	if err != nil {
		return model.LevelUnset
	}
	return lvl
}

// MaxTokensFor returns the prompt and reply token ceiling for a level.
func (c *Config) MaxTokensFor(level model.ReviewLevel) int {
	switch level {
	case model.LevelQuick:
		return c.Review.MaxTokensQuick
	case model.LevelDetailed:
		return c.Review.MaxTokensDetailed
	default:
		return c.Review.MaxTokensNormal
	}
}

// Timeout returns the model call deadline.
func (c *AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
