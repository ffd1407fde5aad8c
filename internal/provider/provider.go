// Package provider implements the model backends the review engine and
// commit message generator talk to.
//
// Supported providers: Anthropic (Claude), OpenAI (GPT), Google (Gemini)
// and Ollama for local models. All providers share a retry helper with
// exponential backoff for rate limits and server errors. Base URLs come
// from the configuration so tests can point a provider at a local
// httptest server.
//
// Use [New] to obtain a Client from the AI configuration.
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/chomins/autocommit/internal/config"
)

// Request is a single completion call.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Client is the provider abstraction.
type Client interface {
	// Name returns the provider name ("anthropic", "openai", ...).
	Name() string
	// Complete sends the prompt and returns the raw reply text.
	Complete(ctx context.Context, req Request) (string, error)
}

// New creates a provider from the AI configuration. An unknown provider
// name is a configuration error, not something retries can fix.
func New(cfg config.AIConfig) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "anthropic":
		return newAnthropic(cfg), nil
	case "openai":
		return newOpenAI(cfg), nil
	case "gemini", "google":
		return newGemini(cfg), nil
	case "ollama":
		return newOllama(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// endpoint joins a configured base URL (or the default host) with the
// provider's API path.
func endpoint(base, def, path string) string {
	if base == "" {
		base = def
	}
	return strings.TrimRight(base, "/") + path
}
