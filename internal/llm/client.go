package llm

import (
	"context"
	"strings"
	"time"
)

// Client completes a single prompt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Provider names accepted in Config.Provider.
const (
	ProviderAuto   = "auto"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Defaults applied by NewClient.
const (
	DefaultOpenAIModel = "gpt-3.5-turbo"
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultMaxTokens   = 100
	DefaultRateLimit   = 10
	DefaultTimeout     = 30 * time.Second
)

// Config holds configuration for LLM clients. APIKey applies to an
// explicitly named provider; OpenAIKey and GeminiKey drive auto-detection.
type Config struct {
	Provider    string
	APIKey      string
	OpenAIKey   string
	GeminiKey   string
	Model       string
	BaseURL     string
	RateLimit   int
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// ResolveProvider returns the provider cfg selects. "auto" (or empty) picks
// OpenAI when an OpenAI key is set, then Gemini, and "none" otherwise.
func ResolveProvider(cfg Config) string {
	switch p := strings.ToLower(strings.TrimSpace(cfg.Provider)); p {
	case "", ProviderAuto:
		switch {
		case cfg.OpenAIKey != "":
			return ProviderOpenAI
		case cfg.GeminiKey != "":
			return ProviderGemini
		default:
			return ProviderNone
		}
	default:
		return p
	}
}

// key returns the API key for provider.
func (cfg Config) key(provider string) string {
	switch provider {
	case ProviderOpenAI:
		if cfg.OpenAIKey != "" {
			return cfg.OpenAIKey
		}
	case ProviderGemini:
		if cfg.GeminiKey != "" {
			return cfg.GeminiKey
		}
	}
	return cfg.APIKey
}
