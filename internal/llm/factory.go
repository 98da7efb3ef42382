package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/smartshop/internal/common"
)

// LimitedClient is a provider client behind a token bucket.
type LimitedClient struct {
	client   Client
	limiter  *rateLimiter
	provider string
}

// NewClient creates the client cfg selects. It returns
// common.ErrLLMUnavailable when no provider can be resolved.
func NewClient(cfg Config) (*LimitedClient, error) {
	provider := ResolveProvider(cfg)

	var (
		client Client
		err    error
	)
	switch provider {
	case ProviderOpenAI:
		client, err = newOpenAIClient(cfg)
	case ProviderGemini:
		client, err = newGeminiClient(cfg)
	case ProviderNone:
		return nil, common.ErrLLMUnavailable
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrLLMUnavailable, err)
	}

	rate := cfg.RateLimit
	if rate <= 0 {
		rate = DefaultRateLimit
	}
	slog.Debug("llm client created", "provider", provider, "rate_limit", rate)

	return &LimitedClient{
		client:   client,
		limiter:  newRateLimiter(rate),
		provider: provider,
	}, nil
}

// Provider returns the resolved provider name.
func (c *LimitedClient) Provider() string {
	return c.provider
}

// Complete waits for a rate limit token and forwards prompt.
func (c *LimitedClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return "", err
	}
	return c.client.Complete(ctx, prompt)
}

// Close stops the rate limiter.
func (c *LimitedClient) Close() {
	c.limiter.Close()
}
