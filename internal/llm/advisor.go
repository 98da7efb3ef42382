package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/Veraticus/smartshop/internal/common"
	"github.com/Veraticus/smartshop/internal/service"
)

// DefaultAdvisorLimit caps how many additional items an advisor returns.
const DefaultAdvisorLimit = 5

// maxItemLength drops reply fragments that are sentences, not item names.
const maxItemLength = 40

// ShoppingAdvisor asks a language model for items to add to a list.
type ShoppingAdvisor struct {
	client Client
	retry  service.RetryOptions
	limit  int
}

// AdvisorOption configures a ShoppingAdvisor.
type AdvisorOption func(*ShoppingAdvisor)

// WithRetryOptions overrides the retry policy around model calls.
func WithRetryOptions(opts service.RetryOptions) AdvisorOption {
	return func(a *ShoppingAdvisor) { a.retry = opts }
}

// WithLimit sets how many items SuggestAdditional returns at most.
func WithLimit(n int) AdvisorOption {
	return func(a *ShoppingAdvisor) {
		if n > 0 {
			a.limit = n
		}
	}
}

// NewShoppingAdvisor wraps client.
func NewShoppingAdvisor(client Client, opts ...AdvisorOption) *ShoppingAdvisor {
	a := &ShoppingAdvisor{
		client: client,
		limit:  DefaultAdvisorLimit,
		retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     10 * time.Second,
			Multiplier:   2,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SuggestAdditional returns items that go with items but are not already in
// it. An empty input list yields no suggestions without calling the model.
func (a *ShoppingAdvisor) SuggestAdditional(ctx context.Context, items []string) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}

	prompt := BuildPrompt(items)
	var reply string
	err := common.WithRetry(ctx, func() error {
		var err error
		reply, err = a.client.Complete(ctx, prompt)
		return err
	}, a.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestions from model: %w", err)
	}

	have := make(map[string]bool, len(items))
	for _, item := range items {
		have[strings.ToLower(strings.TrimSpace(item))] = true
	}

	var out []string
	for _, name := range ParseItemList(reply) {
		if have[strings.ToLower(name)] {
			continue
		}
		out = append(out, name)
		if len(out) == a.limit {
			break
		}
	}

	slog.Debug("model suggestions parsed", "items", len(items), "suggested", len(out))
	return out, nil
}

// BuildPrompt asks for additional items given the current list.
func BuildPrompt(items []string) string {
	return fmt.Sprintf(
		"Based on these items: %s, suggest additional shopping items. "+
			"Reply with a comma-separated list of item names only.",
		strings.Join(items, ", "))
}

// ParseItemList splits a model reply into item names. It accepts comma,
// semicolon and line separated lists, strips bullets and numbering, and
// drops duplicates case-insensitively.
func ParseItemList(reply string) []string {
	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})

	seen := make(map[string]bool, len(fields))
	var out []string
	for _, field := range fields {
		name := cleanListItem(field)
		if name == "" || len([]rune(name)) > maxItemLength {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

func cleanListItem(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "-*•· \t")
	// "1." or "2)" numbering
	if i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }); i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".!")
	s = strings.Trim(s, `"'`)
	if strings.HasPrefix(strings.ToLower(s), "and ") {
		s = s[4:]
	}
	return strings.TrimSpace(s)
}
