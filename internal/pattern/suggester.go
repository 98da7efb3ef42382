package pattern

import (
	"fmt"
	"sort"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
)

// DefaultMinConfidence is the score a pattern must exceed to be suggested.
const DefaultMinConfidence = 0.3

// Ensure Suggester implements Ranker.
var _ Ranker = (*Suggester)(nil)

// Suggester ranks purchase patterns into suggestions.
type Suggester struct {
	minConfidence float64
	perCategory   int
}

// SuggesterOption configures a Suggester.
type SuggesterOption func(*Suggester)

// WithMinConfidence overrides DefaultMinConfidence.
func WithMinConfidence(v float64) SuggesterOption {
	return func(s *Suggester) { s.minConfidence = v }
}

// WithPerCategory overrides model.MaxSuggestionsPerCategory.
func WithPerCategory(n int) SuggesterOption {
	return func(s *Suggester) {
		if n > 0 {
			s.perCategory = n
		}
	}
}

// NewSuggester creates a suggester with the default threshold and cap.
func NewSuggester(opts ...SuggesterOption) *Suggester {
	s := &Suggester{
		minConfidence: DefaultMinConfidence,
		perCategory:   model.MaxSuggestionsPerCategory,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Suggest ranks patterns with the default settings.
func Suggest(patterns []model.PurchasePattern, now time.Time) model.SuggestionGroups {
	return NewSuggester().Suggest(patterns, now)
}

// Suggest keeps patterns scoring above the threshold, groups them by
// category and sorts each group by descending confidence, truncated to the
// per-category cap. No qualifying patterns yields an empty, non-nil map.
func (s *Suggester) Suggest(patterns []model.PurchasePattern, now time.Time) model.SuggestionGroups {
	groups := make(model.SuggestionGroups)
	for _, p := range patterns {
		b := Score(p, now)
		if b.Confidence <= s.minConfidence {
			continue
		}
		groups[p.Category] = append(groups[p.Category], model.Suggestion{
			ItemName:   p.ItemName,
			Category:   p.Category,
			Confidence: b.Confidence,
			Reason:     reason(p, b),
		})
	}

	for category, items := range groups {
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Confidence > items[j].Confidence
		})
		if len(items) > s.perCategory {
			items = items[:s.perCategory]
		}
		groups[category] = items
	}
	return groups
}

// reason creates a human-readable explanation for why an item was suggested.
func reason(p model.PurchasePattern, b Breakdown) string {
	switch {
	case p.AvgIntervalDays > 0 && b.Time >= 0.8:
		return fmt.Sprintf("due based on past interval: usually every %.0f days, last bought %d days ago",
			p.AvgIntervalDays, p.DaysSinceLast)
	case b.Frequency >= 0.5:
		return fmt.Sprintf("bought frequently (%d times)", p.Frequency)
	default:
		return fmt.Sprintf("bought regularly (%d times)", p.Frequency)
	}
}
