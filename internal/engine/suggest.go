package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/smartshop/internal/common"
	"github.com/Veraticus/smartshop/internal/model"
	"github.com/Veraticus/smartshop/internal/pattern"
)

// SuggestionReport is what Suggest returns. Groups holds history-based
// suggestions; Defaults is set instead when history yields none.
type SuggestionReport struct {
	GeneratedAt time.Time
	Groups      model.SuggestionGroups
	Defaults    []model.Suggestion
	Patterns    int
}

// IsFallback reports whether the report carries the default list.
func (r SuggestionReport) IsFallback() bool {
	return r.Groups.Len() == 0
}

// clone returns a report that shares no maps or slices with r.
func (r SuggestionReport) clone() SuggestionReport {
	out := r
	if r.Groups != nil {
		out.Groups = make(model.SuggestionGroups, len(r.Groups))
		for category, group := range r.Groups {
			out.Groups[category] = append([]model.Suggestion(nil), group...)
		}
	}
	if r.Defaults != nil {
		out.Defaults = append([]model.Suggestion(nil), r.Defaults...)
	}
	return out
}

// ItemNames returns the suggested item names in display order.
func (r SuggestionReport) ItemNames() []string {
	source := r.Groups.Flatten()
	if r.IsFallback() {
		source = r.Defaults
	}
	names := make([]string, len(source))
	for i, s := range source {
		names[i] = s.ItemName
	}
	return names
}

// Suggest ranks the user's recurring purchases. Users whose history yields
// no confident suggestion get the default staples filtered by their diet.
// Reports are cached until the user's purchases or preferences change, and
// callers always receive their own copy.
func (a *Assistant) Suggest(ctx context.Context, userID int64) (SuggestionReport, error) {
	key := SuggestionCacheKey(userID)
	if a.cache != nil {
		if report, ok := a.cache.Get(key); ok {
			slog.Debug("suggestions served from cache", "user_id", userID)
			return report.clone(), nil
		}
	}

	now := a.now()
	since := now.AddDate(0, 0, -a.historyDays)
	history, err := a.storage.GetPurchases(ctx, userID, since)
	if err != nil {
		return SuggestionReport{}, fmt.Errorf("failed to load purchases: %w", err)
	}

	patterns := pattern.Analyze(history, now)
	report := SuggestionReport{
		GeneratedAt: now,
		Groups:      a.ranker.Suggest(patterns, now),
		Patterns:    len(patterns),
	}

	if report.Groups.Len() == 0 {
		prefs, err := a.storage.GetPreferences(ctx, userID)
		if err != nil {
			return SuggestionReport{}, fmt.Errorf("failed to load preferences: %w", err)
		}
		report.Defaults = pattern.DefaultSuggestions(prefs.Diet)
	}

	slog.Debug("suggestions computed",
		"user_id", userID,
		"history", len(history),
		"patterns", report.Patterns,
		"suggestions", report.Groups.Len(),
		"fallback", report.IsFallback())

	if a.cache != nil {
		a.cache.Set(key, report.clone())
	}
	return report, nil
}

// SuggestAdditional asks the advisor for items that go with the report's
// suggestions.
func (a *Assistant) SuggestAdditional(ctx context.Context, report SuggestionReport) ([]string, error) {
	if a.advisor == nil {
		return nil, common.NewUserError("AI suggestions need an OpenAI or Gemini API key.", common.ErrLLMUnavailable)
	}
	extra, err := a.advisor.SuggestAdditional(ctx, report.ItemNames())
	if err != nil {
		return nil, fmt.Errorf("failed to get additional suggestions: %w", err)
	}
	return extra, nil
}
