// Package engine wires receipt recognition, parsing, categorization,
// persistence and suggestion ranking into the operations the CLI exposes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/smartshop/internal/category"
	"github.com/Veraticus/smartshop/internal/common"
	"github.com/Veraticus/smartshop/internal/model"
	"github.com/Veraticus/smartshop/internal/ocr"
	"github.com/Veraticus/smartshop/internal/pattern"
	"github.com/Veraticus/smartshop/internal/receipt"
	"github.com/Veraticus/smartshop/internal/service"
	"github.com/Veraticus/smartshop/internal/textparse"
)

// DefaultHistoryDays bounds how far back suggestions look.
const DefaultHistoryDays = 365

// Assistant is the shopping assistant. Collaborators other than storage are
// optional; operations that need a missing one return the matching
// unavailable error.
type Assistant struct {
	storage     service.Storage
	recognizer  ocr.Recognizer
	advisor     Advisor
	cache       SuggestionCache
	ranker      pattern.Ranker
	parser      *receipt.Parser
	now         func() time.Time
	retry       service.RetryOptions
	historyDays int
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithRecognizer enables receipt image scanning.
func WithRecognizer(r ocr.Recognizer) Option {
	return func(a *Assistant) { a.recognizer = r }
}

// WithAdvisor enables model-backed suggestion augmentation.
func WithAdvisor(adv Advisor) Option {
	return func(a *Assistant) { a.advisor = adv }
}

// WithCache caches suggestion reports per user.
func WithCache(c SuggestionCache) Option {
	return func(a *Assistant) { a.cache = c }
}

// WithRanker replaces the default suggestion ranker.
func WithRanker(r pattern.Ranker) Option {
	return func(a *Assistant) { a.ranker = r }
}

// WithParser replaces the default receipt parser.
func WithParser(p *receipt.Parser) Option {
	return func(a *Assistant) { a.parser = p }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

// WithHistoryDays sets how many days of purchases feed suggestions.
func WithHistoryDays(days int) Option {
	return func(a *Assistant) {
		if days > 0 {
			a.historyDays = days
		}
	}
}

// WithRetryOptions sets the retry policy around text recognition.
func WithRetryOptions(opts service.RetryOptions) Option {
	return func(a *Assistant) { a.retry = opts }
}

// New creates an Assistant backed by storage.
func New(storage service.Storage, opts ...Option) *Assistant {
	a := &Assistant{
		storage:     storage,
		ranker:      pattern.NewSuggester(),
		parser:      receipt.NewParser(nil),
		now:         time.Now,
		historyDays: DefaultHistoryDays,
		retry: service.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Multiplier:   2,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SuggestionCacheKey is the cache key of a user's suggestion report.
func SuggestionCacheKey(userID int64) string {
	return fmt.Sprintf("user:%d:suggestions", userID)
}

// ScanReceipt recognizes the image at imagePath and processes the text like
// ProcessReceipt.
func (a *Assistant) ScanReceipt(ctx context.Context, userID int64, imagePath string) (*ReceiptOutcome, error) {
	if a.recognizer == nil {
		return nil, common.NewUserError("Receipt scanning is not available. Install Tesseract or use 'receipt parse'.", common.ErrOCRUnavailable)
	}

	var result ocr.Result
	err := common.WithRetry(ctx, func() error {
		var err error
		result, err = a.recognizer.Recognize(ctx, imagePath)
		if errors.Is(err, common.ErrOCRUnavailable) {
			return common.Permanent(err)
		}
		return err
	}, a.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt %s: %w", imagePath, err)
	}

	return a.ProcessReceipt(ctx, userID, receipt.Input{
		RawText:        result.Text,
		LineConfidence: result.LineConfidences(),
		Confidence:     result.Confidence,
	})
}

// ProcessReceipt parses OCR output, categorizes the items and stores the
// receipt with one purchase per item. A receipt without items is not stored
// and yields common.ErrNoItems.
func (a *Assistant) ProcessReceipt(ctx context.Context, userID int64, in receipt.Input) (*ReceiptOutcome, error) {
	extraction := a.parser.Parse(in)
	if !extraction.HasItems() {
		slog.Info("receipt yielded no items", "user_id", userID, "confidence", extraction.Confidence)
		return nil, common.NewUserError("No items could be read from this receipt. Try a clearer photo.", common.ErrNoItems)
	}

	table, err := a.storage.GetKeywordTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	extraction.Items = category.Tag(extraction.Items, table)

	date := a.now()
	if extraction.PurchaseDate != nil {
		date = *extraction.PurchaseDate
	}

	rec := model.Receipt{
		UserID:       userID,
		StoreName:    extraction.StoreName,
		GrandTotal:   extraction.GrandTotal,
		PurchaseDate: date,
		RawText:      extraction.RawText,
		Confidence:   extraction.Confidence,
	}
	purchases := make([]model.PurchaseRecord, len(extraction.Items))
	for i, item := range extraction.Items {
		purchases[i] = model.PurchaseFromItem(userID, item, date)
	}

	a.touch(ctx, userID)
	if err := a.storage.SaveReceipt(ctx, &rec, purchases); err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}
	a.invalidate(userID)

	slog.Info("receipt processed",
		"user_id", userID,
		"receipt_id", rec.ID,
		"items", len(purchases),
		"confidence", extraction.Confidence)

	return &ReceiptOutcome{Receipt: rec, Extraction: extraction, Purchases: purchases}, nil
}

// AddItems records free-text purchases such as "2 kg apples, milk".
func (a *Assistant) AddItems(ctx context.Context, userID int64, text string) ([]model.PurchaseRecord, error) {
	items := textparse.ParseText(text)
	if len(items) == 0 {
		return nil, common.NewUserError("No items recognized. Try something like \"2 kg apples, milk\".", common.ErrNoItems)
	}

	table, err := a.storage.GetKeywordTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	items = category.Tag(items, table)

	now := a.now()
	purchases := make([]model.PurchaseRecord, len(items))
	for i, item := range items {
		purchases[i] = model.PurchaseFromItem(userID, item, now)
	}

	a.touch(ctx, userID)
	if err := a.storage.SavePurchases(ctx, purchases); err != nil {
		return nil, fmt.Errorf("failed to save purchases: %w", err)
	}
	a.invalidate(userID)

	slog.Info("purchases added", "user_id", userID, "items", len(purchases))
	return purchases, nil
}

// Classify returns the category for an item name using the stored keyword
// table.
func (a *Assistant) Classify(ctx context.Context, itemName string) (string, error) {
	table, err := a.storage.GetKeywordTable(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load categories: %w", err)
	}
	return category.Classify(itemName, table), nil
}

// Stats summarizes the user's purchase history.
func (a *Assistant) Stats(ctx context.Context, userID int64) (*model.UserStats, error) {
	stats, err := a.storage.GetUserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return stats, nil
}

// SimilarItems returns previously bought items resembling name.
func (a *Assistant) SimilarItems(ctx context.Context, userID int64, name string) ([]string, error) {
	history, err := a.storage.GetPurchases(ctx, userID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	return pattern.SimilarItems(name, history, pattern.DefaultSimilar), nil
}

// NextShoppingDay predicts the user's next shopping trip from the gaps
// between past trips.
func (a *Assistant) NextShoppingDay(ctx context.Context, userID int64) (time.Time, error) {
	history, err := a.storage.GetPurchases(ctx, userID, time.Time{})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to load purchases: %w", err)
	}
	next, ok := pattern.PredictNextShoppingDay(history)
	if !ok {
		return time.Time{}, common.NewUserError("Not enough shopping trips recorded to predict the next one.", common.ErrNoHistory)
	}
	return next, nil
}

// Preferences returns the user's stored preferences.
func (a *Assistant) Preferences(ctx context.Context, userID int64) (*model.Preferences, error) {
	return a.storage.GetPreferences(ctx, userID)
}

// UpdatePreferences stores prefs and drops cached suggestions, since the
// diet filters the default list.
func (a *Assistant) UpdatePreferences(ctx context.Context, prefs *model.Preferences) error {
	if err := a.storage.SavePreferences(ctx, prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	a.invalidate(prefs.UserID)
	return nil
}

func (a *Assistant) touch(ctx context.Context, userID int64) {
	if err := a.storage.UpsertUser(ctx, &model.User{ID: userID}); err != nil {
		slog.Warn("failed to update user activity", "user_id", userID, "error", err)
	}
}

func (a *Assistant) invalidate(userID int64) {
	if a.cache != nil {
		a.cache.Delete(SuggestionCacheKey(userID))
	}
}
