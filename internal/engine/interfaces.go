package engine

import (
	"context"

	"github.com/Veraticus/smartshop/internal/model"
)

// Advisor proposes items to add to a shopping list.
type Advisor interface {
	SuggestAdditional(ctx context.Context, items []string) ([]string, error)
}

// SuggestionCache holds computed suggestion reports per key.
type SuggestionCache interface {
	Get(key string) (SuggestionReport, bool)
	Set(key string, report SuggestionReport)
	Delete(key string)
}

// ReceiptOutcome is the result of processing one receipt.
type ReceiptOutcome struct {
	Receipt    model.Receipt
	Extraction model.ReceiptExtraction
	Purchases  []model.PurchaseRecord
}
