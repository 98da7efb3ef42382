// Package pattern derives purchase patterns from a user's history and ranks
// them into shopping suggestions.
package pattern

import (
	"time"

	"github.com/Veraticus/smartshop/internal/model"
)

// Ranker turns purchase patterns into category-grouped suggestions.
type Ranker interface {
	// Suggest scores each pattern as of now and keeps the qualifying ones.
	Suggest(patterns []model.PurchasePattern, now time.Time) model.SuggestionGroups
}
