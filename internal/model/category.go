package model

import "strings"

// Closed set of item categories. CategoryOther is the catch-all.
const (
	CategoryProduce    = "produce"
	CategoryVegetables = "vegetables"
	CategoryDairy      = "dairy"
	CategoryMeat       = "meat"
	CategoryBakery     = "bakery"
	CategoryBeverages  = "beverages"
	CategoryPantry     = "pantry"
	CategoryFrozen     = "frozen"
	CategoryHousehold  = "household"
	CategorySnacks     = "snacks"
	CategoryOther      = "other"
)

var allCategories = []string{
	CategoryProduce,
	CategoryVegetables,
	CategoryDairy,
	CategoryMeat,
	CategoryBakery,
	CategoryBeverages,
	CategoryPantry,
	CategoryFrozen,
	CategoryHousehold,
	CategorySnacks,
	CategoryOther,
}

var categorySynonyms = map[string]string{
	"fruit":       CategoryProduce,
	"fruits":      CategoryProduce,
	"vegetable":   CategoryVegetables,
	"veg":         CategoryVegetables,
	"drinks":      CategoryBeverages,
	"beverage":    CategoryBeverages,
	"groceries":   CategoryPantry,
	"snack":       CategorySnacks,
	"unknown":     CategoryOther,
	"misc":        CategoryOther,
	"cleaning":    CategoryHousehold,
	"bread":       CategoryBakery,
	"frozen food": CategoryFrozen,
}

// AllCategories returns the closed category set in display order.
func AllCategories() []string {
	out := make([]string, len(allCategories))
	copy(out, allCategories)
	return out
}

// CanonicalCategory maps input onto the closed set. Unknown names map to
// CategoryOther with ok=false.
func CanonicalCategory(input string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return CategoryOther, false
	}
	if cat, ok := categorySynonyms[normalized]; ok {
		return cat, true
	}
	for _, cat := range allCategories {
		if normalized == cat {
			return cat, true
		}
	}
	return CategoryOther, false
}

// CategoryKeywords lists the keywords that select one category.
type CategoryKeywords struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// KeywordTable is an ordered category-to-keywords mapping. Order matters:
// the classifier breaks score ties in favor of the earlier category.
type KeywordTable []CategoryKeywords

// Keywords returns the keyword list for category.
func (t KeywordTable) Keywords(category string) ([]string, bool) {
	for _, entry := range t {
		if entry.Category == category {
			return entry.Keywords, true
		}
	}
	return nil, false
}

// Categories returns the category names in table order.
func (t KeywordTable) Categories() []string {
	names := make([]string, len(t))
	for i, entry := range t {
		names[i] = entry.Category
	}
	return names
}

// With returns a copy of the table with category's keywords replaced, or
// appended when the category is not present yet.
func (t KeywordTable) With(category string, keywords []string) KeywordTable {
	out := make(KeywordTable, 0, len(t)+1)
	replaced := false
	for _, entry := range t {
		if entry.Category == category {
			entry.Keywords = keywords
			replaced = true
		}
		out = append(out, entry)
	}
	if !replaced {
		out = append(out, CategoryKeywords{Category: category, Keywords: keywords})
	}
	return out
}
