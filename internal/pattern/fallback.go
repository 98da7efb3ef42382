package pattern

import "github.com/Veraticus/smartshop/internal/model"

const fallbackReason = "popular staple"

// staples is the fixed list offered to users without purchase history.
var staples = []struct {
	name     string
	category string
	gluten   bool
}{
	{name: "Milk", category: model.CategoryDairy},
	{name: "Bread", category: model.CategoryBakery, gluten: true},
	{name: "Eggs", category: model.CategoryDairy},
	{name: "Bananas", category: model.CategoryProduce},
	{name: "Apples", category: model.CategoryProduce},
	{name: "Chicken Breast", category: model.CategoryMeat},
	{name: "Rice", category: model.CategoryPantry},
	{name: "Tomatoes", category: model.CategoryVegetables},
	{name: "Cheese", category: model.CategoryDairy},
	{name: "Coffee", category: model.CategoryBeverages},
	{name: "Pasta", category: model.CategoryPantry, gluten: true},
	{name: "Toilet Paper", category: model.CategoryHousehold},
}

// DefaultSuggestions returns the fixed staple list, in order, without the
// items diet excludes. The suggestions are not scored.
func DefaultSuggestions(diet model.Diet) []model.Suggestion {
	out := make([]model.Suggestion, 0, len(staples))
	for _, s := range staples {
		if excluded(diet, s.category, s.gluten) {
			continue
		}
		out = append(out, model.Suggestion{
			ItemName: s.name,
			Category: s.category,
			Reason:   fallbackReason,
		})
	}
	return out
}

func excluded(diet model.Diet, category string, gluten bool) bool {
	switch diet {
	case model.DietVegetarian:
		return category == model.CategoryMeat
	case model.DietVegan:
		// Eggs are filed under dairy.
		return category == model.CategoryMeat || category == model.CategoryDairy
	case model.DietDairyFree:
		return category == model.CategoryDairy
	case model.DietGlutenFree:
		return gluten
	default:
		return false
	}
}
