package category

import "github.com/Veraticus/smartshop/internal/model"

// DefaultTable returns the seed keyword table. Entries are ordered so that
// more specific categories win ties against broader ones.
func DefaultTable() model.KeywordTable {
	return model.KeywordTable{
		{Category: model.CategoryFrozen, Keywords: []string{"ice cream", "frozen", "pizza", "frozen peas", "fish sticks"}},
		{Category: model.CategoryProduce, Keywords: []string{"apple", "banana", "orange", "grape", "berry", "lemon", "lime", "pear", "peach", "mango", "avocado", "melon", "watermelon", "fruit"}},
		{Category: model.CategoryVegetables, Keywords: []string{"carrot", "potato", "onion", "tomato", "lettuce", "spinach", "cucumber", "pepper", "broccoli", "garlic", "vegetable"}},
		{Category: model.CategoryDairy, Keywords: []string{"milk", "cheese", "yogurt", "butter", "cream", "egg", "eggs"}},
		{Category: model.CategoryMeat, Keywords: []string{"chicken", "beef", "pork", "fish", "salmon", "turkey", "ham", "bacon", "lamb", "sausage"}},
		{Category: model.CategoryBakery, Keywords: []string{"bread", "cake", "pastry", "muffin", "bagel", "croissant", "roll"}},
		{Category: model.CategoryBeverages, Keywords: []string{"water", "juice", "orange juice", "apple juice", "soda", "coffee", "tea", "beer", "wine"}},
		{Category: model.CategoryPantry, Keywords: []string{"rice", "pasta", "flour", "sugar", "salt", "oil", "vinegar", "spice", "sauce", "cereal", "beans"}},
		{Category: model.CategoryHousehold, Keywords: []string{"soap", "detergent", "toilet paper", "cleaning", "shampoo", "sponge"}},
		{Category: model.CategorySnacks, Keywords: []string{"chips", "cookies", "candy", "chocolate", "nuts", "crackers"}},
		{Category: model.CategoryOther, Keywords: []string{}},
	}
}
