package model

import (
	"fmt"
	"strings"
)

// Diet is a dietary preference used to filter default suggestions.
type Diet string

// Supported diets.
const (
	DietNone       Diet = ""
	DietVegetarian Diet = "vegetarian"
	DietVegan      Diet = "vegan"
	DietDairyFree  Diet = "dairy-free"
	DietGlutenFree Diet = "gluten-free"
)

// ParseDiet validates a diet name. An empty string or "none" clears the diet.
func ParseDiet(s string) (Diet, error) {
	switch d := Diet(strings.ToLower(strings.TrimSpace(s))); d {
	case DietNone, "none":
		return DietNone, nil
	case DietVegetarian, DietVegan, DietDairyFree, DietGlutenFree:
		return d, nil
	default:
		return DietNone, fmt.Errorf("unknown diet %q", s)
	}
}

// Preferences holds per-user settings.
type Preferences struct {
	Diet     Diet   `json:"diet"`
	Language string `json:"language"`
	UserID   int64  `json:"user_id"`
}
