package textparse

import (
	"strings"

	"github.com/Veraticus/smartshop/internal/model"
)

var unitAliases = map[string]string{
	"g":           model.UnitGram,
	"gr":          model.UnitGram,
	"gram":        model.UnitGram,
	"grams":       model.UnitGram,
	"kg":          model.UnitKilogram,
	"kgs":         model.UnitKilogram,
	"kilo":        model.UnitKilogram,
	"kilos":       model.UnitKilogram,
	"kilogram":    model.UnitKilogram,
	"kilograms":   model.UnitKilogram,
	"l":           model.UnitLiter,
	"lt":          model.UnitLiter,
	"liter":       model.UnitLiter,
	"liters":      model.UnitLiter,
	"litre":       model.UnitLiter,
	"litres":      model.UnitLiter,
	"ml":          model.UnitMilliliter,
	"milliliter":  model.UnitMilliliter,
	"milliliters": model.UnitMilliliter,
	"millilitre":  model.UnitMilliliter,
	"millilitres": model.UnitMilliliter,
	"cup":         model.UnitCup,
	"cups":        model.UnitCup,
	"pint":        model.UnitPint,
	"pints":       model.UnitPint,
	"piece":       model.UnitPiece,
	"pieces":      model.UnitPiece,
	"pc":          model.UnitPiece,
	"pcs":         model.UnitPiece,
	"unit":        model.UnitPiece,
	"units":       model.UnitPiece,
	"item":        model.UnitPiece,
	"items":       model.UnitPiece,
	"oz":          model.UnitOunce,
	"ounce":       model.UnitOunce,
	"ounces":      model.UnitOunce,
	"lb":          model.UnitPound,
	"lbs":         model.UnitPound,
	"pound":       model.UnitPound,
	"pounds":      model.UnitPound,
	"pack":        model.UnitPack,
	"packs":       model.UnitPack,
	"box":         model.UnitBox,
	"boxes":       model.UnitBox,
}

// NormalizeUnit maps a unit token such as "Grams" or "litre" to its
// canonical short form.
func NormalizeUnit(token string) (string, bool) {
	unit, ok := unitAliases[strings.ToLower(strings.TrimSpace(token))]
	return unit, ok
}

// IsUnit reports whether token is a recognized unit.
func IsUnit(token string) bool {
	_, ok := NormalizeUnit(token)
	return ok
}

var (
	weightHints = []string{"meat", "cheese", "fruit", "vegetable", "flour", "sugar", "rice"}
	volumeHints = []string{"milk", "juice", "oil", "water", "soup", "sauce"}
	countHints  = []string{"egg", "apple", "banana", "bottle", "can", "pack"}
)

// QuantityHint tells the user which kind of quantity fits an item name.
func QuantityHint(itemName string) string {
	lower := strings.ToLower(itemName)
	switch {
	case containsAny(lower, weightHints):
		return "Please specify weight (e.g., 500g, 1kg)"
	case containsAny(lower, volumeHints):
		return "Please specify volume (e.g., 1L, 500ml)"
	case containsAny(lower, countHints):
		return "Please specify quantity (e.g., 6 units, 2 pieces)"
	default:
		return "Please specify quantity (e.g., 2kg, 1L, 3 units)"
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
