// Package model defines the core data structures for the smartshop application.
package model

// Canonical units produced by the parsers.
const (
	UnitGram       = "g"
	UnitKilogram   = "kg"
	UnitLiter      = "l"
	UnitMilliliter = "ml"
	UnitPiece      = "piece"
	UnitOunce      = "oz"
	UnitPound      = "lb"
	UnitPack       = "pack"
	UnitBox        = "box"
	UnitCup        = "cup"
	UnitPint       = "pint"
)

// DefaultQuantity is used when a fragment or receipt line carries no quantity.
const DefaultQuantity = 1.0

// ParsedItem is one structured purchase line produced by either the receipt
// parser or the free-text parser. Optional values are nil when unknown.
type ParsedItem struct {
	UnitPrice  *float64 `json:"unit_price,omitempty"`
	TotalPrice *float64 `json:"total_price,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Name       string   `json:"name"`
	Unit       string   `json:"unit"`
	Category   string   `json:"category,omitempty"`
	Quantity   float64  `json:"quantity"`
}

// Price returns the best known price for the item: the line total when
// present, otherwise the unit price multiplied by the quantity.
func (p ParsedItem) Price() (float64, bool) {
	if p.TotalPrice != nil {
		return *p.TotalPrice, true
	}
	if p.UnitPrice != nil {
		return *p.UnitPrice * p.Quantity, true
	}
	return 0, false
}

// WithCategory returns a copy of the item tagged with category.
func (p ParsedItem) WithCategory(category string) ParsedItem {
	p.Category = category
	return p
}

// Float returns a pointer to v, for populating optional fields.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// Clamp01 bounds v to [0,1].
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
