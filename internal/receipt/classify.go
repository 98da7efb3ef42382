// Package receipt turns the raw OCR text of a shopping receipt into a
// structured extraction: store name, purchase date, item lines and total.
package receipt

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/smartshop/internal/model"
	"github.com/Veraticus/smartshop/internal/textparse"
)

// LineKind is the classification of one receipt line.
type LineKind int

// Line kinds.
const (
	LineNoise LineKind = iota
	LineStore
	LineTotal
	LineItem
)

func (k LineKind) String() string {
	switch k {
	case LineStore:
		return "store"
	case LineTotal:
		return "total"
	case LineItem:
		return "item"
	default:
		return "noise"
	}
}

// StoreLines is how many leading non-empty lines may hold the store name.
const StoreLines = 5

// LineResult is the outcome of classifying a single line. Store is set for
// LineStore, Amount for LineTotal and Item for LineItem.
type LineResult struct {
	Item   model.ParsedItem
	Store  string
	Amount float64
	Kind   LineKind
}

const pricePattern = `([$€£¥₹]?\s?\d+[.,]\d{2})`

// groupPrefix swallows the leading thousands groups of "1,234.56" so the
// line still matches and the price reads as the last group, the same figure
// FindPrices reports for a total line.
const groupPrefix = `(?:[$€£¥₹]?\s?\d{1,3}(?:,\d{3})*,)?`

var (
	reTotalKeyword = regexp.MustCompile(`(?i)\b(?:total|subtotal|sum|amount|gesamt|suma)\b`)
	reBoilerplate  = regexp.MustCompile(`(?i)\b(?:total|subtotal|tax|change|cash|card|receipt|thank\w*|store|address)\b`)
)

// ItemGrammar is one structural form of an item line. Grammars are tried in
// order; the first whose pattern matches and whose Extract accepts wins. The
// extracted name is cleaned and validated by the classifier afterwards.
type ItemGrammar struct {
	Pattern *regexp.Regexp
	Extract func(m []string) (model.ParsedItem, bool)
	Name    string
}

// DefaultGrammars returns the built-in item line grammars:
//
//	<name> <qty> x <unit price> [= <total>]   "Yogurt 3 x 0.99 = 2.97"
//	<name> <qty> [<unit>] <price>            "Apples 2kg 5.00"
//	<name> <price>                           "Bread €2,10"
func DefaultGrammars() []ItemGrammar {
	return []ItemGrammar{
		{
			Name:    "multiplier",
			Pattern: regexp.MustCompile(`^(.*?\pL.*?)\s+(\d+)\s*[xX×]\s*` + pricePattern + `(?:\s*=?\s*` + pricePattern + `)?$`),
			Extract: extractMultiplier,
		},
		{
			Name:    "quantity-price",
			Pattern: regexp.MustCompile(`^(.*?\pL.*?)\s+(\d+(?:[.,]\d+)?)\s*(\pL+)?\s+` + groupPrefix + pricePattern + `$`),
			Extract: extractQuantityPrice,
		},
		{
			Name:    "price",
			Pattern: regexp.MustCompile(`^(.+?)\s+` + groupPrefix + pricePattern + `$`),
			Extract: extractPrice,
		},
	}
}

func extractMultiplier(m []string) (model.ParsedItem, bool) {
	qty, ok := textparse.ParseNumber(m[2])
	if !ok || qty <= 0 {
		return model.ParsedItem{}, false
	}
	unitPrice, ok := textparse.ParseNumber(m[3])
	if !ok {
		return model.ParsedItem{}, false
	}
	total := unitPrice * qty
	if m[4] != "" {
		if total, ok = textparse.ParseNumber(m[4]); !ok {
			return model.ParsedItem{}, false
		}
	}
	return model.ParsedItem{
		Name:       m[1],
		Quantity:   qty,
		Unit:       model.UnitPiece,
		UnitPrice:  model.Float(unitPrice),
		TotalPrice: model.Float(total),
	}, true
}

func extractQuantityPrice(m []string) (model.ParsedItem, bool) {
	qty, ok := textparse.ParseNumber(m[2])
	if !ok || qty <= 0 {
		return model.ParsedItem{}, false
	}
	unit := model.UnitPiece
	if m[3] != "" {
		if unit, ok = textparse.NormalizeUnit(m[3]); !ok {
			return model.ParsedItem{}, false
		}
	}
	price, ok := textparse.ParseNumber(m[4])
	if !ok {
		return model.ParsedItem{}, false
	}
	return model.ParsedItem{
		Name:       m[1],
		Quantity:   qty,
		Unit:       unit,
		UnitPrice:  model.Float(price),
		TotalPrice: model.Float(price),
	}, true
}

func extractPrice(m []string) (model.ParsedItem, bool) {
	price, ok := textparse.ParseNumber(m[2])
	if !ok {
		return model.ParsedItem{}, false
	}
	return model.ParsedItem{
		Name:       m[1],
		Quantity:   model.DefaultQuantity,
		Unit:       model.UnitPiece,
		UnitPrice:  model.Float(price),
		TotalPrice: model.Float(price),
	}, true
}

// Classifier sorts receipt lines into store, total, item and noise.
// A Classifier holds no mutable state and is safe for concurrent use.
type Classifier struct {
	grammars []ItemGrammar
}

// NewClassifier returns a classifier using grammars, or DefaultGrammars when
// none are given.
func NewClassifier(grammars ...ItemGrammar) *Classifier {
	if len(grammars) == 0 {
		grammars = DefaultGrammars()
	}
	return &Classifier{grammars: grammars}
}

// Grammars returns a copy of the classifier's item grammars.
func (c *Classifier) Grammars() []ItemGrammar {
	out := make([]ItemGrammar, len(c.grammars))
	copy(out, c.grammars)
	return out
}

// Classify classifies one trimmed line. index is the line's position among
// the receipt's non-empty lines, starting at 0.
func (c *Classifier) Classify(line string, index int) LineResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return LineResult{Kind: LineNoise}
	}

	if index < StoreLines && !textparse.HasDigit(line) && utf8.RuneCountInString(line) > 3 {
		return LineResult{Kind: LineStore, Store: line}
	}

	if reTotalKeyword.MatchString(line) {
		if amount, ok := textparse.LastPrice(line); ok {
			return LineResult{Kind: LineTotal, Amount: amount}
		}
	}

	if item, ok := c.matchItem(line); ok {
		return LineResult{Kind: LineItem, Item: item}
	}
	return LineResult{Kind: LineNoise}
}

func (c *Classifier) matchItem(line string) (model.ParsedItem, bool) {
	for _, g := range c.grammars {
		m := g.Pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item, ok := g.Extract(m)
		if !ok {
			continue
		}
		item.Name = textparse.CleanName(item.Name)
		if !validItemName(item.Name) {
			// A structural match with a bad name is still not an item.
			return model.ParsedItem{}, false
		}
		return item, true
	}
	return model.ParsedItem{}, false
}

func validItemName(name string) bool {
	if utf8.RuneCountInString(name) < 2 || !textparse.HasLetter(name) {
		return false
	}
	return !reBoilerplate.MatchString(name)
}
