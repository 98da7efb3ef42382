package textparse

import (
	"regexp"
	"strings"

	"github.com/Veraticus/smartshop/internal/model"
)

// Fragment is the result of parsing one free-text item fragment.
type Fragment struct {
	Name     string
	Unit     string
	Quantity float64
}

// Item converts the fragment into a ParsedItem without prices.
func (f Fragment) Item() model.ParsedItem {
	return model.ParsedItem{
		Name:     f.Name,
		Quantity: f.Quantity,
		Unit:     f.Unit,
	}
}

// FragmentRule is one step of the fragment grammar. Rules are tried in order
// and the first one whose pattern matches and whose Extract accepts wins.
type FragmentRule struct {
	Pattern *regexp.Regexp
	Extract func(m []string) (Fragment, bool)
	Name    string
}

const numberPattern = `(\d+(?:[.,]\d+)?)`

// FragmentRules is the default grammar:
//
//	<number><unit> <name>   "2kg apples", "1 L orange juice"
//	<number>x<name>         "3x yogurt", "3xyogurt", "2 x tuna"
//	<number> <name>         "2 avocados"
//
// A fragment matching none of them is a single piece named by the whole text.
var FragmentRules = []FragmentRule{
	{
		Name:    "quantity-unit",
		Pattern: regexp.MustCompile(`^` + numberPattern + `\s*(\p{L}+)\s+(.+)$`),
		Extract: func(m []string) (Fragment, bool) {
			unit, ok := NormalizeUnit(m[2])
			if !ok {
				return Fragment{}, false
			}
			qty, ok := ParseNumber(m[1])
			if !ok {
				return Fragment{}, false
			}
			return Fragment{Quantity: qty, Unit: unit, Name: m[3]}, true
		},
	},
	{
		Name:    "multiplier",
		// Without a space after the x it must touch the number, so
		// "2 xmas cookies" stays a plain count.
		Pattern: regexp.MustCompile(`^` + numberPattern + `(?:\s*[xX×]\s+|[xX×])(\pL.*)$`),
		Extract: countExtractor,
	},
	{
		Name:    "count",
		Pattern: regexp.MustCompile(`^` + numberPattern + `\s+(.+)$`),
		Extract: countExtractor,
	},
}

func countExtractor(m []string) (Fragment, bool) {
	qty, ok := ParseNumber(m[1])
	if !ok {
		return Fragment{}, false
	}
	return Fragment{Quantity: qty, Unit: model.UnitPiece, Name: m[2]}, true
}

// ParseFragment parses text like "2kg apples" into name, quantity and unit
// using FragmentRules. It returns false when the fragment is empty, the
// cleaned name is empty, or the quantity is not positive.
func ParseFragment(text string) (Fragment, bool) {
	return ParseFragmentWith(FragmentRules, text)
}

// ParseFragmentWith is ParseFragment over a caller-supplied rule list.
func ParseFragmentWith(rules []FragmentRule, text string) (Fragment, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Fragment{}, false
	}

	frag := Fragment{Quantity: model.DefaultQuantity, Unit: model.UnitPiece, Name: text}
	for _, rule := range rules {
		m := rule.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if extracted, ok := rule.Extract(m); ok {
			frag = extracted
			break
		}
	}

	frag.Name = CleanName(frag.Name)
	if frag.Name == "" || frag.Quantity <= 0 {
		return Fragment{}, false
	}
	return frag, true
}
