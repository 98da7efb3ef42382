// Package textparse turns free-form text fragments into quantities, units,
// prices and item names.
package textparse

import (
	"regexp"
	"strconv"
	"strings"
)

// currencySymbols are stripped before numeric parsing.
const currencySymbols = "$€£¥₹"

var (
	// A price is a currency-formatted number: an optional symbol followed by
	// a number with exactly two decimals. A grouped figure like "1,234.56"
	// only yields "234.56" here; that misread is a known limitation.
	rePrice = regexp.MustCompile(`([$€£¥₹])?\s?(\d+[.,]\d{2})\b`)

	rePlainNumber = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	reDigit       = regexp.MustCompile(`\d`)
)

// Price is a currency-formatted number found in a line of text.
type Price struct {
	Symbol string
	Value  float64
	Start  int
	End    int
}

// StripCurrency removes currency symbols from s.
func StripCurrency(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(currencySymbols, r) {
			return -1
		}
		return r
	}, s)
}

// ParseNumber parses a non-negative decimal number that may use either "."
// or "," as the decimal separator. When both appear, the comma is taken as a
// grouping mark and dropped.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(StripCurrency(s))
	if s == "" {
		return 0, false
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		s = strings.ReplaceAll(s, ",", "")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	if !rePlainNumber.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FindPrices returns every currency-formatted number in line, in order.
func FindPrices(line string) []Price {
	matches := rePrice.FindAllStringSubmatchIndex(line, -1)
	prices := make([]Price, 0, len(matches))
	for _, m := range matches {
		value, ok := ParseNumber(line[m[4]:m[5]])
		if !ok {
			continue
		}
		p := Price{Value: value, Start: m[0], End: m[1]}
		if m[2] >= 0 {
			p.Symbol = line[m[2]:m[3]]
		}
		prices = append(prices, p)
	}
	return prices
}

// LastPrice returns the value of the last currency-formatted number in line.
func LastPrice(line string) (float64, bool) {
	prices := FindPrices(line)
	if len(prices) == 0 {
		return 0, false
	}
	return prices[len(prices)-1].Value, true
}

// HasPrice reports whether line contains a currency-formatted number.
func HasPrice(line string) bool {
	return rePrice.MatchString(line)
}

// HasDigit reports whether s contains an ASCII digit.
func HasDigit(s string) bool {
	return reDigit.MatchString(s)
}
