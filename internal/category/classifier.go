// Package category assigns items to categories using a keyword-weighted table.
package category

import (
	"strings"
	"unicode"

	"github.com/Veraticus/smartshop/internal/model"
)

// Keyword match weights. Only the best rule per keyword counts.
const (
	ScoreExact     = 10
	ScoreWord      = 7
	ScoreSubstring = 5
)

// KeywordScore scores a single keyword against an item name. Both are
// compared case-insensitively.
func KeywordScore(itemName, keyword string) int {
	name := strings.ToLower(strings.TrimSpace(itemName))
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if name == "" || kw == "" {
		return 0
	}

	switch {
	case name == kw:
		return ScoreExact
	case containsWord(name, kw):
		return ScoreWord
	case strings.Contains(name, kw):
		return ScoreSubstring
	default:
		return 0
	}
}

// Score sums KeywordScore over keywords.
func Score(itemName string, keywords []string) int {
	total := 0
	for _, kw := range keywords {
		total += KeywordScore(itemName, kw)
	}
	return total
}

// Classify returns the table category whose keywords score highest for
// itemName. Ties go to the category that appears first in the table. When
// nothing scores, or the table is empty, the result is model.CategoryOther.
func Classify(itemName string, table model.KeywordTable) string {
	best := model.CategoryOther
	bestScore := 0
	for _, entry := range table {
		if score := Score(itemName, entry.Keywords); score > bestScore {
			best = entry.Category
			bestScore = score
		}
	}
	return best
}

// Tag returns a copy of items with each item's category assigned.
func Tag(items []model.ParsedItem, table model.KeywordTable) []model.ParsedItem {
	tagged := make([]model.ParsedItem, len(items))
	for i, item := range items {
		tagged[i] = item.WithCategory(Classify(item.Name, table))
	}
	return tagged
}

// containsWord reports whether word occurs in s delimited by non-alphanumeric
// characters or the string edges.
func containsWord(s, word string) bool {
	for offset := 0; offset <= len(s)-len(word); {
		idx := strings.Index(s[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		if isBoundary(s, start-1) && isBoundary(s, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	r := rune(s[i])
	if r >= 0x80 {
		// Inside a multi-byte rune; treat as part of a word.
		return false
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}
