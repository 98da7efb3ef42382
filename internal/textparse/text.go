package textparse

import (
	"regexp"
	"strings"

	"github.com/Veraticus/smartshop/internal/model"
)

var (
	reLeadingVerb  = regexp.MustCompile(`(?i)^\s*(?:i\s+)?(?:just\s+)?(?:bought|purchased|got|add|buy|need|get)\s+`)
	reDecimalComma = regexp.MustCompile(`(\d),(\d)`)
	reItemSplit    = regexp.MustCompile(`(?i)\s*(?:[,;\n]|&|\band\b)\s*`)
)

// SplitFragments splits a purchase description such as
// "bought 2kg apples, milk and 1,5l juice" into item fragments.
func SplitFragments(text string) []string {
	text = reLeadingVerb.ReplaceAllString(text, "")
	// Protect decimal commas from the comma separator.
	text = reDecimalComma.ReplaceAllString(text, "$1.$2")

	parts := reItemSplit.Split(text, -1)
	fragments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			fragments = append(fragments, part)
		}
	}
	return fragments
}

// ParseText extracts every item mentioned in a free-text purchase
// description. Fragments that cannot be parsed are skipped.
func ParseText(text string) []model.ParsedItem {
	var items []model.ParsedItem
	for _, fragment := range SplitFragments(text) {
		if frag, ok := ParseFragment(fragment); ok {
			items = append(items, frag.Item())
		}
	}
	return items
}
