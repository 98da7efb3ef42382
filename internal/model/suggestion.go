package model

import "sort"

// MaxSuggestionsPerCategory caps each category's suggestion list.
const MaxSuggestionsPerCategory = 5

// Suggestion recommends an item for the user's next shopping list.
type Suggestion struct {
	ItemName   string  `json:"item_name"`
	Category   string  `json:"category"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// SuggestionGroups maps a category to its suggestions, sorted by descending
// confidence.
type SuggestionGroups map[string][]Suggestion

// Categories returns the group keys ordered by their best suggestion's
// confidence, then by name.
func (g SuggestionGroups) Categories() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		bi, bj := g.best(names[i]), g.best(names[j])
		if bi != bj {
			return bi > bj
		}
		return names[i] < names[j]
	})
	return names
}

// Len returns the total number of suggestions across all categories.
func (g SuggestionGroups) Len() int {
	n := 0
	for _, items := range g {
		n += len(items)
	}
	return n
}

// Flatten returns every suggestion in category order.
func (g SuggestionGroups) Flatten() []Suggestion {
	out := make([]Suggestion, 0, g.Len())
	for _, cat := range g.Categories() {
		out = append(out, g[cat]...)
	}
	return out
}

func (g SuggestionGroups) best(category string) float64 {
	items := g[category]
	if len(items) == 0 {
		return 0
	}
	return items[0].Confidence
}
