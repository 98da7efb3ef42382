package pattern

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/smartshop/internal/model"
	"github.com/agnivade/levenshtein"
)

// Similarity thresholds for SimilarItems.
const (
	MinWordOverlap   = 0.3
	MinSpellingRatio = 0.8
	DefaultSimilar   = 5
)

type scoredName struct {
	name  string
	score float64
}

// SimilarItems returns up to limit previously bought item names that
// resemble name, most similar first. Two names are similar when their word
// sets overlap by more than MinWordOverlap (Jaccard) or their spelling is at
// least MinSpellingRatio alike, which catches OCR misspellings like "Chiken". The
// item itself is never returned.
func SimilarItems(name string, history []model.PurchaseRecord, limit int) []string {
	if limit <= 0 {
		limit = DefaultSimilar
	}
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return nil
	}

	seen := make(map[string]bool)
	var matches []scoredName
	for _, rec := range history {
		candidate := strings.TrimSpace(rec.ItemName)
		key := strings.ToLower(candidate)
		if key == "" || key == target || seen[key] {
			continue
		}
		seen[key] = true

		overlap := jaccard(target, key)
		spelling := spellingRatio(target, key)
		if overlap <= MinWordOverlap && spelling < MinSpellingRatio {
			continue
		}
		matches = append(matches, scoredName{name: candidate, score: max(overlap, spelling)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].name < matches[j].name
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.name
	}
	return names
}

func jaccard(a, b string) float64 {
	wa := wordSet(a)
	wb := wordSet(b)
	union := len(wa)
	shared := 0
	for w := range wb {
		if wa[w] {
			shared++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// spellingRatio is 1 minus the edit distance over the longer length.
func spellingRatio(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
