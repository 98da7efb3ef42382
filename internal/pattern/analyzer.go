package pattern

import (
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
)

// MinFrequency is the number of purchases an item needs before it forms a
// pattern. A single purchase carries no periodicity signal.
const MinFrequency = 2

const day = 24 * time.Hour

type group struct {
	pattern model.PurchasePattern
	order   int
}

// Analyze aggregates records into one pattern per item and category. Item
// names are grouped case-insensitively and the first spelling seen is kept.
// Only items bought at least MinFrequency times are returned, ordered by
// frequency, most frequent first.
func Analyze(records []model.PurchaseRecord, now time.Time) []model.PurchasePattern {
	groups := make(map[string]*group)
	for _, rec := range records {
		name := strings.TrimSpace(rec.ItemName)
		if name == "" {
			continue
		}
		category := strings.ToLower(strings.TrimSpace(rec.Category))
		if category == "" {
			category = model.CategoryOther
		}

		key := strings.ToLower(name) + "\x00" + category
		g, ok := groups[key]
		if !ok {
			g = &group{
				order: len(groups),
				pattern: model.PurchasePattern{
					ItemName:  name,
					Category:  category,
					FirstSeen: rec.PurchaseDate,
					LastSeen:  rec.PurchaseDate,
				},
			}
			groups[key] = g
		}

		g.pattern.Frequency++
		if rec.PurchaseDate.Before(g.pattern.FirstSeen) {
			g.pattern.FirstSeen = rec.PurchaseDate
		}
		if rec.PurchaseDate.After(g.pattern.LastSeen) {
			g.pattern.LastSeen = rec.PurchaseDate
		}
	}

	kept := make([]*group, 0, len(groups))
	for _, g := range groups {
		if g.pattern.Frequency < MinFrequency {
			continue
		}
		p := &g.pattern
		p.AvgIntervalDays = float64(wholeDays(p.LastSeen.Sub(p.FirstSeen))) / float64(p.Frequency-1)
		p.DaysSinceLast = wholeDays(now.Sub(p.LastSeen))
		kept = append(kept, g)
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].pattern.Frequency != kept[j].pattern.Frequency {
			return kept[i].pattern.Frequency > kept[j].pattern.Frequency
		}
		return kept[i].order < kept[j].order
	})

	patterns := make([]model.PurchasePattern, len(kept))
	for i, g := range kept {
		patterns[i] = g.pattern
	}
	return patterns
}

// wholeDays counts complete 24h periods in d. Negative spans count as zero.
func wholeDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / day)
}
