package receipt

import (
	"regexp"
	"sort"
	"strconv"
	"time"
)

var (
	// 14/03/2024, 14.03.24, 3-14-2024
	reNumericDate = regexp.MustCompile(`\b(\d{1,2})[./-](\d{1,2})[./-](\d{2,4})\b`)
	// 2024-03-14
	reISODate = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
)

type dateMatch struct {
	parse func() (time.Time, bool)
	start int
}

// ExtractDate returns the first valid calendar date written in text.
// Numeric dates are read day-first, falling back to month-first when the
// day-first reading is not a real date. Two-digit years are in the 2000s.
func ExtractDate(text string) (time.Time, bool) {
	var matches []dateMatch
	for _, m := range reNumericDate.FindAllStringSubmatchIndex(text, -1) {
		a, b, y := text[m[2]:m[3]], text[m[4]:m[5]], text[m[6]:m[7]]
		matches = append(matches, dateMatch{start: m[0], parse: func() (time.Time, bool) {
			year, ok := parseYear(y)
			if !ok {
				return time.Time{}, false
			}
			if t, ok := makeDate(year, atoi(b), atoi(a)); ok {
				return t, true
			}
			return makeDate(year, atoi(a), atoi(b))
		}})
	}
	for _, m := range reISODate.FindAllStringSubmatchIndex(text, -1) {
		y, mo, d := text[m[2]:m[3]], text[m[4]:m[5]], text[m[6]:m[7]]
		matches = append(matches, dateMatch{start: m[0], parse: func() (time.Time, bool) {
			return makeDate(atoi(y), atoi(mo), atoi(d))
		}})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].start < matches[j].start })
	for _, m := range matches {
		if t, ok := m.parse(); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// stripDates blanks out every date-looking substring of text.
func stripDates(text string) string {
	text = reISODate.ReplaceAllString(text, " ")
	return reNumericDate.ReplaceAllString(text, " ")
}

func parseYear(s string) (int, bool) {
	switch len(s) {
	case 2:
		return 2000 + atoi(s), true
	case 4:
		return atoi(s), true
	default:
		return 0, false
	}
}

func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
