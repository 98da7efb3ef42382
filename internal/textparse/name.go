package textparse

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var reLeadingArticle = regexp.MustCompile(`(?i)^(?:a|an|the|some|of)\s+`)

// CleanName collapses whitespace, strips leading articles ("a", "an", "the",
// "some", "of") and title-cases the result. It returns "" when nothing
// readable remains.
func CleanName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	for {
		stripped := reLeadingArticle.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}
	s = strings.TrimSpace(s)
	if !HasLetter(s) {
		return ""
	}
	// Casers keep internal state, so each call gets its own.
	return cases.Title(language.English).String(s)
}

// HasLetter reports whether s contains at least one letter.
func HasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
