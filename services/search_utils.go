package services

import (
	"regexp"
	"strings"
)

var (
	andWord    = regexp.MustCompile(`(?i)\band\b`)
	whitespace = regexp.MustCompile(`\s+`)
)

// ExpandSearchQuery returns the query plus its "&"/"and" spellings, so
// "fast & furious" also finds "Fast and Furious" and the reverse.
func ExpandSearchQuery(query string) []string {
	query = whitespace.ReplaceAllString(strings.TrimSpace(query), " ")
	variants := []string{query}

	add := func(v string) {
		for _, existing := range variants {
			if strings.EqualFold(existing, v) {
				return
			}
		}
		variants = append(variants, v)
	}

	if strings.Contains(query, "&") {
		add(strings.ReplaceAll(query, "&", "and"))
	}
	if andWord.MatchString(query) {
		add(andWord.ReplaceAllString(query, "&"))
	}
	return variants
}
