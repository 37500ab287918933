package services

import (
	"sort"
	"strings"
	"unicode"

	"Marquee/models"

	"golang.org/x/text/cases"
)

// MatchPriority orders ranked search hits. Higher is better.
type MatchPriority int

const (
	MatchNone MatchPriority = iota
	MatchOverview
	MatchSubsequence
	MatchContains
	MatchWordStart
	MatchPrefix
)

type RankedMovie struct {
	models.Movie
	MatchPriority MatchPriority `json:"matchPriority"`
}

var folder = cases.Fold()

func fold(s string) string {
	return folder.String(s)
}

// matchPriority scores a movie against an already folded query. The first
// rule that matches wins.
func matchPriority(m models.Movie, query string) MatchPriority {
	if query == "" {
		return MatchNone
	}
	title := fold(m.Title)

	switch {
	case strings.HasPrefix(title, query):
		return MatchPrefix
	case hasWordStart(title, query):
		return MatchWordStart
	case strings.Contains(title, query):
		return MatchContains
	case isSubsequence(title, query):
		return MatchSubsequence
	case strings.Contains(fold(m.Overview), query):
		return MatchOverview
	}
	return MatchNone
}

// hasWordStart reports whether query occurs in s right after a
// non-alphanumeric rune.
func hasWordStart(s, query string) bool {
	for i := 0; i < len(s); {
		j := strings.Index(s[i:], query)
		if j < 0 {
			return false
		}
		at := i + j
		if at > 0 {
			prev := []rune(s[:at])
			r := prev[len(prev)-1]
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				return true
			}
		}
		i = at + 1
	}
	return false
}

// isSubsequence reports whether the runes of query appear in s in order.
func isSubsequence(s, query string) bool {
	q := []rune(query)
	if len(q) == 0 {
		return true
	}
	k := 0
	for _, r := range s {
		if r == q[k] {
			k++
			if k == len(q) {
				return true
			}
		}
	}
	return false
}

// RankMovies scores candidates against query and returns the best limit hits,
// ordered by priority, popularity, then rating. Candidates that match nothing
// are kept at MatchNone and sort last.
func RankMovies(candidates []models.Movie, query string, limit int) []RankedMovie {
	q := fold(strings.TrimSpace(query))
	ranked := make([]RankedMovie, 0, len(candidates))
	for _, m := range candidates {
		ranked = append(ranked, RankedMovie{Movie: m, MatchPriority: matchPriority(m, q)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.MatchPriority != b.MatchPriority {
			return a.MatchPriority > b.MatchPriority
		}
		if a.Popularity != b.Popularity {
			return a.Popularity > b.Popularity
		}
		if a.VoteAverage != b.VoteAverage {
			return a.VoteAverage > b.VoteAverage
		}
		return a.ID < b.ID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
