package favorites

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/marquee/internal/domain"
)

// Match is a favorite matching a filter query
type Match struct {
	Movie          domain.MovieSummary
	MatchedIndexes []int // Byte offsets into the normalized title
	Score          int   // Higher is better
}

// titleIndex implements fuzzy.Source over normalized titles
type titleIndex struct {
	titles []string
}

func (idx *titleIndex) String(i int) string { return idx.titles[i] }

func (idx *titleIndex) Len() int { return len(idx.titles) }

// normalize lowercases s and transliterates it to ASCII so that
// "amelie" matches "Amélie"
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(s)))
}

// Filter returns the favorites whose titles fuzzy-match query, best
// first. An empty query returns every favorite in insertion order.
func (s *Store) Filter(query string) []Match {
	movies := s.List()
	query = normalize(query)
	if query == "" {
		matches := make([]Match, len(movies))
		for i, m := range movies {
			matches[i] = Match{Movie: m}
		}
		return matches
	}

	idx := &titleIndex{titles: make([]string, len(movies))}
	for i, m := range movies {
		idx.titles[i] = normalize(m.Title)
	}

	found := fuzzy.FindFrom(query, idx)
	matches := make([]Match, len(found))
	for i, f := range found {
		matches[i] = Match{
			Movie:          movies[f.Index],
			MatchedIndexes: f.MatchedIndexes,
			Score:          f.Score,
		}
	}
	return matches
}
