// Package search filters and ranks library tracks by name.
package search

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"

	"github.com/kmaier/crate/internal/domain"
)

// Filter returns the tracks whose display name, artist, or album
// fuzzily matches query, preserving the input order. An empty or
// whitespace-only query matches everything.
func Filter(query string, tracks []*domain.Track) []*domain.Track {
	q := strings.TrimSpace(query)
	if q == "" {
		return tracks
	}
	out := make([]*domain.Track, 0, len(tracks))
	for _, t := range tracks {
		if matches(q, t) {
			out = append(out, t)
		}
	}
	return out
}

func matches(query string, t *domain.Track) bool {
	if fuzzy.MatchNormalizedFold(query, t.DisplayName()) {
		return true
	}
	if t.Artist != "" && fuzzy.MatchNormalizedFold(query, t.Artist) {
		return true
	}
	if t.Album != "" && fuzzy.MatchNormalizedFold(query, t.Album) {
		return true
	}
	return false
}

// trackSource adapts a track slice for ranked matching.
type trackSource []*domain.Track

func (s trackSource) String(i int) string { return s[i].DisplayName() }
func (s trackSource) Len() int            { return len(s) }

// Rank returns the indexes of the tracks that match query, best match
// first. Used for jump-to-track in the UI, where relevance ordering
// beats list ordering.
func Rank(query string, tracks []*domain.Track) []int {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	ranked := sahilm.FindFrom(q, trackSource(tracks))
	out := make([]int, 0, len(ranked))
	for _, m := range ranked {
		out = append(out, m.Index)
	}
	return out
}
