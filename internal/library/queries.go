package library

import (
	"github.com/kmaier/crate/internal/domain"
	"github.com/kmaier/crate/internal/search"
)

// Tracks returns every track, ordered by creation time.
func (s *Service) Tracks() []*domain.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracks
}

// Categories returns every category, ordered by creation time.
func (s *Service) Categories() []*domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

// TrackByID returns the track with the given ID, or nil.
func (s *Service) TrackByID(id string) *domain.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tracks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Filtered returns the visible track list: the category filter applied
// first, then the text filter, order preserved. This is the list the
// player advances through.
func (s *Service) Filtered() []*domain.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filteredLocked()
}

func (s *Service) filteredLocked() []*domain.Track {
	visible := s.tracks
	if s.active != domain.CategoryAll {
		visible = make([]*domain.Track, 0, len(s.tracks))
		for _, t := range s.tracks {
			if t.InCategory(s.active) {
				visible = append(visible, t)
			}
		}
	}
	return search.Filter(s.query, visible)
}

// ActiveCategory returns the current category filter, domain.CategoryAll
// when no filter is on.
func (s *Service) ActiveCategory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActiveCategory switches the category filter. Unknown IDs reset the
// filter to "all".
func (s *Service) SetActiveCategory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != domain.CategoryAll {
		found := false
		for _, c := range s.categories {
			if c.ID == id {
				found = true
				break
			}
		}
		if !found {
			id = domain.CategoryAll
		}
	}
	s.active = id
}

// Query returns the current text filter.
func (s *Service) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// SetQuery updates the text filter.
func (s *Service) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// CategoryCount returns how many tracks belong to the category, or the
// total track count for domain.CategoryAll.
func (s *Service) CategoryCount(catID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if catID == domain.CategoryAll {
		return len(s.tracks)
	}
	n := 0
	for _, t := range s.tracks {
		if t.InCategory(catID) {
			n++
		}
	}
	return n
}

// ToggleSelect flips a track's selection state.
func (s *Service) ToggleSelect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected[id] {
		delete(s.selected, id)
	} else {
		s.selected[id] = true
	}
}

// IsSelected reports whether a track is selected.
func (s *Service) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected[id]
}

// SelectAll selects every currently visible track. When all visible
// tracks are already selected it clears the selection instead.
func (s *Service) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := s.filteredLocked()
	all := len(visible) > 0
	for _, t := range visible {
		if !s.selected[t.ID] {
			all = false
			break
		}
	}
	if all {
		s.selected = make(map[string]bool)
		return
	}
	for _, t := range visible {
		s.selected[t.ID] = true
	}
}

// ClearSelection deselects everything.
func (s *Service) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]bool)
}

// SelectionCount returns the number of selected tracks.
func (s *Service) SelectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected)
}
