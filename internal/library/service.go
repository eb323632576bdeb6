// Package library owns the in-memory application state: the track and
// category collections, the active filter, and the selection. All
// mutations go through the store and end with a full re-read, so the
// in-memory view never drifts from what is persisted.
package library

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kmaier/crate/internal/audiofile"
	"github.com/kmaier/crate/internal/domain"
)

// FavoritesName is the category seeded into an empty library.
const FavoritesName = "Favorites"

// importedName is the category for folder-picked files that sit at the
// root of the picked folder.
const importedName = "Imported"

// Service orchestrates picker, store, and view state.
type Service struct {
	store  domain.Store
	picker audiofile.Picker
	caps   domain.Capabilities
	logger *slog.Logger

	mu         sync.RWMutex
	tracks     []*domain.Track
	categories []*domain.Category
	active     string          // Category filter, domain.CategoryAll when off
	query      string          // Text filter
	selected   map[string]bool // Track IDs

	// Capability handles granted this session, keyed by track ID. They
	// are re-attached after every store re-read since the store never
	// holds them.
	handles map[string]domain.Handle
}

// NewService creates a library service. The store must already be open.
func NewService(store domain.Store, picker audiofile.Picker, caps domain.Capabilities, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		picker:   picker,
		caps:     caps,
		logger:   logger,
		active:   domain.CategoryAll,
		selected: make(map[string]bool),
		handles:  make(map[string]domain.Handle),
	}
}

// Load populates the in-memory state from the store. A library with no
// categories gets the Favorites category seeded.
func (s *Service) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refreshLocked(); err != nil {
		return err
	}
	if len(s.categories) == 0 {
		fav := &domain.Category{
			ID:        uuid.NewString(),
			Name:      FavoritesName,
			CreatedAt: time.Now().UnixMilli(),
		}
		if err := s.store.PutCategory(fav); err != nil {
			s.logger.Error("failed to seed favorites category", "error", err)
			return err
		}
		s.logger.Debug("seeded favorites category", "id", fav.ID)
		return s.refreshLocked()
	}
	s.logger.Debug("library loaded", "tracks", len(s.tracks), "categories", len(s.categories))
	return nil
}

// refreshLocked re-reads both collections from the store and restores
// session handles. Caller holds mu.
func (s *Service) refreshLocked() error {
	tracks, err := s.store.Tracks()
	if err != nil {
		s.logger.Error("failed to load tracks", "error", err)
		return err
	}
	categories, err := s.store.Categories()
	if err != nil {
		s.logger.Error("failed to load categories", "error", err)
		return err
	}

	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].CreatedAt != tracks[j].CreatedAt {
			return tracks[i].CreatedAt < tracks[j].CreatedAt
		}
		return tracks[i].ID < tracks[j].ID
	})
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].CreatedAt != categories[j].CreatedAt {
			return categories[i].CreatedAt < categories[j].CreatedAt
		}
		return categories[i].ID < categories[j].ID
	})

	for _, t := range tracks {
		if h, ok := s.handles[t.ID]; ok {
			t.Handle = h
		}
	}

	s.tracks = tracks
	s.categories = categories

	// Drop selections pointing at tracks that no longer exist.
	byID := make(map[string]bool, len(tracks))
	for _, t := range tracks {
		byID[t.ID] = true
	}
	for id := range s.selected {
		if !byID[id] {
			delete(s.selected, id)
		}
	}
	return nil
}

// Persist asks the store to flush to stable media. Best-effort.
func (s *Service) Persist() {
	if err := s.store.Persist(); err != nil {
		s.logger.Warn("persist request failed", "error", err)
	}
}
