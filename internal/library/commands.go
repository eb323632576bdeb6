package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmaier/crate/internal/audiofile"
	"github.com/kmaier/crate/internal/domain"
)

// ErrEmptyCategoryName rejects blank category names.
var ErrEmptyCategoryName = errors.New("category name is empty")

// ImportFiles picks the given paths and imports the accepted ones.
// Imported tracks join the active category when a category filter is
// on. Returns the IDs of the created tracks in import order; files
// whose content cannot be read are skipped, not fatal.
func (s *Service) ImportFiles(ctx context.Context, paths []string) ([]string, error) {
	picked, err := s.picker.PickFiles(ctx, paths)
	if err != nil {
		s.logger.Error("file pick failed", "error", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var extra []string
	if s.active != domain.CategoryAll {
		extra = []string{s.active}
	}
	ids, importErr := s.importPickedLocked(ctx, picked, func(audiofile.PickedFile) []string { return extra })
	if err := s.refreshLocked(); err != nil {
		return ids, err
	}
	if importErr != nil {
		return ids, importErr
	}
	s.logger.Info("imported files", "picked", len(picked), "created", len(ids))
	return ids, nil
}

// ImportFolder walks dir and imports every accepted audio file, grouped
// into categories named after each file's immediate parent directory.
// Files at the folder root land in the "Imported" category. Returns the
// IDs of the created tracks.
func (s *Service) ImportFolder(ctx context.Context, dir string) ([]string, error) {
	picked, err := s.picker.PickFolder(ctx, dir)
	if err != nil {
		s.logger.Error("folder pick failed", "error", err, "dir", dir)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make(map[string]string) // category name -> ID, per import batch
	ids, importErr := s.importPickedLocked(ctx, picked, func(pf audiofile.PickedFile) []string {
		name := groupName(pf.RelPath)
		catID, ok := groups[name]
		if !ok {
			cat, err := s.findOrCreateCategoryLocked(name)
			if err != nil {
				s.logger.Warn("failed to create folder category", "error", err, "name", name)
				return nil
			}
			catID = cat.ID
			groups[name] = catID
		}
		return []string{catID}
	})
	if err := s.refreshLocked(); err != nil {
		return ids, err
	}
	if importErr != nil {
		return ids, importErr
	}
	s.logger.Info("imported folder", "dir", dir, "picked", len(picked), "created", len(ids))
	return ids, nil
}

// importPickedLocked turns picked files into persisted tracks. For each
// file the blob (when needed) is written before the track record, so a
// crash in between leaves an orphaned blob rather than a track without
// content. Unreadable source files are skipped; store write failures
// abort the batch and surface, with prior items staying persisted.
// Caller holds mu.
func (s *Service) importPickedLocked(ctx context.Context, picked []audiofile.PickedFile, categorize func(audiofile.PickedFile) []string) ([]string, error) {
	ids := make([]string, 0, len(picked))
	for _, pf := range picked {
		if ctx.Err() != nil {
			break
		}

		tags := audiofile.ReadTags(pf.Path)
		t := &domain.Track{
			ID:        uuid.NewString(),
			Name:      pf.Name,
			Size:      pf.Size,
			Type:      contentType(pf.Type),
			CreatedAt: time.Now().UnixMilli(),
			Artist:    tags.Artist,
			Album:     tags.Album,
		}

		useHandle := pf.Handle != nil && s.caps.Handles()
		var data []byte
		if !useHandle {
			var err error
			data, err = readContent(ctx, pf)
			if err != nil {
				s.logger.Warn("skipping unreadable import", "error", err, "name", pf.Name)
				continue
			}
		}

		for _, catID := range categorize(pf) {
			t.AddCategory(catID)
		}

		if useHandle {
			t.Storage = domain.StorageHandle
			t.Handle = pf.Handle
		} else {
			if err := s.store.PutBlob(t.ID, data); err != nil {
				s.logger.Error("failed to save track content", "error", err, "name", pf.Name)
				return ids, fmt.Errorf("save content for %s: %w", pf.Name, err)
			}
			t.Storage = domain.StorageBlob
		}
		if err := s.store.PutTrack(t); err != nil {
			s.logger.Error("failed to save track", "error", err, "name", pf.Name)
			return ids, fmt.Errorf("save track %s: %w", pf.Name, err)
		}
		if t.Handle != nil {
			s.handles[t.ID] = t.Handle
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func readContent(ctx context.Context, pf audiofile.PickedFile) ([]byte, error) {
	if pf.Handle != nil {
		return pf.Handle.Fetch(ctx)
	}
	return os.ReadFile(pf.Path)
}

func contentType(declared string) string {
	if declared == "" {
		return "audio/*"
	}
	return declared
}

// groupName maps a walk-relative path to its category name: the
// immediate parent directory, or "Imported" at the folder root.
func groupName(relPath string) string {
	dir := filepath.Dir(relPath)
	if dir == "." || dir == "" {
		return importedName
	}
	return filepath.Base(dir)
}

// CreateCategory adds a new category with the given name.
func (s *Service) CreateCategory(name string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.findOrCreateCategoryLocked(name)
	if err != nil {
		return nil, err
	}
	if err := s.refreshLocked(); err != nil {
		return cat, err
	}
	return cat, nil
}

// findOrCreateCategoryLocked returns the category with the exact given
// name, creating it if absent. Caller holds mu.
func (s *Service) findOrCreateCategoryLocked(name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCategoryName
	}
	for _, c := range s.categories {
		if c.Name == name {
			return c, nil
		}
	}
	cat := &domain.Category{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.store.PutCategory(cat); err != nil {
		return nil, err
	}
	s.categories = append(s.categories, cat)
	s.logger.Debug("created category", "id", cat.ID, "name", cat.Name)
	return cat, nil
}

// DeleteCategory removes a category, detaches it from every track, and
// resets the filter to "all" when the deleted category was active.
// Tracks themselves are never deleted by this operation.
func (s *Service) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tracks {
		if !t.InCategory(id) {
			continue
		}
		t.RemoveCategory(id)
		if err := s.store.PutTrack(t); err != nil {
			s.logger.Error("failed to detach category from track", "error", err, "trackID", t.ID)
		}
	}
	if err := s.store.DeleteCategory(id); err != nil {
		s.logger.Error("failed to delete category", "error", err, "id", id)
		return err
	}
	if s.active == id {
		s.active = domain.CategoryAll
	}
	return s.refreshLocked()
}

// AddSelectedToCategory attaches every selected track to the category.
func (s *Service) AddSelectedToCategory(catID string) error {
	return s.updateSelected(func(t *domain.Track) { t.AddCategory(catID) })
}

// RemoveSelectedFromCategory detaches every selected track from the
// category.
func (s *Service) RemoveSelectedFromCategory(catID string) error {
	return s.updateSelected(func(t *domain.Track) { t.RemoveCategory(catID) })
}

func (s *Service) updateSelected(mutate func(*domain.Track)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tracks {
		if !s.selected[t.ID] {
			continue
		}
		mutate(t)
		if err := s.store.PutTrack(t); err != nil {
			s.logger.Error("failed to update track", "error", err, "trackID", t.ID)
			return err
		}
	}
	// A filed or unfiled batch is done; the selection does not linger.
	s.selected = make(map[string]bool)
	return s.refreshLocked()
}

// DeleteSelected removes the selected tracks and their blobs, then
// clears the selection.
func (s *Service) DeleteSelected() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.store.DeleteTracks(ids); err != nil {
		s.logger.Error("failed to delete tracks", "error", err, "count", len(ids))
		return err
	}
	for _, id := range ids {
		delete(s.handles, id)
		delete(s.selected, id)
	}
	s.logger.Info("deleted tracks", "count", len(ids))
	return s.refreshLocked()
}
