package domain

import (
	"context"
	"fmt"
)

// StorageKind selects where a track's audio content lives.
type StorageKind string

const (
	// StorageHandle means content is re-read live through a capability
	// handle granted at import time. Handles do not survive a restart.
	StorageHandle StorageKind = "handle"

	// StorageBlob means content is embedded in the blob store and keyed
	// by the owning track's ID.
	StorageBlob StorageKind = "blob"
)

// Handle is a live reference to a source file granted for the current
// session. Ownership stays with the platform; Crate only holds the
// reference and never writes through it.
type Handle interface {
	// Path returns the source location the handle refers to.
	Path() string

	// Fetch reads the current content behind the handle. It fails when
	// access has been revoked or the source has moved.
	Fetch(ctx context.Context) ([]byte, error)
}

// Track is a single library entry.
type Track struct {
	ID          string   `json:"id"`   // Stable identifier, never reused
	Name        string   `json:"name"` // Source filename, not unique
	Size        int64    `json:"size"` // Byte length, informational
	Type        string   `json:"type"` // Content type, "audio/*" when unknown
	CreatedAt   int64    `json:"createdAt"`
	CategoryIDs []string `json:"categoryIds"` // Deduplicated on every mutation

	// Tag metadata, best-effort (empty when the file carries no tags)
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`

	Storage StorageKind `json:"storage"`

	// Handle is session-scoped and deliberately not persisted. After a
	// restart a handle-backed track degrades to the blob fallback.
	Handle Handle `json:"-"`
}

// DisplayName prefers tag metadata over the raw filename.
func (t *Track) DisplayName() string {
	if t.Artist != "" {
		return fmt.Sprintf("%s — %s", t.Artist, t.Name)
	}
	return t.Name
}

// InCategory reports whether the track belongs to the given category.
func (t *Track) InCategory(catID string) bool {
	for _, id := range t.CategoryIDs {
		if id == catID {
			return true
		}
	}
	return false
}

// AddCategory appends catID, keeping CategoryIDs deduplicated.
func (t *Track) AddCategory(catID string) {
	if t.InCategory(catID) {
		return
	}
	t.CategoryIDs = append(t.CategoryIDs, catID)
}

// RemoveCategory drops catID from CategoryIDs.
func (t *Track) RemoveCategory(catID string) {
	out := t.CategoryIDs[:0]
	for _, id := range t.CategoryIDs {
		if id != catID {
			out = append(out, id)
		}
	}
	t.CategoryIDs = out
}

// FormattedSize returns the track size in a human-readable format.
func (t *Track) FormattedSize() string {
	const mb = 1024 * 1024
	if t.Size <= 0 {
		return ""
	}
	if t.Size < mb {
		return fmt.Sprintf("%d KB", t.Size/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(t.Size)/float64(mb))
}

// Category is a user-named grouping of tracks ("folder" in the UI).
// Membership lives on the track side; no reverse index is persisted.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

// CategoryAll is the sentinel filter value meaning "no category filter".
const CategoryAll = "all"

// Capabilities reports which platform features the picker and importer
// may rely on. Implementations are selected once at startup, not probed
// at call sites.
type Capabilities interface {
	// Handles reports whether capability handles are supported. When
	// false every import is embedded into the blob store.
	Handles() bool
}
