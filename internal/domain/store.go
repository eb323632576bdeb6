package domain

// Store is the persistent storage layer: three collections keyed by
// opaque identifiers, surviving process restarts. Each operation is
// atomic at single-entity granularity; multi-entity sequences issued by
// callers are not atomic as a batch and callers must tolerate partial
// application.
type Store interface {
	// === Tracks ===
	PutTrack(t *Track) error
	Tracks() ([]*Track, error)
	// DeleteTracks removes tracks by ID and cascades to their blobs.
	DeleteTracks(ids []string) error

	// === Categories ===
	PutCategory(c *Category) error
	Categories() ([]*Category, error)
	DeleteCategory(id string) error

	// === Blobs (keyed by owning track ID) ===
	PutBlob(id string, data []byte) error
	// Blob returns ErrBlobNotFound for unknown IDs.
	Blob(id string) ([]byte, error)
	DeleteBlob(id string) error

	// Persist asks the platform to flush the store to stable media.
	// Best-effort; callers may ignore the error.
	Persist() error

	Close() error
}
