package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kmaier/crate/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketTracks     = []byte("tracks")
	bucketCategories = []byte("categories")
	bucketBlobs      = []byte("blobs")
)

// LibraryStore implements domain.Store using BoltDB. Track and category
// values are JSON-encoded; blobs are stored as raw bytes under the
// owning track's ID.
type LibraryStore struct {
	db *bolt.DB
}

// Open opens (or creates) the library database under dataDir. Bucket
// creation is idempotent, so reopening an initialized database is a
// no-op schema-wise.
func Open(dataDir string) (*LibraryStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "crate.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketTracks, bucketCategories, bucketBlobs} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &LibraryStore{db: db}, nil
}

func (s *LibraryStore) Close() error {
	return s.db.Close()
}

// Persist flushes the database file to stable media. Best-effort; the
// caller decides whether a failure matters.
func (s *LibraryStore) Persist() error {
	return s.db.Sync()
}

// === Generic helpers ===

func (s *LibraryStore) putJSON(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *LibraryStore) delete(bucket []byte, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
}

// === Tracks ===

func (s *LibraryStore) PutTrack(t *domain.Track) error {
	return s.putJSON(bucketTracks, t.ID, t)
}

func (s *LibraryStore) Tracks() ([]*domain.Track, error) {
	tracks := make([]*domain.Track, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTracks).ForEach(func(k, v []byte) error {
			var t domain.Track
			if err := json.Unmarshal(v, &t); err != nil {
				return fmt.Errorf("corrupt track record %q: %w", k, err)
			}
			tracks = append(tracks, &t)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

// DeleteTracks removes tracks by ID. Blobs cascade in the same
// transaction so a deleted track never leaks its embedded content.
func (s *LibraryStore) DeleteTracks(ids []string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		tracks := tx.Bucket(bucketTracks)
		blobs := tx.Bucket(bucketBlobs)
		for _, id := range ids {
			if err := tracks.Delete([]byte(id)); err != nil {
				return err
			}
			if err := blobs.Delete([]byte(id)); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Categories ===

func (s *LibraryStore) PutCategory(c *domain.Category) error {
	return s.putJSON(bucketCategories, c.ID, c)
}

func (s *LibraryStore) Categories() ([]*domain.Category, error) {
	cats := make([]*domain.Category, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCategories).ForEach(func(k, v []byte) error {
			var c domain.Category
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("corrupt category record %q: %w", k, err)
			}
			cats = append(cats, &c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return cats, nil
}

func (s *LibraryStore) DeleteCategory(id string) error {
	return s.delete(bucketCategories, id)
}

// === Blobs ===

func (s *LibraryStore) PutBlob(id string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBlobs).Put([]byte(id), data)
	})
}

func (s *LibraryStore) Blob(id string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketBlobs).Get([]byte(id))
		if v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, domain.ErrBlobNotFound
	}
	return data, nil
}

func (s *LibraryStore) DeleteBlob(id string) error {
	return s.delete(bucketBlobs, id)
}
