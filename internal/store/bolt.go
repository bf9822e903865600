// Package store persists the favorites collection.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/marquee/internal/domain"
)

const (
	dbFileName = "marquee.db"

	// FavoritesKey is the fixed key the collection is stored under
	FavoritesKey = "favorites:v1"
)

var bucketFavorites = []byte("favorites")

// BoltStore implements domain.FavoritesPersister using BoltDB.
type BoltStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// Encoded values by bucket:key, written through on every save
	cache map[string][]byte
}

// NewBoltStore opens marquee.db inside dir. An empty dir keeps
// everything in memory.
func NewBoltStore(dir string) (*BoltStore, error) {
	if dir == "" {
		// Memory-only mode (no persistence)
		return &BoltStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, dbFileName)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFavorites)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the stored favorites, nil when nothing was stored yet
func (s *BoltStore) Load() ([]domain.MovieSummary, error) {
	data, err := s.get(bucketFavorites, FavoritesKey)
	if err != nil || data == nil {
		return nil, err
	}
	movies, err := decodeMovies(data)
	if err != nil {
		// Reset so the next save starts clean
		s.delete(bucketFavorites, FavoritesKey)
		return nil, err
	}
	return movies, nil
}

// Save replaces the stored favorites
func (s *BoltStore) Save(movies []domain.MovieSummary) error {
	data, err := json.Marshal(movies)
	if err != nil {
		return err
	}
	return s.set(bucketFavorites, FavoritesKey, data)
}

// === Generic helpers ===

func (s *BoltStore) get(bucket []byte, key string) ([]byte, error) {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return data, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", cacheKey, err)
	}
	if data == nil {
		return nil, nil
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return data, nil
}

func (s *BoltStore) set(bucket []byte, key string, data []byte) error {
	cacheKey := string(bucket) + ":" + key

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			b, err := tx.CreateBucketIfNotExists(bucket)
			if err != nil {
				return err
			}
			return b.Put([]byte(key), data)
		})
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", cacheKey, err)
		}
	}

	// Cache only what was written
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()
	return nil
}

func (s *BoltStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// decodeMovies decodes a stored collection, wrapping failures in ErrCorruptData
func decodeMovies(data []byte) ([]domain.MovieSummary, error) {
	var movies []domain.MovieSummary
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptData, err)
	}
	return movies, nil
}
