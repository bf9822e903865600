package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/mmcdole/marquee/internal/domain"
)

// DefaultNamespace names the favorites file
const DefaultNamespace = "favorites"

// FileStore implements domain.FavoritesPersister as a JSON file.
// Writes go to a temporary file that is renamed over the target.
type FileStore struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewFileStore stores favorites in dir/<namespace>.json on fsys
func NewFileStore(fsys afero.Fs, dir, namespace string) (*FileStore, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{fs: fsys, path: filepath.Join(dir, namespace+".json")}, nil
}

// Path returns the file the collection is written to
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored favorites, nil when the file does not exist
func (s *FileStore) Load() ([]domain.MovieSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}
	movies, err := decodeMovies(data)
	if err != nil {
		// Reset so the next save starts clean
		s.fs.Remove(s.path)
		return nil, err
	}
	return movies, nil
}

// Save replaces the stored favorites atomically
func (s *FileStore) Save(movies []domain.MovieSummary) error {
	data, err := json.MarshalIndent(movies, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write favorites: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("failed to replace favorites: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
