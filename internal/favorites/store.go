// Package favorites maintains the saved-movies collection shared by all views.
package favorites

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// ErrMissingID is returned when adding a movie without an ID
var ErrMissingID = errors.New("favorite has no id")

// ChangeKind identifies a mutation of the collection
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
)

func (k ChangeKind) String() string {
	if k == Added {
		return "added"
	}
	return "removed"
}

// Change describes a committed mutation. Warning is set when the
// collection could not be persisted; the mutation is kept regardless.
type Change struct {
	Kind    ChangeKind
	Movie   domain.MovieSummary
	Warning error
}

type listener struct {
	id int
	fn func(Change)
}

// Store is the favorites collection: ordered by insertion, unique by ID,
// written through to a persister. All methods are safe for concurrent use.
type Store struct {
	persister domain.FavoritesPersister
	logger    *slog.Logger

	saveMu sync.Mutex // Serializes writes to the persister

	mu        sync.RWMutex
	movies    []domain.MovieSummary
	index     map[string]int // ID -> position in movies
	listeners []listener
	nextID    int
	dirty     bool // Set when the last save failed
}

// Open loads the collection from p. Missing data yields an empty
// collection; unreadable data is logged and also yields an empty one.
// A nil persister keeps favorites in memory only.
func Open(p domain.FavoritesPersister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		persister: p,
		logger:    logger,
		index:     make(map[string]int),
	}
	if p == nil {
		return s
	}

	movies, err := p.Load()
	switch {
	case errors.Is(err, domain.ErrCorruptData):
		logger.Warn("stored favorites are corrupt, starting empty", "error", err)
		return s
	case err != nil:
		logger.Warn("failed to load favorites, starting empty", "error", err)
		return s
	}
	for _, m := range movies {
		if m.ID == "" {
			continue
		}
		if _, dup := s.index[m.ID]; dup {
			continue
		}
		s.index[m.ID] = len(s.movies)
		s.movies = append(s.movies, m)
	}
	logger.Debug("loaded favorites", "count", len(s.movies))
	return s
}

// Add saves m. Adding a movie that is already saved is a no-op and
// keeps its position.
func (s *Store) Add(m domain.MovieSummary) error {
	if m.ID == "" {
		return ErrMissingID
	}
	s.mu.Lock()
	if _, ok := s.index[m.ID]; ok {
		s.mu.Unlock()
		return nil
	}
	s.index[m.ID] = len(s.movies)
	s.movies = append(s.movies, m)
	s.mu.Unlock()

	return s.commit(Change{Kind: Added, Movie: m})
}

// Remove deletes the movie with id. Removing an absent id is a no-op.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	pos, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	m := s.movies[pos]
	s.movies = append(s.movies[:pos:pos], s.movies[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.movies); i++ {
		s.index[s.movies[i].ID] = i
	}
	s.mu.Unlock()

	return s.commit(Change{Kind: Removed, Movie: m})
}

// Toggle adds m if it is not saved and removes it otherwise
func (s *Store) Toggle(m domain.MovieSummary) (added bool, err error) {
	if s.IsFavorite(m.ID) {
		return false, s.Remove(m.ID)
	}
	return true, s.Add(m)
}

// IsFavorite reports whether id is saved
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// List returns a copy of the collection in insertion order
func (s *Store) List() []domain.MovieSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.MovieSummary, len(s.movies))
	copy(out, s.movies)
	return out
}

// Len returns the number of saved movies
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

// Subscribe registers fn to be called after every committed mutation.
// fn runs on the goroutine that made the change.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Flush persists the collection if the last save failed
func (s *Store) Flush() error {
	s.mu.RLock()
	dirty := s.dirty
	s.mu.RUnlock()
	if !dirty {
		return nil
	}
	return s.persist()
}

// Close flushes pending changes and closes the persister
func (s *Store) Close() error {
	if s.persister == nil {
		return nil
	}
	flushErr := s.Flush()
	if err := s.persister.Close(); err != nil {
		return err
	}
	return flushErr
}

// commit persists the collection and notifies listeners of c
func (s *Store) commit(c Change) error {
	err := s.persist()
	if err != nil {
		c.Warning = err
	}
	s.logger.Debug("favorites changed", "change", c.Kind.String(), "id", c.Movie.ID, "persisted", err == nil)

	s.mu.RLock()
	fns := make([]func(Change), len(s.listeners))
	for i, l := range s.listeners {
		fns[i] = l.fn
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
	return err
}

// persist writes the latest collection. Saves are serialized and each
// one snapshots the collection after taking saveMu, so the last write
// always carries the newest state.
func (s *Store) persist() error {
	if s.persister == nil {
		return nil
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	movies := s.List()
	err := s.persister.Save(movies)

	s.mu.Lock()
	s.dirty = err != nil
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to persist favorites", "error", err, "count", len(movies))
		return fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
	}
	return nil
}
