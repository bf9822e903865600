package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/marquee/internal/domain"
)

func sampleMovies() []domain.MovieSummary {
	r := 7.9
	return []domain.MovieSummary{
		{ID: "tt3", Title: "Zodiac", Year: "2007", Rating: &r, Type: domain.MediaTypeMovie},
		{ID: "tt1", Title: "Amélie", Year: "2001", PosterURL: "https://img/a.jpg"},
		{ID: "tt2", Title: "Breaking Bad", Year: "2008–2013", Type: domain.MediaTypeSeries},
	}
}

func assertSameOrder(t *testing.T, got, want []domain.MovieSummary) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d movies, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Title != want[i].Title {
			t.Errorf("movie %d = %s %q, want %s %q", i, got[i].ID, got[i].Title, want[i].ID, want[i].Title)
		}
	}
	if got[0].Rating == nil || *got[0].Rating != 7.9 {
		t.Errorf("rating lost: %v", got[0].Rating)
	}
}

func TestBoltStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewBoltStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	movies, err := s.Load()
	if err != nil || movies != nil {
		t.Fatalf("empty store Load = %v, %v", movies, err)
	}
	if err := s.Save(sampleMovies()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewBoltStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	got, err := reopened.Load()
	if err != nil {
		t.Fatal(err)
	}
	assertSameOrder(t, got, sampleMovies())
}

func TestBoltStoreCorruptValue(t *testing.T) {
	dir := t.TempDir()
	db, err := bolt.Open(filepath.Join(dir, dbFileName), 0600, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketFavorites)
		if err != nil {
			return err
		}
		return b.Put([]byte(FavoritesKey), []byte(`{"not":"a list"`))
	})
	if err != nil {
		t.Fatal(err)
	}
	db.Close()

	s, err := NewBoltStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := s.Load(); !errors.Is(err, domain.ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData, got %v", err)
	}
	movies, err := s.Load()
	if err != nil || movies != nil {
		t.Errorf("corrupt value should be reset, got %v, %v", movies, err)
	}
}

func TestBoltStoreMemoryOnly(t *testing.T) {
	s, err := NewBoltStore("")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(sampleMovies()); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	assertSameOrder(t, got, sampleMovies())
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s, err := NewFileStore(fsys, "/data", "")
	if err != nil {
		t.Fatal(err)
	}
	if s.Path() != filepath.Join("/data", "favorites.json") {
		t.Errorf("Path = %s", s.Path())
	}

	movies, err := s.Load()
	if err != nil || movies != nil {
		t.Fatalf("missing file Load = %v, %v", movies, err)
	}
	if err := s.Save(sampleMovies()); err != nil {
		t.Fatal(err)
	}
	if ok, _ := afero.Exists(fsys, s.Path()+".tmp"); ok {
		t.Error("temporary file left behind")
	}

	reopened, err := NewFileStore(fsys, "/data", "")
	if err != nil {
		t.Fatal(err)
	}
	got, err := reopened.Load()
	if err != nil {
		t.Fatal(err)
	}
	assertSameOrder(t, got, sampleMovies())
}

func TestFileStoreCorruptFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s, err := NewFileStore(fsys, "/data", "favs")
	if err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fsys, "/data/favs.json", []byte("garbage"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Load(); !errors.Is(err, domain.ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData, got %v", err)
	}
	if ok, _ := afero.Exists(fsys, "/data/favs.json"); ok {
		t.Error("corrupt file should be removed")
	}
}

func TestFileStoreReadOnlyFs(t *testing.T) {
	base := afero.NewMemMapFs()
	if err := base.MkdirAll("/data", 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(afero.NewReadOnlyFs(base), "/data", ""); err == nil {
		t.Error("creating the directory on a read-only filesystem should fail")
	}

	s := &FileStore{fs: afero.NewReadOnlyFs(base), path: "/data/favorites.json"}
	if err := s.Save(sampleMovies()); err == nil {
		t.Error("Save on a read-only filesystem should fail")
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"", false},
		{BackendBolt, false},
		{BackendFile, false},
		{"redis", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			p, err := Open(tt.backend, "")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q) err = %v", tt.backend, err)
			}
			if p != nil {
				p.Close()
			}
		})
	}
}
