package favorites

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
)

// memPersister is an in-memory persister with injectable failures
type memPersister struct {
	mu      sync.Mutex
	saved   []domain.MovieSummary
	loadErr error
	saveErr error
	saves   int
	closed  bool
}

func (p *memPersister) Load() ([]domain.MovieSummary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return append([]domain.MovieSummary(nil), p.saved...), nil
}

func (p *memPersister) Save(movies []domain.MovieSummary) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
	if p.saveErr != nil {
		return p.saveErr
	}
	p.saved = append([]domain.MovieSummary(nil), movies...)
	return nil
}

func (p *memPersister) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *memPersister) setSaveErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saveErr = err
}

func movie(id, title string) domain.MovieSummary {
	return domain.MovieSummary{ID: id, Title: title, Year: "2000"}
}

func ids(movies []domain.MovieSummary) string {
	s := ""
	for i, m := range movies {
		if i > 0 {
			s += ","
		}
		s += m.ID
	}
	return s
}

func TestAddIsIdempotent(t *testing.T) {
	p := &memPersister{}
	s := Open(p, nil)

	for i := 0; i < 2; i++ {
		if err := s.Add(movie("tt1", "Alien")); err != nil {
			t.Fatal(err)
		}
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	if p.saves != 1 {
		t.Errorf("saves = %d, want 1", p.saves)
	}
}

func TestReAddKeepsPosition(t *testing.T) {
	s := Open(&memPersister{}, nil)
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Add(movie(id, id)); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Add(movie("a", "a")); err != nil {
		t.Fatal(err)
	}
	if got := ids(s.List()); got != "a,b,c" {
		t.Errorf("order = %s, want a,b,c", got)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	p := &memPersister{}
	s := Open(p, nil)
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Add(movie(id, id)); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Remove("missing"); err != nil {
		t.Fatal(err)
	}
	if got := ids(s.List()); got != "a,b,c" || p.saves != 3 {
		t.Errorf("absent remove changed the store: %s, %d saves", got, p.saves)
	}

	if err := s.Remove("b"); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove("b"); err != nil {
		t.Fatal(err)
	}
	if got := ids(s.List()); got != "a,c" {
		t.Errorf("order = %s, want a,c", got)
	}
	if s.IsFavorite("b") || !s.IsFavorite("c") {
		t.Error("membership is wrong after remove")
	}
	// Index must follow the shifted positions
	if err := s.Remove("c"); err != nil {
		t.Fatal(err)
	}
	if got := ids(s.List()); got != "a" {
		t.Errorf("order = %s, want a", got)
	}
}

func TestAddRequiresID(t *testing.T) {
	s := Open(nil, nil)
	if err := s.Add(domain.MovieSummary{Title: "nameless"}); !errors.Is(err, ErrMissingID) {
		t.Errorf("expected ErrMissingID, got %v", err)
	}
}

func TestToggle(t *testing.T) {
	s := Open(nil, nil)
	m := movie("tt1", "Heat")
	added, err := s.Toggle(m)
	if err != nil || !added || !s.IsFavorite("tt1") {
		t.Fatalf("first toggle: added=%v err=%v", added, err)
	}
	added, err = s.Toggle(m)
	if err != nil || added || s.IsFavorite("tt1") {
		t.Fatalf("second toggle: added=%v err=%v", added, err)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	p := &memPersister{}
	s := Open(p, nil)
	for _, id := range []string{"z", "a", "m"} {
		if err := s.Add(movie(id, id)); err != nil {
			t.Fatal(err)
		}
	}

	reopened := Open(p, nil)
	if got := ids(reopened.List()); got != "z,a,m" {
		t.Errorf("reloaded order = %s, want z,a,m", got)
	}
}

func TestCorruptDataStartsEmpty(t *testing.T) {
	p := &memPersister{loadErr: fmt.Errorf("%w: unexpected end of JSON input", domain.ErrCorruptData)}
	s := Open(p, nil)
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
	p.loadErr = nil
	if err := s.Add(movie("tt1", "Alien")); err != nil {
		t.Fatalf("store should stay usable: %v", err)
	}
}

func TestLoadDropsDuplicates(t *testing.T) {
	p := &memPersister{saved: []domain.MovieSummary{movie("a", "a"), movie("b", "b"), movie("a", "a2"), {Title: "no id"}}}
	s := Open(p, nil)
	if got := ids(s.List()); got != "a,b" {
		t.Errorf("loaded = %s, want a,b", got)
	}
}

func TestPersistenceFailureKeepsMutation(t *testing.T) {
	p := &memPersister{saveErr: errors.New("disk full")}
	s := Open(p, nil)

	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	err := s.Add(movie("tt1", "Alien"))
	if !errors.Is(err, domain.ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}
	if !s.IsFavorite("tt1") {
		t.Error("in-memory add should survive a failed save")
	}
	if len(changes) != 1 || changes[0].Warning == nil {
		t.Fatalf("listeners should get a warning: %+v", changes)
	}

	p.setSaveErr(nil)
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if len(p.saved) != 1 {
		t.Errorf("flush did not persist: %v", p.saved)
	}
}

func TestFlushWithoutPendingChanges(t *testing.T) {
	p := &memPersister{}
	s := Open(p, nil)
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if p.saves != 0 {
		t.Errorf("saves = %d, want 0", p.saves)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if !p.closed {
		t.Error("Close should close the persister")
	}
}

func TestSubscribeNotifiesAfterCommit(t *testing.T) {
	s := Open(&memPersister{}, nil)
	var got []string
	unsubscribe := s.Subscribe(func(c Change) {
		// The mutation is visible to listeners
		got = append(got, fmt.Sprintf("%s:%s:%v", c.Kind, c.Movie.ID, s.IsFavorite(c.Movie.ID)))
	})

	s.Add(movie("a", "a"))
	s.Add(movie("a", "a"))
	s.Remove("a")
	s.Remove("a")
	unsubscribe()
	s.Add(movie("b", "b"))

	want := []string{"added:a:true", "removed:a:false"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("change %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestConcurrentMutations(t *testing.T) {
	p := &memPersister{}
	s := Open(p, nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("tt%d", i%5)
			s.Add(movie(id, id))
		}(i)
	}
	wg.Wait()
	if s.Len() != 5 {
		t.Errorf("Len = %d, want 5", s.Len())
	}
	if len(p.saved) != 5 {
		t.Errorf("last save holds %d movies, want 5", len(p.saved))
	}
}
