package components

import (
	"strings"
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
)

func TestDetailsView(t *testing.T) {
	rating := 9.0
	d := NewDetails()
	d.SetSize(80, 40)
	d.Load("tt0468569")
	if view := d.View(); !strings.Contains(view, "Loading") {
		t.Errorf("loading view:\n%s", view)
	}

	d.SetFavorite(true)
	d.SetDetails(&domain.MovieDetails{
		ID:      "tt0468569",
		Title:   "The Dark Knight",
		Year:    "2008",
		Runtime: 152,
		Rating:  &rating,
		Plot:    "Batman faces the Joker.",
		Ratings: []domain.SourceRating{{Source: "Rotten Tomatoes", Value: "94%"}},
	})
	d.SetTrending([]domain.MovieSummary{{ID: "tt1", Title: "Avengers"}})

	view := d.View()
	for _, want := range []string{"♥ The Dark Knight", "2h 32m", "9.0/10", "Batman faces the Joker.", "Rotten Tomatoes", "Avengers"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	s, ok := d.Summary()
	if !ok || s.ID != "tt0468569" {
		t.Errorf("Summary = %+v, %v", s, ok)
	}
}

func TestDetailsError(t *testing.T) {
	d := NewDetails()
	d.SetSize(80, 20)
	d.Load("tt0")
	d.SetError("Incorrect IMDb ID.")
	if view := d.View(); !strings.Contains(view, "Incorrect IMDb ID.") {
		t.Errorf("error view:\n%s", view)
	}
	if _, ok := d.Summary(); ok {
		t.Error("Summary ok after error")
	}
}

func TestWordWrap(t *testing.T) {
	got := wordWrap("the quick brown fox jumps", 10)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 10 {
			t.Errorf("line %q longer than 10", line)
		}
	}
	if strings.Join(strings.Fields(got), " ") != "the quick brown fox jumps" {
		t.Errorf("words changed: %q", got)
	}
}
