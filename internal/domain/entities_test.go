package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestTotalPagesFor(t *testing.T) {
	tests := []struct {
		total, want int
	}{
		{0, 0},
		{-3, 0},
		{1, 1},
		{10, 1},
		{11, 2},
		{23, 3},
		{30, 3},
	}
	for _, tt := range tests {
		if got := TotalPagesFor(tt.total); got != tt.want {
			t.Errorf("TotalPagesFor(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestPageHasNext(t *testing.T) {
	if !(Page{Number: 2, TotalPages: 3}).HasNext() {
		t.Error("page 2 of 3 has a next page")
	}
	if (Page{Number: 3, TotalPages: 3}).HasNext() {
		t.Error("page 3 of 3 is the last page")
	}
	if (Page{Number: 1, TotalPages: 0}).HasNext() {
		t.Error("an empty result has no next page")
	}
}

func TestMediaTypeNextCycles(t *testing.T) {
	mt := MediaTypeMovie
	seen := map[MediaType]bool{}
	for range MediaTypes {
		seen[mt] = true
		mt = mt.Next()
	}
	if mt != MediaTypeMovie || len(seen) != len(MediaTypes) {
		t.Errorf("cycle did not visit every type: %v", seen)
	}
	if MediaType("bogus").Valid() {
		t.Error("unknown type reported valid")
	}
	if MediaType("bogus").Next() != MediaTypes[0] {
		t.Error("unknown type should restart the cycle")
	}
}

func TestUserMessage(t *testing.T) {
	wrapped := fmt.Errorf("details: %w", &UpstreamError{Message: "Movie not found!"})
	if got := UserMessage(wrapped); got != "Movie not found!" {
		t.Errorf("UserMessage = %q", got)
	}
	if !errors.Is(wrapped, ErrUpstreamNotFound) {
		t.Error("UpstreamError should match ErrUpstreamNotFound")
	}
	if UserMessage(nil) != "" {
		t.Error("nil error should have no message")
	}
	if got := UserMessage(ErrNetworkFailure); got != ErrNetworkFailure.Error() {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestDetailsHelpers(t *testing.T) {
	r := 8.2
	d := MovieDetails{ID: "tt1", Title: "Heat", Year: "1995", Runtime: 170, Rating: &r}
	if got := d.FormattedRuntime(); got != "2h 50m" {
		t.Errorf("FormattedRuntime = %q", got)
	}
	if got := d.StarRating(); got != 4.1 {
		t.Errorf("StarRating = %v", got)
	}
	s := d.Summary()
	if s.ID != "tt1" || s.DisplayTitle() != "Heat (1995)" || s.Rating != &r {
		t.Errorf("Summary = %+v", s)
	}
	if (MovieDetails{Runtime: 45}).FormattedRuntime() != "45m" {
		t.Error("short runtime format")
	}
}

func TestSearchQueryString(t *testing.T) {
	q := SearchQuery{Text: "alien", Year: "1979", Type: MediaTypeMovie}
	if got := q.String(); got != "alien y:1979 type:movie" {
		t.Errorf("String = %q", got)
	}
	if got := (SearchQuery{}).String(); got != "(default)" {
		t.Errorf("String = %q", got)
	}
}
