package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mmcdole/marquee/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(Options{BaseURL: srv.URL + "/", APIKey: "k"}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Options{}, nil); !errors.Is(err, domain.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestSearchPageComputesTotalPages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("s") != "batman" || q.Get("page") != "2" || q.Get("apikey") != "k" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if q.Get("y") != "1989" || q.Get("type") != "movie" {
			t.Errorf("filters not forwarded: %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"Search":[
			{"Title":"Batman","Year":"1989","imdbID":"tt0096895","Type":"movie","Poster":"https://img/1.jpg"},
			{"Title":"No Id","Year":"1989","imdbID":"","Type":"movie","Poster":"N/A"},
			{"Title":"Batman Returns","Year":"1992","imdbID":"tt0103776","Type":"movie","Poster":"N/A"}
		],"totalResults":"23","Response":"True"}`)
	})

	page, err := c.SearchPage(context.Background(), domain.SearchQuery{Text: "batman", Year: "1989", Type: domain.MediaTypeMovie}, 2)
	if err != nil {
		t.Fatalf("SearchPage: %v", err)
	}
	if page.TotalPages != 3 || page.TotalResults != 23 || page.Number != 2 {
		t.Errorf("got page %d of %d (%d results), want 2 of 3 (23)", page.Number, page.TotalPages, page.TotalResults)
	}
	if len(page.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(page.Items))
	}
	if page.Items[0].PosterURL != "https://img/1.jpg" || page.Items[1].PosterURL != "" {
		t.Errorf("poster mapping wrong: %+v", page.Items)
	}
	if !page.HasNext() {
		t.Error("page 2 of 3 should have a next page")
	}
}

func TestSearchPageEmptyTextUsesDefaultTerm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("s") != DefaultSearchTerm {
			t.Errorf("s = %q, want %q", q.Get("s"), DefaultSearchTerm)
		}
		if q.Has("y") || q.Has("type") {
			t.Errorf("empty filters should be omitted: %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"Search":[],"totalResults":"0","Response":"True"}`)
	})

	page, err := c.SearchPage(context.Background(), domain.SearchQuery{Text: "   "}, 0)
	if err != nil {
		t.Fatalf("SearchPage: %v", err)
	}
	if page.Number != 1 || page.TotalPages != 0 {
		t.Errorf("got %+v", page)
	}
}

func TestFailureEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"not found", http.StatusOK, `{"Response":"False","Error":"Movie not found!"}`, "Movie not found!"},
		{"bad key", http.StatusUnauthorized, `{"Response":"False","Error":"Invalid API key!"}`, "Invalid API key!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := c.GetDetails(context.Background(), "tt0000001")
			if !errors.Is(err, domain.ErrUpstreamNotFound) {
				t.Fatalf("expected ErrUpstreamNotFound, got %v", err)
			}
			if got := domain.UserMessage(err); got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(Options{BaseURL: url + "/", APIKey: "k"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.SearchPage(context.Background(), domain.SearchQuery{Text: "batman"}, 1)
	if !errors.Is(err, domain.ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure, got %v", err)
	}
}

func TestServerErrorIsNetworkFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})
	_, err := c.SearchPage(context.Background(), domain.SearchQuery{Text: "batman"}, 1)
	if !errors.Is(err, domain.ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure, got %v", err)
	}
}

func TestCanceledContextIsNotNetworkFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Search":[],"totalResults":"0","Response":"True"}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SearchPage(ctx, domain.SearchQuery{Text: "batman"}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, domain.ErrNetworkFailure) {
		t.Error("cancellation must not be reported as a network failure")
	}
}

func TestGetDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("i") != "tt0372784" || q.Get("plot") != "full" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"Title":"Batman Begins","Year":"2005","Rated":"PG-13","Runtime":"140 min",
			"Genre":"Action, Crime, Drama","Director":"Christopher Nolan","Actors":"Christian Bale, Michael Caine",
			"Plot":"After witnessing his parents' death...","Poster":"N/A","imdbRating":"8.2",
			"Ratings":[{"Source":"Internet Movie Database","Value":"8.2/10"}],
			"imdbID":"tt0372784","Type":"movie","BoxOffice":"N/A","Response":"True"}`)
	})

	d, err := c.GetDetails(context.Background(), "0372784")
	if err != nil {
		t.Fatalf("GetDetails: %v", err)
	}
	if d.Title != "Batman Begins" || d.Runtime != 140 || d.PosterURL != "" || d.BoxOffice != "" {
		t.Errorf("unexpected details %+v", d)
	}
	if len(d.Genres) != 3 || d.Genres[2] != "Drama" {
		t.Errorf("genres = %v", d.Genres)
	}
	if d.Rating == nil || *d.Rating != 8.2 {
		t.Errorf("rating = %v", d.Rating)
	}
	if len(d.Ratings) != 1 {
		t.Errorf("ratings = %v", d.Ratings)
	}
}

func TestUndecodableBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	})
	_, err := c.SearchPage(context.Background(), domain.SearchQuery{Text: "x"}, 1)
	if err == nil || !strings.Contains(err.Error(), "failed to parse response") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestNormalizeID(t *testing.T) {
	tests := map[string]string{
		"tt0372784": "tt0372784",
		"0372784":   "tt0372784",
		" tt1 ":     "tt1",
		"":          "",
	}
	for in, want := range tests {
		if got := NormalizeID(in); got != want {
			t.Errorf("NormalizeID(%q) = %q, want %q", in, got, want)
		}
	}
}
