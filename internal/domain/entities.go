package domain

import (
	"fmt"
	"strings"
)

// PageSize is the number of results the upstream returns per search page.
// The upstream does not report it; it is fixed by the service.
const PageSize = 10

// MediaType distinguishes the kinds of titles the catalog can return
type MediaType string

const (
	MediaTypeAny     MediaType = ""
	MediaTypeMovie   MediaType = "movie"
	MediaTypeSeries  MediaType = "series"
	MediaTypeEpisode MediaType = "episode"
)

// MediaTypes lists the selectable types in cycling order
var MediaTypes = []MediaType{MediaTypeMovie, MediaTypeSeries, MediaTypeEpisode, MediaTypeAny}

// Valid reports whether t is a type the upstream understands
func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeAny, MediaTypeMovie, MediaTypeSeries, MediaTypeEpisode:
		return true
	}
	return false
}

// Label returns a display label for the type
func (t MediaType) Label() string {
	if t == MediaTypeAny {
		return "any"
	}
	return string(t)
}

// Next returns the type following t in MediaTypes
func (t MediaType) Next() MediaType {
	for i, mt := range MediaTypes {
		if mt == t {
			return MediaTypes[(i+1)%len(MediaTypes)]
		}
	}
	return MediaTypes[0]
}

// SearchQuery describes the current search intent.
// It is a value: a filter change produces a new query.
type SearchQuery struct {
	Text string
	Year string // Four digit year, empty for any
	Type MediaType
}

// String returns a compact description used in logs and titles
func (q SearchQuery) String() string {
	var b strings.Builder
	if q.Text == "" {
		b.WriteString("(default)")
	} else {
		b.WriteString(q.Text)
	}
	if q.Year != "" {
		fmt.Fprintf(&b, " y:%s", q.Year)
	}
	if q.Type != MediaTypeAny {
		fmt.Fprintf(&b, " type:%s", q.Type)
	}
	return b.String()
}

// MovieSummary is a single search hit. It is also the unit stored in favorites.
type MovieSummary struct {
	ID        string    `json:"id"`                  // IMDb id, stable across requests
	Title     string    `json:"title"`               // Display title
	PosterURL string    `json:"posterUrl,omitempty"` // Empty when the upstream has no poster
	Year      string    `json:"year"`                // Release year, may be a range for series ("2008–2013")
	Rating    *float64  `json:"rating,omitempty"`    // IMDb rating on a 10 scale, nil when unknown
	Type      MediaType `json:"type,omitempty"`
}

// DisplayTitle returns "Title (Year)" or just the title
func (m MovieSummary) DisplayTitle() string {
	if m.Year != "" {
		return fmt.Sprintf("%s (%s)", m.Title, m.Year)
	}
	return m.Title
}

// HasPoster returns true if a poster URL is known
func (m MovieSummary) HasPoster() bool {
	return m.PosterURL != ""
}

// Page is one page of search results
type Page struct {
	Number       int // 1-based
	Items        []MovieSummary
	TotalPages   int
	TotalResults int
}

// HasNext returns true if the upstream has pages after this one
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// TotalPagesFor computes the page count for a result total
func TotalPagesFor(totalResults int) int {
	if totalResults <= 0 {
		return 0
	}
	return (totalResults + PageSize - 1) / PageSize
}

// SourceRating is a rating from one review aggregator
type SourceRating struct {
	Source string
	Value  string
}

// MovieDetails is the full record of a title
type MovieDetails struct {
	ID         string
	Title      string
	Year       string
	Rated      string // Content rating, e.g. "PG-13"
	Released   string
	Runtime    int // Minutes, 0 when unknown
	Genres     []string
	Director   string
	Writer     string
	Actors     []string
	Plot       string
	Language   string
	Country    string
	Awards     string
	PosterURL  string
	Metascore  string
	Rating     *float64 // IMDb rating on a 10 scale
	Votes      string
	BoxOffice  string
	Production string
	Type       MediaType
	Ratings    []SourceRating
}

// Summary projects the details onto a MovieSummary
func (d MovieDetails) Summary() MovieSummary {
	return MovieSummary{
		ID:        d.ID,
		Title:     d.Title,
		PosterURL: d.PosterURL,
		Year:      d.Year,
		Rating:    d.Rating,
		Type:      d.Type,
	}
}

// StarRating converts the IMDb rating to a 5-star scale
func (d MovieDetails) StarRating() float64 {
	if d.Rating == nil {
		return 0
	}
	return *d.Rating / 2
}

// FormattedRuntime returns the runtime in a human-readable format
func (d MovieDetails) FormattedRuntime() string {
	if d.Runtime <= 0 {
		return ""
	}
	h := d.Runtime / 60
	mins := d.Runtime % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
