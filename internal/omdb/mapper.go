package omdb

import (
	"strconv"
	"strings"

	"github.com/mmcdole/marquee/internal/domain"
)

// notAvailable is the placeholder OMDb uses for missing values
const notAvailable = "N/A"

// MapSearchPage converts a successful search response to a domain page
func MapSearchPage(resp *SearchResponse, page int) (domain.Page, error) {
	total, err := parseTotalResults(resp.TotalResults)
	if err != nil {
		return domain.Page{}, err
	}
	return domain.Page{
		Number:       page,
		Items:        MapSummaries(resp.Search),
		TotalPages:   domain.TotalPagesFor(total),
		TotalResults: total,
	}, nil
}

// MapSummaries converts search results to domain summaries
func MapSummaries(results []SearchResult) []domain.MovieSummary {
	items := make([]domain.MovieSummary, 0, len(results))
	for _, r := range results {
		if r.ImdbID == "" {
			continue
		}
		items = append(items, domain.MovieSummary{
			ID:        r.ImdbID,
			Title:     r.Title,
			PosterURL: clean(r.Poster),
			Year:      clean(r.Year),
			Type:      domain.MediaType(strings.ToLower(r.Type)),
		})
	}
	return items
}

// MapDetails converts a title response to domain details
func MapDetails(resp *TitleResponse) *domain.MovieDetails {
	d := &domain.MovieDetails{
		ID:         resp.ImdbID,
		Title:      resp.Title,
		Year:       clean(resp.Year),
		Rated:      clean(resp.Rated),
		Released:   clean(resp.Released),
		Runtime:    parseRuntime(resp.Runtime),
		Genres:     splitList(resp.Genre),
		Director:   clean(resp.Director),
		Writer:     clean(resp.Writer),
		Actors:     splitList(resp.Actors),
		Plot:       clean(resp.Plot),
		Language:   clean(resp.Language),
		Country:    clean(resp.Country),
		Awards:     clean(resp.Awards),
		PosterURL:  clean(resp.Poster),
		Metascore:  clean(resp.Metascore),
		Rating:     parseRating(resp.ImdbRating),
		Votes:      clean(resp.ImdbVotes),
		BoxOffice:  clean(resp.BoxOffice),
		Production: clean(resp.Production),
		Type:       domain.MediaType(strings.ToLower(resp.Type)),
	}
	for _, r := range resp.Ratings {
		d.Ratings = append(d.Ratings, domain.SourceRating{Source: r.Source, Value: r.Value})
	}
	return d
}

// parseTotalResults parses the string-encoded result count
func parseTotalResults(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = 0
	}
	return int(n), nil
}

// parseRating parses "7.8" into a rating, nil for "N/A" or garbage
func parseRating(s string) *float64 {
	s = clean(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseRuntime parses "142 min" into minutes
func parseRuntime(s string) int {
	s = strings.TrimSuffix(clean(s), "min")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// splitList splits a comma separated field ("Action, Drama")
func splitList(s string) []string {
	s = clean(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	if s == notAvailable {
		return ""
	}
	return s
}
