// Package service composes the catalog client into the read paths the views use.
package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/omdb"
)

const (
	trendingPerTerm     = 2
	trendingConcurrency = 3
)

// DefaultTrendingTerms are searched to build the trending strip
var DefaultTrendingTerms = []string{"avengers", "batman", "spider"}

// CatalogService serves movie details and the trending strip
type CatalogService struct {
	client domain.CatalogClient
	logger *slog.Logger
	now    func() time.Time

	trendingTerms []string

	cache   map[string]*domain.MovieDetails // keyed by detailsKey(id)
	cacheMu sync.RWMutex
}

// NewCatalogService creates a new catalog service
func NewCatalogService(client domain.CatalogClient, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		client:        client,
		logger:        logger,
		now:           time.Now,
		trendingTerms: DefaultTrendingTerms,
		cache:         make(map[string]*domain.MovieDetails),
	}
}

// Details returns the full record of id. Successful lookups are cached
// for the session; failures are not.
func (s *CatalogService) Details(ctx context.Context, id string) (*domain.MovieDetails, error) {
	key := detailsKey(id)

	s.cacheMu.RLock()
	if d, ok := s.cache[key]; ok {
		s.cacheMu.RUnlock()
		s.logger.Debug("details cache hit", "id", id)
		return d, nil
	}
	s.cacheMu.RUnlock()

	d, err := s.client.GetDetails(ctx, id)
	if err != nil {
		s.logger.Error("failed to fetch details", "id", id, "error", err)
		return nil, err
	}

	s.cacheMu.Lock()
	s.cache[key] = d
	s.cacheMu.Unlock()
	return d, nil
}

// InvalidateDetails drops every cached record
func (s *CatalogService) InvalidateDetails() {
	s.cacheMu.Lock()
	s.cache = make(map[string]*domain.MovieDetails)
	s.cacheMu.Unlock()
}

// Trending returns a few of this year's movies for each trending term.
// Terms are fetched concurrently; failed terms are skipped and the
// result keeps term order without duplicates.
func (s *CatalogService) Trending(ctx context.Context) []domain.MovieSummary {
	year := strconv.Itoa(s.now().Year())

	mapper := iter.Mapper[string, []domain.MovieSummary]{MaxGoroutines: trendingConcurrency}
	perTerm := mapper.Map(s.trendingTerms, func(term *string) []domain.MovieSummary {
		q := domain.SearchQuery{Text: *term, Year: year, Type: domain.MediaTypeMovie}
		page, err := s.client.SearchPage(ctx, q, 1)
		if err != nil {
			s.logger.Warn("trending term failed", "term", *term, "error", err)
			return nil
		}
		if len(page.Items) > trendingPerTerm {
			return page.Items[:trendingPerTerm]
		}
		return page.Items
	})

	seen := make(map[string]struct{})
	var out []domain.MovieSummary
	for _, items := range perTerm {
		for _, m := range items {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
			out = append(out, m)
		}
	}
	s.logger.Debug("fetched trending", "year", year, "count", len(out))
	return out
}

func detailsKey(id string) string {
	return PrefixDetails + strings.ToLower(omdb.NormalizeID(id))
}
