package domain

import "context"

// SearchClient fetches pages of search results from the catalog.
type SearchClient interface {
	// SearchPage returns one page of results for q. page is 1-based.
	SearchPage(ctx context.Context, q SearchQuery, page int) (Page, error)
}

// DetailsClient fetches the full record of a single title.
type DetailsClient interface {
	GetDetails(ctx context.Context, id string) (*MovieDetails, error)
}

// CatalogClient combines everything the catalog backend provides.
type CatalogClient interface {
	SearchClient
	DetailsClient
}

// FavoritesPersister durably stores the ordered favorites collection.
// Load returns (nil, nil) when nothing was stored yet and ErrCorruptData
// when stored data cannot be decoded.
type FavoritesPersister interface {
	Load() ([]MovieSummary, error)
	Save(movies []MovieSummary) error
	Close() error
}
