package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
)

const (
	DefaultBaseURL       = "https://www.omdbapi.com/"
	DefaultSearchTerm    = "movie"
	defaultTimeout       = 30 * time.Second
	userAgent            = "Marquee/1.0"
	maxResponseBodyBytes = 4 << 20
)

// Options configures a Client
type Options struct {
	BaseURL       string
	APIKey        string
	DefaultSearch string // Term used when a query has no text
	Timeout       time.Duration
	HTTPClient    *http.Client
}

// Client implements domain.CatalogClient for the OMDb API
type Client struct {
	baseURL       string
	apiKey        string
	defaultSearch string
	httpClient    *http.Client
	logger        *slog.Logger
}

// NewClient creates a new OMDb API client
func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.APIKey == "" {
		return nil, domain.ErrMissingAPIKey
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if opts.DefaultSearch == "" {
		opts.DefaultSearch = DefaultSearchTerm
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:       opts.BaseURL,
		apiKey:        opts.APIKey,
		defaultSearch: opts.DefaultSearch,
		httpClient:    httpClient,
		logger:        logger,
	}, nil
}

// doRequest performs a GET against the API with the key attached
func (c *Client) doRequest(ctx context.Context, query url.Values) ([]byte, int, error) {
	query.Set("apikey", c.apiKey)
	reqURL := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	query.Del("apikey")
	c.logger.Debug("omdb request", "query", query.Encode())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}
		c.logger.Error("omdb request failed", "error", err)
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: failed to read response: %v", domain.ErrNetworkFailure, err)
	}
	return body, resp.StatusCode, nil
}

// decode parses body into dest and converts the failure envelope to an error.
// OMDb answers some failures (bad API key) with a non-2xx status and a failure envelope.
func (c *Client) decode(body []byte, status int, dest enveloped) error {
	if err := json.Unmarshal(body, dest); err != nil {
		if status != http.StatusOK {
			c.logger.Error("omdb request error", "status", status, "bodyLen", len(body))
			return fmt.Errorf("%w: unexpected status code: %d", domain.ErrNetworkFailure, status)
		}
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return fmt.Errorf("failed to parse response: %w", err)
	}
	ok, msg := dest.isOK()
	if !ok {
		if msg == "" {
			if status != http.StatusOK {
				return fmt.Errorf("%w: unexpected status code: %d", domain.ErrNetworkFailure, status)
			}
			msg = "Unknown error"
		}
		return &domain.UpstreamError{Message: msg}
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code: %d", domain.ErrNetworkFailure, status)
	}
	return nil
}

// enveloped is implemented by every response type through the embedded envelope
type enveloped interface {
	isOK() (bool, string)
}

func (e *envelope) isOK() (bool, string) {
	return e.ok(), e.Error
}

// SearchPage returns one page of search results.
// An empty query text searches the configured default term.
func (c *Client) SearchPage(ctx context.Context, q domain.SearchQuery, page int) (domain.Page, error) {
	if page < 1 {
		page = 1
	}
	text := strings.TrimSpace(q.Text)
	if text == "" {
		text = c.defaultSearch
	}

	query := url.Values{}
	query.Set("s", text)
	query.Set("page", strconv.Itoa(page))
	if q.Year != "" {
		query.Set("y", q.Year)
	}
	if q.Type != domain.MediaTypeAny {
		query.Set("type", string(q.Type))
	}

	body, status, err := c.doRequest(ctx, query)
	if err != nil {
		return domain.Page{}, err
	}

	var resp SearchResponse
	if err := c.decode(body, status, &resp); err != nil {
		return domain.Page{}, err
	}

	result, err := MapSearchPage(&resp, page)
	if err != nil {
		return domain.Page{}, fmt.Errorf("failed to parse totalResults %q: %w", resp.TotalResults, err)
	}
	c.logger.Debug("omdb search page", "query", q.String(), "page", page,
		"items", len(result.Items), "totalPages", result.TotalPages)
	return result, nil
}

// GetDetails returns the full record of a title
func (c *Client) GetDetails(ctx context.Context, id string) (*domain.MovieDetails, error) {
	id = NormalizeID(id)
	if id == "" {
		return nil, &domain.UpstreamError{Message: "Incorrect IMDb ID."}
	}

	query := url.Values{}
	query.Set("i", id)
	query.Set("plot", "full")

	body, status, err := c.doRequest(ctx, query)
	if err != nil {
		return nil, err
	}

	var resp TitleResponse
	if err := c.decode(body, status, &resp); err != nil {
		return nil, err
	}
	return MapDetails(&resp), nil
}

// NormalizeID adds the "tt" prefix to bare numeric ids
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, "tt") {
		return id
	}
	return "tt" + id
}
