// Package feed drives incremental retrieval of search result pages.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/avast/retry-go/v4"

	"github.com/mmcdole/marquee/internal/domain"
)

const (
	DefaultMaxQueryLength = 200
	defaultRetryDelay     = 500 * time.Millisecond
	firstPageAttempts     = 2
)

// ErrClosed is returned by SetQuery after Close
var ErrClosed = errors.New("feed controller is closed")

var yearPattern = regexp.MustCompile(`^[0-9]{4}$`)

// Status is the fetch status of the result sequence
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoadingMore
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoadingMore:
		return "loading more"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Busy returns true while a request is in flight
func (s Status) Busy() bool {
	return s == StatusLoading || s == StatusLoadingMore
}

// State is a snapshot of the controller
type State struct {
	Query        domain.SearchQuery
	Items        []domain.MovieSummary // Flattened pages, deduplicated by ID
	Status       Status
	HasMore      bool
	ErrorMessage string
	Page         int // Last fetched page, 0 before the first page arrives
	TotalPages   int
	TotalResults int
	Revision     uint64 // Increases with every committed change
}

// Options configures a Controller
type Options struct {
	MaxQueryLength int           // Maximum query text length in runes
	RetryDelay     time.Duration // Pause before the first page is retried
	Spawn          func(func())  // Runs a fetch; defaults to a new goroutine
}

type listener struct {
	id int
	fn func(State)
}

// Controller turns a query plus "load more" signals into an ordered,
// deduplicated result sequence. All methods are safe for concurrent use.
type Controller struct {
	client         domain.SearchClient
	logger         *slog.Logger
	maxQueryLength int
	retryDelay     time.Duration
	spawn          func(func())

	ctx       context.Context
	cancelAll context.CancelFunc

	mu           sync.Mutex
	generation   uint64
	hasQuery     bool
	closed       bool
	cancel       context.CancelFunc // Cancels the in-flight request
	query        domain.SearchQuery
	items        []domain.MovieSummary
	seen         map[string]struct{}
	status       Status
	errMsg       string
	lastPage     int
	totalPages   int
	totalResults int
	revision     uint64
	listeners    []listener
	nextID       int
}

// NewController creates a controller fetching pages from client
func NewController(client domain.SearchClient, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxQueryLength <= 0 {
		opts.MaxQueryLength = DefaultMaxQueryLength
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.Spawn == nil {
		opts.Spawn = func(f func()) { go f() }
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		client:         client,
		logger:         logger,
		maxQueryLength: opts.MaxQueryLength,
		retryDelay:     opts.RetryDelay,
		spawn:          opts.Spawn,
		ctx:            ctx,
		cancelAll:      cancel,
		seen:           make(map[string]struct{}),
	}
}

// Validate checks q without changing any state
func (c *Controller) Validate(q domain.SearchQuery) error {
	if n := utf8.RuneCountInString(q.Text); n > c.maxQueryLength {
		return fmt.Errorf("%w: text is %d characters, limit is %d", domain.ErrInvalidQuery, n, c.maxQueryLength)
	}
	if q.Year != "" && !yearPattern.MatchString(q.Year) {
		return fmt.Errorf("%w: year %q is not a four digit year", domain.ErrInvalidQuery, q.Year)
	}
	if !q.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", domain.ErrInvalidQuery, q.Type)
	}
	return nil
}

// SetQuery replaces the current query and starts over at page 1.
// Responses still in flight for the previous query are discarded.
func (c *Controller) SetQuery(q domain.SearchQuery) error {
	if err := c.Validate(q); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.generation++
	c.hasQuery = true
	c.query = q
	c.items = nil
	c.seen = make(map[string]struct{})
	c.lastPage = 0
	c.totalPages = 0
	c.totalResults = 0
	c.status = StatusLoading
	c.errMsg = ""
	ctx := c.startRequestLocked()
	gen := c.generation
	snap, fns := c.commitLocked()
	c.mu.Unlock()

	c.logger.Debug("query set", "query", q.String(), "generation", gen)
	notify(fns, snap)
	c.spawn(func() { c.fetch(ctx, gen, q, 1, true) })
	return nil
}

// RequestNextPage requests the page after the last fetched one.
// It returns false without side effects when a request is already in
// flight, when no query was set or when the last page was reached.
func (c *Controller) RequestNextPage() bool {
	c.mu.Lock()
	if c.closed || !c.hasQuery || c.status.Busy() || !c.hasMoreLocked() {
		c.mu.Unlock()
		return false
	}
	page := c.lastPage + 1
	if c.lastPage == 0 {
		c.status = StatusLoading
	} else {
		c.status = StatusLoadingMore
	}
	c.errMsg = ""
	ctx := c.startRequestLocked()
	gen := c.generation
	q := c.query
	snap, fns := c.commitLocked()
	c.mu.Unlock()

	c.logger.Debug("requesting page", "query", q.String(), "page", page)
	notify(fns, snap)
	c.spawn(func() { c.fetch(ctx, gen, q, page, false) })
	return true
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to be called after every committed change.
// fn runs on the goroutine that made the change.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Close cancels any in-flight request. Later calls are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancelAll()
	c.cancel = nil
}

// fetch runs on its own goroutine. Only the request issued by SetQuery
// retries, once, and only on network failures.
func (c *Controller) fetch(ctx context.Context, gen uint64, q domain.SearchQuery, page int, retryFirst bool) {
	var (
		result domain.Page
		err    error
	)
	if retryFirst {
		result, err = retry.DoWithData(
			func() (domain.Page, error) {
				return c.client.SearchPage(ctx, q, page)
			},
			retry.Context(ctx),
			retry.Attempts(firstPageAttempts),
			retry.Delay(c.retryDelay),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
			retry.RetryIf(func(err error) bool {
				return errors.Is(err, domain.ErrNetworkFailure)
			}),
			retry.OnRetry(func(n uint, err error) {
				c.logger.Warn("retrying first page", "query", q.String(), "attempt", n+1, "error", err)
			}),
		)
	} else {
		result, err = c.client.SearchPage(ctx, q, page)
	}
	c.apply(gen, page, result, err)
}

// apply commits a response unless its generation was superseded
func (c *Controller) apply(gen uint64, page int, result domain.Page, err error) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("discarding response", "error", domain.ErrStaleResponse, "generation", gen, "page", page)
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if err != nil {
		c.status = StatusError
		c.errMsg = domain.UserMessage(err)
		c.logger.Error("page fetch failed", "query", c.query.String(), "page", page, "error", err)
	} else {
		added := 0
		for _, m := range result.Items {
			if _, dup := c.seen[m.ID]; dup {
				continue
			}
			c.seen[m.ID] = struct{}{}
			c.items = append(c.items, m)
			added++
		}
		c.lastPage = page
		c.totalPages = result.TotalPages
		c.totalResults = result.TotalResults
		c.status = StatusIdle
		c.errMsg = ""
		c.logger.Debug("page applied", "query", c.query.String(), "page", page,
			"added", added, "totalPages", result.TotalPages)
	}
	snap, fns := c.commitLocked()
	c.mu.Unlock()

	notify(fns, snap)
}

func (c *Controller) startRequestLocked() context.Context {
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel
	return ctx
}

func (c *Controller) hasMoreLocked() bool {
	if c.lastPage == 0 {
		return true
	}
	return c.lastPage < c.totalPages
}

// commitLocked bumps the revision and returns what listeners must see
func (c *Controller) commitLocked() (State, []func(State)) {
	c.revision++
	fns := make([]func(State), len(c.listeners))
	for i, l := range c.listeners {
		fns[i] = l.fn
	}
	return c.snapshotLocked(), fns
}

func (c *Controller) snapshotLocked() State {
	items := make([]domain.MovieSummary, len(c.items))
	copy(items, c.items)
	return State{
		Query:        c.query,
		Items:        items,
		Status:       c.status,
		HasMore:      c.hasMoreLocked(),
		ErrorMessage: c.errMsg,
		Page:         c.lastPage,
		TotalPages:   c.totalPages,
		TotalResults: c.totalResults,
		Revision:     c.revision,
	}
}

func notify(fns []func(State), s State) {
	for _, fn := range fns {
		fn(s)
	}
}
