package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrInvalidQuery indicates a query failed local validation.
	// It is returned before any network call is made.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrUpstreamNotFound indicates the catalog answered with its failure envelope
	ErrUpstreamNotFound = errors.New("catalog returned no result")

	// ErrNetworkFailure indicates the catalog could not be reached
	ErrNetworkFailure = errors.New("catalog is unreachable")

	// ErrPersistenceFailure indicates favorites could not be saved durably
	ErrPersistenceFailure = errors.New("failed to persist favorites")

	// ErrStaleResponse indicates a response arrived for a superseded query
	ErrStaleResponse = errors.New("stale response")

	// ErrCorruptData indicates stored data could not be decoded
	ErrCorruptData = errors.New("stored data is corrupt")

	// ErrMissingAPIKey indicates no catalog API key is configured
	ErrMissingAPIKey = errors.New("catalog API key is not configured")
)

// UpstreamError carries the message of the catalog's failure envelope
// (e.g. "Movie not found!"). It matches ErrUpstreamNotFound with errors.Is.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// Is reports whether target is ErrUpstreamNotFound
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamNotFound
}

// UserMessage returns the text to show for err. Upstream messages are shown verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Message
	}
	return err.Error()
}
