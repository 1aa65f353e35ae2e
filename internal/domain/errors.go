package domain

import "errors"

// Validation errors

var (
	// ErrMessageRequired indicates the chat request carried no message text
	ErrMessageRequired = errors.New("message is required")
)

// Configuration errors

var (
	// ErrMissingCredential indicates no completion API key is configured
	ErrMissingCredential = errors.New("completion credential missing")
)

// Upstream errors

var (
	// ErrUpstreamUnavailable indicates the completion service could not be reached
	ErrUpstreamUnavailable = errors.New("completion service unavailable")

	// ErrUpstreamTimeout indicates a request to the completion service timed out
	ErrUpstreamTimeout = errors.New("completion request timeout")

	// ErrUpstreamStatus indicates a non-2xx status whose body is not JSON
	ErrUpstreamStatus = errors.New("completion service error status")

	// ErrUpstreamRejected indicates a non-2xx status carrying a JSON error body, such as
	// an invalid key or rate limiting. It is answered with the fallback reply.
	ErrUpstreamRejected = errors.New("completion service rejected request")

	// ErrUpstreamMalformed indicates the completion response body could not be decoded
	ErrUpstreamMalformed = errors.New("malformed completion response")

	// ErrEmptyCompletion indicates a decodable response without any usable choice
	ErrEmptyCompletion = errors.New("completion response has no choices")
)

// IsUpstream reports whether err belongs to the upstream error family
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable) ||
		errors.Is(err, ErrUpstreamTimeout) ||
		errors.Is(err, ErrUpstreamStatus) ||
		errors.Is(err, ErrUpstreamRejected) ||
		errors.Is(err, ErrUpstreamMalformed)
}

// Storage errors

var (
	// ErrDatabaseUnavailable indicates no database connection was provided
	ErrDatabaseUnavailable = errors.New("database unavailable")
)
