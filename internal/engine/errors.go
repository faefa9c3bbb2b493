package engine

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when a search query is blank after trimming.
// No network call is attempted.
var ErrEmptyQuery = errors.New("search query cannot be empty")

// ConfigurationError reports an invalid parameter at construction time.
// Fatal — the client is never built, nothing is retried.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid search configuration: %s: %v", e.Reason, e.Err)
	}
	return "invalid search configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NetworkError reports a transport-level failure: timeout, connection
// refused, or an unclassified non-2xx status. Always surfaced to the caller.
type NetworkError struct {
	Detail string
	Err    error
}

func (e *NetworkError) Error() string { return "network error: " + e.Detail }

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError means the backend responded but the body is unusable or the
// request was rejected (403, 429, empty or non-JSON body).
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string { return "api error: " + e.Detail }
