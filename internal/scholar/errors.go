package scholar

import (
	"fmt"
	"time"
)

// UpstreamError is a non-success response from a search provider.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// RateLimitError means the provider rejected the request with 429.
type RateLimitError struct {
	Provider string
	// RetryAfter is zero when the provider did not say
	RetryAfter time.Duration
	Body       string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s API rate limit exceeded, retry after %s", e.Provider, e.RetryAfter)
	}
	return fmt.Sprintf("%s API rate limit exceeded", e.Provider)
}

// TimeoutError means the provider did not answer in time.
type TimeoutError struct {
	Provider string
	Cause    error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s API request timed out", e.Provider)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// RequestError is any other failure to obtain a usable response.
type RequestError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s API request failed: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s API request failed: %s", e.Provider, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}
