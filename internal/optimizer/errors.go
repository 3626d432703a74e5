package optimizer

import (
	"errors"
	"fmt"
)

var (
	// ErrIntakeIncomplete is returned when submission is attempted without a
	// document or with a blank job description.
	ErrIntakeIncomplete = errors.New("a resume document and a job description are required")
	// ErrRunInProgress is returned when a run is already in flight.
	ErrRunInProgress = errors.New("an optimization run is already in progress")
	// ErrNotFailed is returned by Retry when the last run did not fail.
	ErrNotFailed = errors.New("retry is only available after a failed run")
	// ErrSessionClosed is returned once the session has been closed.
	ErrSessionClosed = errors.New("session is closed")
)

// defaultFailureReason is surfaced when the server gives no usable message.
const defaultFailureReason = "Failed to optimize resume"

// StatusError is a non-success response from an optimization endpoint.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Details    string
}

// Error returns the server-reported message verbatim, which is what the
// user sees. Details are only logged.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return defaultFailureReason
	}
	return e.Message
}

// ResponseError is a success response whose payload could not be used.
type ResponseError struct {
	Endpoint string
	Message  string
	Cause    error
}

func (e *ResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid response from %s: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid response from %s: %s", e.Endpoint, e.Message)
}

func (e *ResponseError) Unwrap() error {
	return e.Cause
}
