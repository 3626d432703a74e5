package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-optimizer/internal/ingestion"
	"github.com/jonathan/resume-optimizer/internal/scholar"
)

// ErrBusy indicates every generation slot is taken
var ErrBusy = errors.New("server is busy, please try again")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// errNoContent means the model finished without producing any text
var errNoContent = errors.New("model returned no content")

// ErrGeneration indicates the model call failed
type ErrGeneration struct {
	Stage string
	Cause error
}

func (e *ErrGeneration) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("generation failed: %v", e.Cause)
	}
	return fmt.Sprintf("generation failed during %s: %v", e.Stage, e.Cause)
}

func (e *ErrGeneration) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		documentErr   *ingestion.DocumentError
		tooLargeErr   *http.MaxBytesError
		rateErr       *scholar.RateLimitError
		timeoutErr    *scholar.TimeoutError
		upstreamErr   *scholar.UpstreamError
		generationErr *ErrGeneration
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &tooLargeErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validationErr), errors.As(err, &documentErr), errors.Is(err, scholar.ErrMissingQuery):
		return http.StatusBadRequest
	case errors.Is(err, ErrBusy):
		return http.StatusServiceUnavailable
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &upstreamErr):
		if upstreamErr.StatusCode >= 400 && upstreamErr.StatusCode < 600 {
			return upstreamErr.StatusCode
		}
		return http.StatusBadGateway
	case errors.As(err, &generationErr):
		if errors.Is(generationErr.Cause, errNoContent) {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
