package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-optimizer/internal/scholar"
)

// handleScholarProfiles proxies a Google Scholar author profile search
func (s *Server) handleScholarProfiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		s.errorResponse(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	data, err := s.serp.Profiles(r.Context(), query)
	if err != nil {
		s.searchError(w, err, "Failed to fetch Google Scholar profiles")
		return
	}
	s.rawJSONResponse(w, data)
}

// handleScholarCitations proxies a Google Scholar citation lookup
func (s *Server) handleScholarCitations(w http.ResponseWriter, r *http.Request) {
	resultID := r.URL.Query().Get("resultId")
	if resultID == "" {
		s.errorResponse(w, http.StatusBadRequest, "resultId parameter is required")
		return
	}

	data, err := s.serp.Citations(r.Context(), resultID)
	if err != nil {
		s.searchError(w, err, "Failed to fetch Google Scholar citations")
		return
	}
	s.rawJSONResponse(w, data)
}

// handleScopusSearch proxies an Elsevier Scopus search
func (s *Server) handleScopusSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		s.errorResponse(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	count, err := intParam(q.Get("count"), scholar.DefaultScopusCount, 1)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "count must be a positive integer")
		return
	}
	start, err := intParam(q.Get("start"), scholar.DefaultScopusStart, 0)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "start must be a non-negative integer")
		return
	}

	data, err := s.scopus.Search(r.Context(), query, count, start)
	if err != nil {
		s.searchError(w, err, "Failed to fetch Scopus results")
		return
	}
	s.rawJSONResponse(w, data)
}

// intParam parses an optional integer query parameter no smaller than minimum
func intParam(value string, fallback, minimum int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < minimum {
		return 0, fmt.Errorf("value %d is below %d", n, minimum)
	}
	return n, nil
}

// rawJSONResponse writes upstream JSON through unchanged
func (s *Server) rawJSONResponse(w http.ResponseWriter, data json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("Error writing JSON response: %v", err)
	}
}

// searchError normalizes a search provider failure into a JSON error response
func (s *Server) searchError(w http.ResponseWriter, err error, fallback string) {
	log.Printf("[server] %s: %v", fallback, err)
	status := HTTPStatus(err)

	var rateErr *scholar.RateLimitError
	if errors.As(err, &rateErr) {
		response := map[string]any{"error": err.Error()}
		if rateErr.RetryAfter > 0 {
			seconds := retryAfterSeconds(rateErr.RetryAfter)
			response["retry_after"] = seconds
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
		}
		s.jsonResponse(w, status, response)
		return
	}

	switch status {
	case http.StatusInternalServerError:
		s.errorDetailsResponse(w, status, fallback, err.Error())
	default:
		s.errorResponse(w, status, err.Error())
	}
}
