package scholar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerpClient_Profiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "google_scholar_profiles", q.Get("engine"))
		assert.Equal(t, "Ada Lovelace", q.Get("mauthors"))
		assert.Equal(t, "serp-key", q.Get("api_key"))
		_, _ = w.Write([]byte(`{"profiles":[{"name":"Ada Lovelace"}]}`))
	}))
	defer srv.Close()

	c := NewSerpClient("serp-key", &Options{BaseURL: srv.URL})
	data, err := c.Profiles(context.Background(), "Ada Lovelace")
	require.NoError(t, err)
	assert.JSONEq(t, `{"profiles":[{"name":"Ada Lovelace"}]}`, string(data))
}

func TestSerpClient_Citations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "google_scholar_cite", q.Get("engine"))
		assert.Equal(t, "FDc6HiktlqEJ", q.Get("q"))
		_, _ = w.Write([]byte(`{"citations":[]}`))
	}))
	defer srv.Close()

	c := NewSerpClient("k", &Options{BaseURL: srv.URL})
	data, err := c.Citations(context.Background(), "FDc6HiktlqEJ")
	require.NoError(t, err)
	assert.JSONEq(t, `{"citations":[]}`, string(data))
}

func TestSerpClient_MissingQuery(t *testing.T) {
	c := NewSerpClient("k", nil)

	_, err := c.Profiles(context.Background(), " ")
	assert.ErrorIs(t, err, ErrMissingQuery)
	_, err = c.Citations(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingQuery)
}

func TestScopusClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "machine learning", q.Get("query"))
		assert.Equal(t, "10", q.Get("count"))
		assert.Equal(t, "0", q.Get("start"))
		assert.Equal(t, "STANDARD", q.Get("view"))
		assert.Equal(t, "scopus-key", r.Header.Get("X-ELS-APIKey"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"search-results":{"entry":[]}}`))
	}))
	defer srv.Close()

	c := NewScopusClient("scopus-key", &Options{BaseURL: srv.URL})
	data, err := c.Search(context.Background(), "machine learning", 0, -1)
	require.NoError(t, err)
	assert.Contains(t, string(data), "search-results")
}

func TestScopusClient_Paging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "25", r.URL.Query().Get("count"))
		assert.Equal(t, "50", r.URL.Query().Get("start"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewScopusClient("k", &Options{BaseURL: srv.URL}).Search(context.Background(), "graphs", 25, 50)
	require.NoError(t, err)
}

func TestClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`Invalid API key`))
	}))
	defer srv.Close()

	_, err := NewSerpClient("bad", &Options{BaseURL: srv.URL}).Profiles(context.Background(), "x")
	require.Error(t, err)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	assert.Equal(t, "SERP API returned status 401: Invalid API key", err.Error())
}

func TestClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewScopusClient("k", &Options{BaseURL: srv.URL}).Search(context.Background(), "x", 0, 0)
	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, 30*time.Second, rateErr.RetryAfter)
	assert.Equal(t, ScopusProvider, rateErr.Provider)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewSerpClient("k", &Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Profiles(context.Background(), "x")

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "SERP API request timed out", err.Error())
}

func TestClient_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewSerpClient("k", &Options{BaseURL: srv.URL}).Profiles(context.Background(), "x")
	var reqErr *RequestError
	assert.ErrorAs(t, err, &reqErr)
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Duration(0), parseRetryAfter("", now))
	assert.Equal(t, 5*time.Second, parseRetryAfter("5", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-3", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon", now))
	assert.Equal(t, 90*time.Second, parseRetryAfter(now.Add(90*time.Second).Format(http.TimeFormat), now))
}
