package scholar

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
)

// SerpAPIBaseURL is the SerpAPI search endpoint.
const SerpAPIBaseURL = "https://serpapi.com/search"

// SerpProvider names SerpAPI in errors.
const SerpProvider = "SERP"

// SerpAPI engines
const (
	engineProfiles = "google_scholar_profiles"
	engineCite     = "google_scholar_cite"
)

// ErrMissingQuery is returned when a search is attempted without input.
var ErrMissingQuery = errors.New("query is required")

// SerpClient queries Google Scholar through SerpAPI.
type SerpClient struct {
	apiKey  string
	baseURL string
	opts    *Options
}

// NewSerpClient creates a SerpAPI client.
func NewSerpClient(apiKey string, opts *Options) *SerpClient {
	return &SerpClient{
		apiKey:  apiKey,
		baseURL: opts.baseURL(SerpAPIBaseURL),
		opts:    opts,
	}
}

// Profiles searches Google Scholar author profiles.
func (c *SerpClient) Profiles(ctx context.Context, query string) (json.RawMessage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrMissingQuery
	}
	return c.search(ctx, url.Values{
		"engine":   {engineProfiles},
		"mauthors": {query},
	})
}

// Citations fetches the citation formats for a Google Scholar result.
func (c *SerpClient) Citations(ctx context.Context, resultID string) (json.RawMessage, error) {
	if strings.TrimSpace(resultID) == "" {
		return nil, ErrMissingQuery
	}
	return c.search(ctx, url.Values{
		"engine": {engineCite},
		"q":      {resultID},
	})
}

func (c *SerpClient) search(ctx context.Context, params url.Values) (json.RawMessage, error) {
	params.Set("api_key", c.apiKey)
	return get(ctx, c.opts.httpClient(), SerpProvider, c.baseURL+"?"+params.Encode(), nil)
}
