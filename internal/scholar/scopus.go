package scholar

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// ScopusBaseURL is the Elsevier Scopus search endpoint.
const ScopusBaseURL = "https://api.elsevier.com/content/search/scopus"

// ScopusProvider names Scopus in errors.
const ScopusProvider = "Scopus"

// Scopus paging defaults
const (
	DefaultScopusCount = 10
	DefaultScopusStart = 0
)

// ScopusClient searches Elsevier Scopus.
type ScopusClient struct {
	apiKey  string
	baseURL string
	opts    *Options
}

// NewScopusClient creates a Scopus client.
func NewScopusClient(apiKey string, opts *Options) *ScopusClient {
	return &ScopusClient{
		apiKey:  apiKey,
		baseURL: opts.baseURL(ScopusBaseURL),
		opts:    opts,
	}
}

// Search runs a Scopus query. A count of zero or less uses the default page
// size and a negative start uses the first page.
func (c *ScopusClient) Search(ctx context.Context, query string, count, start int) (json.RawMessage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrMissingQuery
	}
	if count <= 0 {
		count = DefaultScopusCount
	}
	if start < 0 {
		start = DefaultScopusStart
	}

	params := url.Values{
		"query": {query},
		"count": {strconv.Itoa(count)},
		"start": {strconv.Itoa(start)},
		"view":  {"STANDARD"},
	}
	headers := map[string]string{
		"Accept":       "application/json",
		"X-ELS-APIKey": c.apiKey,
	}
	return get(ctx, c.opts.httpClient(), ScopusProvider, c.baseURL+"?"+params.Encode(), headers)
}
