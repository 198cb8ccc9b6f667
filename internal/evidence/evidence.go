// Package evidence looks up source snippets supporting an item's answer.
package evidence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abhisek/studymate/internal/httpx"
	"github.com/abhisek/studymate/internal/logger"
)

const (
	// UnavailableSnippet replaces the snippet when the search fails.
	UnavailableSnippet = "Failed to load evidence."
	// NoEvidenceSnippet is shown when the search succeeds with no hits.
	NoEvidenceSnippet = "No supporting evidence found."
)

// ErrNotConfigured is returned by searchers without an endpoint.
var ErrNotConfigured = errors.New("evidence: search endpoint not configured")

// Hit is one search result.
type Hit struct {
	Snippet   string `json:"snippet"`
	SourceURI string `json:"sourceUri,omitempty"`
}

// Searcher finds snippets relevant to a query.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]Hit, error)
}

// HTTPSearcher calls POST {BaseURL}/search.
type HTTPSearcher struct {
	baseURL string
	client  *http.Client
	policy  httpx.Policy
}

func NewHTTPSearcher(baseURL string, timeout time.Duration) *HTTPSearcher {
	return &HTTPSearcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpx.NewClient(timeout),
		policy:  httpx.DefaultPolicy,
	}
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}

type searchResponse struct {
	Hits []Hit `json:"hits"`
}

func (s *HTTPSearcher) Search(ctx context.Context, query string, topK int) ([]Hit, error) {
	if s.baseURL == "" {
		return nil, ErrNotConfigured
	}
	body, err := json.Marshal(searchRequest{Query: query, TopK: topK})
	if err != nil {
		return nil, err
	}

	resp, err := httpx.DoWithRetry(ctx, s.client, s.policy, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/search", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("evidence search: %w", err)
	}
	defer resp.Body.Close()

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode evidence response: %w", err)
	}
	return out.Hits, nil
}

// Lookup wraps a Searcher so that failures become marker snippets.
type Lookup struct {
	searcher Searcher
	log      *logger.Logger
}

// NewLookup returns a lookup over s. A nil searcher always reports
// UnavailableSnippet.
func NewLookup(s Searcher, log *logger.Logger) *Lookup {
	return &Lookup{searcher: s, log: logger.OrNop(log).With("component", "evidence")}
}

// Snippet returns the top hit for query, or a marker. It never fails.
func (l *Lookup) Snippet(ctx context.Context, query string) string {
	if l == nil || l.searcher == nil {
		return UnavailableSnippet
	}
	hits, err := l.searcher.Search(ctx, query, 1)
	if err != nil {
		if !errors.Is(err, ErrNotConfigured) {
			l.log.Warn("evidence lookup failed", "error", err)
		}
		return UnavailableSnippet
	}
	for _, h := range hits {
		if s := strings.TrimSpace(h.Snippet); s != "" {
			return s
		}
	}
	return NoEvidenceSnippet
}
