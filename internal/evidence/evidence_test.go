package evidence

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSearcher_Search(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(searchResponse{Hits: []Hit{{Snippet: "Plants convert light.", SourceURI: "doc_1"}}})
	}))
	defer srv.Close()

	s := NewHTTPSearcher(srv.URL+"/", time.Second)
	hits, err := s.Search(context.Background(), "What is photosynthesis?", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc_1", hits[0].SourceURI)
	assert.Equal(t, "What is photosynthesis?", got.Query)
	assert.Equal(t, 1, got.TopK)
}

func TestHTTPSearcher_NotConfigured(t *testing.T) {
	_, err := NewHTTPSearcher("", time.Second).Search(context.Background(), "q", 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

type stubSearcher struct {
	hits []Hit
	err  error
}

func (s stubSearcher) Search(context.Context, string, int) ([]Hit, error) {
	return s.hits, s.err
}

func TestLookup_Snippet(t *testing.T) {
	tests := []struct {
		name     string
		searcher Searcher
		want     string
	}{
		{"hit", stubSearcher{hits: []Hit{{Snippet: " Light becomes sugar. "}}}, "Light becomes sugar."},
		{"skips blank hits", stubSearcher{hits: []Hit{{Snippet: " "}, {Snippet: "second"}}}, "second"},
		{"no hits", stubSearcher{}, NoEvidenceSnippet},
		{"failure", stubSearcher{err: errors.New("timeout")}, UnavailableSnippet},
		{"not configured", stubSearcher{err: ErrNotConfigured}, UnavailableSnippet},
		{"nil searcher", nil, UnavailableSnippet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLookup(tt.searcher, nil)
			assert.Equal(t, tt.want, l.Snippet(context.Background(), "q"))
		})
	}
}

func TestLookup_ServerErrorDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no index", http.StatusNotFound)
	}))
	defer srv.Close()

	l := NewLookup(NewHTTPSearcher(srv.URL, time.Second), nil)
	assert.Equal(t, UnavailableSnippet, l.Snippet(context.Background(), "q"))
}
