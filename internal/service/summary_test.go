package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeWithoutKey(t *testing.T) {
	s := NewSummaryService("", nil)

	_, err := s.Summarize(context.Background(), "a long description")
	require.ErrorIs(t, err, ErrSummaryUnavailable)
}

func TestSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		var req geminiRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []struct {
				Content geminiContent `json:"content"`
			}{
				{Content: geminiContent{Parts: []geminiPart{{Text: "Two exciting sentences."}}}},
			},
		})
	}))
	defer srv.Close()

	s := NewSummaryService("test-key", nil)
	s.SetEndpoint(srv.URL)

	summary, err := s.Summarize(context.Background(), "48 hours of building")
	require.NoError(t, err)
	assert.Equal(t, "Two exciting sentences.", summary)
}

func TestSummarizeEmptyDescription(t *testing.T) {
	s := NewSummaryService("test-key", nil)

	_, err := s.Summarize(context.Background(), "")
	require.Error(t, err)
}

func TestSummarizeCircuitOpensAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewSummaryService("test-key", nil)
	s.SetEndpoint(srv.URL)

	// Each call exhausts its retries and records one breaker failure.
	for i := 0; i < 3; i++ {
		_, err := s.Summarize(context.Background(), "desc")
		require.Error(t, err, "attempt %d", i)
	}

	// The breaker is now open and fast-fails without touching the server.
	_, err := s.Summarize(context.Background(), "desc")
	require.ErrorIs(t, err, ErrSummaryUnavailable)
}
