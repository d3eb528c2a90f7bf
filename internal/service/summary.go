package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/hackconnect/internal/reliability/circuitbreaker"
	"github.com/yourorg/hackconnect/internal/reliability/retry"
)

// ErrSummaryUnavailable means the summarizer is unconfigured or its circuit
// is open; handlers map it to 503.
var ErrSummaryUnavailable = errors.New("summaries unavailable")

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// SummaryService turns a hackathon description into a two-sentence pitch via
// the Gemini API. This is the only component that retries: the AI helper
// sits outside the sync/roster core, where retries stay forbidden.
type SummaryService struct {
	apiKey   string
	endpoint string
	http     *http.Client
	breaker  *circuitbreaker.CircuitBreaker
	retry    *retry.Config
	logger   *slog.Logger
}

// NewSummaryService creates a summary service. An empty apiKey yields a
// service that always reports ErrSummaryUnavailable.
func NewSummaryService(apiKey string, logger *slog.Logger) *SummaryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryService{
		apiKey:   apiKey,
		endpoint: geminiEndpoint,
		http:     &http.Client{Timeout: 20 * time.Second},
		breaker:  circuitbreaker.New(3, 1, 30*time.Second),
		retry:    retry.DefaultConfig(),
		logger:   logger,
	}
}

// SetEndpoint overrides the upstream URL; tests point it at a local server.
func (s *SummaryService) SetEndpoint(endpoint string) {
	s.endpoint = endpoint
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Summarize produces the short summary for one description.
func (s *SummaryService) Summarize(ctx context.Context, description string) (string, error) {
	if s.apiKey == "" {
		return "", ErrSummaryUnavailable
	}
	if description == "" {
		return "", errors.New("nothing to summarize")
	}
	if !s.breaker.AllowRequest() {
		s.logger.Warn("summary circuit open, fast-failing")
		return "", ErrSummaryUnavailable
	}

	prompt := fmt.Sprintf("Summarize this hackathon description in 2 exciting sentences for students: %s", description)

	summary, err := retry.Do(ctx, s.retry, s.logger, "gemini.generate", func(ctx context.Context) (string, error) {
		return s.generate(ctx, prompt)
	})
	if err != nil {
		s.breaker.RecordFailure()
		return "", fmt.Errorf("summarize: %w", err)
	}
	s.breaker.RecordSuccess()
	return summary, nil
}

func (s *SummaryService) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"?key="+s.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, raw)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty gemini response")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
