package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yourorg/hackconnect/internal/domain"
	"github.com/yourorg/hackconnect/internal/observability/metrics"
)

// Client is a thin REST client for an Appwrite-compatible BaaS. It carries the
// project/key headers on every call and maps upstream failure codes onto the
// domain error taxonomy. Timeouts live here; callers never retry.
type Client struct {
	endpoint string
	project  string
	key      string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates a client for the given endpoint (e.g.
// "https://cloud.appwrite.io/v1"). The outbound transport is instrumented so
// every upstream call shows up in traces.
func NewClient(endpoint, project, key string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		project:  project,
		key:      key,
		http: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}
}

// apiError is the error envelope Appwrite returns for non-2xx responses.
type apiError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

// do performs one request against the BaaS and decodes the response into out
// (when non-nil). op is a stable label for logs and metrics; path segments
// with ids must not leak into it.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return &domain.UpstreamError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Project", c.project)
	req.Header.Set("X-Appwrite-Key", c.key)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveUpstream(op, "error", time.Since(start))
		return &domain.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(op, statusClass(resp.StatusCode), time.Since(start))

	if resp.StatusCode >= 400 {
		return c.mapError(op, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &domain.UpstreamError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// mapError folds upstream failure codes into the domain taxonomy. Anything
// unrecognized is downgraded to UpstreamError rather than propagated raw.
func (c *Client) mapError(op string, resp *http.Response) error {
	var ae apiError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &ae)

	c.logger.Warn("upstream request failed",
		slog.String("op", op),
		slog.Int("status", resp.StatusCode),
		slog.String("type", ae.Type),
	)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	default:
		return &domain.UpstreamError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, ae.Message)}
	}
}

func statusClass(code int) string {
	switch {
	case code < 400:
		return "ok"
	case code < 500:
		return "client_error"
	default:
		return "server_error"
	}
}

// encodeQueries renders store-side filters in the Appwrite JSON query syntax.
func encodeQueries(queries []domain.Query) url.Values {
	if len(queries) == 0 {
		return nil
	}
	v := url.Values{}
	for _, q := range queries {
		payload := map[string]any{"method": q.Method, "values": q.Values}
		if q.Attribute != "" {
			payload["attribute"] = q.Attribute
		}
		data, err := json.Marshal(payload)
		if err != nil {
			continue
		}
		v.Add("queries[]", string(data))
	}
	return v
}

// parseTime tolerates the upstream timestamp format; a zero time is returned
// for anything unparsable rather than failing the whole read.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
