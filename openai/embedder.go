// Package openai provides an Embedder backed by an OpenAI-compatible
// embeddings endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/bpydoc/bpydoc"
	"golang.org/x/time/rate"
)

// DefaultModel matches the model the knowledge base was originally built
// with; changing it requires re-ingesting the whole corpus.
const DefaultModel = "text-embedding-3-small"

const defaultBaseURL = "https://api.openai.com/v1"

// Ensure Embedder implements bpydoc.Embedder at compile time.
var _ bpydoc.Embedder = (*Embedder)(nil)

// Embedder requests embeddings over the OpenAI REST API. Transient failures
// (rate limits, server errors) are retried with exponential backoff, and an
// optional client-side rate limiter smooths request bursts.
type Embedder struct {
	baseURL     string
	apiKey      string
	model       string
	client      *http.Client
	limiter     *rate.Limiter
	retryDelays []time.Duration
}

// Config configures the Embedder.
type Config struct {
	// BaseURL of the API; defaults to the OpenAI endpoint. Any
	// OpenAI-compatible server works.
	BaseURL string

	// APIKey is required. The caller reads it from the environment; this
	// package never touches the environment itself.
	APIKey string

	// Model defaults to DefaultModel.
	Model string

	// Timeout per HTTP request. Defaults to 30s.
	Timeout time.Duration

	// RequestsPerSecond enables client-side rate limiting when > 0.
	RequestsPerSecond float64

	// RetryDelays overrides the backoff schedule for transient failures.
	// Defaults to 1s, 2s, 4s. Useful for testing without real delays.
	RetryDelays []time.Duration
}

// NewEmbedder creates an Embedder from the config.
func NewEmbedder(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, bpydoc.Errorf(bpydoc.EINVALID, "embedding API key required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.RetryDelays == nil {
		cfg.RetryDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Embedder{
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		client:      &http.Client{Timeout: cfg.Timeout},
		limiter:     limiter,
		retryDelays: cfg.RetryDelays,
	}, nil
}

type embedRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns one vector per input text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(embedRequest{Input: texts, Model: e.model})
	if err != nil {
		return nil, bpydoc.Errorf(bpydoc.EINTERNAL, "marshal embed request: %v", err)
	}

	maxAttempts := len(e.retryDelays) + 1
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		payload, retryAfter, err := e.do(ctx, body)
		if err == nil {
			return decodeEmbeddings(payload, len(texts))
		}
		lastErr = err
		if attempt >= maxAttempts-1 || !isTransient(err) {
			break
		}

		delay := e.retryDelays[attempt]
		if retryAfter > delay {
			delay = retryAfter
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}

// do performs one request and returns the response payload, plus any
// server-requested retry delay on failure.
func (e *Embedder) do(ctx context.Context, body []byte) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, 0, bpydoc.Errorf(bpydoc.EINTERNAL, "build embed request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, 0, &transientError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, retryAfter, &transientError{
			err: fmt.Errorf("embeddings request failed: %s", resp.Status),
		}
	}
	if resp.StatusCode >= 300 {
		return nil, 0, bpydoc.Errorf(bpydoc.EINTERNAL, "embeddings request failed: %s", resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &transientError{err: err}
	}
	return payload, 0, nil
}

func decodeEmbeddings(payload []byte, want int) ([][]float32, error) {
	var out embedResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, bpydoc.Errorf(bpydoc.EINTERNAL, "decode embed response: %v", err)
	}
	if len(out.Data) != want {
		return nil, bpydoc.Errorf(bpydoc.EINTERNAL,
			"embed response has %d vectors, want %d", len(out.Data), want)
	}

	// The API documents index-annotated results; order by index rather than
	// trusting response order.
	sort.Slice(out.Data, func(i, j int) bool { return out.Data[i].Index < out.Data[j].Index })

	vectors := make([][]float32, len(out.Data))
	for i, d := range out.Data {
		if len(d.Embedding) == 0 {
			return nil, bpydoc.Errorf(bpydoc.EINTERNAL, "empty embedding at index %d", d.Index)
		}
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// transientError marks failures worth retrying.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	_, ok := err.(*transientError)
	return ok
}
