// Package chroma provides a VectorStore backed by a Chroma server's REST
// API. Only the small surface the adapters need is covered: get-or-create
// collection, upsert, and nearest-neighbor query.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bpydoc/bpydoc"
)

// Ensure Store implements bpydoc.VectorStore at compile time.
var _ bpydoc.VectorStore = (*Store)(nil)

// Store is a minimal REST client to a Chroma collection. It assumes cosine
// distance and creates the collection on first use if missing.
type Store struct {
	baseURL      string
	collection   string
	collectionID string
	client       *http.Client
	retryDelays  []time.Duration
}

// Config configures the Store.
type Config struct {
	// URL of the Chroma server, e.g. "http://localhost:8000".
	URL string

	// Collection name. Defaults to "blender_api".
	Collection string

	// Timeout per HTTP request. Defaults to 30s.
	Timeout time.Duration

	// RetryDelays overrides the backoff schedule for transient failures.
	// Defaults to 1s, 2s, 4s. Useful for testing without real delays.
	RetryDelays []time.Duration
}

// NewStore creates a Store from the config.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, bpydoc.Errorf(bpydoc.EINVALID, "chroma URL required")
	}
	if cfg.Collection == "" {
		cfg.Collection = "blender_api"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryDelays == nil {
		cfg.RetryDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	}
	return &Store{
		baseURL:     cfg.URL,
		collection:  cfg.Collection,
		client:      &http.Client{Timeout: cfg.Timeout},
		retryDelays: cfg.RetryDelays,
	}, nil
}

// ensureCollection resolves the collection ID, creating the collection if
// it does not exist yet. The ID is cached for the lifetime of the Store.
func (s *Store) ensureCollection(ctx context.Context) error {
	if s.collectionID != "" {
		return nil
	}

	payload, err := s.post(ctx, "/api/v1/collections", map[string]any{
		"name":          s.collection,
		"get_or_create": true,
		"metadata":      map[string]any{"hnsw:space": "cosine"},
	})
	if err != nil {
		return err
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return bpydoc.Errorf(bpydoc.EINTERNAL, "decode collection response: %v", err)
	}
	if out.ID == "" {
		return bpydoc.Errorf(bpydoc.EINTERNAL, "chroma returned no collection ID")
	}
	s.collectionID = out.ID
	return nil
}

// Upsert inserts or replaces items keyed by their ID.
func (s *Store) Upsert(ctx context.Context, items []bpydoc.VectorItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := s.ensureCollection(ctx); err != nil {
		return err
	}

	ids := make([]string, len(items))
	embeddings := make([][]float32, len(items))
	metadatas := make([]map[string]string, len(items))
	documents := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
		embeddings[i] = item.Vector
		metadatas[i] = item.Metadata
		documents[i] = item.Document
	}

	_, err := s.post(ctx, "/api/v1/collections/"+s.collectionID+"/upsert", map[string]any{
		"ids":        ids,
		"embeddings": embeddings,
		"metadatas":  metadatas,
		"documents":  documents,
	})
	return err
}

// Query returns up to k matches for the query vector, best first. Chroma
// reports cosine distance; the score is converted to similarity so higher
// is better.
func (s *Store) Query(ctx context.Context, vector []float32, k int) ([]bpydoc.Match, error) {
	if k <= 0 {
		return nil, bpydoc.Errorf(bpydoc.EINVALID, "result count must be positive, got %d", k)
	}
	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}

	payload, err := s.post(ctx, "/api/v1/collections/"+s.collectionID+"/query", map[string]any{
		"query_embeddings": [][]float32{vector},
		"n_results":        k,
		"include":          []string{"documents", "distances"},
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		IDs       [][]string  `json:"ids"`
		Distances [][]float32 `json:"distances"`
		Documents [][]string  `json:"documents"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, bpydoc.Errorf(bpydoc.EINTERNAL, "decode query response: %v", err)
	}
	if len(out.IDs) == 0 {
		return nil, nil
	}

	matches := make([]bpydoc.Match, 0, len(out.IDs[0]))
	for i, id := range out.IDs[0] {
		m := bpydoc.Match{Identifier: id}
		if len(out.Distances) > 0 && i < len(out.Distances[0]) {
			m.Score = 1 - out.Distances[0][i]
		}
		if len(out.Documents) > 0 && i < len(out.Documents[0]) {
			m.Snippet = snippet(out.Documents[0][i])
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// snippetLen bounds the text returned with each match; full documents live
// in the store.
const snippetLen = 300

func snippet(doc string) string {
	if len(doc) <= snippetLen {
		return doc
	}
	return doc[:snippetLen] + "..."
}

// post sends a JSON request, retrying transient failures (rate limits and
// server errors) with exponential backoff.
func (s *Store) post(ctx context.Context, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, bpydoc.Errorf(bpydoc.EINTERNAL, "marshal request: %v", err)
	}

	maxAttempts := len(s.retryDelays) + 1
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		payload, transient, err := s.doPost(ctx, path, data)
		if err == nil {
			return payload, nil
		}
		lastErr = err
		if !transient || attempt >= maxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.retryDelays[attempt]):
		}
	}
	return nil, lastErr
}

func (s *Store) doPost(ctx context.Context, path string, data []byte) (payload []byte, transient bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, false, bpydoc.Errorf(bpydoc.EINTERNAL, "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("chroma request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("chroma request %s failed: %s", path, resp.Status)
	}
	if resp.StatusCode >= 300 {
		return nil, false, bpydoc.Errorf(bpydoc.EINTERNAL, "chroma request %s failed: %s", path, resp.Status)
	}

	payload, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read chroma response: %w", err)
	}
	return payload, false, nil
}
