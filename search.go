package bpydoc

import "context"

// Embedder produces embedding vectors for texts via an external service.
// Implementations own transient-failure retry and rate limiting.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorItem is one entry upserted into the vector store. ID is the record
// identifier, so re-ingestion of the same identifier overwrites rather than
// duplicates.
type VectorItem struct {
	ID       string
	Vector   []float32
	Metadata map[string]string
	Document string
}

// Match represents one search result from the vector store.
type Match struct {
	Identifier string  `json:"identifier"`
	Score      float32 `json:"score"`
	Snippet    string  `json:"snippet"`
}

// VectorStore indexes embeddings for nearest-neighbor retrieval. It is an
// opaque collaborator: ranking is entirely its concern.
type VectorStore interface {
	// Upsert inserts or replaces items keyed by their ID.
	Upsert(ctx context.Context, items []VectorItem) error

	// Query returns up to k matches for the query vector, best first.
	Query(ctx context.Context, vector []float32, k int) ([]Match, error)
}
