// Package gemini provides an Embedder backed by the Gemini API.
package gemini

import (
	"context"

	"github.com/bpydoc/bpydoc"
	"google.golang.org/genai"
)

const model = "gemini-embedding-001"

// Ensure Embedder implements bpydoc.Embedder at compile time.
var _ bpydoc.Embedder = (*Embedder)(nil)

// Embedder implements bpydoc.Embedder using Google Gemini.
type Embedder struct {
	client *genai.Client
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client}
}

// Embed returns one vector per input text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		}
	}

	result, err := e.client.Models.EmbedContent(ctx, model, contents, nil)
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, bpydoc.Errorf(bpydoc.EINTERNAL,
			"gemini returned %d embeddings, want %d", embeddingCount(result), len(texts))
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, bpydoc.Errorf(bpydoc.EINTERNAL, "gemini returned empty embedding at index %d", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

func embeddingCount(result *genai.EmbedContentResponse) int {
	if result == nil {
		return 0
	}
	return len(result.Embeddings)
}
