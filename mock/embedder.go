package mock

import (
	"context"

	"github.com/bpydoc/bpydoc"
)

var _ bpydoc.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of bpydoc.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedFn(ctx, texts)
}
