package mock

import (
	"context"

	"github.com/bpydoc/bpydoc"
)

var _ bpydoc.VectorStore = (*VectorStore)(nil)

// VectorStore is a mock implementation of bpydoc.VectorStore.
type VectorStore struct {
	UpsertFn func(ctx context.Context, items []bpydoc.VectorItem) error
	QueryFn  func(ctx context.Context, vector []float32, k int) ([]bpydoc.Match, error)
}

func (s *VectorStore) Upsert(ctx context.Context, items []bpydoc.VectorItem) error {
	return s.UpsertFn(ctx, items)
}

func (s *VectorStore) Query(ctx context.Context, vector []float32, k int) ([]bpydoc.Match, error) {
	return s.QueryFn(ctx, vector, k)
}
