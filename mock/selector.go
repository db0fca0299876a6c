package mock

import (
	"context"

	"github.com/bpydoc/bpydoc"
)

var _ bpydoc.Selector = (*Selector)(nil)

// Selector is a mock implementation of bpydoc.Selector.
type Selector struct {
	SelectFn func(ctx context.Context, sourceDir, targetDir string, diag bpydoc.DiagnosticFunc) ([]string, error)
}

func (s *Selector) Select(ctx context.Context, sourceDir, targetDir string, diag bpydoc.DiagnosticFunc) ([]string, error) {
	return s.SelectFn(ctx, sourceDir, targetDir, diag)
}
