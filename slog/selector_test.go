package slog_test

import (
	"bytes"
	"context"
	stdslog "log/slog"
	"testing"

	"github.com/bpydoc/bpydoc"
	"github.com/bpydoc/bpydoc/mock"
	"github.com/bpydoc/bpydoc/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSelector_Select(t *testing.T) {
	t.Parallel()

	t.Run("delegates and logs the outcome", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := stdslog.New(stdslog.NewTextHandler(&buf, nil))

		next := &mock.Selector{
			SelectFn: func(_ context.Context, sourceDir, targetDir string, _ bpydoc.DiagnosticFunc) ([]string, error) {
				assert.Equal(t, "source", sourceDir)
				assert.Equal(t, "target", targetDir)
				return []string{"bpy.types.Object.html"}, nil
			},
		}

		s := slog.NewLoggingSelector(next, logger)
		files, err := s.Select(context.Background(), "source", "target", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"bpy.types.Object.html"}, files)

		out := buf.String()
		assert.Contains(t, out, "selection")
		assert.Contains(t, out, "selected=1")
	})

	t.Run("logs failures with their code", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := stdslog.New(stdslog.NewTextHandler(&buf, nil))

		next := &mock.Selector{
			SelectFn: func(context.Context, string, string, bpydoc.DiagnosticFunc) ([]string, error) {
				return nil, bpydoc.Errorf(bpydoc.EEMPTYSELECTION, "nothing matched")
			},
		}

		s := slog.NewLoggingSelector(next, logger)
		_, err := s.Select(context.Background(), "source", "target", nil)
		require.Error(t, err)
		assert.Equal(t, bpydoc.EEMPTYSELECTION, bpydoc.ErrorCode(err))

		out := buf.String()
		assert.Contains(t, out, "selection failed")
		assert.Contains(t, out, bpydoc.EEMPTYSELECTION)
	})
}
