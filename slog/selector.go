// Package slog provides logging decorators for domain interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/bpydoc/bpydoc"
)

// Ensure LoggingSelector implements bpydoc.Selector.
var _ bpydoc.Selector = (*LoggingSelector)(nil)

// LoggingSelector wraps a Selector with debug logging for selection runs.
type LoggingSelector struct {
	next   bpydoc.Selector
	logger *slog.Logger
}

// NewLoggingSelector creates a new LoggingSelector.
func NewLoggingSelector(next bpydoc.Selector, logger *slog.Logger) *LoggingSelector {
	return &LoggingSelector{next: next, logger: logger}
}

// Select delegates to the wrapped selector, logging the outcome and timing.
func (s *LoggingSelector) Select(ctx context.Context, sourceDir, targetDir string, diag bpydoc.DiagnosticFunc) ([]string, error) {
	begin := time.Now()
	files, err := s.next.Select(ctx, sourceDir, targetDir, diag)
	if err != nil {
		s.logger.Error("selection failed",
			"source", sourceDir,
			"code", bpydoc.ErrorCode(err),
			"duration", time.Since(begin),
		)
		return nil, err
	}
	s.logger.Info("selection",
		"source", sourceDir,
		"selected", len(files),
		"duration", time.Since(begin),
	)
	return files, nil
}
