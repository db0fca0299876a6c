// Package pipeline provides the extraction driver. It sequences the
// Selector and the RecordExtractor over the documentation tree and owns the
// record stream lifecycle, isolating per-file failures so one bad page
// never aborts a run.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bpydoc/bpydoc"
	"github.com/bpydoc/bpydoc/jsonl"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Pipeline drives the extraction run.
type Pipeline struct {
	Selector  bpydoc.Selector
	Extractor bpydoc.RecordExtractor

	// Concurrency caps parallel per-file extraction. Values below 2 run
	// sequentially. Output order is deterministic either way: results are
	// written in sorted file-path order, extraction-yield order within a
	// file.
	Concurrency int

	Logger *slog.Logger
}

// fileResult holds the outcome of extracting a single file. Results are
// indexed by the file's position in the sorted selection so concurrent
// extraction cannot perturb output order.
type fileResult struct {
	path    string
	records []*bpydoc.DocumentRecord
	diags   []bpydoc.Diagnostic
	skipped bool
}

// Run selects files from sourceDir into workDir, extracts records from the
// selected set and writes them to the stream file at streamPath.
//
// Per-file failures become diagnostics on the summary; only corpus-level
// preconditions (empty selection, unwritable stream) are fatal. The summary
// is returned even when the run fails, alongside the error.
func (p *Pipeline) Run(ctx context.Context, sourceDir, workDir, streamPath string) (*bpydoc.RunSummary, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	summary := &bpydoc.RunSummary{
		RunID:  uuid.New().String(),
		Errors: []bpydoc.Diagnostic{},
	}
	collect := func(d bpydoc.Diagnostic) {
		summary.Errors = append(summary.Errors, d)
	}

	files, err := p.Selector.Select(ctx, sourceDir, workDir, collect)
	if err != nil {
		return summary, err
	}
	logger.Info("selection complete", "files", len(files), "run_id", summary.RunID)

	results := make([]fileResult, len(files))
	if p.Concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.Concurrency)
		for i := range files {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = p.processFile(workDir, files[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return summary, err
		}
	} else {
		for i := range files {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			results[i] = p.processFile(workDir, files[i])
		}
	}

	w, err := jsonl.Create(streamPath)
	if err != nil {
		return summary, err
	}

	// Single-writer phase: diagnostics and the duplicate-identifier check
	// happen here, in deterministic order, regardless of how extraction ran.
	seen := make(map[string]string, len(files))
	for _, res := range results {
		if err := ctx.Err(); err != nil {
			// Best-effort early termination: the stream stays line-complete.
			_ = w.Close()
			summary.RecordsEmitted = w.Count()
			return summary, err
		}

		summary.Errors = append(summary.Errors, res.diags...)
		if res.skipped {
			summary.FilesSkipped++
			continue
		}
		summary.FilesProcessed++

		for _, rec := range res.records {
			if prev, ok := seen[rec.Identifier]; ok {
				collect(bpydoc.Diagnostic{
					Path: res.path,
					Code: bpydoc.ECONFLICT,
					Reason: "duplicate identifier " + rec.Identifier +
						" (first seen in " + prev + "); record dropped",
				})
				continue
			}
			seen[rec.Identifier] = res.path

			if err := w.WriteRecord(rec); err != nil {
				_ = w.Close()
				summary.RecordsEmitted = w.Count()
				return summary, err
			}
		}
	}

	if err := w.Close(); err != nil {
		return summary, err
	}
	summary.RecordsEmitted = w.Count()

	logger.Info("extraction complete",
		"run_id", summary.RunID,
		"files_processed", summary.FilesProcessed,
		"files_skipped", summary.FilesSkipped,
		"records_emitted", summary.RecordsEmitted,
		"errors", len(summary.Errors),
	)
	return summary, nil
}

// processFile extracts one selected file. All failures are recorded as
// diagnostics on the result; nothing here is fatal to the run.
func (p *Pipeline) processFile(workDir, rel string) fileResult {
	res := fileResult{path: rel}
	diag := func(d bpydoc.Diagnostic) {
		res.diags = append(res.diags, d)
	}

	data, err := os.ReadFile(filepath.Join(workDir, rel))
	if err != nil {
		diag(bpydoc.Diagnostic{
			Path:   rel,
			Code:   bpydoc.EUNREADABLE,
			Reason: err.Error(),
		})
		res.skipped = true
		return res
	}

	records, err := p.Extractor.ExtractRecords(rel, data, diag)
	if err != nil {
		diag(bpydoc.Diagnostic{
			Path:   rel,
			Code:   bpydoc.ErrorCode(err),
			Reason: bpydoc.ErrorMessage(err),
		})
		res.skipped = true
		return res
	}

	res.records = records
	return res
}
