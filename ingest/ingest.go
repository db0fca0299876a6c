// Package ingest provides the adapters at the external-collaborator
// boundary: streaming records into the vector store and passing queries
// through to it. No extraction or ranking logic lives here.
package ingest

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/bpydoc/bpydoc"
	"github.com/bpydoc/bpydoc/jsonl"
	"github.com/cespare/xxhash/v2"
)

// Ingestor consumes a record stream, embeds each record's rendered text and
// upserts the result into the vector store keyed by identifier, so
// re-ingestion overwrites rather than duplicates.
type Ingestor struct {
	Embedder bpydoc.Embedder
	Store    bpydoc.VectorStore

	// BatchSize caps records per embedding request. Defaults to 100.
	BatchSize int

	Logger *slog.Logger
}

// Result is the outcome of one ingestion run, surfaced even on partial
// failure.
type Result struct {
	RecordsRead int                 `json:"recordsRead"`
	Upserted    int                 `json:"upserted"`
	Skipped     int                 `json:"skipped"`
	Errors      []bpydoc.Diagnostic `json:"errors"`
}

// IngestStream reads the record stream at streamPath and ingests it. The
// stream is read lazily; memory use is bounded by the batch size. Records
// whose rendered embedding text is byte-identical to one already ingested
// in this run are skipped - paying the embedding cost twice for the same
// text buys nothing.
func (ing *Ingestor) IngestStream(ctx context.Context, streamPath string) (*Result, error) {
	logger := ing.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	batchSize := ing.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	reader, err := jsonl.Open(streamPath)
	if err != nil {
		return &Result{Errors: []bpydoc.Diagnostic{}}, err
	}
	defer reader.Close()

	result := &Result{Errors: []bpydoc.Diagnostic{}}
	seen := make(map[uint64]struct{})
	var batch []bpydoc.VectorItem
	var texts []string

	flush := func() {
		if len(batch) == 0 {
			return
		}
		vectors, err := ing.Embedder.Embed(ctx, texts)
		if err == nil && len(vectors) != len(batch) {
			err = bpydoc.Errorf(bpydoc.EINTERNAL,
				"embedder returned %d vectors for %d texts", len(vectors), len(batch))
		}
		if err == nil {
			for i := range batch {
				batch[i].Vector = vectors[i]
			}
			err = ing.Store.Upsert(ctx, batch)
		}
		if err != nil {
			result.Errors = append(result.Errors, bpydoc.Diagnostic{
				Path:   streamPath,
				Code:   bpydoc.ErrorCode(err),
				Reason: "ingest batch of " + strconv.Itoa(len(batch)) + ": " + err.Error(),
			})
			logger.Error("batch failed", "size", len(batch), "error", err)
		} else {
			result.Upserted += len(batch)
			logger.Info("batch ingested", "size", len(batch), "total", result.Upserted)
		}
		batch = batch[:0]
		texts = texts[:0]
	}

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, bpydoc.Diagnostic{
				Path:   streamPath,
				Code:   bpydoc.ErrorCode(err),
				Reason: bpydoc.ErrorMessage(err),
			})
			if bpydoc.ErrorCode(err) == bpydoc.EMALFORMED {
				// A corrupt line is recoverable; the reader is already
				// positioned past it.
				continue
			}
			// Read failures (I/O errors, an oversized line) do not advance
			// the reader, so retrying would spin on the same error.
			return result, err
		}
		result.RecordsRead++

		text := bpydoc.BuildEmbeddingText(rec)
		hash := xxhash.Sum64String(text)
		if _, dup := seen[hash]; dup {
			result.Skipped++
			continue
		}
		seen[hash] = struct{}{}

		batch = append(batch, bpydoc.VectorItem{
			ID:       rec.Identifier,
			Metadata: bpydoc.BuildMetadata(rec),
			Document: text,
		})
		texts = append(texts, text)

		if len(batch) >= batchSize {
			flush()
		}
	}
	flush()

	logger.Info("ingestion complete",
		"records_read", result.RecordsRead,
		"upserted", result.Upserted,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

// Querier passes natural-language queries through to the vector store.
type Querier struct {
	Embedder bpydoc.Embedder
	Store    bpydoc.VectorStore
}

// Query embeds the query text and returns up to k matches from the store.
// Ranking is entirely the store's concern.
func (q *Querier) Query(ctx context.Context, query string, k int) ([]bpydoc.Match, error) {
	if query == "" {
		return nil, bpydoc.Errorf(bpydoc.EINVALID, "query text required")
	}
	if k <= 0 {
		return nil, bpydoc.Errorf(bpydoc.EINVALID, "result count must be positive, got %d", k)
	}

	vectors, err := q.Embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, bpydoc.Errorf(bpydoc.EINTERNAL, "embedder returned %d vectors for one query", len(vectors))
	}

	return q.Store.Query(ctx, vectors[0], k)
}
