// Package jsonl reads and writes the line-delimited record stream that
// connects the extraction core to downstream consumers. The format is plain
// UTF-8 text, one JSON-serialized record per line, with no enclosing
// wrapper, so any tool can parse it without this module's code.
package jsonl

import (
	"bufio"
	"io"
	"os"

	"github.com/bpydoc/bpydoc"
)

// Writer appends records to a stream file. The file is truncated at
// creation and each record is written with a single Write call, so an
// interrupted run leaves a valid, line-complete prefix rather than a
// half-written line.
type Writer struct {
	f     *os.File
	count int
}

// Create opens the stream file for writing, truncating any previous run's
// output. Returns ESTREAMWRITE if the file cannot be created.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, bpydoc.Errorf(bpydoc.ESTREAMWRITE, "create stream %q: %v", path, err)
	}
	return &Writer{f: f}, nil
}

// WriteRecord serializes the record and appends it as one line.
func (w *Writer) WriteRecord(r *bpydoc.DocumentRecord) error {
	data, err := r.MarshalLine()
	if err != nil {
		return err
	}
	line := make([]byte, 0, len(data)+1)
	line = append(line, data...)
	line = append(line, '\n')
	if _, err := w.f.Write(line); err != nil {
		return bpydoc.Errorf(bpydoc.ESTREAMWRITE, "write record %q: %v", r.Identifier, err)
	}
	w.count++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	return w.count
}

// Close flushes and closes the stream file.
func (w *Writer) Close() error {
	if err := w.f.Sync(); err != nil {
		w.f.Close()
		return bpydoc.Errorf(bpydoc.ESTREAMWRITE, "sync stream: %v", err)
	}
	if err := w.f.Close(); err != nil {
		return bpydoc.Errorf(bpydoc.ESTREAMWRITE, "close stream: %v", err)
	}
	return nil
}

// Reader iterates a stream file one record at a time, so arbitrarily large
// corpora never need to fit in memory.
type Reader struct {
	f       *os.File
	scanner *bufio.Scanner
	line    int
}

// maxLineSize bounds a single serialized record. Blender's largest class
// pages stay well under this.
const maxLineSize = 4 * 1024 * 1024

// Open opens a stream file for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, bpydoc.Errorf(bpydoc.EUNREADABLE, "open stream %q: %v", path, err)
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Reader{f: f, scanner: scanner}, nil
}

// Next returns the next record in the stream. Blank lines are skipped.
// Returns io.EOF when the stream is exhausted. A malformed line yields
// EMALFORMED and the reader is positioned past it, so callers may keep
// iterating; a read failure such as an oversized line yields EUNREADABLE
// and is terminal - the reader cannot advance, and every later call
// returns the same error.
func (r *Reader) Next() (*bpydoc.DocumentRecord, error) {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		rec, err := bpydoc.UnmarshalLine(line)
		if err != nil {
			return nil, bpydoc.Errorf(bpydoc.EMALFORMED, "stream line %d: %v", r.line, bpydoc.ErrorMessage(err))
		}
		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, bpydoc.Errorf(bpydoc.EUNREADABLE, "read stream: %v", err)
	}
	return nil, io.EOF
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

// ReadAll reads an entire stream file into memory. Intended for tests and
// small corpora; prefer Reader for ingestion.
func ReadAll(path string) ([]*bpydoc.DocumentRecord, error) {
	reader, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var records []*bpydoc.DocumentRecord
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}
