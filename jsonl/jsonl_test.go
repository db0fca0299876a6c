package jsonl_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bpydoc/bpydoc"
	"github.com/bpydoc/bpydoc/jsonl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(identifier string) *bpydoc.DocumentRecord {
	return &bpydoc.DocumentRecord{
		Identifier: identifier,
		Kind:       bpydoc.KindProperty,
		Summary:    "Summary of " + identifier + ".",
		Parameters: []bpydoc.Parameter{},
		SourcePath: "bpy.types.Object.html",
	}
}

func TestWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes one record per line", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "records.jsonl")
		w, err := jsonl.Create(path)
		require.NoError(t, err)

		require.NoError(t, w.WriteRecord(testRecord("bpy.types.Object.location")))
		require.NoError(t, w.WriteRecord(testRecord("bpy.types.Object.scale")))
		assert.Equal(t, 2, w.Count())
		require.NoError(t, w.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		require.Len(t, lines, 2)
		for _, line := range lines {
			_, err := bpydoc.UnmarshalLine([]byte(line))
			require.NoError(t, err)
		}
	})

	t.Run("create truncates a previous stream", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "records.jsonl")
		require.NoError(t, os.WriteFile(path, []byte("stale content\n"), 0644))

		w, err := jsonl.Create(path)
		require.NoError(t, err)
		require.NoError(t, w.WriteRecord(testRecord("bpy.types.Object.location")))
		require.NoError(t, w.Close())

		records, err := jsonl.ReadAll(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "bpy.types.Object.location", records[0].Identifier)
	})

	t.Run("create fails on an unwritable path", func(t *testing.T) {
		t.Parallel()

		_, err := jsonl.Create(filepath.Join(t.TempDir(), "missing", "records.jsonl"))
		require.Error(t, err)
		assert.Equal(t, bpydoc.ESTREAMWRITE, bpydoc.ErrorCode(err))
	})
}

func TestReader(t *testing.T) {
	t.Parallel()

	t.Run("round-trips records in order", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "records.jsonl")
		want := []*bpydoc.DocumentRecord{
			testRecord("bpy.types.Object.location"),
			testRecord("bpy.types.Object.scale"),
			testRecord("bpy.types.Object.rotation_euler"),
		}

		w, err := jsonl.Create(path)
		require.NoError(t, err)
		for _, r := range want {
			require.NoError(t, w.WriteRecord(r))
		}
		require.NoError(t, w.Close())

		got, err := jsonl.ReadAll(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("skips blank lines", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "records.jsonl")
		line, err := testRecord("bpy.types.Object.location").MarshalLine()
		require.NoError(t, err)
		content := "\n" + string(line) + "\n\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		records, err := jsonl.ReadAll(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
	})

	t.Run("reports the malformed line number", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "records.jsonl")
		line, err := testRecord("bpy.types.Object.location").MarshalLine()
		require.NoError(t, err)
		content := string(line) + "\n{not json\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		r, err := jsonl.Open(path)
		require.NoError(t, err)
		defer r.Close()

		_, err = r.Next()
		require.NoError(t, err)
		_, err = r.Next()
		require.Error(t, err)
		assert.Equal(t, bpydoc.EMALFORMED, bpydoc.ErrorCode(err))
		assert.Contains(t, bpydoc.ErrorMessage(err), "line 2")
	})

	t.Run("oversized line is a terminal read failure", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "records.jsonl")
		line, err := testRecord("bpy.types.Object.location").MarshalLine()
		require.NoError(t, err)
		huge := strings.Repeat("x", 5*1024*1024)
		require.NoError(t, os.WriteFile(path, []byte(string(line)+"\n"+huge+"\n"), 0644))

		r, err := jsonl.Open(path)
		require.NoError(t, err)
		defer r.Close()

		_, err = r.Next()
		require.NoError(t, err)
		_, err = r.Next()
		require.Error(t, err)
		assert.Equal(t, bpydoc.EUNREADABLE, bpydoc.ErrorCode(err))

		// The reader cannot advance past the line, so the error repeats
		// instead of turning into EOF.
		_, err = r.Next()
		require.Error(t, err)
		assert.Equal(t, bpydoc.EUNREADABLE, bpydoc.ErrorCode(err))
	})

	t.Run("returns EOF at end of stream", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "records.jsonl")
		require.NoError(t, os.WriteFile(path, nil, 0644))

		r, err := jsonl.Open(path)
		require.NoError(t, err)
		defer r.Close()

		_, err = r.Next()
		assert.Equal(t, io.EOF, err)
	})

	t.Run("missing stream file is unreadable", func(t *testing.T) {
		t.Parallel()

		_, err := jsonl.Open(filepath.Join(t.TempDir(), "nope.jsonl"))
		require.Error(t, err)
		assert.Equal(t, bpydoc.EUNREADABLE, bpydoc.ErrorCode(err))
	})
}
