package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bpydoc/bpydoc"
	"github.com/bpydoc/bpydoc/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, dir string, names []string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("<html>"+name+"</html>"), 0644))
	}
}

func TestSelector_Select(t *testing.T) {
	t.Parallel()

	t.Run("selects API pages and skips meta pages", func(t *testing.T) {
		t.Parallel()

		sourceDir := t.TempDir()
		targetDir := t.TempDir()
		writeTree(t, sourceDir, []string{
			"bpy.types.Object.html",
			"bpy.ops.mesh.html",
			"mathutils.html",
			"genindex.html",
			"search.html",
			"index.html",
			"gpu.types.html",
		})

		s := fs.NewSelector(nil)
		selected, err := s.Select(context.Background(), sourceDir, targetDir, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{
			"bpy.ops.mesh.html",
			"bpy.types.Object.html",
			"mathutils.html",
		}, selected)

		for _, rel := range selected {
			data, err := os.ReadFile(filepath.Join(targetDir, rel))
			require.NoError(t, err)
			assert.Equal(t, "<html>"+rel+"</html>", string(data))
		}
		_, err = os.Stat(filepath.Join(targetDir, "genindex.html"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("selection is idempotent", func(t *testing.T) {
		t.Parallel()

		sourceDir := t.TempDir()
		targetDir := t.TempDir()
		writeTree(t, sourceDir, []string{"bpy.types.Object.html", "bmesh.ops.html"})

		s := fs.NewSelector(nil)
		first, err := s.Select(context.Background(), sourceDir, targetDir, nil)
		require.NoError(t, err)
		second, err := s.Select(context.Background(), sourceDir, targetDir, nil)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("custom filter overrides the defaults", func(t *testing.T) {
		t.Parallel()

		sourceDir := t.TempDir()
		targetDir := t.TempDir()
		writeTree(t, sourceDir, []string{"gpu.types.html", "bpy.types.Object.html"})

		s := fs.NewSelector(&bpydoc.PathFilter{Include: []string{"gpu.*"}})
		selected, err := s.Select(context.Background(), sourceDir, targetDir, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"gpu.types.html"}, selected)
	})

	t.Run("nested directories keep their relative layout", func(t *testing.T) {
		t.Parallel()

		sourceDir := t.TempDir()
		targetDir := t.TempDir()
		writeTree(t, sourceDir, []string{filepath.Join("api", "bpy.types.Object.html")})

		s := fs.NewSelector(nil)
		selected, err := s.Select(context.Background(), sourceDir, targetDir, nil)
		require.NoError(t, err)
		require.Len(t, selected, 1)
		assert.Equal(t, filepath.Join("api", "bpy.types.Object.html"), selected[0])

		_, err = os.Stat(filepath.Join(targetDir, "api", "bpy.types.Object.html"))
		require.NoError(t, err)
	})

	t.Run("no matching files fails with empty selection", func(t *testing.T) {
		t.Parallel()

		sourceDir := t.TempDir()
		writeTree(t, sourceDir, []string{"genindex.html"})

		s := fs.NewSelector(nil)
		_, err := s.Select(context.Background(), sourceDir, t.TempDir(), nil)
		require.Error(t, err)
		assert.Equal(t, bpydoc.EEMPTYSELECTION, bpydoc.ErrorCode(err))
	})

	t.Run("missing source directory is unreadable", func(t *testing.T) {
		t.Parallel()

		s := fs.NewSelector(nil)
		_, err := s.Select(context.Background(), filepath.Join(t.TempDir(), "nope"), t.TempDir(), nil)
		require.Error(t, err)
		assert.Equal(t, bpydoc.EUNREADABLE, bpydoc.ErrorCode(err))
	})

	t.Run("cancelled context stops the walk", func(t *testing.T) {
		t.Parallel()

		sourceDir := t.TempDir()
		writeTree(t, sourceDir, []string{"bpy.types.Object.html"})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := fs.NewSelector(nil)
		_, err := s.Select(ctx, sourceDir, t.TempDir(), nil)
		require.ErrorIs(t, err, context.Canceled)
	})
}
