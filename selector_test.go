package bpydoc_test

import (
	"testing"

	"github.com/bpydoc/bpydoc"
	"github.com/stretchr/testify/assert"
)

func TestPathFilter_Match(t *testing.T) {
	t.Parallel()

	t.Run("nil filter passes everything", func(t *testing.T) {
		t.Parallel()
		var f *bpydoc.PathFilter
		assert.True(t, f.Match("anything.html"))
	})

	t.Run("include patterns restrict matches", func(t *testing.T) {
		t.Parallel()
		f := &bpydoc.PathFilter{Include: []string{"bpy.types.*"}}
		assert.True(t, f.Match("bpy.types.Object.html"))
		assert.False(t, f.Match("gpu.shader.html"))
	})

	t.Run("exclude wins over include", func(t *testing.T) {
		t.Parallel()
		f := &bpydoc.PathFilter{
			Include: []string{"*"},
			Exclude: []string{"genindex*"},
		}
		assert.True(t, f.Match("bpy.types.Object.html"))
		assert.False(t, f.Match("genindex-all.html"))
	})

	t.Run("no include patterns passes all but excluded", func(t *testing.T) {
		t.Parallel()
		f := &bpydoc.PathFilter{Exclude: []string{"_*"}}
		assert.True(t, f.Match("bmesh.ops.html"))
		assert.False(t, f.Match("_static.html"))
	})
}

func TestDefaultPathFilter(t *testing.T) {
	t.Parallel()

	f := bpydoc.DefaultPathFilter()

	selected := []string{
		"bpy.types.Object.html",
		"bpy.ops.mesh.html",
		"bpy.context.html",
		"bpy.props.html",
		"mathutils.html",
		"bmesh.types.html",
	}
	for _, name := range selected {
		assert.True(t, f.Match(name), name)
	}

	rejected := []string{
		"genindex.html",
		"search.html",
		"index.html",
		"_modules.html",
		"gpu.types.html",
		"aud.html",
		"changelog.html",
	}
	for _, name := range rejected {
		assert.False(t, f.Match(name), name)
	}
}
