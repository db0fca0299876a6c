package bpydoc

import (
	"context"
	"path"
)

// PathFilter specifies glob patterns for selecting documentation files.
// Patterns are matched against the file's base name with path.Match
// semantics, mirroring the flat file naming of Sphinx-generated references
// (e.g. "bpy.types.Object.html").
type PathFilter struct {
	// Include patterns - if set, only files matching at least one pattern
	// are included.
	Include []string

	// Exclude patterns - files matching any pattern are excluded.
	// Exclude is applied before Include.
	Exclude []string
}

// Match returns true if the file name passes the filter.
// If the filter is nil, all files pass.
func (f *PathFilter) Match(name string) bool {
	if f == nil {
		return true
	}

	for _, pattern := range f.Exclude {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return false
		}
	}

	if len(f.Include) == 0 {
		return true
	}
	for _, pattern := range f.Include {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// DefaultPathFilter returns the selection rules for the Blender Python API
// reference: the scripting API subtrees plus the math and mesh helper
// modules, minus navigational and meta pages. The rules are configuration
// data; callers can substitute their own filter.
func DefaultPathFilter() *PathFilter {
	return &PathFilter{
		Include: []string{
			"bpy.types.*",
			"bpy.ops.*",
			"bpy.data*",
			"bpy.context*",
			"bpy.props*",
			"bpy.utils*",
			"bpy.app*",
			"bpy.path*",
			"mathutils*",
			"bmesh*",
		},
		Exclude: []string{
			"aud.*",
			"bgl.*",
			"blf.*",
			"gpu.*",
			"freestyle.*",
			"genindex*",
			"search*",
			"index*",
			"_*",
		},
	}
}

// Selector identifies the subset of a documentation tree that documents real
// API entities, as opposed to navigational or meta pages.
type Selector interface {
	// Select walks sourceDir, copies matching files into targetDir and
	// returns their paths relative to sourceDir in sorted order. The
	// operation is idempotent: re-running over an unchanged tree yields the
	// identical set and overwrites previously selected files in place.
	//
	// Unreadable source files are reported through diag and skipped.
	// Returns EEMPTYSELECTION if no file matched.
	Select(ctx context.Context, sourceDir, targetDir string, diag DiagnosticFunc) ([]string, error)
}
