// Package fs provides the file-system Selector that narrows a raw
// documentation tree down to its API reference pages.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bpydoc/bpydoc"
)

// Ensure Selector implements bpydoc.Selector at compile time.
var _ bpydoc.Selector = (*Selector)(nil)

// Selector walks a documentation tree and copies files matching its filter
// into a target directory. Selection is idempotent: re-running over an
// unchanged tree yields the identical set and overwrites in place.
type Selector struct {
	filter *bpydoc.PathFilter
}

// NewSelector creates a Selector. A nil filter selects the default Blender
// API reference rules.
func NewSelector(filter *bpydoc.PathFilter) *Selector {
	if filter == nil {
		filter = bpydoc.DefaultPathFilter()
	}
	return &Selector{filter: filter}
}

// Select walks sourceDir and copies matching files into targetDir.
// Returned paths are relative to sourceDir, sorted. Unreadable source files
// are reported through diag and skipped; a selection that matches nothing
// fails with EEMPTYSELECTION.
func (s *Selector) Select(ctx context.Context, sourceDir, targetDir string, diag bpydoc.DiagnosticFunc) ([]string, error) {
	if _, err := os.Stat(sourceDir); err != nil {
		return nil, bpydoc.Errorf(bpydoc.EUNREADABLE, "source directory %q: %v", sourceDir, err)
	}

	var selected []string
	err := filepath.WalkDir(sourceDir, func(path string, d os.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			s.report(diag, path, bpydoc.Errorf(bpydoc.EUNREADABLE, "walk %q: %v", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !s.filter.Match(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		if err := copyFile(path, filepath.Join(targetDir, rel)); err != nil {
			s.report(diag, rel, err)
			return nil
		}
		selected = append(selected, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(selected)

	if len(selected) == 0 {
		return nil, bpydoc.Errorf(bpydoc.EEMPTYSELECTION,
			"no files selected from %q; check the filter patterns and source path", sourceDir)
	}
	return selected, nil
}

func (s *Selector) report(diag bpydoc.DiagnosticFunc, path string, err error) {
	if diag == nil {
		return
	}
	diag(bpydoc.Diagnostic{
		Path:   path,
		Code:   bpydoc.ErrorCode(err),
		Reason: bpydoc.ErrorMessage(err),
	})
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return bpydoc.Errorf(bpydoc.EUNREADABLE, "read %q: %v", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return bpydoc.Errorf(bpydoc.EUNREADABLE, "create target dir for %q: %v", dst, err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return bpydoc.Errorf(bpydoc.EUNREADABLE, "write %q: %v", dst, err)
	}
	return nil
}
