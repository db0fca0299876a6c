package main

import (
	"fmt"

	"github.com/bpydoc/bpydoc"
)

// Run executes the select command.
func (c *SelectCmd) Run(deps *Dependencies) error {
	var diags []bpydoc.Diagnostic
	files, err := deps.Selector.Select(deps.Ctx, c.Source, c.Target, func(d bpydoc.Diagnostic) {
		diags = append(diags, d)
	})

	for _, d := range diags {
		fmt.Fprintf(deps.Stderr, "warning: %s: %s\n", d.Path, d.Reason)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bpydoc.ErrorMessage(err))
		return err
	}

	for _, f := range files {
		fmt.Fprintln(deps.Stdout, f)
	}
	fmt.Fprintf(deps.Stdout, "Selected %d files into %q\n", len(files), c.Target)
	return nil
}
