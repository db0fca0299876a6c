package main

import (
	"fmt"

	"github.com/bpydoc/bpydoc"
	"github.com/bpydoc/bpydoc/pipeline"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	p := &pipeline.Pipeline{
		Selector:    deps.Selector,
		Extractor:   deps.Extract,
		Concurrency: c.Concurrency,
		Logger:      deps.Logger,
	}

	summary, err := p.Run(deps.Ctx, c.Source, c.WorkDir, c.Out)

	// The summary is surfaced even when the run fails, so the operator can
	// see how many entities were lost and why.
	printSummary(deps, summary)

	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bpydoc.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %d records to %q\n", summary.RecordsEmitted, c.Out)
	return nil
}

func printSummary(deps *Dependencies, summary *bpydoc.RunSummary) {
	if summary == nil {
		return
	}
	fmt.Fprintf(deps.Stdout, "run %s: processed=%d skipped=%d records=%d errors=%d\n",
		summary.RunID, summary.FilesProcessed, summary.FilesSkipped,
		summary.RecordsEmitted, len(summary.Errors))
	for _, d := range summary.Errors {
		fmt.Fprintf(deps.Stderr, "  [%s] %s: %s\n", d.Code, d.Path, d.Reason)
	}
}
