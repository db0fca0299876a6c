package main

import (
	"fmt"

	"github.com/bpydoc/bpydoc"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	result, err := deps.Ingestor.IngestStream(deps.Ctx, c.Stream)

	if result != nil {
		fmt.Fprintf(deps.Stdout, "read=%d upserted=%d skipped=%d errors=%d\n",
			result.RecordsRead, result.Upserted, result.Skipped, len(result.Errors))
		for _, d := range result.Errors {
			fmt.Fprintf(deps.Stderr, "  [%s] %s\n", d.Code, d.Reason)
		}
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bpydoc.ErrorMessage(err))
		return err
	}
	return nil
}
