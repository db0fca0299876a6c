package main

import (
	"fmt"

	"github.com/bpydoc/bpydoc"
)

// Run executes the query command.
func (c *QueryCmd) Run(deps *Dependencies) error {
	matches, err := deps.Querier.Query(deps.Ctx, c.Text, c.K)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bpydoc.ErrorMessage(err))
		return err
	}

	if len(matches) == 0 {
		fmt.Fprintln(deps.Stdout, "No results found.")
		return nil
	}

	for i, m := range matches {
		fmt.Fprintf(deps.Stdout, "%d. %s (score %.3f)\n", i+1, m.Identifier, m.Score)
		if m.Snippet != "" {
			fmt.Fprintf(deps.Stdout, "   %s\n", m.Snippet)
		}
	}
	return nil
}
