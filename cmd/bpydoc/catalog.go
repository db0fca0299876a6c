package main

import (
	"fmt"

	"github.com/bpydoc/bpydoc"
	"github.com/bpydoc/bpydoc/jsonl"
)

// Run executes the "catalog load" command.
func (c *CatalogLoadCmd) Run(deps *Dependencies) error {
	records, err := jsonl.ReadAll(c.Stream)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bpydoc.ErrorMessage(err))
		return err
	}

	if err := deps.Catalog.CreateRecords(deps.Ctx, records); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bpydoc.ErrorMessage(err))
		return err
	}

	total, err := deps.Catalog.CountRecords(deps.Ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Loaded %d records; catalog now holds %d\n", len(records), total)
	return nil
}

// Run executes the "catalog list" command.
func (c *CatalogListCmd) Run(deps *Dependencies) error {
	filter := bpydoc.RecordFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Kind != "" {
		kind := bpydoc.Kind(c.Kind)
		if !kind.Valid() {
			return bpydoc.Errorf(bpydoc.EINVALID, "unknown kind %q", c.Kind)
		}
		filter.Kind = &kind
	}
	if c.Module != "" {
		filter.Module = &c.Module
	}

	records, err := deps.Catalog.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bpydoc.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found. Use 'bpydoc catalog load' to load a stream.")
		return nil
	}
	for _, r := range records {
		fmt.Fprintf(deps.Stdout, "%-10s %s\n", r.Kind, r.Identifier)
	}
	return nil
}

// Run executes the "catalog show" command.
func (c *CatalogShowCmd) Run(deps *Dependencies) error {
	rec, err := deps.Catalog.FindRecordByID(deps.Ctx, c.Identifier)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", bpydoc.ErrorMessage(err))
		return err
	}

	fmt.Fprint(deps.Stdout, bpydoc.BuildEmbeddingText(rec))
	fmt.Fprintf(deps.Stdout, "\n(source: %s)\n", rec.SourcePath)
	return nil
}
