package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/bpydoc/bpydoc"
	"github.com/bpydoc/bpydoc/ingest"
	"github.com/bpydoc/bpydoc/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Selector bpydoc.Selector
	Extract  bpydoc.RecordExtractor
	DB       *sqlite.DB
	Catalog  bpydoc.RecordCatalog
	Ingestor *ingest.Ingestor
	Querier  *ingest.Querier
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Select  SelectCmd  `cmd:"" help:"Copy API reference pages out of a documentation tree"`
	Extract ExtractCmd `cmd:"" help:"Select pages and extract the record stream"`
	Ingest  IngestCmd  `cmd:"" help:"Embed a record stream and upsert it into the vector store"`
	Query   QueryCmd   `cmd:"" help:"Run a verification query against the vector store"`
	Catalog CatalogCmd `cmd:"" help:"Inspect a record stream through a local SQLite catalog"`
}

// SelectCmd is the "select" subcommand.
type SelectCmd struct {
	Source  string   `arg:"" help:"Root of the raw documentation tree"`
	Target  string   `arg:"" help:"Directory to copy selected pages into"`
	Include []string `short:"i" help:"Include glob on file names (repeatable, replaces defaults)"`
	Exclude []string `short:"x" help:"Exclude glob on file names (repeatable, replaces defaults)"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Source      string   `arg:"" help:"Root of the raw documentation tree"`
	WorkDir     string   `default:"selected_docs" help:"Directory for the selected page set"`
	Out         string   `short:"o" default:"records.jsonl" help:"Record stream output path"`
	Concurrency int      `short:"c" default:"1" help:"Parallel extraction limit"`
	Include     []string `short:"i" help:"Include glob on file names (repeatable, replaces defaults)"`
	Exclude     []string `short:"x" help:"Exclude glob on file names (repeatable, replaces defaults)"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Stream     string  `arg:"" help:"Record stream to ingest"`
	Backend    string  `default:"openai" enum:"openai,gemini" help:"Embedding backend"`
	ChromaURL  string  `default:"http://localhost:8000" help:"Chroma server URL"`
	Collection string  `default:"blender_api" help:"Vector store collection"`
	BatchSize  int     `default:"100" help:"Records per embedding request"`
	Rate       float64 `default:"2" help:"Embedding requests per second (openai backend)"`
}

// QueryCmd is the "query" subcommand.
type QueryCmd struct {
	Text       string `arg:"" help:"Natural-language query"`
	K          int    `short:"k" default:"5" help:"Number of results"`
	Backend    string `default:"openai" enum:"openai,gemini" help:"Embedding backend"`
	ChromaURL  string `default:"http://localhost:8000" help:"Chroma server URL"`
	Collection string `default:"blender_api" help:"Vector store collection"`
}

// CatalogCmd groups the catalog subcommands.
type CatalogCmd struct {
	DB string `default:"catalog.db" help:"Catalog database path"`

	Load CatalogLoadCmd `cmd:"" help:"Load a record stream into the catalog"`
	List CatalogListCmd `cmd:"" help:"List cataloged records"`
	Show CatalogShowCmd `cmd:"" help:"Show one record by identifier"`
}

// CatalogLoadCmd is the "catalog load" subcommand.
type CatalogLoadCmd struct {
	Stream string `arg:"" help:"Record stream to load"`
}

// CatalogListCmd is the "catalog list" subcommand.
type CatalogListCmd struct {
	Kind   string `help:"Filter by kind (module|class|method|function|property|operator)"`
	Module string `help:"Filter by module prefix, e.g. bpy.types"`
	Limit  int    `default:"50" help:"Maximum rows"`
	Offset int    `help:"Rows to skip"`
}

// CatalogShowCmd is the "catalog show" subcommand.
type CatalogShowCmd struct {
	Identifier string `arg:"" help:"Record identifier, e.g. bpy.types.Object"`
}
