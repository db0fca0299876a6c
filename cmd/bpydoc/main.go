package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/bpydoc/bpydoc"
	"github.com/bpydoc/bpydoc/chroma"
	"github.com/bpydoc/bpydoc/fs"
	"github.com/bpydoc/bpydoc/gemini"
	"github.com/bpydoc/bpydoc/goquery"
	"github.com/bpydoc/bpydoc/ingest"
	"github.com/bpydoc/bpydoc/openai"
	bpyslog "github.com/bpydoc/bpydoc/slog"
	"github.com/bpydoc/bpydoc/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by the catalog commands.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("bpydoc"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'bpydoc --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Extraction-side services are cheap to construct and always wired.
	deps.Selector = fs.NewSelector(pathFilter(cli))
	if cli.Verbose {
		deps.Selector = bpyslog.NewLoggingSelector(deps.Selector, deps.Logger)
	}
	deps.Extract = goquery.NewExtractor()

	// Network-bound adapters need credentials; wire them only for the
	// commands that use them so extraction never touches the environment.
	// The selected command comes from the parser, not the raw arguments,
	// so global flags before the command name do not confuse the wiring.
	command, _, _ := strings.Cut(kongCtx.Command(), " ")
	switch command {
	case "ingest":
		embedder, err := newEmbedder(ctx, cli.Ingest.Backend, cli.Ingest.Rate, stderr)
		if err != nil {
			return err
		}
		store, err := chroma.NewStore(chroma.Config{
			URL:        cli.Ingest.ChromaURL,
			Collection: cli.Ingest.Collection,
		})
		if err != nil {
			return err
		}
		deps.Ingestor = &ingest.Ingestor{
			Embedder:  embedder,
			Store:     store,
			BatchSize: cli.Ingest.BatchSize,
			Logger:    deps.Logger,
		}
	case "query":
		embedder, err := newEmbedder(ctx, cli.Query.Backend, 0, stderr)
		if err != nil {
			return err
		}
		store, err := chroma.NewStore(chroma.Config{
			URL:        cli.Query.ChromaURL,
			Collection: cli.Query.Collection,
		})
		if err != nil {
			return err
		}
		deps.Querier = &ingest.Querier{Embedder: embedder, Store: store}
	case "catalog":
		m.DB = sqlite.NewDB(cli.Catalog.DB)
		if err := m.DB.Open(); err != nil {
			return fmt.Errorf("failed to open catalog at %q: %w", cli.Catalog.DB, err)
		}
		deps.DB = m.DB
		deps.Catalog = sqlite.NewRecordService(m.DB)
	}

	return kongCtx.Run(deps)
}

// pathFilter builds the selection filter from CLI flags, falling back to
// the default Blender API rules when no patterns are given.
func pathFilter(cli *CLI) *bpydoc.PathFilter {
	var include, exclude []string
	switch {
	case len(cli.Select.Include) > 0 || len(cli.Select.Exclude) > 0:
		include, exclude = cli.Select.Include, cli.Select.Exclude
	case len(cli.Extract.Include) > 0 || len(cli.Extract.Exclude) > 0:
		include, exclude = cli.Extract.Include, cli.Extract.Exclude
	default:
		return nil
	}
	return &bpydoc.PathFilter{Include: include, Exclude: exclude}
}

// newEmbedder constructs the chosen embedding backend. Credentials come
// from the environment here, at the outermost wiring layer only.
func newEmbedder(ctx context.Context, backend string, requestsPerSecond float64, stderr io.Writer) (bpydoc.Embedder, error) {
	switch backend {
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewEmbedder(client), nil
	default:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "OPENAI_API_KEY environment variable not set.")
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		return openai.NewEmbedder(openai.Config{
			APIKey:            apiKey,
			BaseURL:           os.Getenv("OPENAI_BASE_URL"),
			RequestsPerSecond: requestsPerSecond,
		})
	}
}
