package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/evtable/evtable"
	"github.com/evtable/evtable/batch"
	"github.com/evtable/evtable/firecrawl"
	"github.com/evtable/evtable/gemini"
	"github.com/evtable/evtable/goquery"
	"github.com/evtable/evtable/htmltomarkdown"
	evthttp "github.com/evtable/evtable/http"
	evtslog "github.com/evtable/evtable/slog"
	"github.com/evtable/evtable/sqlite"
	"github.com/evtable/evtable/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Session file path. Set before calling Run().
	SessionPath string

	// SQLite database backing the record store; opened for save only.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:      defaultDBPath(),
		SessionPath: defaultSessionPath(),
	}
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
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Sessions: &SessionStore{Path: m.SessionPath},
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("evtable"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'evtable --help' to see available commands")
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

	deps.Session, err = deps.Sessions.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set EVTABLE_SESSION to use a different session path, or run 'evtable clear --force'\n")
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	if cmd == "resolve" {
		resolver := evtable.URLResolver(goquery.NewResolver(evthttp.NewFetcher()))
		if cli.Verbose {
			resolver = evtslog.NewLoggingResolver(resolver, logger)
		}
		deps.Resolver = &batch.Resolver{
			Resolver: resolver,
			Limiter:  batch.NewHostLimiter(cli.Resolve.RPS),
			Timeout:  cli.Resolve.Timeout,
		}
	}

	if cmd == "extract" {
		extractor, err := m.newExtractor(ctx, cli, stderr)
		if err != nil {
			return err
		}
		if cli.Verbose {
			extractor = evtslog.NewLoggingExtractor(extractor, logger)
		}
		deps.Processor = &batch.Processor{
			Extractor:   extractor,
			Limiter:     batch.NewHostLimiter(cli.Extract.RPS),
			Concurrency: cli.Extract.Concurrency,
			Timeout:     cli.Extract.Timeout,
		}
	}

	if cmd == "save" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set EVTABLE_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		store := evtable.RecordStore(sqlite.NewRecordStore(m.DB))
		if cli.Verbose {
			store = evtslog.NewLoggingRecordStore(store, logger)
		}
		deps.Saver = &batch.Saver{Store: store}
	}

	return kongCtx.Run(deps)
}

// newExtractor builds the extraction backend selected by the extract
// command.
func (m *Main) newExtractor(ctx context.Context, cli *CLI, stderr io.Writer) (evtable.Extractor, error) {
	switch cli.Extract.Extractor {
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
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		counter, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create token counter: %w", err)
		}

		return gemini.NewExtractor(client,
			evthttp.NewFetcher(),
			trafilatura.NewExtractor(),
			htmltomarkdown.NewConverter(),
			gemini.WithTokenBudget(counter, gemini.DefaultMaxPromptTokens),
		), nil

	default:
		apiKey := os.Getenv("FIRECRAWL_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "FIRECRAWL_API_KEY environment variable not set. Get an API key at https://firecrawl.dev")
			return nil, fmt.Errorf("FIRECRAWL_API_KEY not set")
		}
		return firecrawl.NewExtractor(apiKey)
	}
}

// tokenizerModel is used for local token counting.
const tokenizerModel = "gemini-2.5-flash"

func defaultDBPath() string {
	if path := os.Getenv("EVTABLE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "evtable.db"
	}
	dir := filepath.Join(home, ".evtable")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "evtable.db")
}

func defaultSessionPath() string {
	if path := os.Getenv("EVTABLE_SESSION"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(home, ".evtable", "session.json")
}
