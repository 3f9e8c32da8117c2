package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docsearch/internal/analysis"
	"docsearch/internal/config"
	"docsearch/internal/corpus"
	"docsearch/internal/indexer"
	"docsearch/internal/search"
	"docsearch/internal/service"
	"docsearch/internal/storage"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	docsRoot  string
	indexPath string
	cfg       *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "docsearch",
		Short: "Index and search Markdown and reStructuredText documentation",
		Long: `Builds a full-text index of the documentation under a root directory and
answers ranked keyword queries over whole documents or individual sections.

  docsearch build
  docsearch query "task retries" --section`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if opts.docsRoot != "" {
				cfg.DocsRoot = opts.docsRoot
			}
			if opts.indexPath != "" {
				cfg.IndexPath = opts.indexPath
			}
			opts.cfg = cfg

			// stdout is reserved for results and the MCP protocol.
			setupLogging(cfg, cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.docsRoot, "docs-root", "", "documentation root directory (overrides DOCS_ROOT)")
	cmd.PersistentFlags().StringVar(&opts.indexPath, "index", "", "index database path (overrides INDEX_PATH)")

	cmd.AddCommand(
		newBuildCmd(opts),
		newUpdateCmd(opts),
		newQueryCmd(opts),
		newInfoCmd(opts),
		newServeCmd(opts),
		newMCPCmd(opts),
	)
	return cmd
}

// setupLogging installs the default slog logger with the configured level and format.
func setupLogging(cfg *config.Config, w io.Writer) {
	handlerOpts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)
}

// app is the wired core shared by the commands.
type app struct {
	db   *sql.DB
	docs service.DocsService
	scan *corpus.Scanner
}

// openApp opens the index database and wires the service on top of it.
func openApp(cfg *config.Config) (*app, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.IndexPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := storage.New(cfg.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("Index opened", "path", cfg.IndexPath)

	store := storage.NewIndexStore(db)
	normalizer := analysis.New()
	scanner := corpus.NewScanner(cfg.DocsRoot, cfg.Extensions, cfg.IgnoreDirs)

	engine := search.NewEngine(store, normalizer, cfg.MaxLimit, cfg.SnippetLength)
	builder := indexer.NewBuilder(store, normalizer, cfg.BuildWorkers)

	return &app{
		db:   db,
		docs: service.NewDocsService(engine, builder, store, scanner, cfg.IndexPath),
		scan: scanner,
	}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
}
