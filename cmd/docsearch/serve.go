package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"docsearch/internal/corpus"
	"docsearch/internal/http"
	"docsearch/internal/render"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		port  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if port != "" {
				cfg.APIPort = port
			}

			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if watch {
				w, err := corpus.NewWatcher(a.scan, cfg.WatchDebounce, func(ctx context.Context) {
					report, err := a.docs.Update(ctx)
					if err != nil {
						slog.Error("Rebuild after change failed", "error", err)
						return
					}
					slog.Info(render.BuildSummary(report), "skipped", len(report.Skipped))
				})
				if err != nil {
					return fmt.Errorf("failed to create watcher: %w", err)
				}
				if err := w.Start(ctx); err != nil {
					return fmt.Errorf("failed to start watcher: %w", err)
				}
				defer w.Stop()
				slog.Info("Watching documentation root", "root", cfg.DocsRoot, "debounce", cfg.WatchDebounce)
			}

			router := http.NewRouter(&http.Deps{
				DocsService: a.docs,
				HTML:        render.NewHTMLRenderer(),
			})
			srv := &nethttp.Server{
				Addr:              ":" + cfg.APIPort,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("Starting API server", "addr", srv.Addr, "docs_root", cfg.DocsRoot, "index", cfg.IndexPath)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, nethttp.ErrServerClosed) {
					return fmt.Errorf("API server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			slog.Info("Shutting down API server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down API server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides API_PORT)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild the index when documentation files change")
	return cmd
}
