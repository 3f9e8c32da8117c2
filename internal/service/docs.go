package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_docs.go -package=mocks docsearch/internal/service QueryEngine,IndexBuilder,DocsService

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"docsearch/internal/contextutil"
	"docsearch/internal/corpus"
	"docsearch/internal/indexer"
	"docsearch/internal/search"
	"docsearch/internal/storage"
)

// QueryEngine answers search requests.
type QueryEngine interface {
	Query(ctx context.Context, req search.Request) (*search.Response, error)
	MaxLimit() int
}

// IndexBuilder rebuilds the index from a document sequence.
type IndexBuilder interface {
	Build(ctx context.Context, docs iter.Seq[corpus.Document], clearExisting bool) (*indexer.Report, error)
}

// SearchRequest is a search from a transport.
type SearchRequest struct {
	Query string
	Mode  string
	Limit int
}

// IndexInfo describes the documentation root and the index.
type IndexInfo struct {
	DocsRoot   string         `json:"docs_root"`
	IndexPath  string         `json:"index_path"`
	Exists     bool           `json:"exists"`
	RootExists bool           `json:"root_exists"`
	Documents  int            `json:"documents"`
	Stats      *storage.Stats `json:"stats,omitempty"`
}

// HealthStatus is the cheap subset of IndexInfo used by health checks.
type HealthStatus struct {
	Exists     bool
	RootExists bool
}

// DocsService is the operations exposed by every transport.
type DocsService interface {
	// Search runs a query. A missing index yields search.StatusNotBuilt.
	Search(ctx context.Context, req SearchRequest) (*search.Response, error)
	// Build rebuilds the index. Returns ErrIndexExists if an index exists and force is false.
	Build(ctx context.Context, force bool) (*indexer.Report, error)
	// Update rebuilds the index unconditionally.
	Update(ctx context.Context) (*indexer.Report, error)
	// Info describes the documentation root and the index.
	Info(ctx context.Context) (*IndexInfo, error)
	// Health reports whether the index and the root exist without walking the root.
	Health(ctx context.Context) (*HealthStatus, error)
}

// docsService implements DocsService.
type docsService struct {
	engine    QueryEngine
	builder   IndexBuilder
	index     storage.SectionIndex
	scanner   *corpus.Scanner
	indexPath string
	logger    *slog.Logger
}

// NewDocsService creates a new DocsService.
func NewDocsService(engine QueryEngine, builder IndexBuilder, index storage.SectionIndex, scanner *corpus.Scanner, indexPath string) DocsService {
	return &docsService{
		engine:    engine,
		builder:   builder,
		index:     index,
		scanner:   scanner,
		indexPath: indexPath,
		logger:    slog.Default(),
	}
}

// Search validates the request and runs it.
func (s *docsService) Search(ctx context.Context, req SearchRequest) (*search.Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.Query == "" {
		logger.WarnContext(ctx, "empty query in search request")
		return nil, &ValidationError{Field: "query", Message: "cannot be empty"}
	}
	mode, err := search.ParseMode(req.Mode)
	if err != nil {
		return nil, &ValidationError{Field: "mode", Message: "must be document or section"}
	}
	if req.Limit < 0 {
		return nil, &ValidationError{Field: "limit", Message: "cannot be negative"}
	}
	// Oversize limits are capped, not rejected.
	limit := min(req.Limit, s.engine.MaxLimit())

	resp, err := s.engine.Query(ctx, search.Request{Text: req.Query, Mode: mode, Limit: limit})
	if err != nil {
		logger.ErrorContext(ctx, "search failed", "query", req.Query, "error", err)
		return nil, WrapError(err, "search failed")
	}
	return resp, nil
}

// Build rebuilds the whole index from the documentation root.
func (s *docsService) Build(ctx context.Context, force bool) (*indexer.Report, error) {
	exists, err := s.index.Exists(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to check index")
	}
	if exists && !force {
		return nil, fmt.Errorf("%w at %s", ErrIndexExists, s.indexPath)
	}
	return s.rebuild(ctx)
}

// Update rebuilds the whole index. Incremental updates are not supported.
func (s *docsService) Update(ctx context.Context) (*indexer.Report, error) {
	return s.rebuild(ctx)
}

func (s *docsService) rebuild(ctx context.Context) (*indexer.Report, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var warnings []string
	if err := s.scanner.Check(); err != nil {
		if !errors.Is(err, corpus.ErrRootNotFound) {
			return nil, WrapError(err, "failed to access documentation root")
		}
		logger.WarnContext(ctx, "documentation root not found", "root", s.scanner.Root())
		warnings = append(warnings, fmt.Sprintf("Documentation root not found: %s", s.scanner.Root()))
	}

	report, err := s.builder.Build(ctx, s.scanner.Documents(ctx), true)
	if err != nil {
		return nil, WrapError(err, "failed to build index")
	}
	report.Warnings = append(warnings, report.Warnings...)
	return report, nil
}

// Health stats the root and asks the index whether it exists.
func (s *docsService) Health(ctx context.Context) (*HealthStatus, error) {
	exists, err := s.index.Exists(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to check index")
	}

	status := &HealthStatus{Exists: exists, RootExists: true}
	if err := s.scanner.Check(); err != nil {
		if !errors.Is(err, corpus.ErrRootNotFound) {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "cannot stat documentation root", "error", err)
		}
		status.RootExists = false
	}
	return status, nil
}

// Info reports the state of the documentation root and the index.
func (s *docsService) Info(ctx context.Context) (*IndexInfo, error) {
	info := &IndexInfo{
		DocsRoot:  s.scanner.Root(),
		IndexPath: s.indexPath,
	}

	exists, err := s.index.Exists(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to check index")
	}
	info.Exists = exists

	count, err := s.scanner.Count(ctx)
	switch {
	case errors.Is(err, corpus.ErrRootNotFound):
	case err != nil:
		return nil, WrapError(err, "failed to count documents")
	default:
		info.RootExists = true
		info.Documents = count
	}

	if exists {
		stats, err := s.index.Stats(ctx)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, WrapError(err, "failed to read index stats")
		}
		info.Stats = stats
	}
	return info, nil
}
