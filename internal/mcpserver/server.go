// Package mcpserver exposes the documentation index as MCP tools over stdio.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"docsearch/internal/contextutil"
	"docsearch/internal/render"
	"docsearch/internal/search"
	"docsearch/internal/service"
)

const (
	serverName    = "docsearch"
	serverVersion = "1.0.0"
)

// Server adapts a DocsService to MCP tool calls.
type Server struct {
	docs      service.DocsService
	indexPath string
	maxLimit  int
	logger    *slog.Logger
}

// New creates a Server. maxLimit bounds the limit argument of search_documentation.
func New(docs service.DocsService, indexPath string, maxLimit int) *Server {
	if maxLimit <= 0 {
		maxLimit = search.DefaultMaxLimit
	}
	return &Server{
		docs:      docs,
		indexPath: indexPath,
		maxLimit:  maxLimit,
		logger:    slog.Default(),
	}
}

// MCPServer returns an MCP server with every tool registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	srv.AddTools(s.tools()...)
	return srv
}

// Serve speaks the MCP protocol on in and out until ctx is cancelled or in is closed.
// Logs go to the default slog handler; callers must keep it off out.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.MCPServer())
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	s.logger.InfoContext(ctx, "MCP server listening on stdio", "index", s.indexPath)
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server failed: %w", err)
	}
	return nil
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("search_documentation",
				mcp.WithDescription("Search through indexed documentation using full-text search, you should try also query with synonyms. "+
					"Returns relevant documentation snippets or full sections matching the query. "+
					"Use this when you need to find information in the documentation."),
				mcp.WithString("query",
					mcp.Required(),
					mcp.Description("Search query string (e.g., 'flow decorator', 'task retries', 'deployment configuration')"),
				),
				mcp.WithNumber("limit",
					mcp.Description(fmt.Sprintf("Maximum number of results to return (default: %d)", search.DefaultLimit)),
					mcp.DefaultNumber(search.DefaultLimit),
					mcp.Min(1),
					mcp.Max(float64(s.maxLimit)),
				),
				mcp.WithBoolean("section_mode",
					mcp.Description("If true, search and return results by section (based on ## headings). If false, return document snippets."),
					mcp.DefaultBool(false),
				),
			),
			Handler: s.handleSearch,
		},
		{
			Tool: mcp.NewTool("build_documentation_index",
				mcp.WithDescription("Build or rebuild the search index from documentation files. "+
					"This indexes all markdown (.md, .mdx) and reStructuredText (.rst) files "+
					"in the documentation root directory. Run this when setting up for the first time "+
					"or when you want to completely rebuild the index. "+
					"If an index already exists, you must set 'force' to true to overwrite it."),
				mcp.WithBoolean("force",
					mcp.Description("Set to true to overwrite existing index without confirmation. Required if index already exists."),
					mcp.DefaultBool(false),
				),
			),
			Handler: s.handleBuild,
		},
		{
			Tool: mcp.NewTool("update_documentation_index",
				mcp.WithDescription("Update the existing documentation index. Currently performs a full rebuild. "+
					"Use this after documentation files have been added, modified, or removed."),
			),
			Handler: s.handleUpdate,
		},
		{
			Tool: mcp.NewTool("get_index_info",
				mcp.WithDescription("Get information about the current documentation index, including "+
					"the documentation root path, index path, and whether the index exists."),
			),
			Handler: s.handleInfo,
		},
	}
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.withLogger(ctx, req)

	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("Error: 'query' parameter is required"), nil
	}

	limit := min(max(req.GetInt("limit", search.DefaultLimit), 1), s.maxLimit)
	mode := search.ModeDocument
	if req.GetBool("section_mode", false) {
		mode = search.ModeSection
	}

	resp, err := s.docs.Search(ctx, service.SearchRequest{
		Query: query,
		Mode:  string(mode),
		Limit: limit,
	})
	if err != nil {
		return s.toolError(ctx, req, err), nil
	}
	return mcp.NewToolResultText(render.SearchReport(query, resp)), nil
}

func (s *Server) handleBuild(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.withLogger(ctx, req)

	report, err := s.docs.Build(ctx, req.GetBool("force", false))
	if errors.Is(err, service.ErrIndexExists) {
		return mcp.NewToolResultText(render.IndexExistsNotice(s.indexPath)), nil
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "index build failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error building index: %v", err)), nil
	}
	return mcp.NewToolResultText(render.BuildReport("built", report)), nil
}

func (s *Server) handleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.withLogger(ctx, req)

	report, err := s.docs.Update(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "index update failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("Error updating index: %v", err)), nil
	}
	return mcp.NewToolResultText(render.BuildReport("updated", report)), nil
}

func (s *Server) handleInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = s.withLogger(ctx, req)

	info, err := s.docs.Info(ctx)
	if err != nil {
		return s.toolError(ctx, req, err), nil
	}
	return mcp.NewToolResultText(render.IndexInfo(info)), nil
}

// withLogger attaches a logger tagged with the tool name to ctx.
func (s *Server) withLogger(ctx context.Context, req mcp.CallToolRequest) context.Context {
	return contextutil.WithLogger(ctx, s.logger.With("tool", req.Params.Name))
}

func (s *Server) toolError(ctx context.Context, req mcp.CallToolRequest, err error) *mcp.CallToolResult {
	contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "tool call failed", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %s %s", validationErr.Field, validationErr.Message))
	}
	return mcp.NewToolResultError(fmt.Sprintf("Error executing tool '%s': %v", req.Params.Name, err))
}
