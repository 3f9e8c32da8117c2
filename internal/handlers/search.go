package handlers

import (
	"net/http"
	"strconv"

	"docsearch/internal/contextutil"
	"docsearch/internal/render"
	"docsearch/internal/search"
	"docsearch/internal/service"
)

// SearchHandler handles HTTP requests for searching the documentation.
type SearchHandler struct {
	docsService service.DocsService
	html        *render.HTMLRenderer
}

// NewSearchHandler creates a new SearchHandler. html may be nil, which disables format=html.
func NewSearchHandler(docsService service.DocsService, html *render.HTMLRenderer) *SearchHandler {
	return &SearchHandler{
		docsService: docsService,
		html:        html,
	}
}

// SearchHit is a search hit with optional rendered HTML.
type SearchHit struct {
	search.Hit
	HTML string `json:"html,omitempty"`
}

// SearchResponse represents the HTTP response payload for search.
type SearchResponse struct {
	Query  string        `json:"query"`
	Status search.Status `json:"status"`
	Mode   search.Mode   `json:"mode"`
	Hits   []SearchHit   `json:"hits"`
}

// ServeHTTP handles HTTP requests for search.
//
// Query parameters: q (required), mode (document or section), limit
// (defaults to 5) and format (html renders section content).
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	params := r.URL.Query()
	limit := search.DefaultLimit
	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			logger.WarnContext(ctx, "invalid limit parameter", "limit", raw)
			writeError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}

	format := params.Get("format")
	if format != "" && format != "json" && format != "html" {
		writeError(w, http.StatusBadRequest, "Invalid format parameter")
		return
	}
	if format == "html" && h.html == nil {
		writeError(w, http.StatusBadRequest, "HTML rendering is not available")
		return
	}

	req := service.SearchRequest{
		Query: params.Get("q"),
		Mode:  params.Get("mode"),
		Limit: limit,
	}
	resp, err := h.docsService.Search(ctx, req)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to search documentation")
		return
	}

	out := SearchResponse{
		Query:  req.Query,
		Status: resp.Status,
		Mode:   resp.Mode,
		Hits:   make([]SearchHit, 0, len(resp.Hits)),
	}
	for _, hit := range resp.Hits {
		sh := SearchHit{Hit: hit}
		if format == "html" {
			source := hit.Content
			if source == "" {
				source = hit.Snippet
			}
			rendered, err := h.html.Render(source)
			if err != nil {
				logger.ErrorContext(ctx, "failed to render hit", "path", hit.Path, "error", err)
				writeError(w, http.StatusInternalServerError, "Failed to render results")
				return
			}
			sh.HTML = rendered
		}
		out.Hits = append(out.Hits, sh)
	}

	writeJSON(ctx, w, http.StatusOK, out)
}
