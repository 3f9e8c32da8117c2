package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"docsearch/internal/contextutil"
	"docsearch/internal/indexer"
	"docsearch/internal/render"
	"docsearch/internal/service"
)

// IndexRequest represents the HTTP request payload for a build.
type IndexRequest struct {
	Force bool `json:"force"`
}

// IndexResponse represents the response from the build and update endpoints.
type IndexResponse struct {
	Message string          `json:"message"`
	Report  *indexer.Report `json:"report"`
}

// IndexHandler handles HTTP requests for building the index.
type IndexHandler struct {
	docsService service.DocsService
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(docsService service.DocsService) *IndexHandler {
	return &IndexHandler{docsService: docsService}
}

// ServeHTTP builds the index. An existing index is only replaced when the
// body sets force, or the force query parameter is true.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req IndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if r.URL.Query().Get("force") == "true" {
		req.Force = true
	}

	logger.InfoContext(ctx, "index build triggered via API", "force", req.Force)

	report, err := h.docsService.Build(ctx, req.Force)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to build index")
		return
	}

	writeJSON(ctx, w, http.StatusOK, IndexResponse{
		Message: render.BuildSummary(report),
		Report:  report,
	})
}

// UpdateHandler handles HTTP requests for updating the index.
type UpdateHandler struct {
	docsService service.DocsService
}

// NewUpdateHandler creates a new UpdateHandler.
func NewUpdateHandler(docsService service.DocsService) *UpdateHandler {
	return &UpdateHandler{docsService: docsService}
}

// ServeHTTP rebuilds the index from the documentation root.
func (h *UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	report, err := h.docsService.Update(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to update index")
		return
	}

	writeJSON(ctx, w, http.StatusOK, IndexResponse{
		Message: render.BuildSummary(report),
		Report:  report,
	})
}
