package handlers

import (
	"net/http"

	"docsearch/internal/contextutil"
	"docsearch/internal/service"
)

// InfoHandler handles HTTP requests for index information.
type InfoHandler struct {
	docsService service.DocsService
}

// NewInfoHandler creates a new InfoHandler.
func NewInfoHandler(docsService service.DocsService) *InfoHandler {
	return &InfoHandler{docsService: docsService}
}

// ServeHTTP returns the state of the documentation root and the index.
func (h *InfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	info, err := h.docsService.Info(ctx)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to read index info")
		return
	}

	writeJSON(ctx, w, http.StatusOK, info)
}
