package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docsearch/internal/handlers"
	"docsearch/internal/render"
	"docsearch/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	DocsService service.DocsService
	// HTML renders hits for format=html. Nil disables HTML output.
	HTML *render.HTMLRenderer
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	searchHandler := handlers.NewSearchHandler(deps.DocsService, deps.HTML)
	indexHandler := handlers.NewIndexHandler(deps.DocsService)
	updateHandler := handlers.NewUpdateHandler(deps.DocsService)
	infoHandler := handlers.NewInfoHandler(deps.DocsService)
	healthHandler := handlers.NewHealthHandler(deps.DocsService)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/search", searchHandler)
		r.Method(http.MethodPost, "/index", indexHandler)
		r.Method(http.MethodPost, "/index/update", updateHandler)
		r.Method(http.MethodGet, "/info", infoHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
