package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)
	r.Use(corsMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Handle("/mcp", mcpserver.NewStreamableHTTPServer(s.app.MCPServer,
		mcpserver.WithStateLess(true),
	))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)
		r.Get("/holdings", s.handleHoldings)

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", s.handleQuotes)
			r.Post("/refresh", s.handleQuotesRefresh)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/metrics", s.handlePortfolioMetrics)
			r.Get("/total", s.handlePortfolioTotal)
			r.Get("/summary", s.handlePortfolioSummary)
			r.Get("/distribution", s.handlePortfolioDistribution)
		})

		r.Route("/rankings/{kind}", func(r chi.Router) {
			r.Get("/", s.handleRankingSingle)
			r.Get("/top", s.handleRankingTop)
		})

		r.Get("/reports/{type}", s.handleReport)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
