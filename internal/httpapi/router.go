package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// ToolCaller invokes the gateway tools behind the proxy endpoints
type ToolCaller interface {
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
}

// Server holds dependencies for HTTP handlers
type Server struct {
	Gateway ToolCaller
	UI      http.Handler // page and static assets; optional
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode json response")
	}
}

// Routes creates the HTTP router with the proxy endpoints and the UI
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CorrelationMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/mcp-add", s.AddNumbers)
		r.Post("/gemini-generate", s.GenerateText)
		r.Post("/gemini-analyze-image", s.AnalyzeImage)
	})

	if s.UI != nil {
		r.Handle("/", s.UI)
		r.Handle("/static/*", s.UI)
	}

	log.Info().Msg("HTTP routes registered")
	return r
}
