// Package api exposes the research pipeline over HTTP for the web UI.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/trendscout/internal/agent"
	"github.com/sells-group/trendscout/internal/store"
)

// Runner is the pipeline surface the API needs. *agent.Agent satisfies
// it; tests substitute a double.
type Runner interface {
	Run(ctx context.Context, p agent.ResearchParams) (*agent.ResearchResult, error)
	RunTopics(ctx context.Context, p agent.TopicsParams) (*agent.TopicsResult, error)
	RunScript(ctx context.Context, p agent.ScriptParams) (*agent.ScriptResult, error)
}

// Server wires the pipeline and run history into an HTTP handler.
type Server struct {
	runner Runner
	store  store.Store
}

// NewServer builds a Server over the given collaborators.
func NewServer(runner Runner, st store.Store) *Server {
	return &Server{runner: runner, store: st}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/research", s.handleResearch)
		r.Post("/topics", s.handleTopics)
		r.Post("/script", s.handleScript)
		r.Get("/history", s.handleHistory)
		r.Get("/history/{recordID}", s.handleHistoryDetail)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
