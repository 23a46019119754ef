// Package api exposes the HTTP surface for the presentation layer.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/baxromumarov/job-match/internal/core"
	"github.com/baxromumarov/job-match/internal/match"
	"github.com/baxromumarov/job-match/internal/store"
)

type Server struct {
	router       *chi.Mux
	store        *store.Memory
	orchestrator *core.Orchestrator
	scorer       *match.Scorer
}

func NewServer(st *store.Memory, orchestrator *core.Orchestrator, scorer *match.Scorer) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		store:        st,
		orchestrator: orchestrator,
		scorer:       scorer,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/stats", s.handleStats)
	s.router.Post("/jobs/search", s.handleSearch)
	s.router.Post("/jobs/recommended", s.handleRecommended)
	s.router.Get("/jobs/{id}", s.handleGetJob)
	// Bare path reaches the handler so an empty id gets a 400, not a
	// router 404.
	s.router.Get("/jobs/", s.handleGetJob)
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, code string) {
	respondJSON(w, status, map[string]string{"error": code})
}
