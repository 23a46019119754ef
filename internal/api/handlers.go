package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baxromumarov/job-match/internal/core"
	"github.com/baxromumarov/job-match/internal/match"
	"github.com/baxromumarov/job-match/internal/observability"
	"github.com/baxromumarov/job-match/internal/source"
	"github.com/baxromumarov/job-match/internal/store"
)

// jobView decorates a record with its per-profile match data for the
// recommendation response.
type jobView struct {
	store.Record
	MatchScore   int      `json:"match_score"`
	MatchReasons []string `json:"match_reasons,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var criteria source.Criteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	ids, err := s.orchestrator.SearchAndCache(r.Context(), criteria)
	if err != nil {
		// Degraded: every source failed. Serve whatever the store has
		// for these ids (nothing) rather than erroring the caller.
		if !errors.Is(err, core.ErrAllSourcesFailed) {
			respondError(w, http.StatusInternalServerError, "search_failed")
			return
		}
		slog.Warn("search degraded, all sources failed", "error", err)
	}

	jobs := s.resolve(ids)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(jobs),
		"jobs":  jobs,
	})
}

type recommendedRequest struct {
	Profile  json.RawMessage `json:"profile"`
	Criteria json.RawMessage `json:"criteria"`
}

func (s *Server) handleRecommended(w http.ResponseWriter, r *http.Request) {
	var req recommendedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}

	// The two substructures are validated independently; either failing
	// rejects the request.
	var profile match.Profile
	if len(req.Profile) > 0 {
		if err := json.Unmarshal(req.Profile, &profile); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_payload")
			return
		}
	}
	var criteria source.Criteria
	if len(req.Criteria) > 0 {
		if err := json.Unmarshal(req.Criteria, &criteria); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_payload")
			return
		}
	}

	if _, err := s.orchestrator.RecommendedForProfile(r.Context(), profile, criteria); err != nil {
		if !errors.Is(err, core.ErrAllSourcesFailed) {
			respondError(w, http.StatusInternalServerError, "search_failed")
			return
		}
		slog.Warn("recommendation degraded, all sources failed", "error", err)
	}

	// The ranked view always re-scores against the live record set
	// instead of replaying cached ids.
	ranked := s.orchestrator.RecommendedJobs(profile)
	views := make([]jobView, len(ranked))
	for i, rec := range ranked {
		views[i] = jobView{
			Record:       rec,
			MatchScore:   s.scorer.Score(profile, rec),
			MatchReasons: s.scorer.Reasons(profile, rec),
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(views),
		"jobs":  views,
	})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing_id")
		return
	}
	rec, ok := s.store.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}

// resolve maps cached ids back to live records, skipping ids whose
// records were purged since the entry was written. Ingestion lists an
// id once per contributing input, so repeats collapse here.
func (s *Server) resolve(ids []string) []store.Record {
	jobs := make([]store.Record, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if rec, ok := s.store.Get(id); ok {
			jobs = append(jobs, rec)
		}
	}
	return jobs
}
