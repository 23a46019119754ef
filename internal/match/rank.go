package match

import (
	"sort"

	"github.com/baxromumarov/job-match/internal/store"
)

// Rank sorts jobs by compatibility score, highest first. The sort is
// stable: equal-scoring jobs keep their input order, so callers can rely
// on adapter/ingestion order as the tiebreak across runs.
func (s *Scorer) Rank(profile Profile, jobs []store.Record) []store.Record {
	type scored struct {
		job   store.Record
		score int
	}
	entries := make([]scored, len(jobs))
	for i, job := range jobs {
		entries[i] = scored{job: job, score: s.Score(profile, job)}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})
	out := make([]store.Record, len(entries))
	for i, e := range entries {
		out[i] = e.job
	}
	return out
}
