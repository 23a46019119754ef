// Package source defines the upstream-source boundary: the normalized
// posting shape every adapter produces and the Adapter contract the
// orchestrator fans out to.
package source

import (
	"context"
	"time"
)

// Job is a normalized posting as returned by an adapter. It carries no
// identity guarantees beyond what the upstream source provides; dedup
// happens in the store.
type Job struct {
	Source          string
	SourceJobID     string
	Title           string
	Company         string
	LocationCity    string
	LocationRegion  string
	LocationCountry string
	Remote          bool
	SalaryMin       float64
	SalaryMax       float64
	SalaryCurrency  string
	Description     string
	Requirements    []string
	Benefits        []string
	ApplyURL        string
	PostedAt        time.Time
}

// Criteria drives adapter fetches and derives the search cache key.
type Criteria struct {
	Query     string   `json:"query"`
	Location  string   `json:"location"`
	Remote    bool     `json:"remote"`
	Seniority string   `json:"seniority"`
	Tech      []string `json:"tech"`
}

// Adapter fetches normalized postings from one upstream source.
// Fetch may fail; the orchestrator isolates per-adapter failures.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, criteria Criteria) ([]Job, error)
}
