// Package store owns the canonical job records: an in-memory table with
// two-axis identity resolution (source id first, content hash fallback)
// plus a TTL-bounded result cache. Records live only for the process
// lifetime; the age-based purge sweep is the only deleter.
package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/baxromumarov/job-match/internal/source"
)

// Record is the canonical deduplicated representation of a posting.
// The ID, DiscoveredAt, and CreatedAt fields are stable for the record's
// lifetime; everything else is refreshed on each matching upsert.
type Record struct {
	ID              string    `json:"id"`
	Source          string    `json:"source"`
	SourceJobID     string    `json:"source_job_id,omitempty"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	LocationCity    string    `json:"location_city,omitempty"`
	LocationRegion  string    `json:"location_region,omitempty"`
	LocationCountry string    `json:"location_country,omitempty"`
	Remote          bool      `json:"remote"`
	SalaryMin       float64   `json:"salary_min,omitempty"`
	SalaryMax       float64   `json:"salary_max,omitempty"`
	SalaryCurrency  string    `json:"salary_currency,omitempty"`
	Description     string    `json:"description,omitempty"`
	Requirements    []string  `json:"requirements,omitempty"`
	Benefits        []string  `json:"benefits,omitempty"`
	ApplyURL        string    `json:"apply_url,omitempty"`
	PostedAt        time.Time `json:"posted_at"`
	DiscoveredAt    time.Time `json:"discovered_at"`
	Hash            string    `json:"hash"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Location renders the record's location fields as one display string.
func (r Record) Location() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.LocationCity, r.LocationRegion, r.LocationCountry} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type cacheEntry struct {
	ids       []string
	expiresAt time.Time
}

// Memory is the in-memory dedup store. All compound operations hold the
// mutex for their whole duration, so lookup-then-insert never interleaves.
type Memory struct {
	mu         sync.Mutex
	jobs       map[string]*Record
	order      []string // insertion order, drives QueryRecent iteration
	bySourceID map[string]string
	byHash     map[string]string
	cache      map[string]cacheEntry

	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		jobs:       map[string]*Record{},
		bySourceID: map[string]string{},
		byHash:     map[string]string{},
		cache:      map[string]cacheEntry{},
		now:        time.Now,
	}
}

// ComputeHash digests the normalized descriptive tuple. Two inputs with
// the same hash are treated as the same real-world posting even across
// sources. Hash-based identity has a nonzero collision probability; a
// 64-bit well-distributed digest keeps false merges negligible without
// requiring a stronger source-provided identifier.
func ComputeHash(job source.Job) string {
	fields := []string{
		job.Title,
		job.Company,
		job.LocationCity,
		job.LocationRegion,
		job.LocationCountry,
		job.ApplyURL,
	}
	for i, f := range fields {
		fields[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(fields, "|")))
}

func sourceKey(src, sourceJobID string) string {
	return src + ":" + sourceJobID
}

// Upsert resolves the input to an existing record by (source, source job
// id) first, falling back to content hash, and merges in place; otherwise
// it inserts a fresh record. Either way indices end up pointing at the
// returned record's id.
func (m *Memory) Upsert(job source.Job) Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash := ComputeHash(job)
	now := m.now()

	// Sources without posting dates (the HTML boards) would otherwise
	// fail the recency window and get purged on the first sweep.
	postedAt := job.PostedAt
	if postedAt.IsZero() {
		postedAt = now
	}

	var id string
	if job.SourceJobID != "" {
		id = m.bySourceID[sourceKey(job.Source, job.SourceJobID)]
	}
	if id == "" {
		id = m.byHash[hash]
	}

	if existing, ok := m.jobs[id]; ok {
		if existing.Hash != hash {
			delete(m.byHash, existing.Hash)
		}
		existing.Title = job.Title
		existing.Company = job.Company
		existing.LocationCity = job.LocationCity
		existing.LocationRegion = job.LocationRegion
		existing.LocationCountry = job.LocationCountry
		existing.Remote = job.Remote
		existing.SalaryMin = job.SalaryMin
		existing.SalaryMax = job.SalaryMax
		existing.SalaryCurrency = job.SalaryCurrency
		existing.Description = job.Description
		existing.Requirements = job.Requirements
		existing.Benefits = job.Benefits
		existing.ApplyURL = job.ApplyURL
		if !job.PostedAt.IsZero() {
			existing.PostedAt = job.PostedAt
		}
		existing.Hash = hash
		existing.UpdatedAt = now
		if job.SourceJobID != "" {
			m.bySourceID[sourceKey(job.Source, job.SourceJobID)] = existing.ID
		}
		m.byHash[hash] = existing.ID
		return *existing
	}

	rec := &Record{
		ID:              uuid.NewString(),
		Source:          job.Source,
		SourceJobID:     job.SourceJobID,
		Title:           job.Title,
		Company:         job.Company,
		LocationCity:    job.LocationCity,
		LocationRegion:  job.LocationRegion,
		LocationCountry: job.LocationCountry,
		Remote:          job.Remote,
		SalaryMin:       job.SalaryMin,
		SalaryMax:       job.SalaryMax,
		SalaryCurrency:  job.SalaryCurrency,
		Description:     job.Description,
		Requirements:    job.Requirements,
		Benefits:        job.Benefits,
		ApplyURL:        job.ApplyURL,
		PostedAt:        postedAt,
		DiscoveredAt:    now,
		Hash:            hash,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.jobs[rec.ID] = rec
	m.order = append(m.order, rec.ID)
	if job.SourceJobID != "" {
		m.bySourceID[sourceKey(job.Source, job.SourceJobID)] = rec.ID
	}
	m.byHash[hash] = rec.ID
	return *rec
}

// Get is a point lookup by store-assigned id.
func (m *Memory) Get(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.jobs[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Len reports the number of records currently held.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

// QueryRecent returns records whose posting timestamp falls inside the age
// window, in insertion order, truncated to limit. Ordering beyond that is
// the ranker's job, not the store's.
func (m *Memory) QueryRecent(maxAgeDays, limit int) []Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().AddDate(0, 0, -maxAgeDays)
	out := make([]Record, 0, limit)
	for _, id := range m.order {
		if len(out) >= limit {
			break
		}
		rec, ok := m.jobs[id]
		if !ok {
			continue
		}
		if rec.PostedAt.After(cutoff) {
			out = append(out, *rec)
		}
	}
	return out
}

// PurgeOlderThan removes records posted strictly before now minus
// maxAgeDays and returns the count removed. Expired cache entries are
// pruned in the same pass.
func (m *Memory) PurgeOlderThan(maxAgeDays int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().AddDate(0, 0, -maxAgeDays)
	removed := 0
	for id, rec := range m.jobs {
		if rec.PostedAt.Before(cutoff) {
			m.removeLocked(id)
			removed++
		}
	}
	if removed > 0 {
		m.compactOrderLocked()
	}
	m.pruneExpiredCacheLocked()
	return removed
}

// EnforceCap drops the oldest-posted records beyond maxRecords and returns
// the count dropped. Keeps the store bounded even when everything is
// recent enough to survive the age purge.
func (m *Memory) EnforceCap(maxRecords int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	excess := len(m.jobs) - maxRecords
	if maxRecords <= 0 || excess <= 0 {
		return 0
	}

	ids := make([]string, 0, len(m.jobs))
	for id := range m.jobs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return m.jobs[ids[i]].PostedAt.Before(m.jobs[ids[j]].PostedAt)
	})
	for _, id := range ids[:excess] {
		m.removeLocked(id)
	}
	m.compactOrderLocked()
	return excess
}

func (m *Memory) removeLocked(id string) {
	rec, ok := m.jobs[id]
	if !ok {
		return
	}
	delete(m.jobs, id)
	if rec.SourceJobID != "" {
		key := sourceKey(rec.Source, rec.SourceJobID)
		if m.bySourceID[key] == id {
			delete(m.bySourceID, key)
		}
	}
	if m.byHash[rec.Hash] == id {
		delete(m.byHash, rec.Hash)
	}
}

func (m *Memory) compactOrderLocked() {
	kept := m.order[:0]
	for _, id := range m.order {
		if _, ok := m.jobs[id]; ok {
			kept = append(kept, id)
		}
	}
	m.order = kept
}

// CacheSet stores an id list under key with an absolute expiry ttl from now.
func (m *Memory) CacheSet(key string, ids []string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = cacheEntry{
		ids:       append([]string(nil), ids...),
		expiresAt: m.now().Add(ttl),
	}
}

// CacheGet returns the cached id list for key. An entry past its expiry
// is removed on this read and reported as a miss.
func (m *Memory) CacheGet(key string) ([]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.cache[key]
	if !ok {
		return nil, false
	}
	if m.now().After(entry.expiresAt) {
		delete(m.cache, key)
		return nil, false
	}
	return append([]string(nil), entry.ids...), true
}

// CacheDelete invalidates one entry, e.g. when a profile changes.
func (m *Memory) CacheDelete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, key)
}

func (m *Memory) pruneExpiredCacheLocked() {
	now := m.now()
	for key, entry := range m.cache {
		if now.After(entry.expiresAt) {
			delete(m.cache, key)
		}
	}
}
