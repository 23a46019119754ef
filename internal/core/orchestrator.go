// Package core orchestrates ingestion: it fans a search out to every
// registered adapter, merges and upserts the results, and fronts the
// whole thing with the TTL result cache.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"github.com/baxromumarov/job-match/internal/match"
	"github.com/baxromumarov/job-match/internal/observability"
	"github.com/baxromumarov/job-match/internal/source"
	"github.com/baxromumarov/job-match/internal/store"
)

// ErrAllSourcesFailed is returned when no adapter contributed anything.
// Callers should treat it as a degraded empty result, not a hard failure.
var ErrAllSourcesFailed = errors.New("all sources failed")

type Options struct {
	CacheTTL         time.Duration
	RecentWindowDays int
	RecentLimit      int
	RecommendLimit   int
}

func (o *Options) fillDefaults() {
	if o.CacheTTL <= 0 {
		o.CacheTTL = 30 * 24 * time.Hour
	}
	if o.RecentWindowDays <= 0 {
		o.RecentWindowDays = 30
	}
	if o.RecentLimit <= 0 {
		o.RecentLimit = 5000
	}
	if o.RecommendLimit <= 0 {
		o.RecommendLimit = 2000
	}
}

type Orchestrator struct {
	store    *store.Memory
	adapters []source.Adapter
	scorer   *match.Scorer
	opts     Options
	flight   singleflight.Group
}

func NewOrchestrator(st *store.Memory, adapters []source.Adapter, scorer *match.Scorer, opts Options) *Orchestrator {
	opts.fillDefaults()
	return &Orchestrator{
		store:    st,
		adapters: adapters,
		scorer:   scorer,
		opts:     opts,
	}
}

// Ingest fans the criteria out to every adapter concurrently, merges
// results in registration order (then per-adapter return order), and
// upserts each input. The returned slice holds one id per processed
// input; ids repeat when two inputs collapsed onto the same record.
// A single failing adapter is skipped; the error is non-nil only when
// every adapter failed.
func (o *Orchestrator) Ingest(ctx context.Context, criteria source.Criteria) ([]string, error) {
	type fetchResult struct {
		jobs []source.Job
		err  error
	}
	results := make([]fetchResult, len(o.adapters))

	var wg sync.WaitGroup
	for i, a := range o.adapters {
		wg.Add(1)
		go func(i int, a source.Adapter) {
			defer wg.Done()
			observability.IncAdapterFetch(a.Name())
			jobs, err := a.Fetch(ctx, criteria)
			results[i] = fetchResult{jobs: jobs, err: err}
		}(i, a)
	}
	wg.Wait()

	ids := make([]string, 0)
	failures := 0
	var errs []error
	for i, res := range results {
		name := o.adapters[i].Name()
		if res.err != nil {
			failures++
			errs = append(errs, fmt.Errorf("%s: %w", name, res.err))
			observability.IncError(observability.ClassifyFetchError(res.err), name)
			slog.Warn("adapter fetch failed", "source", name, "error", res.err)
			continue
		}
		for _, job := range res.jobs {
			rec := o.store.Upsert(job)
			if rec.CreatedAt.Equal(rec.UpdatedAt) {
				observability.IncRecordCreated()
			} else {
				observability.IncRecordUpdated()
			}
			ids = append(ids, rec.ID)
		}
	}
	observability.AddJobsIngested(len(ids))

	if len(o.adapters) > 0 && failures == len(o.adapters) {
		return ids, fmt.Errorf("%w: %v", ErrAllSourcesFailed, errors.Join(errs...))
	}
	return ids, nil
}

// SearchAndCache returns the cached id list for the criteria when a live
// entry exists, otherwise ingests and caches the result with the fixed
// TTL. Concurrent identical calls collapse into one ingestion.
func (o *Orchestrator) SearchAndCache(ctx context.Context, criteria source.Criteria) ([]string, error) {
	return o.cachedIngest(ctx, CriteriaKey(criteria), criteria)
}

// RecommendedForProfile is the same cache-or-fetch pattern keyed off the
// profile rather than the criteria.
func (o *Orchestrator) RecommendedForProfile(ctx context.Context, profile match.Profile, criteria source.Criteria) ([]string, error) {
	return o.cachedIngest(ctx, ProfileKey(profile), criteria)
}

// InvalidateProfile drops the cached result set for a profile, e.g. after
// the user edits it.
func (o *Orchestrator) InvalidateProfile(profile match.Profile) {
	o.store.CacheDelete(ProfileKey(profile))
}

// RecommendedJobs is the live ranked view: it re-scores the recent record
// set against the profile on every call rather than serving cached ids.
func (o *Orchestrator) RecommendedJobs(profile match.Profile) []store.Record {
	recent := o.store.QueryRecent(o.opts.RecentWindowDays, o.opts.RecentLimit)
	ranked := o.scorer.Rank(profile, recent)
	if len(ranked) > o.opts.RecommendLimit {
		ranked = ranked[:o.opts.RecommendLimit]
	}
	return ranked
}

func (o *Orchestrator) cachedIngest(ctx context.Context, key string, criteria source.Criteria) ([]string, error) {
	if ids, ok := o.store.CacheGet(key); ok {
		observability.IncCacheHit()
		return ids, nil
	}
	observability.IncCacheMiss()

	// The flight outlives its first caller: a disconnecting client must
	// not abort the shared fan-out or throw away completed upserts.
	ingestCtx := context.WithoutCancel(ctx)

	v, err, _ := o.flight.Do(key, func() (any, error) {
		// Another flight may have filled the cache while we queued.
		if ids, ok := o.store.CacheGet(key); ok {
			return ids, nil
		}
		ids, err := o.Ingest(ingestCtx, criteria)
		if err != nil {
			return ids, err // degraded results are not cached
		}
		o.store.CacheSet(key, ids, o.opts.CacheTTL)
		return ids, nil
	})

	ids, _ := v.([]string)
	return ids, err
}

// CriteriaKey derives a deterministic cache key from search criteria.
// The tech list is sorted so key derivation is order-insensitive.
func CriteriaKey(c source.Criteria) string {
	tech := append([]string(nil), c.Tech...)
	sort.Strings(tech)
	base := strings.ToLower(strings.Join([]string{
		c.Query,
		c.Location,
		strconv.FormatBool(c.Remote),
		c.Seniority,
		strings.Join(tech, ","),
	}, "|"))
	return fmt.Sprintf("q:%016x", xxhash.Sum64String(base))
}

// ProfileKey derives a deterministic cache key from the profile fields
// that shape its recommendations.
func ProfileKey(p match.Profile) string {
	base := strings.ToLower(strings.Join([]string{
		p.DesiredRole,
		p.Location,
		p.WorkMode,
		p.Skills,
	}, "|"))
	return fmt.Sprintf("p:%016x", xxhash.Sum64String(base))
}
