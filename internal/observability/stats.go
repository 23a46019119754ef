// Package observability keeps lightweight in-process counters for the
// ingestion pipeline and classifies adapter failures.
package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	AdapterFetches uint64            `json:"adapter_fetches"`
	JobsIngested   uint64            `json:"jobs_ingested"`
	RecordsCreated uint64            `json:"records_created"`
	RecordsUpdated uint64            `json:"records_updated"`
	CacheHits      uint64            `json:"cache_hits"`
	CacheMisses    uint64            `json:"cache_misses"`
	RecordsPurged  uint64            `json:"records_purged"`
	ErrorsTotal    uint64            `json:"errors_total"`
	ErrorsByType   map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsBySource map[string]uint64 `json:"errors_by_source,omitempty"`
}

var (
	adapterFetches uint64
	jobsIngested   uint64
	recordsCreated uint64
	recordsUpdated uint64
	cacheHits      uint64
	cacheMisses    uint64
	recordsPurged  uint64
	errorsTotal    uint64

	statsMu        sync.Mutex
	errorsByType   = map[string]uint64{}
	errorsBySource = map[string]uint64{}
)

func IncAdapterFetch(_ string) {
	atomic.AddUint64(&adapterFetches, 1)
}

func AddJobsIngested(n int) {
	if n > 0 {
		atomic.AddUint64(&jobsIngested, uint64(n))
	}
}

func IncRecordCreated() {
	atomic.AddUint64(&recordsCreated, 1)
}

func IncRecordUpdated() {
	atomic.AddUint64(&recordsUpdated, 1)
}

func IncCacheHit() {
	atomic.AddUint64(&cacheHits, 1)
}

func IncCacheMiss() {
	atomic.AddUint64(&cacheMisses, 1)
}

func AddRecordsPurged(n int) {
	if n > 0 {
		atomic.AddUint64(&recordsPurged, uint64(n))
	}
}

func IncError(errType, source string) {
	if errType == "" {
		errType = "unknown"
	}
	if source == "" {
		source = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsBySource[source]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	typeCopy := copyMap(errorsByType)
	sourceCopy := copyMap(errorsBySource)
	statsMu.Unlock()

	return StatsSnapshot{
		AdapterFetches: atomic.LoadUint64(&adapterFetches),
		JobsIngested:   atomic.LoadUint64(&jobsIngested),
		RecordsCreated: atomic.LoadUint64(&recordsCreated),
		RecordsUpdated: atomic.LoadUint64(&recordsUpdated),
		CacheHits:      atomic.LoadUint64(&cacheHits),
		CacheMisses:    atomic.LoadUint64(&cacheMisses),
		RecordsPurged:  atomic.LoadUint64(&recordsPurged),
		ErrorsTotal:    atomic.LoadUint64(&errorsTotal),
		ErrorsByType:   typeCopy,
		ErrorsBySource: sourceCopy,
	}
}

func copyMap(src map[string]uint64) map[string]uint64 {
	if len(src) == 0 {
		return map[string]uint64{}
	}
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
