package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/job-match/internal/source"
)

func testJob(sourceName, sourceJobID, title string) source.Job {
	return source.Job{
		Source:       sourceName,
		SourceJobID:  sourceJobID,
		Title:        title,
		Company:      "Acme",
		LocationCity: "Berlin",
		ApplyURL:     "https://acme.example/apply",
		PostedAt:     time.Now(),
	}
}

func TestUpsertIdempotent(t *testing.T) {
	m := NewMemory()
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	first := m.Upsert(testJob("greenhouse", "gh-1", "Backend Engineer"))

	m.now = func() time.Time { return base.Add(time.Hour) }
	second := m.Upsert(testJob("greenhouse", "gh-1", "Backend Engineer"))

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, m.Len())
	require.Equal(t, first.CreatedAt, second.CreatedAt)
	require.Equal(t, first.DiscoveredAt, second.DiscoveredAt)
	require.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestUpsertContentHashFallback(t *testing.T) {
	m := NewMemory()

	a := testJob("greenhouse", "gh-7", "Platform Engineer")
	b := testJob("lever", "lv-9", "Platform Engineer") // same tuple, other source id

	recA := m.Upsert(a)
	recB := m.Upsert(b)

	require.Equal(t, recA.ID, recB.ID)
	require.Equal(t, 1, m.Len())
}

func TestUpsertNoSourceIDUsesHash(t *testing.T) {
	m := NewMemory()

	job := testJob("weworkremotely", "", "Go Developer")
	first := m.Upsert(job)
	second := m.Upsert(job)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, m.Len())
}

func TestUpsertDistinctJobsStaySeparate(t *testing.T) {
	m := NewMemory()

	m.Upsert(testJob("greenhouse", "gh-1", "Backend Engineer"))
	m.Upsert(testJob("greenhouse", "gh-2", "Frontend Engineer"))

	require.Equal(t, 2, m.Len())
}

func TestUpsertMergesMutableFields(t *testing.T) {
	m := NewMemory()

	job := testJob("greenhouse", "gh-1", "Backend Engineer")
	m.Upsert(job)

	job.Title = "Senior Backend Engineer"
	job.SalaryMin = 90000
	updated := m.Upsert(job)

	rec, ok := m.Get(updated.ID)
	require.True(t, ok)
	require.Equal(t, "Senior Backend Engineer", rec.Title)
	require.Equal(t, float64(90000), rec.SalaryMin)
	require.Equal(t, 1, m.Len())
}

func TestUpsertDatelessJobDefaultsToDiscovery(t *testing.T) {
	m := NewMemory()
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	job := testJob("weworkremotely", "", "Go Developer")
	job.PostedAt = time.Time{}
	rec := m.Upsert(job)
	require.True(t, rec.PostedAt.Equal(now), "dateless job takes the discovery instant")

	recent := m.QueryRecent(30, 10)
	require.Len(t, recent, 1, "freshly discovered job must be recent")

	require.Zero(t, m.PurgeOlderThan(30), "first sweep must not remove it")
	require.Equal(t, 1, m.Len())

	// A later dateless upsert of the same posting keeps the original date.
	m.now = func() time.Time { return now.Add(48 * time.Hour) }
	again := m.Upsert(job)
	require.True(t, again.PostedAt.Equal(now))
}

func TestCacheExpiryRemovesOnRead(t *testing.T) {
	m := NewMemory()
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	m.CacheSet("q:1", []string{"a", "b"}, time.Hour)

	ids, ok := m.CacheGet("q:1")
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, ids)

	m.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, ok = m.CacheGet("q:1")
	require.False(t, ok)

	m.mu.Lock()
	_, stillThere := m.cache["q:1"]
	m.mu.Unlock()
	require.False(t, stillThere, "expired entry should be deleted on the read that misses")
}

func TestPurgeOlderThan(t *testing.T) {
	m := NewMemory()
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	old := testJob("greenhouse", "gh-old", "Old Job")
	old.PostedAt = now.AddDate(0, 0, -31)
	fresh := testJob("greenhouse", "gh-new", "Fresh Job")
	fresh.PostedAt = now.AddDate(0, 0, -29)

	m.Upsert(old)
	keep := m.Upsert(fresh)

	m.CacheSet("expired", []string{keep.ID}, -time.Hour)
	m.CacheSet("live", []string{keep.ID}, time.Hour)

	removed := m.PurgeOlderThan(30)
	require.Equal(t, 1, removed)
	require.Equal(t, 1, m.Len())

	_, ok := m.Get(keep.ID)
	require.True(t, ok)

	_, ok = m.CacheGet("expired")
	require.False(t, ok)
	_, ok = m.CacheGet("live")
	require.True(t, ok)
}

func TestQueryRecentInsertionOrderAndLimit(t *testing.T) {
	m := NewMemory()
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	for _, title := range []string{"First", "Second", "Third"} {
		job := testJob("greenhouse", "gh-"+title, title)
		job.PostedAt = now.AddDate(0, 0, -1)
		m.Upsert(job)
	}
	stale := testJob("greenhouse", "gh-stale", "Stale")
	stale.PostedAt = now.AddDate(0, 0, -40)
	m.Upsert(stale)

	recent := m.QueryRecent(30, 2)
	require.Len(t, recent, 2)
	require.Equal(t, "First", recent[0].Title)
	require.Equal(t, "Second", recent[1].Title)
}

func TestEnforceCapDropsOldestPosted(t *testing.T) {
	m := NewMemory()
	now := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	oldest := testJob("greenhouse", "gh-1", "Oldest")
	oldest.PostedAt = now.AddDate(0, 0, -20)
	mid := testJob("greenhouse", "gh-2", "Middle")
	mid.PostedAt = now.AddDate(0, 0, -10)
	newest := testJob("greenhouse", "gh-3", "Newest")
	newest.PostedAt = now.AddDate(0, 0, -1)

	m.Upsert(oldest)
	midRec := m.Upsert(mid)
	newRec := m.Upsert(newest)

	dropped := m.EnforceCap(2)
	require.Equal(t, 1, dropped)
	require.Equal(t, 2, m.Len())

	_, ok := m.Get(midRec.ID)
	require.True(t, ok)
	_, ok = m.Get(newRec.ID)
	require.True(t, ok)
}

func TestComputeHashNormalizes(t *testing.T) {
	a := source.Job{Title: "  Backend Engineer ", Company: "ACME", LocationCity: "Berlin", ApplyURL: "https://a.example"}
	b := source.Job{Title: "backend engineer", Company: "acme", LocationCity: "berlin", ApplyURL: "https://a.example"}
	c := source.Job{Title: "Frontend Engineer", Company: "acme", LocationCity: "berlin", ApplyURL: "https://a.example"}

	require.Equal(t, ComputeHash(a), ComputeHash(b))
	require.NotEqual(t, ComputeHash(a), ComputeHash(c))
}
