package core

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/baxromumarov/job-match/internal/observability"
	"github.com/baxromumarov/job-match/internal/store"
)

// Maintenance owns the daily retention sweep: it purges records older
// than the age horizon and enforces the record-count cap. The store also
// prunes expired cache entries during the same sweep. Lifecycle belongs
// to the composing process, not to package init.
type Maintenance struct {
	cron       *cron.Cron
	store      *store.Memory
	maxAgeDays int
	maxRecords int
}

func NewMaintenance(st *store.Memory, maxAgeDays, maxRecords int) *Maintenance {
	return &Maintenance{
		cron:       cron.New(),
		store:      st,
		maxAgeDays: maxAgeDays,
		maxRecords: maxRecords,
	}
}

// Start registers the daily sweep and runs one immediately so retention
// applies without waiting for the first tick.
func (m *Maintenance) Start() error {
	if _, err := m.cron.AddFunc("@daily", m.Sweep); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	m.cron.Start()
	go m.Sweep()
	return nil
}

func (m *Maintenance) Stop() {
	m.cron.Stop()
}

// Sweep runs one retention pass.
func (m *Maintenance) Sweep() {
	purged := m.store.PurgeOlderThan(m.maxAgeDays)
	capped := m.store.EnforceCap(m.maxRecords)
	observability.AddRecordsPurged(purged + capped)
	if purged > 0 || capped > 0 {
		slog.Info("retention sweep", "purged", purged, "capped", capped)
	}
}
