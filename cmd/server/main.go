package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/baxromumarov/job-match/internal/api"
	"github.com/baxromumarov/job-match/internal/config"
	"github.com/baxromumarov/job-match/internal/core"
	"github.com/baxromumarov/job-match/internal/match"
	"github.com/baxromumarov/job-match/internal/source"
	"github.com/baxromumarov/job-match/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	st := store.NewMemory()
	scorer := match.NewScorer(match.DefaultWeights())

	adapters := source.Registry(source.RegistryConfig{
		UserAgent:         cfg.UserAgent,
		GreenhouseCompany: cfg.GreenhouseCompany,
		LeverCompany:      cfg.LeverCompany,
		AdzunaAppID:       cfg.AdzunaAppID,
		AdzunaAppKey:      cfg.AdzunaAppKey,
		AdzunaCountry:     cfg.AdzunaCountry,
	})

	orchestrator := core.NewOrchestrator(st, adapters, scorer, core.Options{
		CacheTTL:         time.Duration(cfg.CacheTTLDays) * 24 * time.Hour,
		RecentWindowDays: cfg.PurgeMaxAgeDays,
		RecentLimit:      cfg.RecentLimit,
		RecommendLimit:   cfg.RecommendLimit,
	})

	maintenance := core.NewMaintenance(st, cfg.PurgeMaxAgeDays, cfg.MaxRecords)
	if err := maintenance.Start(); err != nil {
		slog.Error("failed to start maintenance", "error", err)
		os.Exit(1)
	}
	defer maintenance.Stop()

	srv := api.NewServer(st, orchestrator, scorer)

	slog.Info("starting server", "port", cfg.Port, "adapters", len(adapters))
	if err := http.ListenAndServe(":"+cfg.Port, srv.Router()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
