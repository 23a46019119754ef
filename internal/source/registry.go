package source

import (
	"github.com/baxromumarov/job-match/internal/httpx"
)

// RegistryConfig carries the per-source settings the registry needs.
type RegistryConfig struct {
	UserAgent         string
	GreenhouseCompany string
	LeverCompany      string
	AdzunaAppID       string
	AdzunaAppKey      string
	AdzunaCountry     string
}

// Registry builds the fixed adapter list. Order matters: it is the merge
// order during ingestion and therefore the tiebreak order for
// equal-scoring results.
func Registry(cfg RegistryConfig) []Adapter {
	polite := httpx.NewPoliteClient(cfg.UserAgent)
	colly := httpx.NewCollyFetcher(cfg.UserAgent)

	return []Adapter{
		NewGreenhouseAdapter(colly, cfg.GreenhouseCompany),
		NewLeverAdapter(polite, cfg.LeverCompany),
		NewRemoteOKAdapter(polite),
		NewWeWorkRemotelyAdapter(colly),
		NewAdzunaAdapter(polite, cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry),
	}
}
