// Package config loads runtime configuration from the environment with
// sane defaults. Nothing here is required: the service starts with an
// empty environment, minus the Adzuna source which needs credentials.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"port"`

	PurgeMaxAgeDays int `mapstructure:"purge_max_age_days"`
	CacheTTLDays    int `mapstructure:"cache_ttl_days"`
	MaxRecords      int `mapstructure:"max_records"`
	RecentLimit     int `mapstructure:"recent_limit"`
	RecommendLimit  int `mapstructure:"recommend_limit"`

	UserAgent string `mapstructure:"user_agent"`

	GreenhouseCompany string `mapstructure:"greenhouse_company"`
	LeverCompany      string `mapstructure:"lever_company"`
	AdzunaAppID       string `mapstructure:"adzuna_app_id"`
	AdzunaAppKey      string `mapstructure:"adzuna_app_key"`
	AdzunaCountry     string `mapstructure:"adzuna_country"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("purge_max_age_days", 30)
	v.SetDefault("cache_ttl_days", 30)
	v.SetDefault("max_records", 50000)
	v.SetDefault("recent_limit", 5000)
	v.SetDefault("recommend_limit", 2000)
	v.SetDefault("user_agent", "job-match-bot/1.0")
	v.SetDefault("greenhouse_company", "stripe")
	v.SetDefault("lever_company", "netflix")
	v.SetDefault("adzuna_country", "us")

	// Explicit binds so AutomaticEnv sees keys never touched elsewhere.
	for _, key := range []string{
		"port", "purge_max_age_days", "cache_ttl_days", "max_records",
		"recent_limit", "recommend_limit", "user_agent",
		"greenhouse_company", "lever_company",
		"adzuna_app_id", "adzuna_app_key", "adzuna_country",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.PurgeMaxAgeDays <= 0 || cfg.CacheTTLDays <= 0 {
		return nil, fmt.Errorf("purge_max_age_days and cache_ttl_days must be positive")
	}
	return &cfg, nil
}
