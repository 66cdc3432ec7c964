package config

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/mariveth/lootsweep/internal/safety"
)

// Market holds market-price lookup settings.
type Market struct {
	World                string        `mapstructure:"world"`
	CacheDurationMinutes int           `mapstructure:"cache_duration_minutes"`
	AutoRefresh          bool          `mapstructure:"auto_refresh"`
	PreferHQ             bool          `mapstructure:"prefer_hq"`
	FetchTimeout         time.Duration `mapstructure:"fetch_timeout"`
}

// TTL returns the cache duration as a time.Duration.
func (m Market) TTL() time.Duration {
	return time.Duration(m.CacheDurationMinutes) * time.Minute
}

// Config is the general configuration document. Missing or malformed
// files fall back to the documented defaults; loading never fails hard.
type Config struct {
	DataDir   string              `mapstructure:"data_dir"`
	BridgeURL string              `mapstructure:"bridge_url"`
	Filters   safety.FilterConfig `mapstructure:"filters"`
	Market    Market              `mapstructure:"market"`
}

// DatabasePath returns the location of the cache/history database.
func (c Config) DatabasePath() string {
	return filepath.Join(ExpandPath(c.DataDir), "lootsweep.db")
}

// ListsDir returns the directory holding the exclusion list files.
func (c Config) ListsDir() string {
	return ExpandPath(c.DataDir)
}

// SetDefaults registers every default value with viper, so that a
// missing or partial config file silently yields documented behavior.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("bridge_url", "http://127.0.0.1:37465")

	filters := safety.DefaultFilterConfig()
	v.SetDefault("filters.filter_ultimate_tokens", filters.FilterUltimateTokens)
	v.SetDefault("filters.filter_currency", filters.FilterCurrency)
	v.SetDefault("filters.filter_crystals", filters.FilterCrystals)
	v.SetDefault("filters.filter_gearset", filters.FilterGearset)
	v.SetDefault("filters.filter_indisposable", filters.FilterIndisposable)
	v.SetDefault("filters.filter_high_level_gear", filters.FilterHighLevelGear)
	v.SetDefault("filters.filter_unique_untradeable", filters.FilterUniqueUntradeable)
	v.SetDefault("filters.filter_hq", filters.FilterHQ)
	v.SetDefault("filters.filter_collectable", filters.FilterCollectable)
	v.SetDefault("filters.filter_spiritbond", filters.FilterSpiritbond)
	v.SetDefault("filters.max_gear_item_level", filters.MaxGearItemLevel)
	v.SetDefault("filters.min_spiritbond_percent", filters.MinSpiritbondPercent)

	v.SetDefault("market.world", "")
	v.SetDefault("market.cache_duration_minutes", 30)
	v.SetDefault("market.auto_refresh", true)
	v.SetDefault("market.prefer_hq", false)
	v.SetDefault("market.fetch_timeout", 10*time.Second)
}

// Load unmarshals the current viper state into a Config. Unmarshal
// trouble degrades to pure defaults rather than failing the command.
func Load(v *viper.Viper) Config {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Warn("Malformed configuration, using defaults", "error", err)
		defaults := viper.New()
		SetDefaults(defaults)
		_ = defaults.Unmarshal(&cfg)
	}
	return cfg
}
