package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is read from a TOML file; every field has a usable default.
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Trade   TradeConfig   `toml:"trade"`
	Filters FilterConfig  `toml:"filters"`
	Log     LogConfig     `toml:"log"`
	Cache   CacheConfig   `toml:"cache"`
}

// CatalogConfig points at saved copies of the trade catalogs. When either
// path is empty both catalogs are fetched from the trade API.
type CatalogConfig struct {
	StatsPath string `toml:"stats_path"`
	ItemsPath string `toml:"items_path"`
}

// TradeConfig configures the trade API client and the league searched.
type TradeConfig struct {
	// BaseURL is the trade API root, e.g. https://www.pathofexile.com/api/trade2.
	BaseURL string `toml:"base_url"`
	// SiteURL is where search ids can be opened in a browser.
	SiteURL   string `toml:"site_url"`
	UserAgent string `toml:"user_agent"`
	League    string `toml:"league"`
	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// ResultLimit is how many listings are fetched after a search.
	ResultLimit int `toml:"result_limit"`
}

// FilterConfig sets the defaults applied to every parsed item.
type FilterConfig struct {
	OnlineOnly  bool   `toml:"online_only"`
	PriceOption string `toml:"price_option"`
	ListedTime  string `toml:"listed_time"`
}

// LogConfig selects the zerolog level and console output.
type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

// CacheConfig sizes the in-memory query cache.
type CacheConfig struct {
	// Size is the number of recent tooltips whose queries are kept.
	Size int `toml:"size"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Trade: TradeConfig{
			BaseURL:        "https://www.pathofexile.com/api/trade2",
			SiteURL:        "https://www.pathofexile.com/trade2/search/poe2",
			UserAgent:      "chiseled-poe-trade",
			League:         defaultLeague,
			TimeoutSeconds: 10,
			ResultLimit:    10,
		},
		Filters: FilterConfig{
			OnlineOnly: true,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
		Cache: CacheConfig{
			Size: 64,
		},
	}
}

// LoadConfig reads path on top of DefaultConfig. Unknown keys are rejected
// so that typos do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail at request time.
func (c Config) Validate() error {
	var errs []error
	if c.Trade.BaseURL == "" && (c.Catalog.StatsPath == "" || c.Catalog.ItemsPath == "") {
		errs = append(errs, errors.New("trade.base_url is required unless both catalog paths are set"))
	}
	if c.Trade.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("trade.timeout_seconds must be positive, got %d", c.Trade.TimeoutSeconds))
	}
	if c.Trade.ResultLimit <= 0 {
		errs = append(errs, fmt.Errorf("trade.result_limit must be positive, got %d", c.Trade.ResultLimit))
	}
	if c.Cache.Size <= 0 {
		errs = append(errs, fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size))
	}
	return errors.Join(errs...)
}

// Timeout is the per-request HTTP timeout.
func (c TradeConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
