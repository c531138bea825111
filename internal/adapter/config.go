package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mmcdole/marquee/internal/detail"
	"github.com/mmcdole/marquee/internal/discover"
	"github.com/mmcdole/marquee/internal/history"
	"github.com/mmcdole/marquee/internal/search"
	"github.com/mmcdole/marquee/internal/tmdb"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Search  SearchConfig  `mapstructure:"search"`
	History HistoryConfig `mapstructure:"history"`
	Listing ListingConfig `mapstructure:"listing"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds catalog API configuration
type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Token             string        `mapstructure:"token"`    // v4 read access token
	Language          string        `mapstructure:"language"` // e.g. "en-US"
	IncludeAdult      bool          `mapstructure:"include_adult"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"` // 0 disables limiting
	Burst             int           `mapstructure:"burst"`
	BreakerFailures   uint32        `mapstructure:"breaker_failures"` // 0 disables the breaker
	BreakerCooldown   time.Duration `mapstructure:"breaker_cooldown"`
}

// SearchConfig holds the search-as-you-type settings
type SearchConfig struct {
	Debounce       time.Duration `mapstructure:"debounce"`
	MinQueryLength int           `mapstructure:"min_query_length"`
	ResultLimit    int           `mapstructure:"result_limit"`
	RankResults    bool          `mapstructure:"rank_results"` // Re-rank by title match instead of catalog order
}

// HistoryConfig holds search history settings
type HistoryConfig struct {
	Size int    `mapstructure:"size"`
	Path string `mapstructure:"path"` // Empty keeps history in memory only
}

// ListingConfig holds browse listing settings
type ListingConfig struct {
	TrendingCap int `mapstructure:"trending_cap"`
	PopularCap  int `mapstructure:"popular_cap"` // 0 means unbounded
	PeopleCap   int `mapstructure:"people_cap"`
	MaxParallel int `mapstructure:"max_parallel"` // Concurrent requests per batch, 0 for no limit
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           tmdb.DefaultBaseURL,
			Language:          tmdb.DefaultLanguage,
			Timeout:           tmdb.DefaultTimeout,
			RequestsPerSecond: 20,
			Burst:             5,
			BreakerFailures:   5,
			BreakerCooldown:   30 * time.Second,
		},
		Search: SearchConfig{
			Debounce:       search.DefaultDebounce,
			MinQueryLength: search.DefaultMinQueryLength,
			ResultLimit:    search.DefaultResultLimit,
		},
		History: HistoryConfig{
			Size: history.DefaultSize,
			Path: defaultDataPath(),
		},
		Listing: ListingConfig{
			TrendingCap: discover.DefaultTrendingCap,
			MaxParallel: 4,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "marquee.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "marquee")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), defaultConfigPath(), ".")
}

func loadConfig(v *viper.Viper, paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Environment variable overrides, e.g. MARQUEE_API_TOKEN
	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	for key, val := range configValues(cfg) {
		v.SetDefault(key, val)
	}
}

func configValues(cfg *Config) map[string]any {
	return map[string]any{
		"api.base_url":            cfg.API.BaseURL,
		"api.token":               cfg.API.Token,
		"api.language":            cfg.API.Language,
		"api.include_adult":       cfg.API.IncludeAdult,
		"api.timeout":             cfg.API.Timeout.String(),
		"api.requests_per_second": cfg.API.RequestsPerSecond,
		"api.burst":               cfg.API.Burst,
		"api.breaker_failures":    cfg.API.BreakerFailures,
		"api.breaker_cooldown":    cfg.API.BreakerCooldown.String(),

		"search.debounce":         cfg.Search.Debounce.String(),
		"search.min_query_length": cfg.Search.MinQueryLength,
		"search.result_limit":     cfg.Search.ResultLimit,
		"search.rank_results":     cfg.Search.RankResults,

		"history.size": cfg.History.Size,
		"history.path": cfg.History.Path,

		"listing.trending_cap": cfg.Listing.TrendingCap,
		"listing.popular_cap":  cfg.Listing.PopularCap,
		"listing.people_cap":   cfg.Listing.PeopleCap,
		"listing.max_parallel": cfg.Listing.MaxParallel,

		"logging.file":  cfg.Logging.File,
		"logging.level": cfg.Logging.Level,
	}
}

// SaveConfig saves the configuration to the default config file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), cfg, defaultConfigPath())
}

func saveConfig(v *viper.Viper, cfg *Config, dir string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to keep snake_case key names
	for key, val := range configValues(cfg) {
		v.Set(key, val)
	}

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the API base URL and token are set
func (c *Config) IsConfigured() bool {
	return c.API.BaseURL != "" && c.API.Token != ""
}

// TMDBOptions converts the API section into gateway options
func (c *Config) TMDBOptions() tmdb.Options {
	return tmdb.Options{
		BaseURL:           c.API.BaseURL,
		Token:             c.API.Token,
		Timeout:           c.API.Timeout,
		RequestsPerSecond: c.API.RequestsPerSecond,
		Burst:             c.API.Burst,
		BreakerFailures:   c.API.BreakerFailures,
		BreakerCooldown:   c.API.BreakerCooldown,
	}
}

// SearchOptions converts the search section into session options
func (c *Config) SearchOptions() search.Options {
	return search.Options{
		Debounce:       c.Search.Debounce,
		MinQueryLength: c.Search.MinQueryLength,
		ResultLimit:    c.Search.ResultLimit,
		Language:       c.API.Language,
		IncludeAdult:   c.API.IncludeAdult,
		RankResults:    c.Search.RankResults,
	}
}

// DetailOptions converts the API section into detail page options
func (c *Config) DetailOptions() detail.Options {
	return detail.Options{Language: c.API.Language}
}

// Presets converts the listing section into browse surface presets
func (c *Config) Presets() discover.Presets {
	return discover.Presets{
		Language:     c.API.Language,
		IncludeAdult: c.API.IncludeAdult,
		TrendingCap:  c.Listing.TrendingCap,
		PopularCap:   c.Listing.PopularCap,
		PeopleCap:    c.Listing.PeopleCap,
	}
}

// HistoryDir returns the history directory with ~ expanded, empty for memory only
func (c *Config) HistoryDir() (string, error) {
	if c.History.Path == "" {
		return "", nil
	}
	return expandHome(c.History.Path)
}
