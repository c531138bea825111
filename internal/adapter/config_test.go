package adapter

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, cfg.IsConfigured())
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 5, cfg.History.Size)
	assert.Equal(t, 30, cfg.Listing.TrendingCap)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
api:
  token: secret
  language: fr-FR
  timeout: 5s
search:
  debounce: 150ms
  rank_results: true
history:
  size: 10
  path: ""
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := loadConfig(viper.New(), dir)
	require.NoError(t, err)

	assert.True(t, cfg.IsConfigured())
	assert.Equal(t, "fr-FR", cfg.API.Language)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 150*time.Millisecond, cfg.Search.Debounce)
	assert.True(t, cfg.Search.RankResults)
	assert.Equal(t, 10, cfg.History.Size)

	dirPath, err := cfg.HistoryDir()
	require.NoError(t, err)
	assert.Empty(t, dirPath)

	// Unset keys keep their defaults
	assert.Equal(t, DefaultConfig().API.BaseURL, cfg.API.BaseURL)
	assert.Equal(t, 8, cfg.Search.ResultLimit)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api:\n  token: from-file\n"), 0644))
	t.Setenv("MARQUEE_API_TOKEN", "from-env")
	t.Setenv("MARQUEE_LISTING_MAX_PARALLEL", "2")

	cfg, err := loadConfig(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.API.Token)
	assert.Equal(t, 2, cfg.Listing.MaxParallel)
}

func TestMalformedConfigFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api: [unterminated"), 0644))

	_, err := loadConfig(viper.New(), dir)
	assert.Error(t, err)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := DefaultConfig()
	cfg.API.Token = "tok"
	cfg.Search.Debounce = 250 * time.Millisecond
	cfg.Listing.PopularCap = 100

	require.NoError(t, saveConfig(viper.New(), cfg, dir))
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	loaded, err := loadConfig(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigConversions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Token = "tok"
	cfg.API.IncludeAdult = true
	cfg.Listing.PeopleCap = 60

	opts := cfg.TMDBOptions()
	assert.Equal(t, "tok", opts.Token)
	assert.Equal(t, cfg.API.BreakerFailures, opts.BreakerFailures)

	s := cfg.SearchOptions()
	assert.Equal(t, cfg.Search.Debounce, s.Debounce)
	assert.Equal(t, "en-US", s.Language)
	assert.True(t, s.IncludeAdult)

	assert.Equal(t, "en-US", cfg.DetailOptions().Language)

	p := cfg.Presets()
	assert.Equal(t, 30, p.TrendingCap)
	assert.Equal(t, 60, p.PeopleCap)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", "seq", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"app":"marquee"`)
}

func TestSetupLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "marquee.log")
	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "debug"})
	require.NoError(t, err)
	logger.Debug("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestSetupLoggerWithoutFileDiscards(t *testing.T) {
	logger, closer, err := SetupLogger(&LoggingConfig{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}
