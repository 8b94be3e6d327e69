package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/contriview/pkg/services/contributions"
	"github.com/de-tools/contriview/pkg/services/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contriview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	// Given: a working directory without a config file
	t.Chdir(t.TempDir())

	// When
	cfg, err := LoadConfig("")

	// Then
	require.NoError(t, err)
	assert.Equal(t, fetcher.Settings{
		BaseURL:  fetcher.DefaultBaseURL,
		Timeout:  fetcher.DefaultTimeout,
		RetryMax: fetcher.DefaultRetryMax,
	}, cfg.FetcherSettings())
	assert.Equal(t, contributions.DefaultParserOptions(), cfg.ParserOptions())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "contriview.db", cfg.Store.Path)
	assert.Equal(t, time.Hour, cfg.Tracker.Interval)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	// Given
	path := writeConfig(t, `github:
  base_url: "http://localhost:9000"
  timeout: 3s
  retry_max: 1
parser:
  element: td
  count_attr: data-level
tracker:
  interval: 15m
  accounts_file: /etc/contriview/accounts.ini
log:
  level: debug
`)
	t.Setenv("CONTRIVIEW_SERVER_PORT", "9999")
	t.Setenv("CONTRIVIEW_LOG_LEVEL", "warn")

	// When
	cfg, err := LoadConfig(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.GitHub.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, 1, cfg.GitHub.RetryMax)
	assert.Equal(t, contributions.ParserOptions{
		Element:   "td",
		DateAttr:  contributions.DefaultDateAttr,
		CountAttr: "data-level",
	}, cfg.ParserOptions())
	assert.Equal(t, 15*time.Minute, cfg.Tracker.Interval)
	assert.Equal(t, "/etc/contriview/accounts.ini", cfg.Tracker.AccountsFile)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "missing explicit file", path: filepath.Join(t.TempDir(), "absent.yaml")},
		{name: "invalid yaml", path: writeConfig(t, "github: base_url: : bad")},
		{name: "negative retries", path: writeConfig(t, "github:\n  retry_max: -2\n")},
		{name: "zero interval", path: writeConfig(t, "tracker:\n  interval: 0s\n")},
		{name: "unknown log level", path: writeConfig(t, "log:\n  level: loud\n")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(tc.path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Log: LogConfig{Level: "warn"}}

	logger := cfg.Logger(&buf)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
