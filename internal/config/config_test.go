package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Defaults(t *testing.T) {
	cfg, err := NewLoader("", "test").Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "http://127.0.0.1:9222", cfg.BridgeURL)
	assert.Equal(t, 30*time.Second, cfg.BridgeTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.HistoryEnabled)
	assert.Equal(t, filepath.Join(cfg.DataDir, "probes.db"), cfg.HistoryPath)
	assert.Equal(t, filepath.Join(cfg.DataDir, "capability-report.json"), cfg.ReportPath)
	assert.Equal(t, "noop", cfg.TracingExporter)
	assert.Equal(t, "test", cfg.Version)
}

func TestLoader_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9090"
bridge:
  url: "http://10.0.0.5:9222"
  timeout: 5s
history:
  enabled: false
rateLimit:
  rpm: 120
`), 0o600))

	cfg, err := NewLoader(path, "test").Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "http://10.0.0.5:9222", cfg.BridgeURL)
	assert.Equal(t, 5*time.Second, cfg.BridgeTimeout)
	assert.False(t, cfg.HistoryEnabled)
	assert.Equal(t, 120, cfg.RateLimitRPM)
	// Untouched values keep their defaults.
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9090\"\n"), 0o600))

	t.Setenv("EMEPROBE_LISTEN", ":7070")
	t.Setenv("EMEPROBE_BRIDGE_TIMEOUT", "2s")

	cfg, err := NewLoader(path, "test").Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, 2*time.Second, cfg.BridgeTimeout)
}

func TestLoader_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o600))

	_, err := NewLoader(path, "test").Load()
	require.Error(t, err)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader("/nonexistent/config.yaml", "test").Load()
	require.Error(t, err)
}

func TestParseHelpers(t *testing.T) {
	t.Setenv("EMEPROBE_TEST_STR", "value")
	t.Setenv("EMEPROBE_TEST_INT", "42")
	t.Setenv("EMEPROBE_TEST_INT_BAD", "forty-two")
	t.Setenv("EMEPROBE_TEST_BOOL", "true")
	t.Setenv("EMEPROBE_TEST_DUR", "1500ms")
	t.Setenv("EMEPROBE_TEST_FLOAT", "0.25")

	assert.Equal(t, "value", ParseString("EMEPROBE_TEST_STR", "default"))
	assert.Equal(t, "default", ParseString("EMEPROBE_TEST_UNSET", "default"))
	assert.Equal(t, 42, ParseInt("EMEPROBE_TEST_INT", 1))
	assert.Equal(t, 1, ParseInt("EMEPROBE_TEST_INT_BAD", 1))
	assert.True(t, ParseBool("EMEPROBE_TEST_BOOL", false))
	assert.Equal(t, 1500*time.Millisecond, ParseDuration("EMEPROBE_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, ParseDuration("EMEPROBE_TEST_UNSET", time.Second))
	assert.Equal(t, 0.25, ParseFloat("EMEPROBE_TEST_FLOAT", 1.0))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := defaults("test")
	valid.HistoryPath = "/tmp/x.db"

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*AppConfig) {}},
		{
			name:    "empty listen",
			mutate:  func(c *AppConfig) { c.ListenAddr = " " },
			wantErr: "listen address",
		},
		{
			name:    "bad bridge scheme",
			mutate:  func(c *AppConfig) { c.BridgeURL = "ftp://host" },
			wantErr: "must be http(s)",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *AppConfig) { c.BridgeTimeout = 0 },
			wantErr: "timeout must be positive",
		},
		{
			name:    "bad rate limit",
			mutate:  func(c *AppConfig) { c.RateLimitRPM = 0 },
			wantErr: "rate limit rpm",
		},
		{
			name:    "bad exporter",
			mutate:  func(c *AppConfig) { c.TracingExporter = "jaeger" },
			wantErr: "tracing exporter",
		},
		{
			name:    "sampling out of range",
			mutate:  func(c *AppConfig) { c.SamplingRate = 1.5 },
			wantErr: "sampling rate",
		},
		{
			name:    "history without path",
			mutate:  func(c *AppConfig) { c.HistoryPath = "" },
			wantErr: "history",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
