package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(m map[string]string) Lookup {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

// unsetenv remove as variáveis durante o teste e as restaura no fim.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_PortUnsetDefaultsTo8000(t *testing.T) {
	unsetenv(t, "PORT", "CONFIG_FILE", "HOST")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.ListenAddr())
}

func TestLoadFrom_PortAbsentDefaultsTo8000(t *testing.T) {
	cfg, err := LoadFrom(lookupMap(nil))
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
}

func TestLoadFrom_EmptyPortFails(t *testing.T) {
	_, err := LoadFrom(lookupMap(map[string]string{"PORT": ""}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `PORT: invalid integer ""`)
}

func TestLoad_EmptyPortFails(t *testing.T) {
	unsetenv(t, "CONFIG_FILE")
	t.Setenv("PORT", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestLoadFrom_EmptyFileValueKeepsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"\"\n"), 0o600))

	cfg, err := LoadFrom(lookupMap(map[string]string{"CONFIG_FILE": path}))
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
}

func TestLoad_PortFromEnvironment(t *testing.T) {
	unsetenv(t, "CONFIG_FILE", "HOST")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr())
}

func TestLoad_NonNumericPortFails(t *testing.T) {
	unsetenv(t, "CONFIG_FILE")
	t.Setenv("PORT", "eighty")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestLoadFrom_PortOutOfRange(t *testing.T) {
	for _, p := range []string{"-1", "65536", "99999"} {
		_, err := LoadFrom(lookupMap(map[string]string{"PORT": p}))
		require.Error(t, err, p)
		assert.Contains(t, err.Error(), "PORT must be between 0 and 65535", p)
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(lookupMap(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultName, cfg.ServiceName)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.MetricsAddr)
	assert.False(t, cfg.Rate.Enabled)
	assert.Equal(t, 20, cfg.Rate.Burst)
	assert.Equal(t, 0, cfg.Concurrency.Max)
	assert.Equal(t, "minute", cfg.Stats.Bucket)
}

func TestLoadFrom_FractionalRPSLowersDefaultBurst(t *testing.T) {
	cfg, err := LoadFrom(lookupMap(map[string]string{
		"RATE_ENABLED": "true",
		"RATE_RPS":     "0.5",
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Rate.Burst)

	cfg, err = LoadFrom(lookupMap(map[string]string{
		"RATE_ENABLED": "true",
		"RATE_RPS":     "0.5",
		"RATE_BURST":   "7",
	}))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Rate.Burst)
}

func TestLoadFrom_ReportsEveryMalformedValue(t *testing.T) {
	_, err := LoadFrom(lookupMap(map[string]string{
		"PORT":             "x",
		"RATE_ENABLED":     "maybe",
		"SHUTDOWN_TIMEOUT": "soon",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "RATE_ENABLED")
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoadFrom_StatsRequireRedisAddr(t *testing.T) {
	_, err := LoadFrom(lookupMap(map[string]string{
		"RATE_ENABLED":       "true",
		"RATE_STATS_ENABLED": "true",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_STATS_REDIS_ADDR is required")
}

func TestLoadFrom_RejectsUnknownBucket(t *testing.T) {
	_, err := LoadFrom(lookupMap(map[string]string{"RATE_STATS_BUCKET": "hour"}))
	require.Error(t, err)
}

func TestLoadFrom_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
  shutdown_timeout: 3s
service:
  name: Billing
rate:
  enabled: true
  rps: 5
`), 0o600))

	cfg, err := LoadFrom(lookupMap(map[string]string{"CONFIG_FILE": path}))
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "Billing", cfg.ServiceName)
	assert.True(t, cfg.Rate.Enabled)
	assert.Equal(t, 5.0, cfg.Rate.RPS)

	cfg, err = LoadFrom(lookupMap(map[string]string{"CONFIG_FILE": path, "PORT": "7001"}))
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Port)
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(lookupMap(map[string]string{"CONFIG_FILE": "/does/not/exist.yaml"}))
	require.Error(t, err)
}

func TestParseFile_RejectsUnknownKeys(t *testing.T) {
	_, err := parseFile([]byte("server:\n  prot: 1\n"))
	require.Error(t, err)
}
