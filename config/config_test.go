package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default().API.Port, cfg.API.Port)
	require.Equal(t, "main", cfg.Genesis.DefaultPilot)
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := writeConfig(t, `
api:
  port: 9090
log:
  level: debug
  format: json
genesis:
  denom: usdx
  withdraw_delay: 1h
  yield_sources: [aave]
  adapters:
    - {id: a, kind: vault, source: aave, pilot: p}
  pilots:
    - {id: p, owner: admin, adapters: [a], bps: [10000], registered: true}
  default_pilot: p
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.API.Port)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, "usdx", cfg.Genesis.Denom)
	require.Equal(t, time.Hour, cfg.Genesis.WithdrawDelay)
	// untouched sections keep their defaults
	require.Equal(t, "memdb", cfg.Store.Backend)
	require.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SUPERCLUSTER_API_PORT", "7000")
	t.Setenv("SUPERCLUSTER_LOG_LEVEL", "warn")
	t.Setenv("SUPERCLUSTER_METRICS_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 7000, cfg.API.Port)
	require.Equal(t, "warn", cfg.Log.Level)
	require.False(t, cfg.Metrics.Enabled)

	t.Setenv("SUPERCLUSTER_API_PORT", "seventy")
	_, err = Load("")
	require.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "api: [unterminated"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port", func(c *Config) { c.API.Port = 0 }},
		{"backend", func(c *Config) { c.Store.Backend = "rocksdb" }},
		{"leveldb home", func(c *Config) { c.Store.Backend = "goleveldb"; c.Store.Home = "" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"keeper", func(c *Config) { c.Scheduler.Keeper = "" }},
		{"denom", func(c *Config) { c.Genesis.Denom = "" }},
		{"role", func(c *Config) { c.Genesis.Roles[0].Role = "root" }},
		{"balance", func(c *Config) { c.Genesis.Balances[0].Amount = "-1" }},
		{"adapter kind", func(c *Config) { c.Genesis.Adapters[0].Kind = "swap" }},
		{"adapter source", func(c *Config) { c.Genesis.Adapters[0].Source = "nowhere" }},
		{"allocation sum", func(c *Config) { c.Genesis.Pilots[0].Bps = []uint32{7000, 2000} }},
		{"allocation length", func(c *Config) { c.Genesis.Pilots[0].Bps = []uint32{10000} }},
		{"unknown adapter", func(c *Config) { c.Genesis.Pilots[0].Adapters[1] = "ghost" }},
		{"foreign adapter", func(c *Config) { c.Genesis.Adapters[1].Pilot = "other" }},
		{"default pilot", func(c *Config) { c.Genesis.DefaultPilot = "ghost" }},
		{"divest passes", func(c *Config) { c.Genesis.MaxDivestPasses = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestNewLoggerWithFile(t *testing.T) {
	cfg := Default().Log
	cfg.File = filepath.Join(t.TempDir(), "node.log")
	cfg.Format = "json"

	logger, closer, err := NewLogger(cfg)
	require.NoError(t, err)
	logger.Info("hello", "k", "v")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	require.Contains(t, string(data), `"hello"`)

	cfg.Level = "nope"
	_, _, err = NewLogger(cfg)
	require.Error(t, err)
}
