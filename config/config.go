// Package config loads the node configuration from YAML, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cosmossdk.io/math"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	accesstypes "github.com/openalpha/supercluster/x/access/types"
	adaptertypes "github.com/openalpha/supercluster/x/adapter/types"
	pilottypes "github.com/openalpha/supercluster/x/pilot/types"
	superclustertypes "github.com/openalpha/supercluster/x/supercluster/types"
	withdrawtypes "github.com/openalpha/supercluster/x/withdraw/types"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "SUPERCLUSTER_"

// Config holds all node configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Recorder  RecorderConfig  `yaml:"recorder"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Genesis   GenesisConfig   `yaml:"genesis"`
}

// APIConfig configures the HTTP server
type APIConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// RateLimit is requests per second per client IP; zero disables limiting.
	RateLimit      float64  `yaml:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Addr returns host:port
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig selects the state database
type StoreConfig struct {
	// Backend is memdb or goleveldb
	Backend string `yaml:"backend"`
	Home    string `yaml:"home"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, receives a rotated copy of the log
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// MetricsConfig configures the prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// RecorderConfig configures the event audit trail
type RecorderConfig struct {
	// SQLitePath empty disables recording
	SQLitePath string `yaml:"sqlite_path"`
}

// SchedulerConfig configures periodic jobs
type SchedulerConfig struct {
	Enabled    bool   `yaml:"enabled"`
	RebaseCron string `yaml:"rebase_cron"`
	ReportCron string `yaml:"report_cron"`
	// Keeper is the controller address the rebase job acts as
	Keeper string `yaml:"keeper"`
}

// GenesisConfig is the initial state written into an empty store
type GenesisConfig struct {
	Denom                 string          `yaml:"denom"`
	Roles                 []RoleGrant     `yaml:"roles"`
	Balances              []Balance       `yaml:"balances"`
	YieldSources          []string        `yaml:"yield_sources"`
	Adapters              []AdapterConfig `yaml:"adapters"`
	Pilots                []PilotConfig   `yaml:"pilots"`
	DefaultPilot          string          `yaml:"default_pilot"`
	WithdrawDelay         time.Duration   `yaml:"withdraw_delay"`
	MaxRebaseDeviationBps uint32          `yaml:"max_rebase_deviation_bps"`
	MaxDivestPasses       uint32          `yaml:"max_divest_passes"`
}

// RoleGrant grants one role to one address
type RoleGrant struct {
	Role    string `yaml:"role"`
	Address string `yaml:"address"`
}

// Balance credits an address with base asset
type Balance struct {
	Address string `yaml:"address"`
	Amount  string `yaml:"amount"`
}

// AdapterConfig declares an adapter
type AdapterConfig struct {
	ID     string `yaml:"id"`
	Kind   string `yaml:"kind"`
	Source string `yaml:"source"`
	Pilot  string `yaml:"pilot"`
}

// PilotConfig declares a pilot and its allocation table
type PilotConfig struct {
	ID         string   `yaml:"id"`
	Owner      string   `yaml:"owner"`
	Adapters   []string `yaml:"adapters"`
	Bps        []uint32 `yaml:"bps"`
	Registered bool     `yaml:"registered"`
}

// Default returns a runnable single-node configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       20,
			RateBurst:       40,
			AllowedOrigins:  []string{"*"},
		},
		Store: StoreConfig{
			Backend: "memdb",
			Home:    "data",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Scheduler: SchedulerConfig{
			Enabled:    true,
			RebaseCron: "0 */10 * * * *",
			ReportCron: "0 0 * * * *",
			Keeper:     "keeper",
		},
		Genesis: GenesisConfig{
			Denom: "uusdc",
			Roles: []RoleGrant{
				{Role: string(accesstypes.RoleAdmin), Address: "admin"},
				{Role: string(accesstypes.RoleOperator), Address: "operator"},
				{Role: string(accesstypes.RoleController), Address: "keeper"},
			},
			Balances: []Balance{
				{Address: "admin", Amount: "1000000000000"},
				{Address: "operator", Amount: "1000000000000"},
			},
			YieldSources: []string{"lending"},
			Adapters: []AdapterConfig{
				{ID: "lending-vault", Kind: string(adaptertypes.KindVault), Source: "lending", Pilot: "main"},
				{ID: "reserve", Kind: string(adaptertypes.KindReserve), Pilot: "main"},
			},
			Pilots: []PilotConfig{
				{
					ID:         "main",
					Owner:      "admin",
					Adapters:   []string{"lending-vault", "reserve"},
					Bps:        []uint32{7000, 3000},
					Registered: true,
				},
			},
			DefaultPilot:          "main",
			WithdrawDelay:         withdrawtypes.DefaultWithdrawDelay,
			MaxRebaseDeviationBps: superclustertypes.DefaultMaxRebaseDeviationBps,
			MaxDivestPasses:       superclustertypes.DefaultMaxDivestPasses,
		},
	}
}

// Load reads path over the defaults, then applies a .env file in the working
// directory and SUPERCLUSTER_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := env("API_HOST"); v != "" {
		c.API.Host = v
	}
	if v := env("API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sAPI_PORT: %w", EnvPrefix, err)
		}
		c.API.Port = port
	}
	if v := env("API_RATE_LIMIT"); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%sAPI_RATE_LIMIT: %w", EnvPrefix, err)
		}
		c.API.RateLimit = limit
	}
	if v := env("STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := env("HOME"); v != "" {
		c.Store.Home = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := env("LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := env("SQLITE_PATH"); v != "" {
		c.Recorder.SQLitePath = v
	}
	if v := env("REBASE_CRON"); v != "" {
		c.Scheduler.RebaseCron = v
	}
	if v := env("KEEPER"); v != "" {
		c.Scheduler.Keeper = v
	}
	if v := env("METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sMETRICS_ENABLED: %w", EnvPrefix, err)
		}
		c.Metrics.Enabled = enabled
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}

// Validate checks the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative")
	}
	switch c.Store.Backend {
	case "memdb":
	case "goleveldb":
		if c.Store.Home == "" {
			return fmt.Errorf("store.home is required for goleveldb")
		}
	default:
		return fmt.Errorf("store.backend %q: want memdb or goleveldb", c.Store.Backend)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("log.format %q: want json or text", c.Log.Format)
	}
	if c.Scheduler.Enabled && c.Scheduler.RebaseCron != "" && c.Scheduler.Keeper == "" {
		return fmt.Errorf("scheduler.keeper is required when the rebase job is enabled")
	}
	return c.Genesis.Validate()
}

// Validate checks genesis references and amounts
func (g GenesisConfig) Validate() error {
	if g.Denom == "" {
		return fmt.Errorf("genesis.denom is required")
	}
	for _, r := range g.Roles {
		if err := accesstypes.Role(r.Role).Validate(); err != nil {
			return fmt.Errorf("genesis.roles: %w", err)
		}
		if r.Address == "" {
			return fmt.Errorf("genesis.roles: empty address for %s", r.Role)
		}
	}
	for _, b := range g.Balances {
		amount, ok := math.NewIntFromString(b.Amount)
		if !ok || amount.IsNegative() {
			return fmt.Errorf("genesis.balances: bad amount %q for %s", b.Amount, b.Address)
		}
	}

	sources := make(map[string]bool, len(g.YieldSources))
	for _, s := range g.YieldSources {
		sources[s] = true
	}
	adapters := make(map[string]AdapterConfig, len(g.Adapters))
	for _, a := range g.Adapters {
		if err := adaptertypes.Kind(a.Kind).Validate(); err != nil {
			return fmt.Errorf("genesis.adapters %s: %w", a.ID, err)
		}
		if adaptertypes.Kind(a.Kind) == adaptertypes.KindVault && !sources[a.Source] {
			return fmt.Errorf("genesis.adapters %s: unknown yield source %q", a.ID, a.Source)
		}
		if _, dup := adapters[a.ID]; dup {
			return fmt.Errorf("genesis.adapters: duplicate id %s", a.ID)
		}
		adapters[a.ID] = a
	}

	registered := make(map[string]bool)
	for _, p := range g.Pilots {
		if p.ID == "" || p.Owner == "" {
			return fmt.Errorf("genesis.pilots: id and owner are required")
		}
		if len(p.Adapters) > 0 || len(p.Bps) > 0 {
			if err := pilottypes.ValidateAllocation(p.Adapters, p.Bps); err != nil {
				return fmt.Errorf("genesis.pilots %s: %w", p.ID, err)
			}
		}
		for _, id := range p.Adapters {
			a, ok := adapters[id]
			if !ok {
				return fmt.Errorf("genesis.pilots %s: unknown adapter %s", p.ID, id)
			}
			if a.Pilot != p.ID {
				return fmt.Errorf("genesis.pilots %s: adapter %s is bound to %q", p.ID, id, a.Pilot)
			}
		}
		if p.Registered {
			registered[p.ID] = true
		}
	}
	if g.DefaultPilot != "" && !registered[g.DefaultPilot] {
		return fmt.Errorf("genesis.default_pilot %q is not a registered pilot", g.DefaultPilot)
	}
	if g.WithdrawDelay < 0 {
		return fmt.Errorf("genesis.withdraw_delay must not be negative")
	}
	if g.MaxDivestPasses == 0 {
		return fmt.Errorf("genesis.max_divest_passes must be at least 1")
	}
	return nil
}
