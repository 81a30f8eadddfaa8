package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	coreagg "github.com/aevon-lab/salesboard/internal/core/aggregation"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level application config plus the values
// resolved from it at load time.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Source      SourceConfig      `koanf:"source"`
	Cache       CacheConfig       `koanf:"cache"`
	Aggregation AggregationConfig `koanf:"aggregation"`
	Logging     LoggingConfig     `koanf:"logging"`

	// Branches is populated by Load from aggregation.branch_table_path.
	Branches coreagg.BranchTable `koanf:"-"`
}

type ServerConfig struct {
	Port            int    `koanf:"port"`
	Host            string `koanf:"host"`
	Mode            string `koanf:"mode"` // debug | release
	ShutdownTimeout string `koanf:"shutdown_timeout"`
}

// DatabaseConfig configures the durable record store. With Enabled false the
// cache runs on the in-memory and snapshot tiers alone.
type DatabaseConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Type         string `koanf:"type"` // sqlite3 | postgres
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type SourceConfig struct {
	Root       string   `koanf:"root"`
	Extensions []string `koanf:"extensions"`
	Workers    int      `koanf:"workers"`
}

type CacheConfig struct {
	TTL             string `koanf:"ttl"`
	SnapshotEnabled bool   `koanf:"snapshot_enabled"`
	SnapshotPath    string `koanf:"snapshot_path"`
	RefreshInterval string `koanf:"refresh_interval"` // "0" disables scheduled refresh
	SummaryCapacity int    `koanf:"summary_capacity"`
}

type AggregationConfig struct {
	BranchTablePath string         `koanf:"branch_table_path"`
	Limits          coreagg.Limits `koanf:"limits"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug | info | warn | error
	Format string `koanf:"format"` // text | json
}

// TTLDuration returns the parsed cache TTL. Only valid after Validate.
func (c CacheConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// RefreshEvery returns the parsed refresh interval; zero disables it.
func (c CacheConfig) RefreshEvery() time.Duration {
	d, _ := time.ParseDuration(c.RefreshInterval)
	return d
}

func (c ServerConfig) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}
	if d, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid server.shutdown_timeout %q", c.Server.ShutdownTimeout)
	}

	if c.Database.Enabled {
		if c.Database.Type != "sqlite3" && c.Database.Type != "postgres" {
			return fmt.Errorf("unsupported database.type %q (must be sqlite3 or postgres)", c.Database.Type)
		}
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required")
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
	}

	if strings.TrimSpace(c.Source.Root) == "" {
		return fmt.Errorf("source.root is required")
	}
	if info, err := os.Stat(c.Source.Root); err == nil && !info.IsDir() {
		return fmt.Errorf("source.root %q is not a directory", c.Source.Root)
	}
	for _, ext := range c.Source.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("invalid source.extensions entry %q (must start with a dot)", ext)
		}
	}
	if c.Source.Workers <= 0 {
		return fmt.Errorf("source.workers must be > 0")
	}

	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return fmt.Errorf("invalid cache.ttl %q: %w", c.Cache.TTL, err)
	}
	if ttl <= 0 {
		return fmt.Errorf("cache.ttl must be > 0")
	}
	interval, err := time.ParseDuration(c.Cache.RefreshInterval)
	if err != nil {
		return fmt.Errorf("invalid cache.refresh_interval %q: %w", c.Cache.RefreshInterval, err)
	}
	if interval < 0 {
		return fmt.Errorf("cache.refresh_interval must be >= 0")
	}
	if c.Cache.SnapshotEnabled && strings.TrimSpace(c.Cache.SnapshotPath) == "" {
		return fmt.Errorf("cache.snapshot_path is required when snapshots are enabled")
	}
	if c.Cache.SummaryCapacity < 0 {
		return fmt.Errorf("cache.summary_capacity must be >= 0")
	}

	if err := validateLimits(c.Aggregation.Limits); err != nil {
		return err
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid logging.format %q (must be text or json)", c.Logging.Format)
	}

	return nil
}

func validateLimits(l coreagg.Limits) error {
	limits := map[string]int{
		"clients":              l.Clients,
		"defects":              l.Defects,
		"efficiency_clients":   l.EfficiencyClients,
		"volume_clients":       l.VolumeClients,
		"clients_per_manager":  l.ClientsPerManager,
		"managers_per_region":  l.ManagersPerRegion,
		"regions_per_manager":  l.RegionsPerManager,
		"managers_per_purpose": l.ManagersPerPurpose,
		"regions_per_purpose":  l.RegionsPerPurpose,
		"items":                l.Items,
	}
	for name, v := range limits {
		if v < 0 {
			return fmt.Errorf("aggregation.limits.%s must be >= 0 (0 means unlimited)", name)
		}
	}
	return nil
}

func defaults() map[string]interface{} {
	limits := coreagg.DefaultLimits()
	return map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.mode":             "release",
		"server.shutdown_timeout": "10s",

		"database.enabled":        true,
		"database.type":           "sqlite3",
		"database.dsn":            "./data/salesboard.db",
		"database.max_open_conns": 10,
		"database.max_idle_conns": 5,
		"database.auto_migrate":   true,

		"source.root":       "./data/sales",
		"source.extensions": []string{".xlsx", ".xlsm", ".csv"},
		"source.workers":    4,

		"cache.ttl":              "1h",
		"cache.snapshot_enabled": true,
		"cache.snapshot_path":    "./data/cache/snapshot.pb",
		"cache.refresh_interval": "0",
		"cache.summary_capacity": 128,

		"aggregation.branch_table_path":           "./config/branches.yaml",
		"aggregation.limits.clients":              limits.Clients,
		"aggregation.limits.defects":              limits.Defects,
		"aggregation.limits.efficiency_clients":   limits.EfficiencyClients,
		"aggregation.limits.volume_clients":       limits.VolumeClients,
		"aggregation.limits.clients_per_manager":  limits.ClientsPerManager,
		"aggregation.limits.managers_per_region":  limits.ManagersPerRegion,
		"aggregation.limits.regions_per_manager":  limits.RegionsPerManager,
		"aggregation.limits.managers_per_purpose": limits.ManagersPerPurpose,
		"aggregation.limits.regions_per_purpose":  limits.RegionsPerPurpose,
		"aggregation.limits.items":                limits.Items,

		"logging.level":  "info",
		"logging.format": "text",
	}
}

// Load parses config from defaults, file and env, validates it, then loads
// the branch table.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("SALESBOARD_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "SALESBOARD_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	branches, err := coreagg.LoadBranchTable(cfg.Aggregation.BranchTablePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load branch table: %w", err)
	}
	cfg.Branches = branches

	return &cfg, nil
}
