// Package config handles loading and validating the hwaccess configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/shady333/gettingHWaccess/pkg/types"
)

// Acquirer kinds.
const (
	AcquirerCommand = "command"
	AcquirerBroker  = "broker"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Token         TokenConfig         `yaml:"token"`
	Inventory     InventoryConfig     `yaml:"inventory"`
	Monitor       MonitorConfig       `yaml:"monitor"`
	Products      []domain.Product    `yaml:"products"`
	History       HistoryConfig       `yaml:"history"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Addr returns host:port.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// TokenConfig defines credential caching and acquisition.
type TokenConfig struct {
	TTL             time.Duration  `yaml:"ttl"`
	SnapshotPath    string         `yaml:"snapshot_path"`
	RefreshInterval time.Duration  `yaml:"refresh_interval"`
	Acquirer        AcquirerConfig `yaml:"acquirer"`
}

// AcquirerConfig selects how fresh credentials are obtained.
type AcquirerConfig struct {
	Kind      string        `yaml:"kind"` // command, broker
	Command   []string      `yaml:"command"`
	Timeout   time.Duration `yaml:"timeout"`
	BrokerURL string        `yaml:"broker_url"`
}

// InventoryConfig defines the upstream inventory endpoint.
type InventoryConfig struct {
	URL          string          `yaml:"url"`
	ProductParam string          `yaml:"product_param"`
	Timeout      time.Duration   `yaml:"timeout"`
	UserAgent    string          `yaml:"user_agent"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig paces inventory requests.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// MonitorConfig defines the polling session.
type MonitorConfig struct {
	Duration          time.Duration `yaml:"duration"`
	CheckInterval     time.Duration `yaml:"check_interval"`
	PrepareLead       time.Duration `yaml:"prepare_lead"`
	MaxFailures       int           `yaml:"max_failures"`
	ForceRefreshAfter int           `yaml:"force_refresh_after"`
	AcquireBackoff    time.Duration `yaml:"acquire_backoff"`
	StartAt           string        `yaml:"start_at"` // RFC3339 or HH:MM[:SS]
	BackgroundRefresh bool          `yaml:"background_refresh"`
}

// HistoryConfig defines where observation rows are persisted.
type HistoryConfig struct {
	CSVPath  string         `yaml:"csv_path"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig defines the optional PostgreSQL observation log.
type PostgresConfig struct {
	Enabled  bool   `yaml:"enabled"`
	DSN      string `yaml:"dsn"`
	PoolSize int    `yaml:"pool_size"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution, defaulting and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML config content. See Load.
func Parse(data []byte) (*Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Decode expands environment variables in data and unmarshals it without
// applying defaults or validating. Callers layering flag overrides on top
// finish with ApplyDefaults and Validate.
func Decode(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	return cfg, nil
}

// Default returns a configuration with every default applied and no
// products. Used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero values with defaults.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyTokenDefaults(&cfg.Token)
	applyInventoryDefaults(&cfg.Inventory)
	applyMonitorDefaults(&cfg.Monitor)
	applyPostgresDefaults(&cfg.History.Postgres)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 5000
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyTokenDefaults(t *TokenConfig) {
	if t.TTL == 0 {
		t.TTL = 180 * time.Second
	}
	if t.SnapshotPath == "" {
		t.SnapshotPath = "token.json"
	}
	if t.RefreshInterval == 0 {
		t.RefreshInterval = 2 * time.Minute
	}
	if t.Acquirer.Kind == "" {
		t.Acquirer.Kind = AcquirerCommand
	}
	if t.Acquirer.Timeout == 0 {
		t.Acquirer.Timeout = 30 * time.Second
	}
}

func applyInventoryDefaults(i *InventoryConfig) {
	if i.ProductParam == "" {
		i.ProductParam = "productId"
	}
	if i.Timeout == 0 {
		i.Timeout = 10 * time.Second
	}
	if i.RateLimit.PerSecond == 0 {
		i.RateLimit.PerSecond = 2
	}
	if i.RateLimit.Burst == 0 {
		i.RateLimit.Burst = 1
	}
}

func applyMonitorDefaults(m *MonitorConfig) {
	if m.Duration == 0 {
		m.Duration = time.Hour
	}
	if m.CheckInterval == 0 {
		m.CheckInterval = 10 * time.Second
	}
	if m.PrepareLead == 0 {
		m.PrepareLead = 30 * time.Second
	}
	if m.MaxFailures == 0 {
		m.MaxFailures = 3
	}
	if m.ForceRefreshAfter == 0 {
		m.ForceRefreshAfter = 2
	}
	if m.AcquireBackoff == 0 {
		m.AcquireBackoff = 5 * time.Second
	}
}

func applyPostgresDefaults(p *PostgresConfig) {
	if p.PoolSize == 0 {
		p.PoolSize = 4
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

// Validate checks settings shared by every command. Command-specific
// requirements (an inventory URL, at least one product) are checked by
// ValidateMonitor.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Token.TTL < 0 {
		errs = append(errs, fmt.Errorf("token.ttl must be positive"))
	}
	if cfg.Token.RefreshInterval >= cfg.Token.TTL {
		errs = append(errs, fmt.Errorf(
			"token.refresh_interval (%s) must be shorter than token.ttl (%s)",
			cfg.Token.RefreshInterval, cfg.Token.TTL,
		))
	}

	switch cfg.Token.Acquirer.Kind {
	case AcquirerCommand:
		if len(cfg.Token.Acquirer.Command) == 0 {
			errs = append(errs, fmt.Errorf("token.acquirer.command is required when kind is command"))
		}
	case AcquirerBroker:
		if cfg.Token.Acquirer.BrokerURL == "" {
			errs = append(errs, fmt.Errorf("token.acquirer.broker_url is required when kind is broker"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"token.acquirer.kind must be one of: command, broker (got %q)",
			cfg.Token.Acquirer.Kind,
		))
	}

	if cfg.History.Postgres.Enabled && cfg.History.Postgres.DSN == "" {
		errs = append(errs, fmt.Errorf("history.postgres.dsn is required when postgres is enabled"))
	}
	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("notifications.discord.webhook_url is required when discord is enabled"))
	}

	return errors.Join(errs...)
}

// ValidateMonitor checks the settings a polling session needs.
func ValidateMonitor(cfg *Config) error {
	var errs []error

	if cfg.Inventory.URL == "" {
		errs = append(errs, fmt.Errorf("inventory.url is required"))
	}
	if len(cfg.Products) == 0 {
		errs = append(errs, fmt.Errorf("at least one product is required"))
	}

	seen := make(map[string]struct{}, len(cfg.Products))
	for i, p := range cfg.Products {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("products[%d].id is required", i))
			continue
		}
		if _, dup := seen[p.ID]; dup {
			errs = append(errs, fmt.Errorf("products[%d].id %q is duplicated", i, p.ID))
		}
		seen[p.ID] = struct{}{}
	}

	if cfg.Monitor.CheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("monitor.check_interval must be positive"))
	}
	if cfg.Monitor.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("monitor.max_failures must be at least 1"))
	}

	return errors.Join(errs...)
}
