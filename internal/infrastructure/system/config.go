// Package system provides infrastructure for service configuration: the
// optional config file (~/.mealguard.yaml), MEALGUARD_* environment
// variables and their defaults.
package system

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	apperrors "github.com/mealguard-dev/mealguard/internal/application/errors"
)

// EnvPrefix is the prefix for environment overrides, e.g. MEALGUARD_SERVER_ADDR.
const EnvPrefix = "MEALGUARD"

// Audit drivers.
const (
	AuditNone     = "none"
	AuditMemory   = "memory"
	AuditSQLite   = "sqlite"
	AuditPostgres = "postgres"
)

// Config represents the service configuration.
type Config struct {
	Rules  RulesConfig  `mapstructure:"rules"`
	Server ServerConfig `mapstructure:"server"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Audit  AuditConfig  `mapstructure:"audit"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Events EventsConfig `mapstructure:"events"`
	Log    LogConfig    `mapstructure:"log"`
}

// RulesConfig selects where the rule set is loaded from.
type RulesConfig struct {
	// Source is a file path, an s3://bucket/key URL, or "embedded" for the
	// bundled rule set.
	Source string `mapstructure:"source"`

	// Watch reloads the rule set when the source changes.
	Watch bool `mapstructure:"watch"`

	// PollInterval is how often remote sources are checked for changes.
	PollInterval time.Duration `mapstructure:"poll_interval"`

	S3 S3Config `mapstructure:"s3"`
}

// S3Config configures the S3 rule source. Empty credentials fall back to
// the default AWS credential chain.
type S3Config struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AuthConfig configures bearer token verification.
type AuthConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	HMACSecret string `mapstructure:"hmac_secret"`
	Issuer     string `mapstructure:"issuer"`
	Audience   string `mapstructure:"audience"`
}

// AuditConfig selects the evaluation record store.
type AuditConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	// Required fails evaluations whose audit record cannot be written.
	Required bool `mapstructure:"required"`
}

// CacheConfig configures the optional redis result cache.
type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// EventsConfig configures the optional kafka event stream.
type EventsConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns a Config with safe defaults for all fields.
// This is used when no config file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Rules.Source == "" {
		c.Rules.Source = "embedded"
	}
	if c.Rules.PollInterval == 0 {
		c.Rules.PollInterval = time.Minute
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if c.Audit.Driver == "" {
		c.Audit.Driver = AuditMemory
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.Events.Topic == "" {
		c.Events.Topic = "mealguard.evaluations"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var problems []string

	drivers := []string{AuditNone, AuditMemory, AuditSQLite, AuditPostgres}
	if !slices.Contains(drivers, c.Audit.Driver) {
		problems = append(problems, fmt.Sprintf("audit.driver must be one of %s", strings.Join(drivers, ", ")))
	}
	if (c.Audit.Driver == AuditSQLite || c.Audit.Driver == AuditPostgres) && c.Audit.DSN == "" {
		problems = append(problems, fmt.Sprintf("audit.dsn is required for driver %s", c.Audit.Driver))
	}
	if c.Auth.Enabled && len(c.Auth.HMACSecret) < 32 {
		problems = append(problems, "auth.hmac_secret must be at least 32 bytes when auth is enabled")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		problems = append(problems, "log.format must be text or json")
	}
	if len(c.Events.Brokers) > 0 && c.Events.Topic == "" {
		problems = append(problems, "events.topic is required when brokers are set")
	}

	if len(problems) > 0 {
		return apperrors.NewConfigurationError("system", strings.Join(problems, "; "), nil)
	}
	return nil
}

// ConfigLoader loads configuration from a file and the environment.
type ConfigLoader struct {
	v *viper.Viper
}

// NewConfigLoader creates a loader with defaults registered for every key,
// so each one can be overridden from the environment.
func NewConfigLoader() *ConfigLoader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("rules.source", d.Rules.Source)
	v.SetDefault("rules.watch", d.Rules.Watch)
	v.SetDefault("rules.poll_interval", d.Rules.PollInterval)
	v.SetDefault("rules.s3.region", "")
	v.SetDefault("rules.s3.endpoint", "")
	v.SetDefault("rules.s3.use_path_style", false)
	v.SetDefault("rules.s3.access_key_id", "")
	v.SetDefault("rules.s3.secret_access_key", "")
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.hmac_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("audit.driver", d.Audit.Driver)
	v.SetDefault("audit.dsn", "")
	v.SetDefault("audit.required", false)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("events.brokers", []string{})
	v.SetDefault("events.topic", d.Events.Topic)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	return &ConfigLoader{v: v}
}

// Viper exposes the underlying instance so commands can bind flags.
func (l *ConfigLoader) Viper() *viper.Viper {
	return l.v
}

// Load reads the config file at path. An empty path looks for
// $HOME/.mealguard.yaml; a missing default file is not an error.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	if path != "" {
		l.v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(home)
		}
		l.v.SetConfigType("yaml")
		l.v.SetConfigName(".mealguard")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, apperrors.NewConfigurationError("system", "failed to read config file", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := l.v.Unmarshal(&cfg, hook); err != nil {
		return nil, apperrors.NewConfigurationError("system", "failed to decode config", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
}

// BindFlags lets the flags in fs override the config file and environment.
// Flags absent from fs are ignored; unset flags keep the lower layers.
func (l *ConfigLoader) BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// ConfigFileUsed returns the config file that was read, if any.
func (l *ConfigLoader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}
