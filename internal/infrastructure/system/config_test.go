package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mealguard-dev/mealguard/internal/application/errors"
)

func TestConfigLoader_Load_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := NewConfigLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, "embedded", cfg.Rules.Source)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, AuditMemory, cfg.Audit.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestConfigLoader_Load_ExplicitFileMissing(t *testing.T) {
	_, err := NewConfigLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	var cfgErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestConfigLoader_Load_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mealguard.yaml")
	yaml := `
rules:
  source: s3://kitchen-rules/current.yaml
  watch: true
  poll_interval: 30s
  s3:
    region: eu-west-1
    endpoint: http://localhost:9000
    use_path_style: true
server:
  addr: ":9090"
audit:
  driver: sqlite
  dsn: file:audit.db
events:
  brokers: [localhost:9092]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("MEALGUARD_SERVER_ADDR", ":7070")
	t.Setenv("MEALGUARD_CACHE_TTL", "90s")
	t.Setenv("MEALGUARD_AUDIT_REQUIRED", "true")

	cfg, err := NewConfigLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "s3://kitchen-rules/current.yaml", cfg.Rules.Source)
	assert.True(t, cfg.Rules.Watch)
	assert.Equal(t, 30*time.Second, cfg.Rules.PollInterval)
	assert.Equal(t, "eu-west-1", cfg.Rules.S3.Region)
	assert.True(t, cfg.Rules.S3.UsePathStyle)
	assert.Equal(t, ":7070", cfg.Server.Addr, "environment overrides the file")
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, AuditSQLite, cfg.Audit.Driver)
	assert.True(t, cfg.Audit.Required)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Events.Brokers)
	assert.Equal(t, "mealguard.evaluations", cfg.Events.Topic)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Audit.Driver = "mongo" }, wantErr: "audit.driver"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Audit.Driver = AuditPostgres }, wantErr: "audit.dsn"},
		{name: "short secret", mutate: func(c *Config) { c.Auth.Enabled = true; c.Auth.HMACSecret = "short" }, wantErr: "hmac_secret"},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigLoader_BindFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "", "")
	fs.String("log-format", "", "")

	loader := NewConfigLoader()
	require.NoError(t, loader.BindFlags(fs))
	require.NoError(t, fs.Parse([]string{"--log-format", "json"}))

	t.Setenv("MEALGUARD_LOG_LEVEL", "warn")
	cfg, err := loader.Load(filepath.Join("testdata", "minimal.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "warn", cfg.Log.Level, "unset flags keep the environment value")
}
