package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
databases:
  default:
    type: sql
    connection:
      dsn: "sqlite:./data/app.db"
    options:
      max_open_conns: "4"
      conn_max_idle_time: "10m"
      log_arguments: "true"
  reporting:
    type: sql
    connection:
      dsn: "mysql:tcp(db.local:3306)/reports"
      username: reporter
      password: secret
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	require.Len(t, cfg.Databases, 2)

	reporting := cfg.Databases["reporting"]
	assert.Equal(t, BackendSQL, reporting.Type)
	assert.Equal(t, "mysql:tcp(db.local:3306)/reports", reporting.Connection.DSN)
	assert.Equal(t, "reporter", reporting.Connection.Username)
	assert.Equal(t, "secret", reporting.Connection.Password)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("databases: [unclosed"))
	require.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.NotNil(t, cfg.Databases)
	assert.Empty(t, cfg.Databases)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wbnkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Databases, DefaultName)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	name, db, ok := cfg.Lookup("reporting")
	require.True(t, ok)
	assert.Equal(t, "reporting", name)
	assert.Equal(t, "reporter", db.Connection.Username)

	name, db, ok = cfg.Lookup("unknown")
	require.True(t, ok)
	assert.Equal(t, DefaultName, name)
	assert.Equal(t, "sqlite:./data/app.db", db.Connection.DSN)

	empty := &Config{Databases: map[string]DatabaseConfig{}}
	_, _, ok = empty.Lookup("unknown")
	assert.False(t, ok)

	var nilConfig *Config
	_, _, ok = nilConfig.Lookup(DefaultName)
	assert.False(t, ok)
}

func TestLoader(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	loader := NewLoader(cfg.Databases[DefaultName])
	assert.Equal(t, 4, loader.Int("max_open_conns", 10))
	assert.Equal(t, 2, loader.Int("max_idle_conns", 2))
	assert.Equal(t, 10*time.Minute, loader.Duration("conn_max_idle_time", time.Hour))
	assert.True(t, loader.Bool("log_arguments", false))
	assert.Equal(t, "fallback", loader.String("missing", "fallback"))

	broken := NewLoader(DatabaseConfig{Options: map[string]string{"max_open_conns": "many", "conn_max_idle_time": "soon"}})
	assert.Equal(t, 10, broken.Int("max_open_conns", 10))
	assert.Equal(t, time.Minute, broken.Duration("conn_max_idle_time", time.Minute))
}

func TestParseServer(t *testing.T) {
	t.Setenv("WBN_HTTP_ADDRESS", "127.0.0.1:9000")
	t.Setenv("WBN_DATABASE", " reporting ")
	t.Setenv("WBN_LOG_MAX_BACKUPS", "2")

	srv, err := ParseServer()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", srv.Address)
	assert.Equal(t, "reporting", srv.Database)
	assert.Equal(t, "./wbnkit.yaml", srv.ConfigPath)
	assert.Equal(t, "@daily", srv.MaintenanceSchedule)
	assert.Equal(t, 2, srv.Log.MaxBackups)
	assert.Equal(t, 50, srv.Log.MaxSizeMB)
	assert.True(t, srv.Log.Compress)
}

func TestGlobalTimeouts(t *testing.T) {
	original := GetTimeouts()
	t.Cleanup(func() { SetGlobalTimeouts(original) })

	custom := DefaultTimeoutConfig()
	custom.RequestTimeout = 5 * time.Second
	SetGlobalTimeouts(custom)
	assert.Equal(t, 5*time.Second, GetTimeouts().RequestTimeout)
}
