package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "speaktrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsAndEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("config", writeConfig(t, "log:\n  level: debug\n"))
	t.Setenv("SPEAKTRACK_DATABASE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.DatabaseDriver())
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "en", cfg.App.Locale)

	dsn, err := cfg.DatabaseURL()
	require.NoError(t, err)
	assert.Empty(t, dsn)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("config", writeConfig(t, "app:\n  locale: fr\n"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLocation(t *testing.T) {
	cfg := &Config{App: AppConfig{Timezone: "Asia/Ho_Chi_Minh"}}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Ho_Chi_Minh", loc.String())

	cfg.App.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)
}

func TestDatabaseURLRequiresDSNForPostgres(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: "postgres"}}
	_, err := cfg.DatabaseURL()
	assert.Error(t, err)

	cfg.Database.DSN = "postgres://localhost/speaktrack"
	dsn, err := cfg.DatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/speaktrack", dsn)
}

func TestDefaultDBPathHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "speaktrack", "speaktrack.db"), p)
	assert.DirExists(t, filepath.Dir(p))
}
