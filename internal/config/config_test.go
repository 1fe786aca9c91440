package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DB_DSN", "LOG_LEVEL", "LOG_FORMAT", "APP_NAME",
		"PETS_HTTP_PORT", "PETS_STORAGE_BACKEND", "PETS_STORAGE_KEY",
		"PETS_STORAGE_DSN", "PETS_STORAGE_SQLITE_PATH", "PETS_STORAGE_QUOTA_BYTES",
		"PETS_IMAGES_MAX_BYTES",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadFile_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.HTTP.Port)
	require.Equal(t, BackendMemory, cfg.Storage.Backend)
	require.Equal(t, DefaultItemsKey, cfg.Storage.Key)
	require.EqualValues(t, DefaultMaxImageBytes, cfg.Images.MaxBytes)
	require.Equal(t, "lost-pets", cfg.App.Name)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("PETS_STORAGE_BACKEND", "sqlite")
	t.Setenv("PETS_STORAGE_SQLITE_PATH", "/tmp/pets-test.db")
	t.Setenv("PETS_STORAGE_KEY", "other_key")

	cfg, err := LoadFile("")
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.HTTP.Port)
	require.Equal(t, BackendSQLite, cfg.Storage.Backend)
	require.Equal(t, "/tmp/pets-test.db", cfg.Storage.SQLitePath)
	require.Equal(t, "other_key", cfg.Storage.Key)
}

func TestLoadFile_DSNSelectsPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://u:p@localhost/pets")

	cfg, err := LoadFile("")
	require.NoError(t, err)
	require.Equal(t, BackendPostgres, cfg.Storage.Backend)
	require.Equal(t, "postgres://u:p@localhost/pets", cfg.Storage.DSN)
}

func TestLoadFile_YAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  backend: memory
  quota_bytes: 4096
images:
  max_bytes: 1024
log:
  level: debug
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 4096, cfg.Storage.QuotaBytes)
	require.EqualValues(t, 1024, cfg.Images.MaxBytes)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFile_RejectsUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("PETS_STORAGE_BACKEND", "redis")

	_, err := LoadFile("")
	require.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	cfg := Defaults()
	cfg.Storage.Backend = BackendSQLite
	cfg.Storage.SQLitePath = "/tmp/pets.db"
	require.NoError(t, Save(path, cfg))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, loaded.Storage.Backend)
	require.Equal(t, "/tmp/pets.db", loaded.Storage.SQLitePath)
}
