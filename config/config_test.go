package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.TickRate)
	assert.Equal(t, "json", cfg.Storage.Backend)
	assert.Equal(t, "./realm_data.json", cfg.Storage.JSONFile)
	assert.Equal(t, 60, cfg.Storage.SaveInterval)
	assert.Equal(t, "", cfg.Game.DropTablesFile)
	assert.Equal(t, int64(0), cfg.Game.Seed)
}

func TestLoad_WithConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	raw := `{
		"logLevel": "debug",
		"server": { "port": 9090, "tickRate": 20 },
		"storage": { "backend": "postgres", "postgresUrl": "postgres://u:p@db:5432/realm" },
		"game": { "dropTablesFile": "drops.yaml", "seed": 42 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "realm.cfg.json"), []byte(raw), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 20.0, cfg.Server.TickRate)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
	assert.Equal(t, "postgres://u:p@db:5432/realm", cfg.Storage.PostgresURL)
	assert.Equal(t, "drops.yaml", cfg.Game.DropTablesFile)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, 60, cfg.Storage.SaveInterval, "untouched keys keep their defaults")
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "realm.cfg.json"),
		[]byte(`{"storage": {"backend": "etcd"}}`), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestLoad_RejectsBadTickRate(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "realm.cfg.json"),
		[]byte(`{"server": {"tickRate": 0}}`), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tickRate")
}
