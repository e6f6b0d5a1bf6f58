package config_test

import (
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/dyeflow/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"DYEFLOW_ADDR", "DYEFLOW_LOG_LEVEL", "DYEFLOW_STORE", "DYEFLOW_REDIS_URL", "DATABASE_URL", "DYEFLOW_SNAPSHOT_KEY"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dyeflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9000"
root_label: Depot
log_level: debug
seed: false
store:
  kind: file
  path: /tmp/snaps
`), 0644))

	clearEnv(t)
	t.Setenv("DYEFLOW_ADDR", ":7000")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr, "env wins over file")
	assert.Equal(t, "Depot", cfg.RootLabel)
	assert.False(t, cfg.Seed)
	assert.Equal(t, "file", cfg.Store.Kind)
	assert.Equal(t, "/tmp/snaps", cfg.Store.Path)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "bad yaml", content: "addr: [unclosed"},
		{name: "bad store", content: "store:\n  kind: s3\n"},
		{name: "bad level", content: "log_level: loud\n"},
		{name: "postgres without url", content: "store:\n  kind: postgres\n"},
		{name: "bad env store", content: "", env: map[string]string{"DYEFLOW_STORE": "tape"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := config.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestStore_Key(t *testing.T) {
	key, err := config.Store{}.Key()
	require.NoError(t, err)
	assert.Nil(t, key, "encryption disabled")

	raw := make([]byte, 32)
	raw[0] = 7
	key, err = config.Store{EncryptionKey: base64.StdEncoding.EncodeToString(raw)}.Key()
	require.NoError(t, err)
	assert.Equal(t, raw, key)

	_, err = config.Store{EncryptionKey: base64.StdEncoding.EncodeToString([]byte("short"))}.Key()
	assert.Error(t, err)
	_, err = config.Store{EncryptionKey: "%%%"}.Key()
	assert.Error(t, err)
}

func TestLoad_EncryptionKeyFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DYEFLOW_SNAPSHOT_KEY", "not-a-key")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
