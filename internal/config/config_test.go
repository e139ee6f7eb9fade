package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "backdesk.db", cfg.Database)
	assert.False(t, cfg.Seed)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9090\"\ndatabase: /tmp/data.db\nseed: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "/tmp/data.db", cfg.Database)
	assert.True(t, cfg.Seed)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: from-file.db\n"), 0o644))

	t.Setenv(EnvDatabase, "from-env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.Database)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("datbase: typo.db\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err, "unknown keys must be rejected")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
