package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoConfigFound(t *testing.T) {
	t.Setenv("SEQQC_CONFIG", "")
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "seqqc_data", cfg.OutputDir)
	assert.Empty(t, cfg.IgnoreSamples)
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
output_dir: out
ignore_samples: ["undetermined*"]
crosscheck:
  table_cols: [RESULT]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, []string{"undetermined*"}, cfg.IgnoreSamples)
	assert.Equal(t, []string{"RESULT"}, cfg.Crosscheck.TableCols)
	assert.Nil(t, cfg.Crosscheck.TableColsHidden)
}

func TestLoad_ExplicitMissingPathIsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_LocalConfigDiscovered(t *testing.T) {
	t.Setenv("SEQQC_CONFIG", "")
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, configName), []byte("log_level: warn\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	// Unset fields keep their defaults.
	assert.Equal(t, "seqqc_data", cfg.OutputDir)
}

func TestLoad_EnvVarWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: error\n"), 0o644))
	t.Setenv("SEQQC_CONFIG", path)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_MalformedYAMLIsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
