package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestValidateReportsEveryProblem(t *testing.T) {
	var cfg Config // all zero
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.port")
	assert.Contains(t, err.Error(), "auth.token_ttl_hours")
	assert.Contains(t, err.Error(), "limits.max_page_size")

	cfg = Default()
	cfg.Reporting.SweepLimit = 0
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reporting.sweep_limit")
}

func TestEnsureUserConfigWritesDefaultsOnce(t *testing.T) {
	dir := t.TempDir()

	path, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yml"), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// A hand-edited file survives the next startup.
	cfg.App.Port = 9999
	require.NoError(t, SaveAtomic(path, cfg))

	path2, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, path, path2)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, got.App.Port)
}

func TestSaveAtomicKeepsBackupAndRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	first := Default()
	require.NoError(t, SaveAtomic(path, first))

	second := Default()
	second.App.Port = 8080
	require.NoError(t, SaveAtomic(path, second))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, got.App.Port)

	bak, err := Load(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, first.App.Port, bak.App.Port)

	// Invalid config never reaches disk.
	bad := Default()
	bad.App.Port = -1
	require.Error(t, SaveAtomic(path, bad))
	got, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, got.App.Port)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
