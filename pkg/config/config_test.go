package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("cvsd-absent")
	require.NoError(t, err)
	assert.Equal(t, "f1.dat", cfg.EncryptFile)
	assert.Equal(t, 10, cfg.ProgressEvery)
	assert.EqualValues(t, 42, cfg.PatternSeed)
	assert.Equal(t, 65, cfg.PatternCount)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Equal(t, filepath.Join("00_TESTBED/pattern1_data", "pattern1.dat"), cfg.PatternPath())
}

func TestFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"pattern_dir: vectors\nworkers: 3\ncompress_golden: true\npattern_seed: 7\n"), 0o644))
	t.Setenv("CVSD_WORKERS", "5")
	t.Setenv("CVSD_DEBUG", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "vectors", cfg.PatternDir)
	assert.Equal(t, 5, cfg.Workers, "environment beats file")
	assert.True(t, cfg.Debug)
	assert.EqualValues(t, 7, cfg.PatternSeed)
	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, filepath.Join("00_TESTBED/pattern2_data", "f1.dat.zst"), cfg.GoldenPath("f1.dat"))
}

func TestExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Workers = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.PatternCount = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ProgressEvery = -1
	require.Error(t, cfg.Validate())
}
