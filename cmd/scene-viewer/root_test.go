package main

import (
	"os"
	"path/filepath"
	"testing"

	"scene-viewer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (config.Settings, error) {
	t.Helper()
	var got config.Settings
	cmd := newRootCommand(func(cfg config.Settings) error {
		got = cfg
		return nil
	})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return got, err
}

func TestDefaultsWithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level = "debug"

[window]
width = 1280
height = 720

[camera]
movement = "discrete"
`), 0o644))

	cfg, err := execute(t, "--config", path, "--height", "900", "--fps", "0", "--scene", "x/y.init")
	require.NoError(t, err)
	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 900, cfg.Window.Height)
	assert.Equal(t, 0, cfg.Render.FPSLimit)
	assert.Equal(t, "x/y.init", cfg.Scene.File)
	assert.Equal(t, config.MovementDiscrete, cfg.Camera.Movement)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestExplicitMissingConfigFails(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestInvalidFlagValues(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "--movement", "teleport")
	assert.ErrorContains(t, err, "teleport")

	_, err = execute(t, "--width", "-1")
	assert.Error(t, err)
}

func TestRejectsPositionalArgs(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "extra")
	assert.Error(t, err)
}
