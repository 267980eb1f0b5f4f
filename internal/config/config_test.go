package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.Equal(t, 800, s.Window.Width)
	assert.Equal(t, 600, s.Window.Height)
	assert.Equal(t, float32(45), s.Camera.FOV)
	assert.Equal(t, MovementContinuous, s.Camera.Movement)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[camera]
fov = 60.0
pitch_limit = 0.0

[render]
fps_limit = 0
clear_color = [0.1, 0.2, 0.3, 1.0]
`)
	s, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, float32(60), s.Camera.FOV)
	assert.Zero(t, s.Camera.PitchLimit)
	assert.Zero(t, s.Render.FPSLimit)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, s.Render.ClearColor)
	// Untouched keys keep their defaults.
	assert.Equal(t, Default().Window, s.Window)
	assert.Equal(t, Default().Scene, s.Scene)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.toml")

	s, err := Load(missing, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	_, err = Load(missing, false)
	assert.Error(t, err)

	s, err = Load("", false)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	_, err := Load(writeConfig(t, "[window\nwidth = 3"), false)
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[camera]\nnear = 5.0\nfar = 1.0\n"), false)
	assert.ErrorContains(t, err, "clip planes")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Settings){
		"zero width":    func(s *Settings) { s.Window.Width = 0 },
		"negative near": func(s *Settings) { s.Camera.Near = -1 },
		"fov too wide":  func(s *Settings) { s.Camera.FOV = 180 },
		"bad movement":  func(s *Settings) { s.Camera.Movement = "warp" },
	}
	for name, mutate := range cases {
		s := Default()
		mutate(&s)
		assert.Error(t, s.Validate(), name)
	}
}

func TestSlogLevel(t *testing.T) {
	s := Default()
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo,
	} {
		s.LogLevel = in
		assert.Equal(t, want, s.SlogLevel(), in)
	}
}

func TestGlobalSettings(t *testing.T) {
	prev := Current()
	t.Cleanup(func() { Apply(prev) })

	s := Default()
	s.Render.FPSLimit = 30
	Apply(s)
	assert.Equal(t, 30, GetFPSLimit())

	SetFPSLimit(-5)
	assert.Zero(t, GetFPSLimit())
	assert.Zero(t, Current().Render.FPSLimit)
}
