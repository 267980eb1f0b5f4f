package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Movement modes understood by the viewer loop.
const (
	MovementContinuous = "continuous"
	MovementDiscrete   = "discrete"
)

// Settings holds the viewer configuration. Zero values are never used
// directly; start from Default and overlay a file or flags.
type Settings struct {
	Window   WindowSettings `toml:"window"`
	Scene    SceneSettings  `toml:"scene"`
	Camera   CameraSettings `toml:"camera"`
	Render   RenderSettings `toml:"render"`
	LogLevel string         `toml:"log_level"`
}

type WindowSettings struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

type SceneSettings struct {
	DataDir        string `toml:"data_dir"`
	File           string `toml:"file"`
	VertexShader   string `toml:"vertex_shader"`
	FragmentShader string `toml:"fragment_shader"`
}

type CameraSettings struct {
	FOV           float32 `toml:"fov"`
	Near          float32 `toml:"near"`
	Far           float32 `toml:"far"`
	RotationSpeed float32 `toml:"rotation_speed"`
	MovementStep  float32 `toml:"movement_step"`
	MovementSpeed float32 `toml:"movement_speed"` // units per second in continuous mode
	PitchLimit    float32 `toml:"pitch_limit"`    // degrees, <= 0 disables clamping
	Movement      string  `toml:"movement"`
}

type RenderSettings struct {
	FPSLimit   int        `toml:"fps_limit"`
	ClearColor [4]float32 `toml:"clear_color"`
	CullFace   bool       `toml:"cull_face"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Window: WindowSettings{
			Width:  800,
			Height: 600,
			Title:  "scene-viewer",
			VSync:  true,
		},
		Scene: SceneSettings{
			DataDir:        "data",
			File:           "data/data.init",
			VertexShader:   "assets/shaders/scene.vert",
			FragmentShader: "assets/shaders/scene.frag",
		},
		Camera: CameraSettings{
			FOV:           45,
			Near:          0.1,
			Far:           100,
			RotationSpeed: 0.002,
			MovementStep:  0.15,
			MovementSpeed: 4,
			PitchLimit:    89,
			Movement:      MovementContinuous,
		},
		Render: RenderSettings{
			FPSLimit:   120,
			ClearColor: [4]float32{0, 0, 0, 0},
			CullFace:   true,
		},
		LogLevel: "info",
	}
}

// Load reads a TOML file on top of Default. A missing file is not an
// error when optional is true.
func Load(path string, optional bool) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("could not read config file: %w", err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return s, s.Validate()
}

// Validate rejects settings the viewer cannot run with.
func (s Settings) Validate() error {
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", s.Window.Width, s.Window.Height)
	}
	if s.Camera.Near <= 0 || s.Camera.Far <= s.Camera.Near {
		return fmt.Errorf("invalid clip planes near=%g far=%g", s.Camera.Near, s.Camera.Far)
	}
	if s.Camera.FOV <= 0 || s.Camera.FOV >= 180 {
		return fmt.Errorf("invalid field of view %g", s.Camera.FOV)
	}
	switch s.Camera.Movement {
	case MovementContinuous, MovementDiscrete:
	default:
		return fmt.Errorf("unknown movement mode %q", s.Camera.Movement)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (s Settings) SlogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var (
	mu      sync.RWMutex
	current = Default()
)

// Apply installs s as the process-wide settings.
func Apply(s Settings) {
	mu.Lock()
	defer mu.Unlock()
	current = s
}

// Current returns a copy of the process-wide settings.
func Current() Settings {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// GetFPSLimit returns the frame cap; 0 means unlimited.
func GetFPSLimit() int {
	mu.RLock()
	defer mu.RUnlock()
	return current.Render.FPSLimit
}

// SetFPSLimit sets the frame cap, clamping negatives to unlimited.
func SetFPSLimit(limit int) {
	mu.Lock()
	defer mu.Unlock()
	if limit < 0 {
		limit = 0
	}
	current.Render.FPSLimit = limit
}
