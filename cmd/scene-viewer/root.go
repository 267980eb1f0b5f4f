package main

import (
	"fmt"
	"log/slog"
	"os"

	"scene-viewer/internal/assets"
	"scene-viewer/internal/config"
	"scene-viewer/internal/platform"
	"scene-viewer/internal/viewer"

	"github.com/spf13/cobra"
	"github.com/xlab/closer"
)

const defaultConfigFile = "scene-viewer.toml"

type options struct {
	configFile string
	dataDir    string
	sceneFile  string
	width      int
	height     int
	fps        int
	movement   string
	logLevel   string
}

// newRootCommand builds the CLI; run receives the final settings.
func newRootCommand(run func(config.Settings) error) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "scene-viewer",
		Short: "Fly through a textured 3D scene described by a scene file",
		Long: `scene-viewer loads the objects listed in a scene file, one per line as
  <name> <model.obj> <texture> <specular> <x> <y> <z>
and renders them lit by two point lights. Move with WASD or the arrow keys,
Space and C to rise and sink, look around with the mouse, Escape quits.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd, opts)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configFile, "config", defaultConfigFile, "TOML settings file (optional when left at the default)")
	f.StringVar(&opts.dataDir, "data", "", "directory scene paths are resolved against")
	f.StringVar(&opts.sceneFile, "scene", "", "scene description file")
	f.IntVar(&opts.width, "width", 0, "window width")
	f.IntVar(&opts.height, "height", 0, "window height")
	f.IntVar(&opts.fps, "fps", 0, "frame rate cap, 0 for unlimited")
	f.StringVar(&opts.movement, "movement", "", "camera movement: continuous or discrete")
	f.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	return cmd
}

// loadSettings reads the config file and overlays only the flags the user
// set explicitly.
func loadSettings(cmd *cobra.Command, opts options) (config.Settings, error) {
	flags := cmd.Flags()
	optional := !flags.Changed("config")
	cfg, err := config.Load(opts.configFile, optional)
	if err != nil {
		return cfg, err
	}

	if flags.Changed("data") {
		cfg.Scene.DataDir = opts.dataDir
	}
	if flags.Changed("scene") {
		cfg.Scene.File = opts.sceneFile
	}
	if flags.Changed("width") {
		cfg.Window.Width = opts.width
	}
	if flags.Changed("height") {
		cfg.Window.Height = opts.height
	}
	if flags.Changed("fps") {
		cfg.Render.FPSLimit = opts.fps
	}
	if flags.Changed("movement") {
		cfg.Camera.Movement = opts.movement
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

func runViewer(cfg config.Settings) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	config.Apply(cfg)

	app := viewer.New(cfg, platform.Open, assets.NewLoader())
	// Signals end the process from another goroutine; GL teardown stays on
	// the main thread inside Run.
	closer.Bind(func() {
		slog.Info("scene-viewer exiting")
	})

	if err := app.Init(); err != nil {
		return err
	}
	return app.Run()
}
