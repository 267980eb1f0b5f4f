// Package viewer runs the render loop: it owns the camera, the two lights
// and the scene meshes, and drives one frame at a time until the user quits.
package viewer

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"scene-viewer/internal/config"
	"scene-viewer/internal/graphics"
	"scene-viewer/internal/input"
	"scene-viewer/internal/profiling"
	"scene-viewer/internal/scene"
	"scene-viewer/pkg/scenefile"

	"github.com/go-gl/mathgl/mgl32"
)

type State int

const (
	StateInitializing State = iota
	StateRunning
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ErrNotRunning is returned by Run when Init has not succeeded.
var ErrNotRunning = errors.New("viewer is not running")

// Frames slower than this get a profiling breakdown at debug level.
const slowFrame = 16 * time.Millisecond

// Texture units the material samplers read from.
const (
	diffuseUnit  = 0
	specularUnit = 1
)

// Surface is the drawable the loop presents to.
type Surface interface {
	SwapBuffers()
	ShouldClose() bool
	SetShouldClose(bool)
	FramebufferSize() (width, height int)
}

// EventSource delivers pending OS events to the input manager.
type EventSource interface {
	PollEvents()
}

// Platform owns the window, the graphics context and the windowing
// library. Close releases them in reverse acquisition order.
type Platform interface {
	Surface
	EventSource
	Device() graphics.Device
	Close()
}

// Opener acquires a Platform for cfg and routes its events into in.
type Opener func(cfg config.Settings, in *input.Manager) (Platform, error)

type lightUniforms struct {
	position, ambient, diffuse, specular int32
}

// uniforms caches locations looked up once after the program links.
type uniforms struct {
	model, view, projection int32
	diffuse, specular       int32
	viewPos                 int32
	lights                  [2]lightUniforms
}

type App struct {
	cfg    config.Settings
	open   Opener
	loader scene.AssetLoader

	platform Platform
	dev      graphics.Device
	input    *input.Manager
	program  uint32
	loc      uniforms

	Camera *graphics.Camera
	Lights [2]*scene.Light
	Meshes []*scene.Mesh

	state      State
	closed     bool
	fpsLimiter *FPSLimiter
	now        func() time.Time
	lastTime   time.Time
	fbWidth    int
	fbHeight   int
}

// New builds an App in the Initializing state. Nothing is acquired until
// Init.
func New(cfg config.Settings, open Opener, loader scene.AssetLoader) *App {
	cam := graphics.NewCamera(cfg.Window.Width, cfg.Window.Height)
	cam.RotationSpeed = cfg.Camera.RotationSpeed
	cam.MovementSpeed = cfg.Camera.MovementStep
	cam.SetFOV(cfg.Camera.FOV)
	cam.SetClip(cfg.Camera.Near, cfg.Camera.Far)
	cam.SetPitchLimit(cfg.Camera.PitchLimit)

	light1, light2 := scene.NewLight(), scene.NewLight()
	light1.SetPosition(mgl32.Vec3{0, 15, 0})
	light2.SetPosition(mgl32.Vec3{15, 0, 15})

	return &App{
		cfg:        cfg,
		open:       open,
		loader:     loader,
		input:      input.NewManager(),
		Camera:     cam,
		Lights:     [2]*scene.Light{light1, light2},
		state:      StateInitializing,
		fpsLimiter: NewFPSLimiter(),
		now:        time.Now,
	}
}

func (a *App) State() State { return a.state }

func (a *App) Input() *input.Manager { return a.input }

// Init acquires the platform, links the shader program and loads the
// scene. On failure the App is Failed, everything acquired so far is
// released, and the returned error names the failing stage.
func (a *App) Init() error {
	if a.state != StateInitializing {
		return fmt.Errorf("init called in state %v", a.state)
	}
	if err := a.init(); err != nil {
		a.state = StateFailed
		slog.Error("initialization failed", "error", err)
		a.Close()
		return err
	}
	a.state = StateRunning
	a.lastTime = a.now()
	return nil
}

func (a *App) init() error {
	p, err := a.open(a.cfg, a.input)
	if err != nil {
		return fmt.Errorf("platform: %w", err)
	}
	a.platform = p
	a.dev = p.Device()

	a.program, err = a.dev.LoadProgram(a.cfg.Scene.VertexShader, a.cfg.Scene.FragmentShader)
	if err != nil {
		return fmt.Errorf("shader: %w", err)
	}
	a.bindUniforms()

	descriptors, err := scenefile.NewLoader(a.cfg.Scene.DataDir).LoadFile(a.cfg.Scene.File)
	if err != nil {
		var lineErr *scenefile.LineError
		if !errors.As(err, &lineErr) {
			return fmt.Errorf("scene: %w", err)
		}
		slog.Warn("scene file lines rejected", "file", a.cfg.Scene.File, "error", err)
	}
	a.Meshes = scene.FromDescriptors(descriptors)
	scene.LoadAll(a.Meshes, a.loader, a.dev)

	// Decoded pixels are on the GPU now.
	if c, ok := a.loader.(interface{ Purge() }); ok {
		c.Purge()
	}

	a.resize()
	return nil
}

func (a *App) bindUniforms() {
	loc := func(name string) int32 {
		l := a.dev.UniformLocation(a.program, name)
		if l < 0 {
			slog.Debug("uniform not active", "name", name)
		}
		return l
	}
	a.loc.model = loc("model")
	a.loc.view = loc("view")
	a.loc.projection = loc("projection")
	a.loc.diffuse = loc("material.diffuse")
	a.loc.specular = loc("material.specular")
	a.loc.viewPos = loc("viewPos")
	for i := range a.loc.lights {
		prefix := fmt.Sprintf("lights[%d].", i)
		a.loc.lights[i] = lightUniforms{
			position: loc(prefix + "position"),
			ambient:  loc(prefix + "ambient"),
			diffuse:  loc(prefix + "diffuse"),
			specular: loc(prefix + "specular"),
		}
	}

	// Samplers are program state and never change.
	a.dev.UseProgram(a.program)
	a.dev.UniformInt(a.loc.diffuse, diffuseUnit)
	a.dev.UniformInt(a.loc.specular, specularUnit)
}

// Run drives frames until the window closes or the exit action fires,
// then tears everything down.
func (a *App) Run() error {
	if a.state != StateRunning {
		return ErrNotRunning
	}
	defer a.Close()

	slog.Info("viewer running", "objects", len(a.Meshes), "movement", a.cfg.Camera.Movement)
	a.lastTime = a.now()
	for a.state == StateRunning {
		a.frame()
	}
	return nil
}

// Stop ends the loop after the current frame.
func (a *App) Stop() {
	if a.state != StateRunning {
		return
	}
	a.state = StateStopped
	if a.platform != nil {
		a.platform.SetShouldClose(true)
	}
}

func (a *App) frame() {
	profiling.ResetFrame()
	now := a.now()
	dt := float32(now.Sub(a.lastTime).Seconds())
	a.lastTime = now

	a.handleInput(dt)
	if a.state != StateRunning {
		return
	}

	a.resize()
	a.render()

	stop := profiling.Track("viewer.present")
	a.platform.SwapBuffers()
	stop()

	a.input.PostUpdate()
	profiling.ReportSlow(slowFrame)
	a.fpsLimiter.Wait()
}

var movements = [...]struct {
	action input.Action
	dir    graphics.Direction
}{
	{input.ActionMoveForward, graphics.Forward},
	{input.ActionMoveBackward, graphics.Backward},
	{input.ActionMoveLeft, graphics.Left},
	{input.ActionMoveRight, graphics.Right},
	{input.ActionMoveUp, graphics.Up},
	{input.ActionMoveDown, graphics.Down},
}

func (a *App) handleInput(dt float32) {
	defer profiling.Track("viewer.input")()

	a.platform.PollEvents()
	if a.platform.ShouldClose() || a.input.JustPressed(input.ActionExit) {
		a.Stop()
		return
	}

	// Pointer motion is inverted before it turns the camera.
	dx, dy := a.input.ConsumePointerDelta()
	a.Camera.OnPointerDelta(float32(-dx), float32(-dy))

	for _, m := range movements {
		if a.cfg.Camera.Movement == config.MovementDiscrete {
			if a.input.JustPressed(m.action) {
				a.Camera.Move(m.dir, a.Camera.MovementSpeed)
			}
			continue
		}
		if a.input.IsActive(m.action) {
			a.Camera.Move(m.dir, a.cfg.Camera.MovementSpeed*dt)
		}
	}
}

// resize follows framebuffer size changes. A minimized window reports
// 0x0 and is ignored.
func (a *App) resize() {
	w, h := a.platform.FramebufferSize()
	if w <= 0 || h <= 0 || (w == a.fbWidth && h == a.fbHeight) {
		return
	}
	a.fbWidth, a.fbHeight = w, h
	a.dev.Viewport(w, h)
	a.Camera.SetAspect(w, h)
}

func (a *App) render() {
	defer profiling.Track("viewer.draw")()

	dev := a.dev
	dev.Clear()
	dev.UseProgram(a.program)

	dev.UniformMatrix4(a.loc.view, a.Camera.ViewMatrix())
	dev.UniformMatrix4(a.loc.projection, a.Camera.ProjectionMatrix())
	dev.UniformVec3(a.loc.viewPos, a.Camera.Position())
	for i, l := range a.Lights {
		u := a.loc.lights[i]
		dev.UniformVec3(u.position, l.Position)
		dev.UniformVec3(u.ambient, l.Ambient)
		dev.UniformVec3(u.diffuse, l.Diffuse)
		dev.UniformVec3(u.specular, l.Specular)
	}

	for _, m := range a.Meshes {
		if !m.Ready() {
			continue
		}
		dev.UniformMatrix4(a.loc.model, m.ModelMatrix())
		base, spec := m.TextureHandles()
		dev.BindTexture(diffuseUnit, base)
		dev.BindTexture(specularUnit, spec)
		m.Draw(dev)
	}
}

// Close releases every mesh, the program and the platform. It runs once;
// later calls do nothing.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true

	if a.dev != nil {
		for _, m := range a.Meshes {
			m.Release(a.dev)
		}
		if a.program != 0 {
			a.dev.DeleteProgram(a.program)
			a.program = 0
		}
	}
	if a.platform != nil {
		a.platform.Close()
		a.platform = nil
	}
	if a.state != StateFailed {
		a.state = StateStopped
	}
	slog.Info("viewer closed", "state", a.state)
}
