// Package platform owns the process-wide windowing state: the GLFW
// library, one window and its OpenGL context.
package platform

import (
	"fmt"
	"log/slog"

	"scene-viewer/internal/config"
	"scene-viewer/internal/graphics"
	"scene-viewer/internal/input"
	"scene-viewer/internal/viewer"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is a GLFW window with a current OpenGL 4.1 core context. It must
// be created and used on the main, OS-locked thread.
type Window struct {
	window *glfw.Window
	device *graphics.GLDevice
	closed bool
}

var _ viewer.Platform = (*Window)(nil)

// Open initializes GLFW, creates the window and context, loads the GL
// entry points and routes key and cursor events into in. Whatever was
// acquired is released again if a later step fails.
func Open(cfg config.Settings, in *input.Manager) (viewer.Platform, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("gl init: %w", err)
	}
	slog.Info("opengl context ready", "version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		// FPSLimiter paces frames instead
		glfw.SwapInterval(0)
	}

	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	if glfw.RawMouseMotionSupported() {
		window.SetInputMode(glfw.RawMouseMotion, glfw.True)
	}
	in.Attach(window)
	window.SetFocusCallback(func(w *glfw.Window, focused bool) {
		// Avoid a jump from the position the cursor had while released.
		if focused {
			in.ResetPointer()
		}
	})

	return &Window{
		window: window,
		device: graphics.NewGLDevice(cfg.Render.ClearColor, cfg.Render.CullFace),
	}, nil
}

func (w *Window) Device() graphics.Device { return w.device }

func (w *Window) SwapBuffers()          { w.window.SwapBuffers() }
func (w *Window) ShouldClose() bool     { return w.window.ShouldClose() }
func (w *Window) SetShouldClose(v bool) { w.window.SetShouldClose(v) }
func (w *Window) PollEvents()           { glfw.PollEvents() }

func (w *Window) FramebufferSize() (width, height int) {
	return w.window.GetFramebufferSize()
}

// Close destroys the window and terminates GLFW, in that order. Calling
// it again does nothing.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.window.Destroy()
	glfw.Terminate()
}
