package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestDefaultBindings(t *testing.T) {
	cases := map[glfw.Key]Action{
		glfw.KeyW:           ActionMoveForward,
		glfw.KeyUp:          ActionMoveForward,
		glfw.KeyS:           ActionMoveBackward,
		glfw.KeyDown:        ActionMoveBackward,
		glfw.KeyA:           ActionMoveLeft,
		glfw.KeyLeft:        ActionMoveLeft,
		glfw.KeyD:           ActionMoveRight,
		glfw.KeyRight:       ActionMoveRight,
		glfw.KeySpace:       ActionMoveUp,
		glfw.KeyC:           ActionMoveDown,
		glfw.KeyLeftControl: ActionMoveDown,
		glfw.KeyEscape:      ActionExit,
	}
	for key, action := range cases {
		m := NewManager()
		m.HandleKeyEvent(key, glfw.Press)
		assert.True(t, m.IsActive(action), "key %v", key)
		m.HandleKeyEvent(key, glfw.Release)
		assert.False(t, m.IsActive(action), "key %v", key)
	}
}

func TestEdgeFlags(t *testing.T) {
	m := NewManager()

	m.HandleKeyEvent(glfw.KeyEscape, glfw.Press)
	assert.True(t, m.JustPressed(ActionExit))
	m.PostUpdate()
	assert.False(t, m.JustPressed(ActionExit))
	assert.True(t, m.IsActive(ActionExit))

	// Repeat keeps the action held without a new edge.
	m.HandleKeyEvent(glfw.KeyEscape, glfw.Repeat)
	assert.False(t, m.JustPressed(ActionExit))

	m.HandleKeyEvent(glfw.KeyEscape, glfw.Release)
	assert.True(t, m.JustReleased(ActionExit))
	m.PostUpdate()
	assert.False(t, m.JustReleased(ActionExit))
}

func TestUnboundAndOutOfRange(t *testing.T) {
	m := NewManager()
	m.HandleKeyEvent(glfw.KeyF12, glfw.Press)
	for a := range ActionCount {
		assert.False(t, m.IsActive(a))
	}
	assert.False(t, m.IsActive(ActionCount))
	assert.False(t, m.JustPressed(-1))

	m.UnbindKey(glfw.KeyW)
	m.HandleKeyEvent(glfw.KeyW, glfw.Press)
	assert.False(t, m.IsActive(ActionMoveForward))
}

func TestPointerDelta(t *testing.T) {
	m := NewManager()

	// First sample only seeds the position.
	m.HandleCursorPos(100, 100)
	dx, dy := m.ConsumePointerDelta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	m.HandleCursorPos(110, 95)
	m.HandleCursorPos(115, 90)
	dx, dy = m.ConsumePointerDelta()
	assert.Equal(t, 15.0, dx)
	assert.Equal(t, -10.0, dy)

	dx, dy = m.ConsumePointerDelta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	m.ResetPointer()
	m.HandleCursorPos(500, 500)
	dx, dy = m.ConsumePointerDelta()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}
