package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Direction names one of the six camera movement axes.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
	Up
	Down
)

// Camera is a free-flying first-person camera. Orientation is stored as
// yaw about the up vector and pitch about the right axis, both relative to
// the direction the camera was created with; the view direction is derived
// from them on every change.
type Camera struct {
	position  mgl32.Vec3
	direction mgl32.Vec3
	up        mgl32.Vec3

	// Orthonormal reference frame captured at construction.
	baseForward mgl32.Vec3
	baseRight   mgl32.Vec3
	baseUp      mgl32.Vec3

	yaw, pitch float64 // radians
	pitchLimit float64 // radians, 0 disables clamping

	RotationSpeed float32 // radians per pointer unit
	MovementSpeed float32 // distance per discrete step

	fov    float32 // degrees
	aspect float32
	near   float32
	far    float32

	view, projection     mgl32.Mat4
	viewDirty, projDirty bool
}

// NewCamera returns a camera at (0,1,0) looking down -Z with +Y up.
func NewCamera(width, height int) *Camera {
	c := &Camera{
		RotationSpeed: 0.0005,
		MovementSpeed: 0.15,
		fov:           45,
		near:          0.1,
		far:           100,
		aspect:        4.0 / 3.0,
		projDirty:     true,
	}
	c.SetAspect(width, height)
	c.Reset(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	return c
}

// Reset places the camera and makes direction the new zero yaw/pitch.
// direction and up must not be parallel.
func (c *Camera) Reset(position, direction, up mgl32.Vec3) {
	c.position = position
	c.up = up
	c.baseUp = up.Normalize()
	// Remove any component along up so pitch starts from the horizon.
	fwd := direction.Sub(c.baseUp.Mul(direction.Dot(c.baseUp)))
	c.baseForward = fwd.Normalize()
	c.baseRight = c.baseForward.Cross(c.baseUp).Normalize()
	c.yaw = 0
	c.pitch = math.Asin(clamp(float64(direction.Normalize().Dot(c.baseUp)), -1, 1))
	c.updateDirection()
}

// SetPitchLimit bounds pitch to +-degrees. Zero or negative removes the
// bound and lets the camera roll over the poles.
func (c *Camera) SetPitchLimit(degrees float32) {
	if degrees <= 0 {
		c.pitchLimit = 0
		return
	}
	c.pitchLimit = float64(mgl32.DegToRad(degrees))
	if c.clampPitch() {
		c.updateDirection()
	}
}

func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.aspect = float32(width) / float32(height)
	c.projDirty = true
}

func (c *Camera) SetFOV(degrees float32) {
	c.fov = degrees
	c.projDirty = true
}

func (c *Camera) SetClip(near, far float32) {
	c.near, c.far = near, far
	c.projDirty = true
}

// ProjectionMatrix returns the perspective projection for the current
// field of view, aspect ratio and clip planes.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	if c.projDirty {
		c.projection = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
		c.projDirty = false
	}
	return c.projection
}

// ViewMatrix returns the look-at matrix from position towards
// position+direction.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	if c.viewDirty {
		c.view = mgl32.LookAtV(c.position, c.position.Add(c.direction), c.up)
		c.viewDirty = false
	}
	return c.view
}

func (c *Camera) Position() mgl32.Vec3  { return c.position }
func (c *Camera) Direction() mgl32.Vec3 { return c.direction }
func (c *Camera) Up() mgl32.Vec3        { return c.up }

// Yaw and Pitch return the accumulated angles in radians.
func (c *Camera) Yaw() float64   { return c.yaw }
func (c *Camera) Pitch() float64 { return c.pitch }

// OnPointerDelta turns the camera: dx rotates about up, dy about the right
// axis, both scaled by RotationSpeed. Callers pass already inverted
// deltas, so positive dx looks left and positive dy looks up.
func (c *Camera) OnPointerDelta(dx, dy float32) {
	if dx == 0 && dy == 0 {
		return
	}
	c.yaw += float64(dx * c.RotationSpeed)
	c.pitch += float64(dy * c.RotationSpeed)
	c.clampPitch()
	c.updateDirection()
}

func (c *Camera) MoveForward()  { c.Move(Forward, c.MovementSpeed) }
func (c *Camera) MoveBackward() { c.Move(Backward, c.MovementSpeed) }
func (c *Camera) MoveLeft()     { c.Move(Left, c.MovementSpeed) }
func (c *Camera) MoveRight()    { c.Move(Right, c.MovementSpeed) }
func (c *Camera) MoveUp()       { c.Move(Up, c.MovementSpeed) }
func (c *Camera) MoveDown()     { c.Move(Down, c.MovementSpeed) }

// Move translates the camera by distance along d. Forward/backward follow
// the view direction including pitch; strafing uses the normalized right
// axis; up/down use the up vector.
func (c *Camera) Move(d Direction, distance float32) {
	var axis mgl32.Vec3
	switch d {
	case Forward:
		axis = c.direction
	case Backward:
		axis = c.direction.Mul(-1)
	case Right:
		axis = c.rightAxis()
	case Left:
		axis = c.rightAxis().Mul(-1)
	case Up:
		axis = c.up
	case Down:
		axis = c.up.Mul(-1)
	default:
		return
	}
	c.position = c.position.Add(axis.Mul(distance))
	c.viewDirty = true
}

func (c *Camera) rightAxis() mgl32.Vec3 {
	r := c.direction.Cross(c.up)
	if r.Len() == 0 {
		return c.baseRight
	}
	return r.Normalize()
}

// clampPitch reports whether pitch had to be limited.
func (c *Camera) clampPitch() bool {
	if c.pitchLimit <= 0 {
		return false
	}
	p := clamp(c.pitch, -c.pitchLimit, c.pitchLimit)
	if p == c.pitch {
		return false
	}
	c.pitch = p
	return true
}

// updateDirection rebuilds the view direction: yaw rotates baseForward
// about baseUp, then pitch tilts it towards baseUp.
func (c *Camera) updateDirection() {
	sy, cy := math.Sincos(c.yaw)
	sp, cp := math.Sincos(c.pitch)
	horizontal := c.baseForward.Mul(float32(cy)).Sub(c.baseRight.Mul(float32(sy)))
	c.direction = horizontal.Mul(float32(cp)).Add(c.baseUp.Mul(float32(sp)))
	c.viewDirty = true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
