// Package gputest provides a recording graphics.Device for tests that run
// without a GL context.
package gputest

import (
	"errors"
	"fmt"
	"unsafe"

	"scene-viewer/internal/assets"
	"scene-viewer/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded device call.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string { return fmt.Sprintf("%s%v", c.Op, c.Args) }

// Device records every call and hands out increasing handles.
type Device struct {
	Calls []Call

	// FailTextureAt makes the n-th CreateTexture call (1-based) fail.
	FailTextureAt int
	// ProgramErr, when set, is returned by LoadProgram.
	ProgramErr error

	next      uint32
	textures  int
	live      map[string]map[uint32]bool
	locations map[string]int32

	// Uniform values by location, as last uploaded.
	Mat4s map[int32]mgl32.Mat4
	Vec3s map[int32]mgl32.Vec3
	Ints  map[int32]int32
}

var _ graphics.Device = (*Device)(nil)

var ErrTexture = errors.New("texture upload failed")

func New() *Device {
	return &Device{
		live: map[string]map[uint32]bool{
			"vao": {}, "buffer": {}, "texture": {}, "program": {},
		},
		locations: make(map[string]int32),
		Mat4s:     make(map[int32]mgl32.Mat4),
		Vec3s:     make(map[int32]mgl32.Vec3),
		Ints:      make(map[int32]int32),
	}
}

func (d *Device) record(op string, args ...any) {
	d.Calls = append(d.Calls, Call{Op: op, Args: args})
}

func (d *Device) alloc(kind string) uint32 {
	d.next++
	d.live[kind][d.next] = true
	return d.next
}

func (d *Device) free(kind string, h uint32) {
	if !d.live[kind][h] {
		panic(fmt.Sprintf("gputest: delete of %s %d that is not live", kind, h))
	}
	delete(d.live[kind], h)
}

// Live returns how many handles of kind ("vao", "buffer", "texture",
// "program") are allocated and not yet deleted.
func (d *Device) Live(kind string) int { return len(d.live[kind]) }

// Count returns how many calls of op were recorded.
func (d *Device) Count(op string) int {
	n := 0
	for _, c := range d.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Ops returns the recorded operation names in order.
func (d *Device) Ops() []string {
	out := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		out[i] = c.Op
	}
	return out
}

// Reset forgets recorded calls but keeps live handles.
func (d *Device) Reset() { d.Calls = nil }

// Location returns the location handed out for a uniform name, or -1.
func (d *Device) Location(name string) int32 {
	if loc, ok := d.locations[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) GenVertexArray() uint32 {
	h := d.alloc("vao")
	d.record("GenVertexArray", h)
	return h
}

func (d *Device) GenBuffer() uint32 {
	h := d.alloc("buffer")
	d.record("GenBuffer", h)
	return h
}

func (d *Device) BindVertexArray(vao uint32) { d.record("BindVertexArray", vao) }

func (d *Device) BufferData(target graphics.BufferTarget, buf uint32, size int, data unsafe.Pointer) {
	d.record("BufferData", target, buf, size)
}

func (d *Device) VertexAttrib(slot, buf uint32, components int32) {
	d.record("VertexAttrib", slot, buf, components)
}

func (d *Device) DrawTriangles(indexCount int32) { d.record("DrawTriangles", indexCount) }

func (d *Device) DeleteVertexArray(vao uint32) {
	d.free("vao", vao)
	d.record("DeleteVertexArray", vao)
}

func (d *Device) DeleteBuffer(buf uint32) {
	d.free("buffer", buf)
	d.record("DeleteBuffer", buf)
}

func (d *Device) CreateTexture(img *assets.Image) (uint32, error) {
	d.textures++
	if d.FailTextureAt > 0 && d.textures == d.FailTextureAt {
		d.record("CreateTexture", uint32(0))
		return 0, ErrTexture
	}
	h := d.alloc("texture")
	d.record("CreateTexture", h)
	return h, nil
}

func (d *Device) BindTexture(unit, tex uint32) { d.record("BindTexture", unit, tex) }

func (d *Device) DeleteTexture(tex uint32) {
	d.free("texture", tex)
	d.record("DeleteTexture", tex)
}

func (d *Device) LoadProgram(vertexPath, fragmentPath string) (uint32, error) {
	if d.ProgramErr != nil {
		d.record("LoadProgram", uint32(0))
		return 0, d.ProgramErr
	}
	h := d.alloc("program")
	d.record("LoadProgram", h)
	return h, nil
}

func (d *Device) UseProgram(program uint32) { d.record("UseProgram", program) }

func (d *Device) DeleteProgram(program uint32) {
	d.free("program", program)
	d.record("DeleteProgram", program)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	loc, ok := d.locations[name]
	if !ok {
		loc = int32(len(d.locations))
		d.locations[name] = loc
	}
	d.record("UniformLocation", name)
	return loc
}

func (d *Device) UniformMatrix4(loc int32, m mgl32.Mat4) {
	d.Mat4s[loc] = m
	d.record("UniformMatrix4", loc)
}

func (d *Device) UniformVec3(loc int32, v mgl32.Vec3) {
	d.Vec3s[loc] = v
	d.record("UniformVec3", loc)
}

func (d *Device) UniformInt(loc int32, v int32) {
	d.Ints[loc] = v
	d.record("UniformInt", loc)
}

func (d *Device) Clear() { d.record("Clear") }

func (d *Device) Viewport(width, height int) { d.record("Viewport", width, height) }
