package graphics

import (
	"unsafe"

	"scene-viewer/internal/assets"

	"github.com/go-gl/mathgl/mgl32"
)

// BufferTarget selects what a buffer is bound as when it is filled.
type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementBuffer
)

// Device is the subset of the graphics API the viewer issues. GLDevice is
// the OpenGL implementation; tests use a recording fake.
//
// A zero handle never names a live resource.
type Device interface {
	GenVertexArray() uint32
	GenBuffer() uint32
	BindVertexArray(vao uint32)
	// BufferData binds buf to target and uploads size bytes from data.
	BufferData(target BufferTarget, buf uint32, size int, data unsafe.Pointer)
	// VertexAttrib points attribute slot at buf with tightly packed float
	// components. A vertex array must be bound.
	VertexAttrib(slot, buf uint32, components int32)
	DrawTriangles(indexCount int32)
	DeleteVertexArray(vao uint32)
	DeleteBuffer(buf uint32)

	CreateTexture(img *assets.Image) (uint32, error)
	BindTexture(unit, tex uint32)
	DeleteTexture(tex uint32)

	// LoadProgram compiles and links a program from shader source files.
	LoadProgram(vertexPath, fragmentPath string) (uint32, error)
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	UniformMatrix4(loc int32, m mgl32.Mat4)
	UniformVec3(loc int32, v mgl32.Vec3)
	UniformInt(loc int32, v int32)

	Clear()
	Viewport(width, height int)
}
