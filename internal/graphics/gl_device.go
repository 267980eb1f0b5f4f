package graphics

import (
	"fmt"
	"unsafe"

	"scene-viewer/internal/assets"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// GLDevice issues Device calls against the current OpenGL 4.1 core
// context. gl.Init must have succeeded on the calling thread.
type GLDevice struct{}

// NewGLDevice configures fixed pipeline state and returns the device.
func NewGLDevice(clear [4]float32, cullFace bool) *GLDevice {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	if cullFace {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.FrontFace(gl.CCW)
	}
	gl.ClearColor(clear[0], clear[1], clear[2], clear[3])
	return &GLDevice{}
}

func (d *GLDevice) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (d *GLDevice) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (d *GLDevice) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (d *GLDevice) BufferData(target BufferTarget, buf uint32, size int, data unsafe.Pointer) {
	t := uint32(gl.ARRAY_BUFFER)
	if target == ElementBuffer {
		t = gl.ELEMENT_ARRAY_BUFFER
	}
	gl.BindBuffer(t, buf)
	gl.BufferData(t, size, data, gl.STATIC_DRAW)
}

func (d *GLDevice) VertexAttrib(slot, buf uint32, components int32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.VertexAttribPointer(slot, components, gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(slot)
}

func (d *GLDevice) DrawTriangles(indexCount int32) {
	gl.DrawElements(gl.TRIANGLES, indexCount, gl.UNSIGNED_INT, nil)
}

func (d *GLDevice) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (d *GLDevice) DeleteBuffer(buf uint32) {
	gl.DeleteBuffers(1, &buf)
}

// CreateTexture uploads img as a mipmapped, repeating RGBA texture.
func (d *GLDevice) CreateTexture(img *assets.Image) (uint32, error) {
	if img == nil || img.Width <= 0 || img.Height <= 0 || len(img.Pix) < 4*img.Width*img.Height {
		return 0, fmt.Errorf("invalid image for texture upload")
	}

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	// Drop stale errors so the check below only sees this upload.
	for i := 0; i < 8 && gl.GetError() != gl.NO_ERROR; i++ {
	}

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(img.Width),
		int32(img.Height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix),
	)
	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.DeleteTextures(1, &texture)
		return 0, fmt.Errorf("glTexImage2D failed: 0x%x", code)
	}
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return texture, nil
}

func (d *GLDevice) BindTexture(unit, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

func (d *GLDevice) DeleteTexture(tex uint32) {
	gl.DeleteTextures(1, &tex)
}

func (d *GLDevice) LoadProgram(vertexPath, fragmentPath string) (uint32, error) {
	p, err := NewProgram(vertexPath, fragmentPath)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (d *GLDevice) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *GLDevice) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *GLDevice) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *GLDevice) UniformMatrix4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (d *GLDevice) UniformVec3(loc int32, v mgl32.Vec3) {
	gl.Uniform3fv(loc, 1, &v[0])
}

func (d *GLDevice) UniformInt(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (d *GLDevice) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *GLDevice) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}
