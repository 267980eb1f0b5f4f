package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"scene-viewer/internal/assets"
	"scene-viewer/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Attribute slots shared with the vertex shader.
const (
	PositionSlot = 0
	UVSlot       = 1
	NormalSlot   = 2
)

var (
	ErrIncompleteDescriptor = errors.New("model, texture and specular paths must all be set")
	ErrNotDecoded           = errors.New("mesh data not decoded")
	ErrAlreadyLoaded        = errors.New("mesh already loaded")
)

// AssetLoader decodes the files a Mesh is described by.
type AssetLoader interface {
	LoadModel(path string) (*assets.Model, error)
	LoadImage(path string) (*assets.Image, error)
}

// noCopy makes go vet's copylocks check flag copies of a Mesh. A copied
// Mesh would share GPU handles with the original and free them twice.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Mesh is a textured object: geometry, a base and a specular texture, and
// a model matrix. It moves from described to decoded to ready; only a
// ready mesh touches the GPU when drawn. Always use it through a pointer.
type Mesh struct {
	noCopy noCopy

	Name         string
	ModelPath    string
	TexturePath  string
	SpecularPath string

	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2
	Normals   []mgl32.Vec3
	Indices   []uint32

	texture, specular *assets.Image

	vao          uint32
	vertexBuffer uint32
	uvBuffer     uint32
	normalBuffer uint32
	indexBuffer  uint32
	texID        uint32
	specID       uint32

	model   mgl32.Mat4
	decoded bool
	ready   bool
}

func NewMesh() *Mesh {
	return &Mesh{model: mgl32.Ident4()}
}

// Describe sets the identifying name and source files. No I/O happens.
func (m *Mesh) Describe(name, modelPath, texturePath, specularPath string) {
	m.Name = name
	m.ModelPath = modelPath
	m.TexturePath = texturePath
	m.SpecularPath = specularPath
}

func (m *Mesh) Ready() bool { return m.ready }

func (m *Mesh) ModelMatrix() mgl32.Mat4 { return m.model }

// SetTranslation replaces the model matrix with a pure translation.
func (m *Mesh) SetTranslation(v mgl32.Vec3) {
	m.model = mgl32.Translate3D(v[0], v[1], v[2])
}

func (m *Mesh) SetModelMatrix(mat mgl32.Mat4) {
	m.model = mat
}

// Translate, Rotate and Scale post-multiply the model matrix, so the last
// call is the first applied to object-space points.
func (m *Mesh) Translate(v mgl32.Vec3) {
	m.model = m.model.Mul4(mgl32.Translate3D(v[0], v[1], v[2]))
}

// Rotate turns by degrees about axis.
func (m *Mesh) Rotate(degrees float32, axis mgl32.Vec3) {
	m.model = m.model.Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(degrees), axis.Normalize()))
}

func (m *Mesh) Scale(v mgl32.Vec3) {
	m.model = m.model.Mul4(mgl32.Scale3D(v[0], v[1], v[2]))
}

// TextureHandles returns the base and specular texture handles, zero until
// the mesh is ready.
func (m *Mesh) TextureHandles() (base, specular uint32) {
	return m.texID, m.specID
}

// Load decodes the model and both textures, then uploads them. Any decode
// failure leaves the mesh not ready with nothing allocated on the GPU.
func (m *Mesh) Load(loader AssetLoader, dev graphics.Device) error {
	if m.ready {
		return fmt.Errorf("%q: %w", m.Name, ErrAlreadyLoaded)
	}
	if m.ModelPath == "" || m.TexturePath == "" || m.SpecularPath == "" {
		return fmt.Errorf("%q: %w", m.Name, ErrIncompleteDescriptor)
	}

	m.decoded = false
	m.Positions, m.UVs, m.Normals, m.Indices = nil, nil, nil, nil
	m.texture, m.specular = nil, nil

	model, err := loader.LoadModel(m.ModelPath)
	if err != nil {
		return fmt.Errorf("%q: model: %w", m.Name, err)
	}
	m.Positions = model.Positions
	m.UVs = model.UVs
	m.Normals = model.Normals
	m.Indices = model.Indices

	tex, err := loader.LoadImage(m.TexturePath)
	if err != nil {
		return fmt.Errorf("%q: texture: %w", m.Name, err)
	}
	spec, err := loader.LoadImage(m.SpecularPath)
	if err != nil {
		return fmt.Errorf("%q: specular texture: %w", m.Name, err)
	}
	m.texture, m.specular = tex, spec
	m.decoded = true

	if err := m.Upload(dev); err != nil {
		return err
	}
	slog.Info("mesh loaded", "name", m.Name, "vertices", len(m.Positions), "triangles", len(m.Indices)/3)
	return nil
}

// Upload allocates the vertex array, one buffer per attribute stream, the
// index buffer and both textures. It does nothing until Load has decoded
// the mesh.
func (m *Mesh) Upload(dev graphics.Device) error {
	if !m.decoded {
		slog.Warn("upload before decode ignored", "name", m.Name)
		return fmt.Errorf("%q: %w", m.Name, ErrNotDecoded)
	}
	if m.ready {
		return fmt.Errorf("%q: %w", m.Name, ErrAlreadyLoaded)
	}

	texID, err := dev.CreateTexture(m.texture)
	if err != nil {
		return fmt.Errorf("%q: texture upload: %w", m.Name, err)
	}
	specID, err := dev.CreateTexture(m.specular)
	if err != nil {
		dev.DeleteTexture(texID)
		return fmt.Errorf("%q: specular texture upload: %w", m.Name, err)
	}
	m.texID, m.specID = texID, specID

	m.vao = dev.GenVertexArray()
	m.vertexBuffer = dev.GenBuffer()
	m.uvBuffer = dev.GenBuffer()
	m.normalBuffer = dev.GenBuffer()
	m.indexBuffer = dev.GenBuffer()

	dev.BindVertexArray(m.vao)
	dev.BufferData(graphics.ArrayBuffer, m.vertexBuffer, byteSize(m.Positions), slicePtr(m.Positions))
	dev.VertexAttrib(PositionSlot, m.vertexBuffer, 3)
	dev.BufferData(graphics.ArrayBuffer, m.uvBuffer, byteSize(m.UVs), slicePtr(m.UVs))
	dev.VertexAttrib(UVSlot, m.uvBuffer, 2)
	dev.BufferData(graphics.ArrayBuffer, m.normalBuffer, byteSize(m.Normals), slicePtr(m.Normals))
	dev.VertexAttrib(NormalSlot, m.normalBuffer, 3)
	dev.BufferData(graphics.ElementBuffer, m.indexBuffer, byteSize(m.Indices), slicePtr(m.Indices))
	dev.BindVertexArray(0)

	// Pixels live on the GPU now.
	m.texture, m.specular = nil, nil
	m.ready = true
	return nil
}

// Draw issues one indexed triangle draw over every index. Textures and
// uniforms must already be bound. A mesh that is not ready draws nothing.
func (m *Mesh) Draw(dev graphics.Device) {
	if !m.ready {
		return
	}
	dev.BindVertexArray(m.vao)
	dev.DrawTriangles(int32(len(m.Indices)))
}

// Release frees every GPU handle the mesh owns. Handles that were never
// allocated are skipped and calling Release again does nothing.
func (m *Mesh) Release(dev graphics.Device) {
	for _, h := range []*uint32{&m.texID, &m.specID} {
		if *h != 0 {
			dev.DeleteTexture(*h)
			*h = 0
		}
	}
	for _, h := range []*uint32{&m.vertexBuffer, &m.uvBuffer, &m.normalBuffer, &m.indexBuffer} {
		if *h != 0 {
			dev.DeleteBuffer(*h)
			*h = 0
		}
	}
	if m.vao != 0 {
		dev.DeleteVertexArray(m.vao)
		m.vao = 0
	}
	m.ready = false
}

func byteSize[T any](s []T) int {
	var zero T
	return len(s) * int(unsafe.Sizeof(zero))
}

func slicePtr[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}
