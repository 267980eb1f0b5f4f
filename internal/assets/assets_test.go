package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `o Quad
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

const bareOBJ = `o Tri
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writePNG(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadModelTriangulatesPolygon(t *testing.T) {
	m, err := LoadModel(writeFile(t, "quad.obj", quadOBJ))
	require.NoError(t, err)

	assert.Len(t, m.Positions, 4)
	assert.Len(t, m.UVs, 4)
	assert.Len(t, m.Normals, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)

	assert.Equal(t, mgl32.Vec3{1, 1, 0}, m.Positions[2])
	assert.Equal(t, mgl32.Vec2{1, 1}, m.UVs[2])
	for _, n := range m.Normals {
		assert.Equal(t, mgl32.Vec3{0, 0, 1}, n)
	}
}

func TestLoadModelWithoutUVsOrNormals(t *testing.T) {
	m, err := LoadModel(writeFile(t, "tri.obj", bareOBJ))
	require.NoError(t, err)

	require.Len(t, m.Indices, 3)
	for i := range m.Positions {
		assert.Equal(t, mgl32.Vec2{}, m.UVs[i])
		assert.True(t, m.Normals[i].ApproxEqual(mgl32.Vec3{0, 0, 1}), "face normal fallback, got %v", m.Normals[i])
	}
}

func TestLoadModelMissingFile(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(t, err)
}

func TestLoadModelNoFaces(t *testing.T) {
	_, err := LoadModel(writeFile(t, "empty.obj", "o Empty\nv 0 0 0\n"))
	assert.ErrorIs(t, err, ErrEmptyModel)
}

func TestLoadImageFlipsRows(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	top := color.RGBA{255, 0, 0, 255}
	bottom := color.RGBA{0, 0, 255, 255}
	src.Set(0, 0, top)
	src.Set(1, 0, top)
	src.Set(0, 1, bottom)
	src.Set(1, 1, bottom)

	img, err := LoadImage(writePNG(t, "flip.png", src))
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 2, img.Height)
	require.Len(t, img.Pix, 16)

	// First row in memory is the bottom of the source image.
	assert.Equal(t, []byte{0, 0, 255, 255, 0, 0, 255, 255}, img.Pix[:8])
	assert.Equal(t, []byte{255, 0, 0, 255, 255, 0, 0, 255}, img.Pix[8:])
}

func TestLoadImageRejectsGarbage(t *testing.T) {
	_, err := LoadImage(writeFile(t, "bad.png", "not an image"))
	assert.Error(t, err)
}

func TestLoaderCachesImages(t *testing.T) {
	path := writePNG(t, "c.png", image.NewRGBA(image.Rect(0, 0, 1, 1)))
	l := NewLoader()

	a, err := l.LoadImage(path)
	require.NoError(t, err)
	b, err := l.LoadImage(path)
	require.NoError(t, err)
	assert.Same(t, a, b)

	l.Purge()
	c, err := l.LoadImage(path)
	require.NoError(t, err)
	assert.NotSame(t, a, c)
}
