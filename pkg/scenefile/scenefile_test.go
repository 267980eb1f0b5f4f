package scenefile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleLine(t *testing.T) {
	l := NewLoader("data")
	ds, err := l.Parse(strings.NewReader("Box ./box.obj ./box.png ./box_spec.png 0 0 -5\n"))
	require.NoError(t, err)
	require.Len(t, ds, 1)

	d := ds[0]
	assert.Equal(t, "Box", d.Name)
	assert.Equal(t, filepath.Join("data", "box.obj"), d.Model)
	assert.Equal(t, filepath.Join("data", "box.png"), d.Texture)
	assert.Equal(t, filepath.Join("data", "box_spec.png"), d.Specular)
	assert.Equal(t, mgl32.Vec3{0, 0, -5}, d.Position)
	assert.Equal(t, 1, d.Line)
}

func TestParseSkipsBlankAndComments(t *testing.T) {
	src := `
# floor first
Floor floor.obj floor.png floor_spec.png 0 -1 0

Lamp lamp.obj lamp.png lamp_spec.png 1.5 2 3e-1
`
	ds, err := NewLoader("").Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, "Floor", ds[0].Name)
	assert.Equal(t, 3, ds[0].Line)
	assert.Equal(t, "Lamp", ds[1].Name)
	assert.Equal(t, mgl32.Vec3{1.5, 2, 0.3}, ds[1].Position)
	assert.Equal(t, "lamp.obj", ds[1].Model)
}

func TestParseRejectsMalformedLines(t *testing.T) {
	src := strings.Join([]string{
		"Short a.obj a.png",
		"Good g.obj g.png g_spec.png 1 2 3",
		"BadFloat b.obj b.png b_spec.png 1 two 3",
		"Long l.obj l.png l_spec.png 1 2 3 4",
	}, "\n")

	ds, err := NewLoader("").Parse(strings.NewReader(src))
	require.Len(t, ds, 1)
	assert.Equal(t, "Good", ds[0].Name)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldCount))
	assert.True(t, errors.Is(err, ErrBadFloat))

	var lines []int
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var le *LineError
		require.True(t, errors.As(e, &le))
		lines = append(lines, le.Line)
	}
	assert.Equal(t, []int{1, 3, 4}, lines)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := NewLoader("").LoadFile(filepath.Join(t.TempDir(), "nope.init"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFileAbsolutePathsKept(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "m.obj")
	path := filepath.Join(dir, "scene.init")
	require.NoError(t, os.WriteFile(path, []byte("M "+abs+" t.png s.png 0 0 0\n"), 0o644))

	ds, err := NewLoader("data").LoadFile(path)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, abs, ds[0].Model)
	assert.Equal(t, filepath.Join("data", "t.png"), ds[0].Texture)
}
