package assets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"
)

// Model is decoded geometry ready for upload: one entry per unique vertex
// in Positions/UVs/Normals and a triangle list in Indices.
type Model struct {
	Positions []mgl32.Vec3
	UVs       []mgl32.Vec2
	Normals   []mgl32.Vec3
	Indices   []uint32
}

var ErrEmptyModel = errors.New("model has no triangles")

// vertexKey identifies a position/uv/normal combination from an OBJ face.
type vertexKey struct {
	v, t, n int
}

// LoadModel decodes the first object of an OBJ file. Polygons are
// triangulated as fans. Missing normals fall back to the face normal and
// missing texture coordinates to (0,0). Materials are ignored; textures
// come from the scene file.
func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()

	dec, err := obj.DecodeReader(f, strings.NewReader(""))
	if err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", path, err)
	}
	if len(dec.Objects) == 0 {
		return nil, fmt.Errorf("model %s: %w", path, ErrEmptyModel)
	}
	m := buildModel(dec.Objects[0].Faces, dec.Vertices, dec.Uvs, dec.Normals)
	if len(m.Indices) == 0 {
		return nil, fmt.Errorf("model %s: %w", path, ErrEmptyModel)
	}
	return m, nil
}

func buildModel(faces []obj.Face, vertices, uvs, normals []float32) *Model {
	m := &Model{}
	seen := make(map[vertexKey]uint32)

	vec3At := func(arr []float32, i int) (mgl32.Vec3, bool) {
		if i < 0 || 3*i+2 >= len(arr) {
			return mgl32.Vec3{}, false
		}
		return mgl32.Vec3{arr[3*i], arr[3*i+1], arr[3*i+2]}, true
	}

	for _, f := range faces {
		if len(f.Vertices) < 3 {
			continue
		}
		var faceNormal mgl32.Vec3
		a, okA := vec3At(vertices, f.Vertices[0])
		b, okB := vec3At(vertices, f.Vertices[1])
		c, okC := vec3At(vertices, f.Vertices[2])
		if !okA || !okB || !okC {
			continue
		}
		if n := b.Sub(a).Cross(c.Sub(a)); n.Len() > 0 {
			faceNormal = n.Normalize()
		}

		index := func(corner int) uint32 {
			key := vertexKey{v: f.Vertices[corner], t: -1, n: -1}
			if corner < len(f.Uvs) {
				key.t = f.Uvs[corner]
			}
			if corner < len(f.Normals) {
				key.n = f.Normals[corner]
			}
			if idx, ok := seen[key]; ok {
				return idx
			}

			pos, _ := vec3At(vertices, key.v)
			var uv mgl32.Vec2
			if key.t >= 0 && 2*key.t+1 < len(uvs) {
				uv = mgl32.Vec2{uvs[2*key.t], uvs[2*key.t+1]}
			}
			normal, ok := vec3At(normals, key.n)
			if !ok {
				normal = faceNormal
			}

			idx := uint32(len(m.Positions))
			m.Positions = append(m.Positions, pos)
			m.UVs = append(m.UVs, uv)
			m.Normals = append(m.Normals, normal)
			seen[key] = idx
			return idx
		}

		first := index(0)
		for i := 1; i+1 < len(f.Vertices); i++ {
			if _, ok := vec3At(vertices, f.Vertices[i+1]); !ok {
				break
			}
			m.Indices = append(m.Indices, first, index(i), index(i+1))
		}
	}
	return m
}
