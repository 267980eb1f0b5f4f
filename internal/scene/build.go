package scene

import (
	"log/slog"

	"scene-viewer/internal/graphics"
	"scene-viewer/pkg/scenefile"

	"cogentcore.org/core/base/errors"
)

// FromDescriptors creates one described, positioned mesh per descriptor,
// preserving order.
func FromDescriptors(ds []scenefile.Descriptor) []*Mesh {
	meshes := make([]*Mesh, 0, len(ds))
	for _, d := range ds {
		m := NewMesh()
		m.Describe(d.Name, d.Model, d.Texture, d.Specular)
		m.SetTranslation(d.Position)
		meshes = append(meshes, m)
	}
	return meshes
}

// LoadAll loads every mesh. Failures are logged per object and leave that
// mesh not ready; the rest still load. It returns the number of ready
// meshes.
func LoadAll(meshes []*Mesh, loader AssetLoader, dev graphics.Device) int {
	ready := 0
	for _, m := range meshes {
		if errors.Log(m.Load(loader, dev)) != nil {
			continue
		}
		ready++
	}
	slog.Info("scene loaded", "objects", len(meshes), "ready", ready)
	return ready
}
