package scene

import "github.com/go-gl/mathgl/mgl32"

// Light is a point light. Colors are not clamped.
type Light struct {
	Position mgl32.Vec3
	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
}

// NewLight returns a light at (0,10,0) with mid-grey components.
func NewLight() *Light {
	return &Light{
		Position: mgl32.Vec3{0, 10, 0},
		Ambient:  mgl32.Vec3{0.5, 0.5, 0.5},
		Diffuse:  mgl32.Vec3{0.5, 0.5, 0.5},
		Specular: mgl32.Vec3{0.5, 0.5, 0.5},
	}
}

func (l *Light) SetPosition(v mgl32.Vec3) { l.Position = v }
func (l *Light) SetAmbient(v mgl32.Vec3)  { l.Ambient = v }
func (l *Light) SetDiffuse(v mgl32.Vec3)  { l.Diffuse = v }
func (l *Light) SetSpecular(v mgl32.Vec3) { l.Specular = v }
