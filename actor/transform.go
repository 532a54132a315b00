package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a body's placement in world space.
// Scale only participates in derived constructions (debug rendering,
// scaled render meshes); the intersection tests never read it.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}
