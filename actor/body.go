package actor

import "github.com/go-gl/mathgl/mgl64"

// Layer is a collision layer bitmask. Two bodies are eligible for testing
// when their layers share at least one bit.
type Layer uint32

const LayerDefault Layer = 1

// Body is a rigid body as seen by the collision kernel: a placement, an
// optional bounding volume and a handful of identity flags. The kernel
// borrows bodies read-only; it never mutates them during a query.
type Body struct {
	Name    string
	WorldID int
	Layer   Layer
	Trigger bool
	Active  bool

	Transform Transform
	Volume    Volume

	broadphaseAABB mgl64.Vec3
}

// NewBody creates an active body on the default layer with no world ID
// assigned yet.
func NewBody(name string, transform Transform, volume Volume) *Body {
	b := &Body{
		Name:      name,
		WorldID:   -1,
		Layer:     LayerDefault,
		Active:    true,
		Transform: transform,
		Volume:    volume,
	}
	b.UpdateBroadphaseAABB()
	return b
}

// VolumePosition is the world-space center of the body's volume.
func (b *Body) VolumePosition() mgl64.Vec3 {
	return b.Transform.Position.Add(b.Volume.LocalOffset())
}

// UpdateBroadphaseAABB recomputes the conservative axis-aligned envelope.
// Call it whenever the body's volume or orientation changes; the broad
// phase consumes only this envelope, so false positives there are expected
// and resolved by the narrow phase.
func (b *Body) UpdateBroadphaseAABB() {
	if b.Volume == nil {
		return
	}
	b.broadphaseAABB = b.Volume.BroadphaseExtents(b.Transform.Rotation)
}

// BroadphaseAABB returns the cached envelope half-extents. The second
// return is false when the body carries no volume.
func (b *Body) BroadphaseAABB() (mgl64.Vec3, bool) {
	if b.Volume == nil {
		return mgl64.Vec3{}, false
	}
	return b.broadphaseAABB, true
}
