package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// VolumeType identifies the concrete variant held by a Volume.
type VolumeType int

const (
	VolumeTypeAABB VolumeType = iota
	VolumeTypeOBB
	VolumeTypeSphere
	VolumeTypeCapsule
)

// Volume is the bounding volume attached to a body. The concrete types are
// plain immutable values; intersection code recovers them with a type switch,
// so every shape pair is matched exhaustively and no casts are needed.
type Volume interface {
	// Type returns the variant tag, useful for logging and table lookups.
	Type() VolumeType
	// LocalOffset is the volume's translation from the body origin.
	LocalOffset() mgl64.Vec3
	// BroadphaseExtents returns conservative axis-aligned half-extents for
	// the volume under the given world rotation. The broad phase consumes
	// only this envelope, never the precise shape.
	BroadphaseExtents(rotation mgl64.Quat) mgl64.Vec3
}

// AABB is an axis-aligned box defined by half-extents along the world axes.
type AABB struct {
	HalfExtents mgl64.Vec3
	Offset      mgl64.Vec3
}

func (a AABB) Type() VolumeType { return VolumeTypeAABB }
func (a AABB) LocalOffset() mgl64.Vec3 { return a.Offset }

func (a AABB) BroadphaseExtents(rotation mgl64.Quat) mgl64.Vec3 {
	return a.HalfExtents
}

// OBB is an oriented box: an AABB that follows the body's rotation.
type OBB struct {
	HalfExtents mgl64.Vec3
	Offset      mgl64.Vec3
}

func (o OBB) Type() VolumeType { return VolumeTypeOBB }
func (o OBB) LocalOffset() mgl64.Vec3 { return o.Offset }

func (o OBB) BroadphaseExtents(rotation mgl64.Quat) mgl64.Vec3 {
	return absMat3(rotation).Mul3x1(o.HalfExtents)
}

// Sphere is a ball of the given radius around the body origin plus offset.
type Sphere struct {
	Radius float64
	Offset mgl64.Vec3
}

func (s Sphere) Type() VolumeType { return VolumeTypeSphere }
func (s Sphere) LocalOffset() mgl64.Vec3 { return s.Offset }

func (s Sphere) BroadphaseExtents(rotation mgl64.Quat) mgl64.Vec3 {
	return mgl64.Vec3{s.Radius, s.Radius, s.Radius}
}

// Capsule is a sphere swept along the body's local Y axis. HalfHeight is
// measured from the center to the tip, so the swept core segment has
// half-length HalfHeight - Radius.
type Capsule struct {
	Radius     float64
	HalfHeight float64
	Offset     mgl64.Vec3
}

func (c Capsule) Type() VolumeType { return VolumeTypeCapsule }
func (c Capsule) LocalOffset() mgl64.Vec3 { return c.Offset }

func (c Capsule) BroadphaseExtents(rotation mgl64.Quat) mgl64.Vec3 {
	return absMat3(rotation).Mul3x1(mgl64.Vec3{c.Radius, c.HalfHeight, c.Radius})
}

// CapSegment returns the world-space centers of the capsule's two cap
// spheres for a body placed at the given transform.
func (c Capsule) CapSegment(t Transform) (top, bottom mgl64.Vec3) {
	center := t.Position.Add(c.Offset)
	ext := t.Rotation.Rotate(mgl64.Vec3{0, 1, 0}).Mul(c.HalfHeight - c.Radius)
	return center.Add(ext), center.Sub(ext)
}

// NearestCenter maps an external point to the center of the capsule's
// nearest cross-section, i.e. the closest point on the swept core segment.
func (c Capsule) NearestCenter(t Transform, point mgl64.Vec3) mgl64.Vec3 {
	top, bottom := c.CapSegment(t)
	return ClosestPointOnSegment(bottom, top, point)
}

// ClosestPointOnSegment returns the point of segment ab closest to point.
func ClosestPointOnSegment(a, b, point mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	t := point.Sub(a).Dot(ab) / ab.Dot(ab)
	return a.Add(ab.Mul(mgl64.Clamp(t, 0, 1)))
}

// absMat3 is the component-wise absolute value of the rotation matrix,
// the standard bound for an axis-aligned envelope of a rotated shape.
func absMat3(rotation mgl64.Quat) mgl64.Mat3 {
	m := rotation.Mat4().Mat3()
	for i := range m {
		m[i] = math.Abs(m[i])
	}
	return m
}
