package quill

import (
	"math"

	"github.com/akmonengine/quill/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line from Origin along Direction. Direction must be unit
// length for the reported hit distances to be meaningful.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// PointAt returns the point at parameter t along the ray.
func (r Ray) PointAt(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// RayHit is the result of a successful ray test. It is only valid when the
// producing test returned true; on failure it is left untouched.
type RayHit struct {
	Point    mgl64.Vec3
	Distance float64
}

// Plane satisfies Normal·p + Distance = 0 for every point p on the plane.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

// PlaneFromPoints builds the plane through three non-collinear points.
func PlaneFromPoints(a, b, c mgl64.Vec3) Plane {
	normal := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return Plane{Normal: normal, Distance: -normal.Dot(a)}
}

// PointOnPlane returns the plane point closest to the origin.
func (p Plane) PointOnPlane() mgl64.Vec3 {
	return p.Normal.Mul(-p.Distance)
}

// RayPlane intersects a ray with an infinite plane. It fails when the ray
// direction is perpendicular to the plane normal.
func (d *Detector) RayPlane(ray Ray, plane Plane, hit *RayHit) bool {
	ln := plane.Normal.Dot(ray.Direction)
	if ln == 0 {
		return false
	}

	pointDir := plane.PointOnPlane().Sub(ray.Origin)
	t := pointDir.Dot(plane.Normal) / ln

	hit.Point = ray.PointAt(t)
	hit.Distance = t
	return true
}

// RayBox intersects a ray with an axis-aligned box given by its center and
// half-extents. Per axis it selects the near slab boundary from the sign of
// the direction component; the entry parameter is the maximum of the three
// candidates, since the ray is only inside the box once it has entered all
// three slabs. Axes with a zero direction component are left unconstrained.
func (d *Detector) RayBox(ray Ray, boxPos, boxSize mgl64.Vec3, hit *RayHit) bool {
	boxMin := boxPos.Sub(boxSize)
	boxMax := boxPos.Add(boxSize)

	tVals := mgl64.Vec3{-1, -1, -1}
	for i := 0; i < 3; i++ {
		if ray.Direction[i] > 0 {
			tVals[i] = (boxMin[i] - ray.Origin[i]) / ray.Direction[i]
		} else if ray.Direction[i] < 0 {
			tVals[i] = (boxMax[i] - ray.Origin[i]) / ray.Direction[i]
		}
	}

	bestT := math.Max(tVals[0], math.Max(tVals[1], tVals[2]))
	if bestT < 0 {
		// Box entirely behind the ray.
		return false
	}

	intersection := ray.PointAt(bestT)
	epsilon := d.Config.BoxBoundaryEpsilon
	for i := 0; i < 3; i++ {
		if intersection[i]+epsilon < boxMin[i] || intersection[i]-epsilon > boxMax[i] {
			return false
		}
	}

	hit.Point = intersection
	hit.Distance = bestT
	return true
}

// RayAABB intersects a ray with a body-placed axis-aligned box.
func (d *Detector) RayAABB(ray Ray, transform actor.Transform, volume actor.AABB, hit *RayHit) bool {
	boxPos := transform.Position.Add(volume.Offset)
	return d.RayBox(ray, boxPos, volume.HalfExtents, hit)
}

// RayOBB rotates the ray into the box's local frame, runs the axis-aligned
// test there and rotates the hit point back to world space.
func (d *Detector) RayOBB(ray Ray, transform actor.Transform, volume actor.OBB, hit *RayHit) bool {
	orientation := transform.Rotation
	invOrientation := orientation.Conjugate()
	position := transform.Position.Add(volume.Offset)

	localRay := Ray{
		Origin:    invOrientation.Rotate(ray.Origin.Sub(position)),
		Direction: invOrientation.Rotate(ray.Direction),
	}

	if !d.RayBox(localRay, mgl64.Vec3{}, volume.HalfExtents, hit) {
		return false
	}
	hit.Point = orientation.Rotate(hit.Point).Add(position)
	return true
}

// RaySphere projects the sphere center onto the ray, rejects when the
// projection is behind the origin or the perpendicular distance exceeds the
// radius, and recovers the near intersection from the chord length.
func (d *Detector) RaySphere(ray Ray, spherePos mgl64.Vec3, radius float64, hit *RayHit) bool {
	dir := spherePos.Sub(ray.Origin)

	sphereProj := dir.Dot(ray.Direction)
	if sphereProj < 0 {
		return false
	}

	point := ray.PointAt(sphereProj)
	sphereDist := point.Sub(spherePos).Len()
	if sphereDist > radius {
		return false
	}

	offset := math.Sqrt(radius*radius - sphereDist*sphereDist)

	hit.Distance = sphereProj - offset
	hit.Point = ray.PointAt(hit.Distance)
	return true
}

// RayCapsule approximates the capsule as a sphere swept along its core
// segment: it intersects the ray with the plane spanned by the capsule axis
// and the ray origin, clamps that point onto the core segment to find the
// nearest cross-section center, and finishes with a sphere test there. The
// result is exact wherever the nearest capsule surface is the cylindrical
// body or a cap, and degrades when the ray runs near-parallel to the
// constructed plane.
func (d *Detector) RayCapsule(ray Ray, transform actor.Transform, volume actor.Capsule, hit *RayHit) bool {
	top, bottom := volume.CapSegment(transform)
	center := transform.Position.Add(volume.Offset)

	capsuleDir := top.Sub(bottom)
	toOrigin := ray.Origin.Sub(center)
	side := center.Add(capsuleDir.Cross(toOrigin).Normalize())

	capPlane := PlaneFromPoints(top, bottom, side)
	var planeHit RayHit
	if !d.RayPlane(ray, capPlane, &planeHit) {
		return false
	}

	lineLength := capsuleDir.Len()
	axis := capsuleDir.Normalize()

	along := mgl64.Clamp(planeHit.Point.Sub(bottom).Dot(axis), 0, lineLength)
	spherePos := bottom.Add(axis.Mul(along))

	return d.RaySphere(ray, spherePos, volume.Radius, hit)
}

// RayBody dispatches on the body's volume variant. It fails when the body
// carries no volume.
func (d *Detector) RayBody(ray Ray, body *actor.Body, hit *RayHit) bool {
	if body.Volume == nil {
		return false
	}

	transform := body.Transform
	switch volume := body.Volume.(type) {
	case actor.AABB:
		return d.RayAABB(ray, transform, volume, hit)
	case actor.OBB:
		return d.RayOBB(ray, transform, volume, hit)
	case actor.Sphere:
		return d.RaySphere(ray, transform.Position.Add(volume.Offset), volume.Radius, hit)
	case actor.Capsule:
		return d.RayCapsule(ray, transform, volume, hit)
	}
	return false
}
