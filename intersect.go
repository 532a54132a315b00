package quill

import (
	"math"

	"github.com/akmonengine/quill/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Intersect runs the narrow-phase test for a body pair and, on collision,
// fills contact with the single contact record for the pair. The argument
// order is preserved in the record unless the shape combination forces a
// canonical role order; in that case BodyA/BodyB and LocalA/LocalB are
// swapped together, so each local point stays attached to its own body.
// On failure the contact is left unmodified and must not be read.
func (d *Detector) Intersect(a, b *actor.Body, contact *Contact) bool {
	if a.Volume == nil || b.Volume == nil {
		return false
	}

	switch va := a.Volume.(type) {
	case actor.AABB:
		switch vb := b.Volume.(type) {
		case actor.AABB:
			return d.aabbAABB(a, va, b, vb, contact)
		case actor.Sphere:
			return d.aabbSphere(a, va, b, vb, false, contact)
		case actor.OBB:
			return d.obbOBB(a, zeroRotation(a.Transform), actor.OBB(va), b, b.Transform, vb, contact)
		case actor.Capsule:
			return d.capsuleAABB(b, vb, a, va, contact)
		}
	case actor.Sphere:
		switch vb := b.Volume.(type) {
		case actor.AABB:
			return d.aabbSphere(b, vb, a, va, false, contact)
		case actor.Sphere:
			return d.sphereSphere(a, va, b, vb, contact)
		case actor.OBB:
			return d.sphereOBB(a, va, b, vb, contact)
		case actor.Capsule:
			return d.capsuleSphere(b, vb, a, va, contact)
		}
	case actor.OBB:
		switch vb := b.Volume.(type) {
		case actor.AABB:
			return d.obbOBB(a, a.Transform, va, b, zeroRotation(b.Transform), actor.OBB(vb), contact)
		case actor.Sphere:
			return d.sphereOBB(b, vb, a, va, contact)
		case actor.OBB:
			return d.obbOBB(a, a.Transform, va, b, b.Transform, vb, contact)
		case actor.Capsule:
			return d.capsuleOBB(b, vb, a, va, contact)
		}
	case actor.Capsule:
		switch vb := b.Volume.(type) {
		case actor.AABB:
			return d.capsuleAABB(a, va, b, vb, contact)
		case actor.Sphere:
			return d.capsuleSphere(a, va, b, vb, contact)
		case actor.OBB:
			return d.capsuleOBB(a, va, b, vb, contact)
		case actor.Capsule:
			return d.capsuleCapsule(a, va, b, vb, contact)
		}
	}
	return false
}

// AABBOverlap reports whether two axis-aligned boxes overlap: per axis the
// center distance must be below the summed half-extents. Symmetric in A/B.
func AABBOverlap(posA, posB, halfA, halfB mgl64.Vec3) bool {
	delta := posB.Sub(posA)
	total := halfA.Add(halfB)

	return math.Abs(delta.X()) < total.X() &&
		math.Abs(delta.Y()) < total.Y() &&
		math.Abs(delta.Z()) < total.Z()
}

var boxFaces = [6]mgl64.Vec3{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

// aabbAABB resolves an overlapping box pair along the face axis needing the
// least separation (minimum translation vector). The contact points are not
// located precisely; both locals are left at the volume origin.
func (d *Detector) aabbAABB(a *actor.Body, va actor.AABB, b *actor.Body, vb actor.AABB, contact *Contact) bool {
	boxAPos := a.Transform.Position.Add(va.Offset)
	boxBPos := b.Transform.Position.Add(vb.Offset)

	if !AABBOverlap(boxAPos, boxBPos, va.HalfExtents, vb.HalfExtents) {
		return false
	}

	maxA := boxAPos.Add(va.HalfExtents)
	minA := boxAPos.Sub(va.HalfExtents)
	maxB := boxBPos.Add(vb.HalfExtents)
	minB := boxBPos.Sub(vb.HalfExtents)

	// Distance each box face would have to travel along its axis for the
	// overlap to vanish; the smallest wins.
	distances := [6]float64{
		maxB.X() - minA.X(),
		maxA.X() - minB.X(),
		maxB.Y() - minA.Y(),
		maxA.Y() - minB.Y(),
		maxB.Z() - minA.Z(),
		maxA.Z() - minB.Z(),
	}

	penetration := math.MaxFloat64
	var bestAxis mgl64.Vec3
	for i, dist := range distances {
		if dist < penetration {
			penetration = dist
			bestAxis = boxFaces[i]
		}
	}

	contact.BodyA, contact.BodyB = a, b
	contact.LocalA = mgl64.Vec3{}
	contact.LocalB = mgl64.Vec3{}
	contact.Normal = bestAxis
	contact.Penetration = penetration
	return true
}

// sphereSphereContact is the raw point/radius reduction shared by every
// handler that ends in a sphere pair. The normal points from a toward b.
func sphereSphereContact(posA mgl64.Vec3, radiusA float64, posB mgl64.Vec3, radiusB float64) (normal mgl64.Vec3, penetration float64, ok bool) {
	radii := radiusA + radiusB
	delta := posB.Sub(posA)

	deltaLength := delta.Len()
	if deltaLength >= radii {
		return mgl64.Vec3{}, 0, false
	}
	return delta.Normalize(), radii - deltaLength, true
}

func (d *Detector) sphereSphere(a *actor.Body, va actor.Sphere, b *actor.Body, vb actor.Sphere, contact *Contact) bool {
	posA := a.Transform.Position.Add(va.Offset)
	posB := b.Transform.Position.Add(vb.Offset)

	normal, penetration, ok := sphereSphereContact(posA, va.Radius, posB, vb.Radius)
	if !ok {
		return false
	}

	contact.BodyA, contact.BodyB = a, b
	contact.LocalA = normal.Mul(va.Radius)
	contact.LocalB = normal.Mul(-vb.Radius)
	contact.Normal = normal
	contact.Penetration = penetration
	return true
}

// boxSphereContact clamps the sphere center onto the box to find the
// closest surface point; the remaining offset against the radius decides
// the collision. The normal points from the box toward the sphere, and
// boxPoint is the contact point relative to the box center.
func boxSphereContact(boxPos, boxSize, spherePos mgl64.Vec3, radius float64) (normal mgl64.Vec3, penetration float64, boxPoint mgl64.Vec3, ok bool) {
	delta := spherePos.Sub(boxPos)

	closest := clampVec(delta, boxSize.Mul(-1), boxSize)
	localPoint := delta.Sub(closest)

	distance := localPoint.Len()
	if distance >= radius {
		return mgl64.Vec3{}, 0, mgl64.Vec3{}, false
	}
	return localPoint.Normalize(), radius - distance, closest, true
}

// aabbSphere takes the box in the A role. useBoxPoint selects the exact box
// surface point for LocalA; plain AABB-sphere queries historically report
// the box origin, while the OBB and capsule reductions need the real point.
func (d *Detector) aabbSphere(a *actor.Body, va actor.AABB, b *actor.Body, vb actor.Sphere, useBoxPoint bool, contact *Contact) bool {
	boxPos := a.Transform.Position.Add(va.Offset)
	spherePos := b.Transform.Position.Add(vb.Offset)

	normal, penetration, boxPoint, ok := boxSphereContact(boxPos, va.HalfExtents, spherePos, vb.Radius)
	if !ok {
		return false
	}

	contact.BodyA, contact.BodyB = a, b
	if useBoxPoint {
		contact.LocalA = boxPoint
	} else {
		contact.LocalA = mgl64.Vec3{}
	}
	contact.LocalB = normal.Mul(-vb.Radius)
	contact.Normal = normal
	contact.Penetration = penetration
	return true
}

// obbSupport returns the box vertex farthest along worldDir, selected per
// component by the sign of the direction in the box's local frame.
func obbSupport(transform actor.Transform, volume actor.OBB, worldDir mgl64.Vec3) mgl64.Vec3 {
	localDir := transform.Rotation.Conjugate().Rotate(worldDir)

	vertex := volume.HalfExtents
	for i := 0; i < 3; i++ {
		if localDir[i] < 0 {
			vertex[i] = -vertex[i]
		}
	}

	return transform.Position.Add(volume.Offset).Add(transform.Rotation.Rotate(vertex))
}

// obbOBB is the 15-axis separating-axis test: both boxes' local axes plus
// the nine pairwise edge cross products. Cross-product axes from
// near-parallel edges fall below the configured squared-length threshold
// and are skipped as numerically unstable. The contact is a single
// approximate vertex pair on the minimum-penetration axis, not a clipped
// manifold. Transforms are passed explicitly so an AABB participant can run
// with its rotation zeroed.
func (d *Detector) obbOBB(a *actor.Body, transformA actor.Transform, va actor.OBB, b *actor.Body, transformB actor.Transform, vb actor.OBB, contact *Contact) bool {
	axesA := [3]mgl64.Vec3{
		transformA.Rotation.Rotate(mgl64.Vec3{1, 0, 0}),
		transformA.Rotation.Rotate(mgl64.Vec3{0, 1, 0}),
		transformA.Rotation.Rotate(mgl64.Vec3{0, 0, 1}),
	}
	axesB := [3]mgl64.Vec3{
		transformB.Rotation.Rotate(mgl64.Vec3{1, 0, 0}),
		transformB.Rotation.Rotate(mgl64.Vec3{0, 1, 0}),
		transformB.Rotation.Rotate(mgl64.Vec3{0, 0, 1}),
	}

	directions := [15]mgl64.Vec3{
		axesA[0], axesA[1], axesA[2],
		axesB[0], axesB[1], axesB[2],
		axesA[0].Cross(axesB[0]), axesA[0].Cross(axesB[1]), axesA[0].Cross(axesB[2]),
		axesA[1].Cross(axesB[0]), axesA[1].Cross(axesB[1]), axesA[1].Cross(axesB[2]),
		axesA[2].Cross(axesB[0]), axesA[2].Cross(axesB[1]), axesA[2].Cross(axesB[2]),
	}

	leastPenetration := math.MaxFloat64
	var bestNormal, bestPointA, bestPointB mgl64.Vec3

	for _, direction := range directions {
		if direction.Dot(direction) < d.Config.ParallelAxisThreshold {
			continue
		}
		axis := direction.Normalize()

		// Extreme vertices of both boxes along the axis.
		maxVertexA := obbSupport(transformA, va, axis)
		minVertexA := obbSupport(transformA, va, axis.Mul(-1))
		maxVertexB := obbSupport(transformB, vb, axis)
		minVertexB := obbSupport(transformB, vb, axis.Mul(-1))

		minA := minVertexA.Dot(axis)
		maxA := maxVertexA.Dot(axis)
		minB := minVertexB.Dot(axis)
		maxB := maxVertexB.Dot(axis)

		overlap := math.Min(maxA, maxB) - math.Max(minA, minB)
		if overlap < 0 {
			// Separating axis found; the pair cannot intersect.
			return false
		}

		if overlap < leastPenetration {
			leastPenetration = overlap
			if minB+maxB >= minA+maxA {
				// B sits on the positive side of A along this axis.
				bestNormal = axis
				bestPointA = maxVertexA
				bestPointB = minVertexB
			} else {
				bestNormal = axis.Mul(-1)
				bestPointA = minVertexA
				bestPointB = maxVertexB
			}
		}
	}

	contact.BodyA, contact.BodyB = a, b
	contact.LocalA = bestPointA.Sub(transformA.Position.Add(va.Offset))
	contact.LocalB = bestPointB.Sub(transformB.Position.Add(vb.Offset))
	contact.Normal = bestNormal
	contact.Penetration = leastPenetration
	return true
}

// capsuleCapsule picks a reference endpoint on A (the end farther from both
// of B's endpoints), finds the closest point on B's segment to it, refines
// back onto A's segment and reduces to a sphere pair at the two points.
func (d *Detector) capsuleCapsule(a *actor.Body, va actor.Capsule, b *actor.Body, vb actor.Capsule, contact *Contact) bool {
	topA, bottomA := va.CapSegment(a.Transform)
	topB, bottomB := vb.CapSegment(b.Transform)

	v0 := bottomB.Sub(bottomA)
	v1 := topB.Sub(bottomA)
	v2 := bottomB.Sub(topA)
	v3 := topB.Sub(topA)

	d0 := v0.Dot(v0)
	d1 := v1.Dot(v1)
	d2 := v2.Dot(v2)
	d3 := v3.Dot(v3)

	bestA := bottomA
	if d2 < d0 || d2 < d1 || d3 < d0 || d3 < d1 {
		bestA = topA
	}

	bestB := actor.ClosestPointOnSegment(bottomB, topB, bestA)
	bestA = actor.ClosestPointOnSegment(bottomA, topA, bestB)

	normal, penetration, ok := sphereSphereContact(bestA, va.Radius, bestB, vb.Radius)
	if !ok {
		return false
	}

	contact.BodyA, contact.BodyB = a, b
	contact.LocalA = normal.Mul(va.Radius).Add(bestA.Sub(a.Transform.Position.Add(va.Offset)))
	contact.LocalB = normal.Mul(-vb.Radius).Add(bestB.Sub(b.Transform.Position.Add(vb.Offset)))
	contact.Normal = normal
	contact.Penetration = penetration
	return true
}

// orientedBoxSphere runs the box/sphere reduction in the OBB's local frame
// and rotates the result back. The sphere takes the A role; LocalA is
// relative to sphereCenter so callers substituting a derived sphere (the
// capsule reductions) can re-anchor it.
func (d *Detector) orientedBoxSphere(sphereCenter mgl64.Vec3, radius float64, b *actor.Body, vb actor.OBB, contact *Contact) bool {
	rotation := b.Transform.Rotation
	obbCenter := b.Transform.Position.Add(vb.Offset)

	localSphere := rotation.Conjugate().Rotate(sphereCenter.Sub(obbCenter))

	localNormal, penetration, boxPoint, ok := boxSphereContact(mgl64.Vec3{}, vb.HalfExtents, localSphere, radius)
	if !ok {
		return false
	}

	// boxSphereContact reports box→sphere; the sphere holds the A role here.
	normal := rotation.Rotate(localNormal).Mul(-1)

	contact.LocalA = normal.Mul(radius)
	contact.LocalB = rotation.Rotate(boxPoint)
	contact.Normal = normal
	contact.Penetration = penetration
	return true
}

func (d *Detector) sphereOBB(a *actor.Body, va actor.Sphere, b *actor.Body, vb actor.OBB, contact *Contact) bool {
	sphereCenter := a.Transform.Position.Add(va.Offset)

	if !d.orientedBoxSphere(sphereCenter, va.Radius, b, vb, contact) {
		return false
	}
	contact.BodyA, contact.BodyB = a, b
	return true
}

// capsuleOBB clamps the capsule position, expressed in the OBB's local
// frame, onto the box extents to pick a reference point, maps the capsule's
// nearest cross-section center to it and reduces to sphere/OBB.
func (d *Detector) capsuleOBB(a *actor.Body, va actor.Capsule, b *actor.Body, vb actor.OBB, contact *Contact) bool {
	capsuleCenter := a.Transform.Position.Add(va.Offset)
	obbCenter := b.Transform.Position.Add(vb.Offset)
	rotation := b.Transform.Rotation

	local := rotation.Conjugate().Rotate(capsuleCenter.Sub(obbCenter))
	clamped := clampVec(local, vb.HalfExtents.Mul(-1), vb.HalfExtents)
	point := obbCenter.Add(rotation.Rotate(clamped))

	spherePos := va.NearestCenter(a.Transform, point)

	if !d.orientedBoxSphere(spherePos, va.Radius, b, vb, contact) {
		return false
	}

	contact.BodyA, contact.BodyB = a, b
	contact.LocalA = contact.LocalA.Add(spherePos.Sub(capsuleCenter))
	return true
}

// capsuleSphere maps the sphere center onto the capsule's core segment and
// reduces to a sphere pair.
func (d *Detector) capsuleSphere(a *actor.Body, va actor.Capsule, b *actor.Body, vb actor.Sphere, contact *Contact) bool {
	spherePos := b.Transform.Position.Add(vb.Offset)
	bestA := va.NearestCenter(a.Transform, spherePos)

	normal, penetration, ok := sphereSphereContact(bestA, va.Radius, spherePos, vb.Radius)
	if !ok {
		return false
	}

	contact.BodyA, contact.BodyB = a, b
	contact.LocalA = normal.Mul(va.Radius).Add(bestA.Sub(a.Transform.Position.Add(va.Offset)))
	contact.LocalB = normal.Mul(-vb.Radius)
	contact.Normal = normal
	contact.Penetration = penetration
	return true
}

// capsuleAABB clamps the capsule position into the box to pick a reference
// point, maps the nearest cross-section center to it and reduces to the
// box/sphere test.
func (d *Detector) capsuleAABB(a *actor.Body, va actor.Capsule, b *actor.Body, vb actor.AABB, contact *Contact) bool {
	capsuleCenter := a.Transform.Position.Add(va.Offset)
	boxCenter := b.Transform.Position.Add(vb.Offset)

	point := clampVec(capsuleCenter, boxCenter.Sub(vb.HalfExtents), boxCenter.Add(vb.HalfExtents))
	spherePos := va.NearestCenter(a.Transform, point)

	boxNormal, penetration, boxPoint, ok := boxSphereContact(boxCenter, vb.HalfExtents, spherePos, va.Radius)
	if !ok {
		return false
	}

	// boxSphereContact reports box→sphere; the capsule holds the A role.
	normal := boxNormal.Mul(-1)

	contact.BodyA, contact.BodyB = a, b
	contact.LocalA = normal.Mul(va.Radius).Add(spherePos.Sub(capsuleCenter))
	contact.LocalB = boxPoint
	contact.Normal = normal
	contact.Penetration = penetration
	return true
}

func zeroRotation(t actor.Transform) actor.Transform {
	t.Rotation = mgl64.QuatIdent()
	return t
}

func clampVec(v, min, max mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(v[0], min[0], max[0]),
		mgl64.Clamp(v[1], min[1], max[1]),
		mgl64.Clamp(v[2], min[2], max[2]),
	}
}
