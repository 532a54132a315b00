package quill

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is the read-only camera state the picking subsystem consumes.
// Yaw, Pitch and FOV are in degrees; FOV is the vertical field of view.
type Camera struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
	FOV      float64
	Near     float64
	Far      float64
}

// Viewport is the screen-size provider, in pixels.
type Viewport struct {
	Width  float64
	Height float64
}

func (v Viewport) Aspect() float64 {
	return v.Width / v.Height
}

// InverseProjection builds the inverse of the standard perspective
// projection in closed form, avoiding a general 4x4 inversion.
// Construction after http://bookofhook.com/mousepick.pdf.
func InverseProjection(aspect, fov, near, far float64) mgl64.Mat4 {
	t := math.Tan(fov * math.Pi / 360)
	negDepth := near - far

	c := (far + near) / negDepth
	e := -1.0
	d := 2 * near * far / negDepth

	var m mgl64.Mat4
	m[0] = aspect * t
	m[5] = t
	m[10] = 0
	m[11] = 1 / d
	m[14] = 1 / e
	m[15] = -c / (d * e)
	return m
}

// InverseView reconstructs the inverse of the camera's view transform in
// closed form: the view matrix is built from negated position, yaw and
// pitch applied in one order, so its inverse is the un-negated factors in
// the opposite order.
func InverseView(cam Camera) mgl64.Mat4 {
	return mgl64.Translate3D(cam.Position.X(), cam.Position.Y(), cam.Position.Z()).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(cam.Yaw))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(cam.Pitch)))
}

// ViewMatrix is the forward view transform matching InverseView.
func ViewMatrix(cam Camera) mgl64.Mat4 {
	return mgl64.HomogRotate3DX(mgl64.DegToRad(-cam.Pitch)).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(-cam.Yaw))).
		Mul4(mgl64.Translate3D(-cam.Position.X(), -cam.Position.Y(), -cam.Position.Z()))
}

// ProjectionMatrix is the forward perspective projection matching
// InverseProjection.
func ProjectionMatrix(aspect, fov, near, far float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(fov), aspect, near, far)
}

// Unproject maps a screen coordinate (x, y in pixels, z a clip-range depth)
// back to world space through the inverse view-projection, applying the
// perspective divide by the resulting homogeneous w. For any point inside
// the frustum, Project(Unproject(p)) recovers p within fp tolerance.
func Unproject(screenPos mgl64.Vec3, cam Camera, viewport Viewport) mgl64.Vec3 {
	invVP := InverseView(cam).Mul4(InverseProjection(viewport.Aspect(), cam.FOV, cam.Near, cam.Far))

	clipSpace := mgl64.Vec4{
		(screenPos.X()/viewport.Width)*2 - 1,
		(screenPos.Y()/viewport.Height)*2 - 1,
		screenPos.Z(),
		1,
	}

	transformed := invVP.Mul4x1(clipSpace)

	w := transformed.W()
	return mgl64.Vec3{transformed.X() / w, transformed.Y() / w, transformed.Z() / w}
}

// Project maps a world-space point to screen space (x, y in pixels, z the
// normalized depth), the forward counterpart of Unproject.
func Project(worldPos mgl64.Vec3, cam Camera, viewport Viewport) mgl64.Vec3 {
	vp := ProjectionMatrix(viewport.Aspect(), cam.FOV, cam.Near, cam.Far).Mul4(ViewMatrix(cam))

	clip := vp.Mul4x1(worldPos.Vec4(1))
	w := clip.W()

	return mgl64.Vec3{
		(clip.X()/w + 1) / 2 * viewport.Width,
		(clip.Y()/w + 1) / 2 * viewport.Height,
		clip.Z() / w,
	}
}

// BuildPickingRay unprojects the screen point at depths just inside the
// clip range (the exact boundaries degenerate the perspective divide),
// flipping Y to the renderer's bottom-left origin, and returns a unit ray
// from the camera through the scene.
func BuildPickingRay(screenX, screenY float64, cam Camera, viewport Viewport) Ray {
	nearPos := mgl64.Vec3{screenX, viewport.Height - screenY, -0.99999}
	farPos := mgl64.Vec3{screenX, viewport.Height - screenY, 0.99999}

	a := Unproject(nearPos, cam, viewport)
	b := Unproject(farPos, cam, viewport)

	return Ray{
		Origin:    cam.Position,
		Direction: b.Sub(a).Normalize(),
	}
}
