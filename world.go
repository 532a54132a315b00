package quill

import (
	"github.com/akmonengine/quill/actor"
)

// World is a registry of bodies open to ray and pair queries. It owns world
// ID assignment (the canonical pair key builds on those IDs) but no
// simulation state: the kernel keeps nothing between calls.
type World struct {
	Bodies   []*actor.Body
	Detector *Detector

	nextWorldID int
}

// NewWorld creates an empty world with the given tolerances.
func NewWorld(cfg Config) *World {
	return &World{Detector: NewDetector(cfg)}
}

// AddBody registers a body and assigns it a unique world ID.
func (w *World) AddBody(body *actor.Body) {
	body.WorldID = w.nextWorldID
	w.nextWorldID++
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody unregisters a body. Its world ID is not reused.
func (w *World) RemoveBody(body *actor.Body) {
	for i, b := range w.Bodies {
		if b == body {
			w.Bodies = append(w.Bodies[:i], w.Bodies[i+1:]...)
			return
		}
	}
}

// Raycast scans every active body and returns the closest hit along the
// ray, if any.
func (w *World) Raycast(ray Ray) (RayHit, *actor.Body, bool) {
	var closest RayHit
	var closestBody *actor.Body

	for _, body := range w.Bodies {
		if !body.Active {
			continue
		}

		var hit RayHit
		if !w.Detector.RayBody(ray, body, &hit) {
			continue
		}
		if closestBody == nil || hit.Distance < closest.Distance {
			closest = hit
			closestBody = body
		}
	}

	return closest, closestBody, closestBody != nil
}

// PickBody casts a picking ray through a screen coordinate and returns the
// closest body it hits.
func (w *World) PickBody(screenX, screenY float64, cam Camera, viewport Viewport) (RayHit, *actor.Body, bool) {
	return w.Raycast(BuildPickingRay(screenX, screenY, cam, viewport))
}

// ShouldTest reports whether a candidate pair is worth a narrow-phase test:
// both bodies active, carrying volumes, distinct and sharing a layer bit.
func ShouldTest(a, b *actor.Body) bool {
	if a == b || a.Volume == nil || b.Volume == nil {
		return false
	}
	if !a.Active || !b.Active {
		return false
	}
	return a.Layer&b.Layer != 0
}
