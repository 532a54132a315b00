package quill

import (
	"testing"

	"github.com/akmonengine/quill/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func TestAddBodyAssignsWorldIDs(t *testing.T) {
	world := NewWorld(DefaultConfig())

	a := bodyAt("a", mgl64.Vec3{}, actor.Sphere{Radius: 1})
	b := bodyAt("b", mgl64.Vec3{}, actor.Sphere{Radius: 1})
	world.AddBody(a)
	world.AddBody(b)

	if a.WorldID != 0 || b.WorldID != 1 {
		t.Errorf("expected world IDs 0 and 1, got %d and %d", a.WorldID, b.WorldID)
	}
}

func TestRemoveBodyDoesNotReuseIDs(t *testing.T) {
	world := NewWorld(DefaultConfig())

	a := bodyAt("a", mgl64.Vec3{}, actor.Sphere{Radius: 1})
	b := bodyAt("b", mgl64.Vec3{}, actor.Sphere{Radius: 1})
	world.AddBody(a)
	world.RemoveBody(a)
	world.AddBody(b)

	if len(world.Bodies) != 1 || world.Bodies[0] != b {
		t.Fatalf("expected only body b to remain")
	}
	if b.WorldID != 1 {
		t.Errorf("expected the removed body's ID to stay retired, got %d", b.WorldID)
	}
}

func TestRaycastReturnsClosestHit(t *testing.T) {
	world := NewWorld(DefaultConfig())

	far := bodyAt("far", mgl64.Vec3{0, 0, 0}, actor.Sphere{Radius: 1})
	near := bodyAt("near", mgl64.Vec3{5, 0, 0}, actor.Sphere{Radius: 1})
	world.AddBody(far)
	world.AddBody(near)

	ray := Ray{Origin: mgl64.Vec3{10, 0, 0}, Direction: mgl64.Vec3{-1, 0, 0}}

	hit, body, ok := world.Raycast(ray)
	if !ok || body != near {
		t.Fatalf("expected to hit the near body")
	}
	if !floatEqual(hit.Distance, 4, 1e-9) || !vec3Equal(hit.Point, mgl64.Vec3{6, 0, 0}, 1e-9) {
		t.Errorf("expected hit at (6,0,0) distance 4, got %v distance %v", hit.Point, hit.Distance)
	}
}

func TestRaycastSkipsInactiveBodies(t *testing.T) {
	world := NewWorld(DefaultConfig())

	far := bodyAt("far", mgl64.Vec3{0, 0, 0}, actor.Sphere{Radius: 1})
	near := bodyAt("near", mgl64.Vec3{5, 0, 0}, actor.Sphere{Radius: 1})
	near.Active = false
	world.AddBody(far)
	world.AddBody(near)

	ray := Ray{Origin: mgl64.Vec3{10, 0, 0}, Direction: mgl64.Vec3{-1, 0, 0}}

	_, body, ok := world.Raycast(ray)
	if !ok || body != far {
		t.Fatalf("expected the inactive near body to be skipped")
	}
}

func TestPickBodyThroughScreenCenter(t *testing.T) {
	world := NewWorld(DefaultConfig())
	target := bodyAt("target", mgl64.Vec3{0, 0, -10}, actor.Sphere{Radius: 1})
	world.AddBody(target)

	cam := Camera{FOV: 45, Near: 0.1, Far: 100}
	viewport := Viewport{Width: 800, Height: 600}

	hit, body, ok := world.PickBody(400, 300, cam, viewport)
	if !ok || body != target {
		t.Fatalf("expected to pick the centered body")
	}
	if !floatEqual(hit.Distance, 9, 1e-6) {
		t.Errorf("expected distance 9, got %v", hit.Distance)
	}
}

func TestShouldTest(t *testing.T) {
	a := bodyAt("a", mgl64.Vec3{}, actor.Sphere{Radius: 1})
	b := bodyAt("b", mgl64.Vec3{}, actor.Sphere{Radius: 1})

	if !ShouldTest(a, b) {
		t.Errorf("expected two default bodies to qualify")
	}
	if ShouldTest(a, a) {
		t.Errorf("expected a body paired with itself to be rejected")
	}

	b.Active = false
	if ShouldTest(a, b) {
		t.Errorf("expected an inactive body to be rejected")
	}
	b.Active = true

	b.Layer = 1 << 4
	if ShouldTest(a, b) {
		t.Errorf("expected disjoint layers to be rejected")
	}
	a.Layer |= 1 << 4
	if !ShouldTest(a, b) {
		t.Errorf("expected a shared layer bit to qualify")
	}

	b.Volume = nil
	if ShouldTest(a, b) {
		t.Errorf("expected a body without a volume to be rejected")
	}
}

func TestDetectPairsDeduplicates(t *testing.T) {
	world := NewWorld(DefaultConfig())

	a := bodyAt("a", mgl64.Vec3{0, 0, 0}, actor.Sphere{Radius: 1})
	b := bodyAt("b", mgl64.Vec3{1.5, 0, 0}, actor.Sphere{Radius: 1})
	world.AddBody(a)
	world.AddBody(b)

	pairs := []Pair{
		{BodyA: a, BodyB: b},
		{BodyA: b, BodyB: a},
		{BodyA: a, BodyB: b},
	}

	contacts := world.Detector.DetectPairs(pairs, 4)
	if len(contacts) != 1 {
		t.Fatalf("expected one contact after deduplication, got %d", len(contacts))
	}
	if contacts[0].Pair() != MakePairKey(a, b) {
		t.Errorf("expected the contact to identify the a/b pair")
	}
}

func TestNarrowPhaseFiltersPairs(t *testing.T) {
	world := NewWorld(DefaultConfig())

	a := bodyAt("a", mgl64.Vec3{0, 0, 0}, actor.Sphere{Radius: 1})
	b := bodyAt("b", mgl64.Vec3{1.5, 0, 0}, actor.Sphere{Radius: 1})
	separated := bodyAt("separated", mgl64.Vec3{10, 0, 0}, actor.Sphere{Radius: 1})
	inactive := bodyAt("inactive", mgl64.Vec3{0.5, 0, 0}, actor.Sphere{Radius: 1})
	inactive.Active = false
	for _, body := range []*actor.Body{a, b, separated, inactive} {
		world.AddBody(body)
	}

	pairChan := make(chan Pair, 4)
	pairChan <- Pair{BodyA: a, BodyB: b}
	pairChan <- Pair{BodyA: a, BodyB: separated}
	pairChan <- Pair{BodyA: a, BodyB: inactive}
	pairChan <- Pair{BodyA: a, BodyB: a}
	close(pairChan)

	contacts := world.Detector.NarrowPhase(pairChan, 2)
	if len(contacts) != 1 {
		t.Fatalf("expected one contact, got %d", len(contacts))
	}
	if contacts[0].Pair() != MakePairKey(a, b) {
		t.Errorf("expected the surviving contact to be the a/b pair")
	}
}

func TestUpdateBroadphaseAABBs(t *testing.T) {
	world := NewWorld(DefaultConfig())
	body := bodyAt("box", mgl64.Vec3{}, actor.OBB{HalfExtents: mgl64.Vec3{2, 1, 1}})
	world.AddBody(body)

	body.Transform.Rotation = mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 0, 1})
	world.UpdateBroadphaseAABBs(2)

	extents, ok := body.BroadphaseAABB()
	if !ok {
		t.Fatalf("expected an envelope")
	}
	if !vec3Equal(extents, mgl64.Vec3{1, 2, 1}, 1e-9) {
		t.Errorf("expected the envelope to follow the rotation, got %v", extents)
	}
}
