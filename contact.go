package quill

import (
	"github.com/akmonengine/quill/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Contact is the single contact record a pairwise test produces. LocalA and
// LocalB are expressed relative to each body's own origin, so they stay
// valid as the bodies move until the pair is recomputed. Normal is unit
// length and points from BodyA toward BodyB. The record holds non-owning
// references: it is invalidated when either body is destroyed.
type Contact struct {
	BodyA *actor.Body
	BodyB *actor.Body

	LocalA      mgl64.Vec3
	LocalB      mgl64.Vec3
	Normal      mgl64.Vec3
	Penetration float64
}

// Pair returns the canonical key identifying the unordered body pair.
func (c *Contact) Pair() PairKey {
	return MakePairKey(c.BodyA, c.BodyB)
}

// PairKey is a totally ordered composite of two world IDs. An explicit
// struct rather than a packed integer, so arbitrarily large IDs can never
// collide. Higher layers use it to deduplicate pairs within a frame.
type PairKey struct {
	Low  int
	High int
}

// MakePairKey builds the canonical key for an unordered body pair.
func MakePairKey(a, b *actor.Body) PairKey {
	low, high := a.WorldID, b.WorldID
	if high < low {
		low, high = high, low
	}
	return PairKey{Low: low, High: high}
}

// Less orders keys first by Low, then by High, giving a strict total order
// suitable for sorted containers.
func (k PairKey) Less(other PairKey) bool {
	if k.Low != other.Low {
		return k.Low < other.Low
	}
	return k.High < other.High
}
