// Package narrowphase implements continuous (analytic, time-of-impact)
// collision detection between the collider primitives in package
// collider. Every routine is given the start and end Orientation of both
// bodies for the step and treats the motion between them as linear in a
// parameter t in [0, 1]; callers rely on a small dt for this
// linearization to stay accurate.
//
// Two approximations are intentional, not bugs, and are called out where
// they're used: Mesh-vs-Mesh takes each candidate face at its mid-step
// (t=0.5) position rather than sweeping the true time-varying polygon,
// and Mesh-vs-Plane reads the plane's normal once at t=0 and holds it
// fixed across the step (the plane is assumed not to rotate).
package narrowphase

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/actor"
	"github.com/rigidphys/rigidphys/collider"
	"github.com/rigidphys/rigidphys/interval"
)

// Collision is the result of a positive continuous collision test between
// two colliders.
type Collision struct {
	// Times is the sub-range of [0, 1] during which the colliders
	// overlap; Times.Min() is the first time of contact.
	Times interval.Range
	// Position is the world-space contact point.
	Position mgl64.Vec3
	// Normal points away from the first collider passed to Collide.
	Normal mgl64.Vec3
}

// EarliestAccumulator keeps the Collision with the smallest Times.Min()
// offered to it. Offering nil is a no-op, so callers that probe many
// sub-features (vertices, edges, faces) can offer every result
// unconditionally.
type EarliestAccumulator struct {
	best *Collision
}

// Offer records c if it is earlier than anything seen so far.
func (a *EarliestAccumulator) Offer(c *Collision) {
	if c == nil {
		return
	}
	if a.best == nil || c.Times.Min() < a.best.Times.Min() {
		a.best = c
	}
}

// Result returns the earliest collision offered, or nil if none was.
func (a *EarliestAccumulator) Result() *Collision { return a.best }

// Collide dispatches a pairwise continuous collision test between two
// colliders given their orientation at the start and end of the step.
// The reported normal always points away from collider1. Null colliders
// and Plane-vs-Plane pairs never produce a contact.
func Collide(
	collider1 collider.Collider, start1, end1 actor.Orientation,
	collider2 collider.Collider, start2, end2 actor.Orientation,
) *Collision {
	if collider1.Type() == collider.TypeNull || collider2.Type() == collider.TypeNull {
		return nil
	}
	if collider1.Type() == collider.TypePlane && collider2.Type() == collider.TypePlane {
		return nil
	}

	switch a := collider1.(type) {
	case *collider.Sphere:
		switch b := collider2.(type) {
		case *collider.Sphere:
			return sphereSphereFromOrientations(a, start1, end1, b, start2, end2)
		case *collider.Plane:
			return spherePlaneFromOrientations(a, start1, end1, b, start2, end2)
		case *collider.Mesh:
			return sphereMeshFromOrientations(a, start1, end1, b, start2, end2)
		}
	case *collider.Plane:
		switch b := collider2.(type) {
		case *collider.Sphere:
			c := spherePlaneFromOrientations(b, start2, end2, a, start1, end1)
			return negate(c)
		case *collider.Mesh:
			c := meshPlaneFromOrientations(b, start2, end2, a, start1, end1)
			return negate(c)
		}
	case *collider.Mesh:
		switch b := collider2.(type) {
		case *collider.Sphere:
			c := sphereMeshFromOrientations(b, start2, end2, a, start1, end1)
			return negate(c)
		case *collider.Plane:
			return meshPlaneFromOrientations(a, start1, end1, b, start2, end2)
		case *collider.Mesh:
			return meshMeshFromOrientations(a, start1, end1, b, start2, end2)
		}
	}
	// AlignedBox has no canonical continuous narrow-phase routine in this
	// engine (the reference only implements it as a mass/inertia
	// primitive); any pair involving it reports no contact.
	return nil
}

func negate(c *Collision) *Collision {
	if c == nil {
		return nil
	}
	c.Normal = c.Normal.Mul(-1)
	return c
}

func lerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
