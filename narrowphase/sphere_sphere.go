package narrowphase

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/actor"
	"github.com/rigidphys/rigidphys/collider"
	"github.com/rigidphys/rigidphys/interval"
)

func sphereSphereFromOrientations(
	a *collider.Sphere, startA, endA actor.Orientation,
	b *collider.Sphere, startB, endB actor.Orientation,
) *Collision {
	centerA := startA.PositionIntoWorld(a.Center)
	movementA := endA.PositionIntoWorld(a.Center).Sub(centerA)
	centerB := startB.PositionIntoWorld(b.Center)
	movementB := endB.PositionIntoWorld(b.Center).Sub(centerB)
	return sphereSphereRaw(a.Radius, centerA, movementA, b.Radius, centerB, movementB)
}

// sphereSphereRaw solves for the earliest time both moving spheres touch.
// Relative to sphere1, sphere2 shrinks to a point of radius r1+r2; the
// zero of |p2(t) - p1(t)| - (r1+r2) is found as the roots of the squared
// distance, a quadratic in t.
func sphereSphereRaw(
	radius1 float64, center1, movement1 mgl64.Vec3,
	radius2 float64, center2, movement2 mgl64.Vec3,
) *Collision {
	dv := movement1.Sub(movement2)
	dc := center1.Sub(center2)
	r := radius1 + radius2

	times := interval.QuadraticZeros(dv.Dot(dv), 2*dv.Dot(dc), dc.Dot(dc)-r*r).
		Intersect(interval.Span(0, 1))
	if times.IsEmpty() {
		return nil
	}
	t := times.Min()

	p1 := center1.Add(movement1.Mul(t))
	p2 := center2.Add(movement2.Mul(t))
	var position mgl64.Vec3
	if r > interval.Epsilon {
		position = p1.Mul(radius2 / r).Add(p2.Mul(radius1 / r))
	} else {
		position = p1
	}
	normal := position.Sub(center1)
	if normal.Len() < interval.Epsilon {
		normal = movement1.Sub(movement2)
	}
	if normal.Len() < interval.Epsilon {
		normal = mgl64.Vec3{0, 1, 0}
	} else {
		normal = normal.Normalize()
	}
	return &Collision{Times: times, Position: position, Normal: normal}
}
