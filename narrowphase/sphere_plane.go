package narrowphase

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/actor"
	"github.com/rigidphys/rigidphys/collider"
	"github.com/rigidphys/rigidphys/interval"
)

func spherePlaneFromOrientations(
	s *collider.Sphere, startS, endS actor.Orientation,
	p *collider.Plane, startP, endP actor.Orientation,
) *Collision {
	centerS := startS.PositionIntoWorld(s.Center)
	movementS := endS.PositionIntoWorld(s.Center).Sub(centerS)
	positionP := startP.PositionIntoWorld(p.Position)
	movementP := endP.PositionIntoWorld(p.Position).Sub(positionP)
	normalP := startP.DirectionIntoWorld(p.Normal).Normalize()
	return spherePlaneRaw(s.Radius, centerS, movementS, positionP, normalP, movementP)
}

// spherePlaneRaw treats the sphere as the interval of signed distances its
// surface spans along the plane's normal, and the plane as a half-space
// starting at its own signed distance and extending to -infinity (the
// solid side). The two ranges are brought together, in the sphere's
// reference frame, via interval.Range.LinearOverlap.
//
// The plane's normal is read once, at the start orientation, and held
// fixed for the whole step: planes are not expected to tumble within a
// single substep.
func spherePlaneRaw(
	radius float64, center, movement mgl64.Vec3,
	planePosition, planeNormal, planeMovement mgl64.Vec3,
) *Collision {
	nearest := center.Sub(planeNormal.Mul(radius))
	farthest := center.Add(planeNormal.Mul(radius))
	sphereRange := interval.Span(nearest.Dot(planeNormal), farthest.Dot(planeNormal))
	planeRange := interval.Span(planePosition.Dot(planeNormal), math.Inf(-1))

	relativeRate := planeMovement.Dot(planeNormal) - movement.Dot(planeNormal)
	times := sphereRange.LinearOverlap(planeRange, relativeRate).Intersect(interval.Span(0, 1))
	if times.IsEmpty() {
		return nil
	}
	t := times.Min()
	position := nearest.Add(movement.Mul(t))
	return &Collision{Times: times, Position: position, Normal: planeNormal.Mul(-1)}
}
