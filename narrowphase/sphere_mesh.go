package narrowphase

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/actor"
	"github.com/rigidphys/rigidphys/collider"
	"github.com/rigidphys/rigidphys/interval"
)

// sphereMeshFromOrientations probes the sphere against every mesh vertex,
// every edge's open interior, and every face's interior, and keeps
// whichever sub-feature is hit earliest. A sphere resting squarely on a
// face is caught by the face check; one that slides off an edge or
// catches a corner is caught by the edge or vertex check instead.
func sphereMeshFromOrientations(
	s *collider.Sphere, startS, endS actor.Orientation,
	m *collider.Mesh, startM, endM actor.Orientation,
) *Collision {
	centerS := startS.PositionIntoWorld(s.Center)
	movementS := endS.PositionIntoWorld(s.Center).Sub(centerS)

	vertsStart := m.VerticesInWorld(startM.PositionIntoWorld)
	vertsEnd := m.VerticesInWorld(endM.PositionIntoWorld)

	var acc EarliestAccumulator

	for i := range vertsStart {
		acc.Offer(sphereSphereRaw(s.Radius, centerS, movementS, 0, vertsStart[i], vertsEnd[i].Sub(vertsStart[i])))
	}

	for _, e := range m.Edges {
		acc.Offer(sphereSegmentRaw(s.Radius, centerS, movementS,
			vertsStart[e.A], vertsEnd[e.A], vertsStart[e.B], vertsEnd[e.B]))
	}

	for _, face := range m.Faces {
		faceStart := make([]mgl64.Vec3, len(face))
		faceEnd := make([]mgl64.Vec3, len(face))
		for i, idx := range face {
			faceStart[i] = vertsStart[idx]
			faceEnd[i] = vertsEnd[idx]
		}
		acc.Offer(sphereFaceRaw(s.Radius, centerS, movementS, faceStart, faceEnd))
	}

	return acc.Result()
}

// sphereSegmentRaw solves for contact between a moving sphere and a
// segment whose own direction is held fixed at its start-of-step
// orientation (only its anchor point translates, at the average of its
// two endpoints' movement), the same invariant-orientation
// simplification sphere-vs-plane and mesh-vs-plane make for their
// normal. A hit is only reported if the closest point on the segment
// falls strictly between its endpoints; the endpoints themselves are
// covered by the vertex checks in sphereMeshFromOrientations.
func sphereSegmentRaw(radius float64, center, movement mgl64.Vec3, p0Start, p0End, p1Start, p1End mgl64.Vec3) *Collision {
	segVec := p1Start.Sub(p0Start)
	segLen := segVec.Len()
	if segLen < interval.Epsilon {
		return nil
	}
	dir := segVec.Mul(1 / segLen)
	lineMovement := p0End.Sub(p0Start).Add(p1End.Sub(p1Start)).Mul(0.5)

	rel := center.Sub(p0Start)
	relMovement := movement.Sub(lineMovement)
	a := rel.Cross(dir)
	b := relMovement.Cross(dir)

	times := interval.QuadraticZeros(b.Dot(b), 2*a.Dot(b), a.Dot(a)-radius*radius).
		Intersect(interval.Span(0, 1))
	if times.IsEmpty() {
		return nil
	}
	t := times.Min()
	p0t := p0Start.Add(p0End.Sub(p0Start).Mul(t))
	centerT := center.Add(movement.Mul(t))
	u := centerT.Sub(p0t).Dot(dir)
	if u <= interval.Epsilon || u >= segLen-interval.Epsilon {
		return nil
	}
	contact := p0t.Add(dir.Mul(u))
	normal := contact.Sub(center)
	if normal.Len() < interval.Epsilon {
		return nil
	}
	return &Collision{Times: times, Position: contact, Normal: normal.Normalize()}
}

// sphereFaceRaw solves the same linear-overlap problem as spherePlaneRaw
// against the face's own plane, then rejects the hit if the contact
// point falls outside the face's interior (tested against the face's
// vertices interpolated to the time of contact).
func sphereFaceRaw(radius float64, center, movement mgl64.Vec3, faceStart, faceEnd []mgl64.Vec3) *Collision {
	if len(faceStart) < 3 {
		return nil
	}
	windingNormal := faceStart[1].Sub(faceStart[0]).Cross(faceStart[2].Sub(faceStart[0])).Normalize()
	normal := windingNormal
	if normal.Dot(center.Sub(faceStart[0])) < 0 {
		normal = normal.Mul(-1)
	}
	faceMovement := faceEnd[0].Sub(faceStart[0])

	c := spherePlaneRaw(radius, center, movement, faceStart[0], normal, faceMovement)
	if c == nil {
		return nil
	}
	t := c.Times.Min()
	poly := make([]mgl64.Vec3, len(faceStart))
	for i := range faceStart {
		poly[i] = lerpVec3(faceStart[i], faceEnd[i], t)
	}
	if !pointInPolygon(c.Position, poly, windingNormal) {
		return nil
	}
	return c
}

// pointInPolygon reports whether p, known to lie in the plane of the
// convex polygon poly, is inside it: every edge must see p on its
// interior side (a consistent cross-product sign against the polygon's
// own normal), with a small tolerance for points on an edge.
func pointInPolygon(p mgl64.Vec3, poly []mgl64.Vec3, normal mgl64.Vec3) bool {
	n := len(poly)
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		edge := b.Sub(a)
		toPoint := p.Sub(a)
		if edge.Cross(toPoint).Dot(normal) < -1e-7 {
			return false
		}
	}
	return true
}
