package narrowphase

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/actor"
	"github.com/rigidphys/rigidphys/collider"
	"github.com/rigidphys/rigidphys/interval"
)

// meshMeshFromOrientations is the one pair that does not have an exact
// analytic solve in this engine: a true mesh-vs-mesh sweep would need to
// track every face's own moving plane, which this narrow-phase does not
// attempt. Instead it sweeps every vertex of one mesh, as a moving
// point, against every face of the other mesh taken at its mid-step
// (t=0.5) position, in both directions, and keeps whichever crossing
// happens earliest. The resulting normal is then checked against a
// majority vote of mesh A's own vertices and flipped if it points the
// wrong way: a deep or grazing contact can otherwise pick up a face
// normal oriented into rather than out of the resolved collision.
func meshMeshFromOrientations(
	a *collider.Mesh, startA, endA actor.Orientation,
	b *collider.Mesh, startB, endB actor.Orientation,
) *Collision {
	vertsAStart := a.VerticesInWorld(startA.PositionIntoWorld)
	vertsAEnd := a.VerticesInWorld(endA.PositionIntoWorld)
	vertsBStart := b.VerticesInWorld(startB.PositionIntoWorld)
	vertsBEnd := b.VerticesInWorld(endB.PositionIntoWorld)

	var acc EarliestAccumulator

	midB := make([]mgl64.Vec3, len(vertsBStart))
	for i := range vertsBStart {
		midB[i] = lerpVec3(vertsBStart[i], vertsBEnd[i], 0.5)
	}
	for _, face := range b.Faces {
		poly := gatherPoly(midB, face)
		for i := range vertsAStart {
			acc.Offer(collidePointWithPolygon(vertsAStart[i], vertsAEnd[i], poly))
		}
	}

	midA := make([]mgl64.Vec3, len(vertsAStart))
	for i := range vertsAStart {
		midA[i] = lerpVec3(vertsAStart[i], vertsAEnd[i], 0.5)
	}
	for _, face := range a.Faces {
		poly := gatherPoly(midA, face)
		for i := range vertsBStart {
			if c := collidePointWithPolygon(vertsBStart[i], vertsBEnd[i], poly); c != nil {
				c.Normal = c.Normal.Mul(-1)
				acc.Offer(c)
			}
		}
	}

	best := acc.Result()
	if best == nil {
		return nil
	}

	behind, total := 0, len(vertsAStart)
	for i := range vertsAStart {
		p := lerpVec3(vertsAStart[i], vertsAEnd[i], best.Times.Min())
		if p.Sub(best.Position).Dot(best.Normal) < 0 {
			behind++
		}
	}
	if total > 0 && behind*2 > total {
		best.Normal = best.Normal.Mul(-1)
	}
	return best
}

func gatherPoly(verts []mgl64.Vec3, face []int) []mgl64.Vec3 {
	poly := make([]mgl64.Vec3, len(face))
	for i, idx := range face {
		poly[i] = verts[idx]
	}
	return poly
}

// collidePointWithPolygon finds the time at which a linearly moving
// point crosses a stationary convex polygon's plane while remaining
// within its interior. If the point is coplanar with the polygon for
// the entire step (a sliding contact rather than a crossing one), the
// routine falls back to reporting a contact at t=0 if the point starts
// inside the polygon, and otherwise reports no contact, an accepted
// simplification of a case this engine treats as rare.
func collidePointWithPolygon(pointStart, pointEnd mgl64.Vec3, poly []mgl64.Vec3) *Collision {
	if len(poly) < 3 {
		return nil
	}
	normal := poly[1].Sub(poly[0]).Cross(poly[2].Sub(poly[0])).Normalize()
	d0 := pointStart.Sub(poly[0]).Dot(normal)
	d1 := pointEnd.Sub(poly[0]).Dot(normal)

	if absF(d0) < interval.Epsilon && absF(d1) < interval.Epsilon {
		if pointInPolygon(pointStart, poly, normal) {
			return &Collision{Times: interval.Single(0), Position: pointStart, Normal: normal}
		}
		return nil
	}
	if (d0 > 0) == (d1 > 0) {
		return nil
	}
	t := d0 / (d0 - d1)
	if t < 0 || t > 1 {
		return nil
	}
	point := lerpVec3(pointStart, pointEnd, t)
	if !pointInPolygon(point, poly, normal) {
		return nil
	}
	normalOut := normal
	if normalOut.Dot(pointStart.Sub(poly[0])) < 0 {
		normalOut = normalOut.Mul(-1)
	}
	return &Collision{Times: interval.Single(t), Position: point, Normal: normalOut}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
