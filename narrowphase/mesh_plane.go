package narrowphase

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/actor"
	"github.com/rigidphys/rigidphys/collider"
)

// meshPlaneBand is how close a mesh vertex's signed distance from the
// plane must be to the deepest vertex's distance, at either the start or
// end of the step, to be counted towards the synthesized contact point.
const meshPlaneBand = 1e-3

// meshPlaneFromOrientations solves each mesh vertex against the plane
// independently as a zero-radius sphere (so it reuses spherePlaneRaw's
// linear-overlap solve), keeps the earliest vertex to cross, and
// synthesizes the reported contact point as the centroid of the
// start-of-step positions of every vertex within meshPlaneBand of the
// smallest signed distance, at either the start or the end of the step.
func meshPlaneFromOrientations(
	m *collider.Mesh, startM, endM actor.Orientation,
	p *collider.Plane, startP, endP actor.Orientation,
) *Collision {
	positionP := startP.PositionIntoWorld(p.Position)
	movementP := endP.PositionIntoWorld(p.Position).Sub(positionP)
	normalP := startP.DirectionIntoWorld(p.Normal).Normalize()

	vertsStart := m.VerticesInWorld(startM.PositionIntoWorld)
	vertsEnd := m.VerticesInWorld(endM.PositionIntoWorld)
	if len(vertsStart) == 0 {
		return nil
	}

	var acc EarliestAccumulator
	d0 := make([]float64, len(vertsStart))
	d1 := make([]float64, len(vertsStart))
	for i := range vertsStart {
		d0[i] = vertsStart[i].Sub(positionP).Dot(normalP)
		d1[i] = vertsEnd[i].Sub(positionP).Dot(normalP)
		acc.Offer(spherePlaneRaw(0, vertsStart[i], vertsEnd[i].Sub(vertsStart[i]), positionP, normalP, movementP))
	}
	best := acc.Result()
	if best == nil {
		return nil
	}

	minD0, minD1 := math.Inf(1), math.Inf(1)
	for i := range vertsStart {
		minD0 = math.Min(minD0, d0[i])
		minD1 = math.Min(minD1, d1[i])
	}

	centroid := mgl64.Vec3{}
	count := 0
	for i := range vertsStart {
		if d0[i] <= minD0+meshPlaneBand || d1[i] <= minD1+meshPlaneBand {
			centroid = centroid.Add(vertsStart[i])
			count++
		}
	}
	if count > 0 {
		centroid = centroid.Mul(1 / float64(count))
		best.Position = centroid
	}
	return best
}
