package rigidphys

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/actor"
	"github.com/rigidphys/rigidphys/collider"
)

// sweptAABB returns the union of c's world-space AABB at start and end,
// plus false if c has no bounded geometry (Null, Plane, or an empty
// Mesh); such colliders pass the prefilter unconditionally rather than
// reporting a meaningless box.
func sweptAABB(c collider.Collider, start, end actor.Orientation) (collider.AABB, bool) {
	startBox, ok := colliderAABB(c, start)
	if !ok {
		return collider.AABB{}, false
	}
	endBox, _ := colliderAABB(c, end)
	return startBox.Union(endBox), true
}

func colliderAABB(c collider.Collider, o actor.Orientation) (collider.AABB, bool) {
	switch v := c.(type) {
	case *collider.Sphere:
		center := o.PositionIntoWorld(v.Center)
		r := mgl64.Vec3{v.Radius, v.Radius, v.Radius}
		return collider.AABB{Min: center.Sub(r), Max: center.Add(r)}, true
	case *collider.AlignedBox:
		corners := make([]mgl64.Vec3, 8)
		for i := range corners {
			local := v.Position.Add(mgl64.Vec3{
				pick(i&1 != 0, v.MinCorner.X(), v.MaxCorner.X()),
				pick(i&2 != 0, v.MinCorner.Y(), v.MaxCorner.Y()),
				pick(i&4 != 0, v.MinCorner.Z(), v.MaxCorner.Z()),
			})
			corners[i] = o.PositionIntoWorld(local)
		}
		return collider.AABBFromPoints(corners)
	case *collider.Mesh:
		return collider.AABBFromPoints(v.VerticesInWorld(o.PositionIntoWorld))
	default:
		// Null and Plane have no bounded extent.
		return collider.AABB{}, false
	}
}

func pick(b bool, ifTrue, ifFalse float64) float64 {
	if b {
		return ifTrue
	}
	return ifFalse
}

// colliderPairMayTouch is the AABB-sweep broad-phase prefilter. It only
// rules out pairs whose swept boxes cannot possibly overlap; any
// collider with unbounded or empty geometry always passes, so it never
// suppresses a contact the narrow phase would have found.
func colliderPairMayTouch(c1 collider.Collider, start1, end1 actor.Orientation, c2 collider.Collider, start2, end2 actor.Orientation) bool {
	box1, ok1 := sweptAABB(c1, start1, end1)
	if !ok1 {
		return true
	}
	box2, ok2 := sweptAABB(c2, start2, end2)
	if !ok2 {
		return true
	}
	return box1.Overlaps(box2)
}
