package collider

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is a world-space axis-aligned bounding box, used by the step
// driver's broad-phase prefilter to rule out collider pairs whose swept
// extents cannot meet during a step.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// AABBFromPoints returns the tightest box containing every given point.
// ok is false when points is empty.
func AABBFromPoints(points []mgl64.Vec3) (box AABB, ok bool) {
	if len(points) == 0 {
		return AABB{}, false
	}
	box = AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.Extend(p)
	}
	return box, true
}

// Extend grows the box just enough to contain point.
func (a AABB) Extend(point mgl64.Vec3) AABB {
	return AABB{
		Min: mgl64.Vec3{
			math.Min(a.Min.X(), point.X()),
			math.Min(a.Min.Y(), point.Y()),
			math.Min(a.Min.Z(), point.Z()),
		},
		Max: mgl64.Vec3{
			math.Max(a.Max.X(), point.X()),
			math.Max(a.Max.Y(), point.Y()),
			math.Max(a.Max.Z(), point.Z()),
		},
	}
}

// Union returns the smallest box containing both a and other. The swept
// box of a collider over a step is the union of its boxes at the start
// and end pose.
func (a AABB) Union(other AABB) AABB {
	return a.Extend(other.Min).Extend(other.Max)
}

// Overlaps reports whether the two boxes share any point. Boxes that
// merely touch on a face, edge, or corner count as overlapping; the
// prefilter must never reject a grazing contact.
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}
