package collider

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/interval"
	"github.com/rigidphys/rigidphys/rerr"
)

// Edge is an undirected mesh edge stored with its lower-indexed vertex
// first, so duplicate edges compare equal regardless of winding.
type Edge struct {
	A, B int
}

// Mesh is a triangulated convex-face collision surface: a deduplicated
// vertex list, an undirected edge set, and a list of coplanar convex
// polygons (as vertex indices). It carries zero mass in the reference
// engine and is used purely as kinematic collision geometry.
type Mesh struct {
	entityLink

	// Position is the mesh origin in the owning entity's local frame.
	Position mgl64.Vec3

	Vertices []mgl64.Vec3
	Edges    []Edge
	Faces    [][]int

	RestitutionCoeff       float64
	FrictionThresholdValue float64
	StaticFrictionCoeff    float64
	DynamicFrictionCoeff   float64
}

// NewMesh returns an empty Mesh with the reference friction/restitution
// defaults and no geometry.
func NewMesh() *Mesh {
	return &Mesh{
		RestitutionCoeff:       1,
		FrictionThresholdValue: 0.25,
		StaticFrictionCoeff:    1,
		DynamicFrictionCoeff:   0.3,
	}
}

func (m *Mesh) Type() Type { return TypeMesh }

// ColliderMass is always zero: meshes are pure kinematic geometry.
func (m *Mesh) ColliderMass() float64 { return 0 }
func (m *Mesh) ColliderLocalCenterOfMass() mgl64.Vec3 { return m.Position }
func (m *Mesh) ColliderMomentOfInertiaTensor() mgl64.Mat3 { return mgl64.Mat3{} }

func (m *Mesh) RestitutionCoefficient() float64 { return m.RestitutionCoeff }
func (m *Mesh) FrictionThreshold() float64 { return m.FrictionThresholdValue }
func (m *Mesh) StaticFrictionCoefficient() float64 { return m.StaticFrictionCoeff }
func (m *Mesh) DynamicFrictionCoefficient() float64 { return m.DynamicFrictionCoeff }

func (m *Mesh) Validate() error {
	if len(m.Vertices) < 3 || len(m.Faces) < 1 || len(m.Edges) < 1 {
		return rerr.NewValidationError("geometry", "mesh needs at least one face with three vertices")
	}
	return nil
}

// VerticesInWorld transforms every stored vertex (relative to Position)
// into world space via the owning entity's current orientation.
func (m *Mesh) VerticesInWorld(intoWorld func(local mgl64.Vec3) mgl64.Vec3) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = intoWorld(m.Position.Add(v))
	}
	return out
}

// AddFace appends a coplanar convex polygon, deduplicating both its
// vertices and its edges against what is already stored. It panics if
// fewer than three points are given or if the points are not coplanar
// and convex. This is the one hard precondition the engine does not
// convert into a recoverable error (callers build geometry at
// construction time, not from untrusted runtime input).
func (m *Mesh) AddFace(points []mgl64.Vec3) {
	if len(points) < 3 {
		panic("collider: AddFace needs at least three points to form a face")
	}
	n := len(points)
	normal := points[1].Sub(points[0]).Cross(points[2].Sub(points[0])).Normalize()
	for i := 0; i < n; i++ {
		first := points[i]
		second := points[(i+1)%n]
		third := points[(i+2)%n]
		current := second.Sub(first).Cross(third.Sub(first)).Normalize()
		if math.Abs(current.Dot(normal)-1) >= interval.Epsilon {
			panic(fmt.Sprintf("collider: AddFace points not coplanar or not convex at vertex %d", i))
		}
	}

	indices := m.addPoints(points)
	for i := range indices {
		m.addEdge(indices[i], indices[(i+1)%len(indices)])
	}
	m.Faces = append(m.Faces, indices)
}

func (m *Mesh) addPoints(points []mgl64.Vec3) []int {
	indices := make([]int, len(points))
	for i, p := range points {
		found := -1
		for j, existing := range m.Vertices {
			if existing.Sub(p).Len() < interval.Epsilon {
				found = j
				break
			}
		}
		if found >= 0 {
			indices[i] = found
			continue
		}
		indices[i] = len(m.Vertices)
		m.Vertices = append(m.Vertices, p)
	}
	return indices
}

func (m *Mesh) addEdge(i, j int) {
	if i > j {
		i, j = j, i
	}
	for _, e := range m.Edges {
		if e.A == i && e.B == j {
			return
		}
	}
	m.Edges = append(m.Edges, Edge{A: i, B: j})
}

// FaceCount, EdgeCount, and VertexCount report the mesh's current
// deduplicated geometry sizes.
func (m *Mesh) FaceCount() int { return len(m.Faces) }
func (m *Mesh) EdgeCount() int { return len(m.Edges) }
func (m *Mesh) VertexCount() int { return len(m.Vertices) }
