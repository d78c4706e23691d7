// Package collider implements the five collider primitive variants a
// world's colliders arena stores: Null, Sphere, Plane, AlignedBox, and
// Mesh. Each is a concrete struct implementing the common Collider
// capability interface; there is no dynamic downcasting: narrowphase
// dispatches on concrete type via a type switch over that interface.
package collider

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/handle"
)

// Type tags a Collider's concrete variant.
type Type int

const (
	TypeNull Type = iota
	TypeSphere
	TypePlane
	TypeAlignedBox
	TypeMesh
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "Null"
	case TypeSphere:
		return "Sphere"
	case TypePlane:
		return "Plane"
	case TypeAlignedBox:
		return "AlignedBox"
	case TypeMesh:
		return "Mesh"
	default:
		return "Unknown"
	}
}

// Collider is the capability set every variant exposes. All mutating
// methods (SetLinkedEntity) have pointer receivers, so the arena stores
// pointer values (*Sphere, *Plane, ...) behind this interface.
type Collider interface {
	Type() Type

	// LinkedEntity returns the entity this collider is attached to, and
	// whether it is attached to one at all.
	LinkedEntity() (handle.Entity, bool)
	// SetLinkedEntity updates the link. ok=false unlinks.
	SetLinkedEntity(e handle.Entity, ok bool)

	ColliderMass() float64
	ColliderLocalCenterOfMass() mgl64.Vec3
	ColliderMomentOfInertiaTensor() mgl64.Mat3

	RestitutionCoefficient() float64
	FrictionThreshold() float64
	StaticFrictionCoefficient() float64
	DynamicFrictionCoefficient() float64

	// Validate reports whether the collider's fields satisfy its
	// per-variant constraints (radius, box sizing, normal magnitude, mesh
	// geometry). Checked on insert and on update.
	Validate() error
}

// entityLink is embedded by every variant to share the optional-entity
// bookkeeping; it does not by itself satisfy Collider.
type entityLink struct {
	entity handle.Entity
	linked bool
}

func (l *entityLink) LinkedEntity() (handle.Entity, bool) { return l.entity, l.linked }

func (l *entityLink) SetLinkedEntity(e handle.Entity, ok bool) {
	l.entity = e
	l.linked = ok
}
