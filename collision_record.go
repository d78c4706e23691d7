package rigidphys

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/handle"
)

// CollisionRecord is the per-contact output of one Step: a resolved
// contact between two entities, reported earliest-first.
type CollisionRecord struct {
	FirstEntity  handle.Entity
	SecondEntity handle.Entity
	Position     mgl64.Vec3
	// Normal points away from FirstEntity.
	Normal mgl64.Vec3
	// Time is the absolute time within the step at which this contact was
	// resolved, in [0, dt].
	Time                   float64
	RestitutionCoefficient float64
	ImpulseMagnitude       float64
}
