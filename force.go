package rigidphys

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/handle"
)

// Force is a single force application: Force acting at world-space
// Position. The step driver converts it to linear acceleration and, via
// the lever arm from the entity's center of mass, torque.
type Force struct {
	Force    mgl64.Vec3
	Position mgl64.Vec3
}

// NewForce builds a Force acting at position.
func NewForce(force, position mgl64.Vec3) Force {
	return Force{Force: force, Position: position}
}

// UnaryForceGenerator produces one Force per entity per step. MakeForce
// must be deterministic given its inputs; it is called once per entity,
// per step, before that entity's tentative motion is integrated.
// Generators are skipped entirely for entities whose
// total mass is infinite or effectively zero.
type UnaryForceGenerator interface {
	MakeForce(dt float64, world *World, entity handle.Entity) Force
}

// GravityGenerator applies a constant acceleration, scaled by the
// entity's total mass, at its center of mass.
type GravityGenerator struct {
	Acceleration mgl64.Vec3
}

// NewGravityGenerator returns a GravityGenerator with the given
// acceleration vector.
func NewGravityGenerator(acceleration mgl64.Vec3) *GravityGenerator {
	return &GravityGenerator{Acceleration: acceleration}
}

// MakeForce returns acceleration * total_mass, applied at the entity's
// current position (its center of mass).
func (g *GravityGenerator) MakeForce(dt float64, world *World, entity handle.Entity) Force {
	e, ok := world.GetEntity(entity)
	if !ok {
		return Force{}
	}
	return NewForce(g.Acceleration.Mul(e.TotalMass()), e.Orientation.Position)
}
