package collider

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/rerr"
)

// Null is a pure mass/inertia point: it contributes to its owning
// entity's mass rollup but never participates in narrow-phase and never
// produces a contact.
type Null struct {
	entityLink

	// Position is the mass point's location in the owning entity's local
	// frame. Defaults to the origin.
	Position mgl64.Vec3
	// Mass must be non-negative. Defaults to zero.
	Mass float64
	// MomentOfInertia is the tensor contributed about Position. Defaults
	// to the zero matrix.
	MomentOfInertia mgl64.Mat3
}

// NewNull returns a Null collider with zero mass and inertia.
func NewNull() *Null {
	return &Null{}
}

func (n *Null) Type() Type { return TypeNull }

func (n *Null) ColliderMass() float64 { return n.Mass }
func (n *Null) ColliderLocalCenterOfMass() mgl64.Vec3 { return n.Position }
func (n *Null) ColliderMomentOfInertiaTensor() mgl64.Mat3 { return n.MomentOfInertia }
func (n *Null) RestitutionCoefficient() float64 { return 0 }
func (n *Null) FrictionThreshold() float64 { return 0 }
func (n *Null) StaticFrictionCoefficient() float64 { return 0 }
func (n *Null) DynamicFrictionCoefficient() float64 { return 0 }

func (n *Null) Validate() error {
	if n.Mass < 0 {
		return rerr.NewValidationError("mass", "must be non-negative")
	}
	return nil
}
