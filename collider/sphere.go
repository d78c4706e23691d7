package collider

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/rerr"
)

// MinSphereRadius is the smallest radius a Sphere may validate with.
const MinSphereRadius = 0.05

// Sphere is a solid ball: a local center plus a radius.
type Sphere struct {
	entityLink

	// Center is the sphere's center in the owning entity's local frame.
	Center mgl64.Vec3
	// Radius must exceed MinSphereRadius.
	Radius float64

	Mass                   float64
	RestitutionCoeff       float64
	FrictionThresholdValue float64
	StaticFrictionCoeff    float64
	DynamicFrictionCoeff   float64
}

// NewSphere returns a Sphere with the given radius and the reference
// defaults: zero mass, full restitution, and the friction coefficients
// the original engine shipped (1.0 static / 0.3 dynamic, threshold 0.25).
func NewSphere(radius float64) *Sphere {
	return &Sphere{
		Radius:                 radius,
		RestitutionCoeff:       1,
		FrictionThresholdValue: 0.25,
		StaticFrictionCoeff:    1,
		DynamicFrictionCoeff:   0.3,
	}
}

func (s *Sphere) Type() Type { return TypeSphere }

func (s *Sphere) ColliderMass() float64 { return s.Mass }
func (s *Sphere) ColliderLocalCenterOfMass() mgl64.Vec3 { return s.Center }

// ColliderMomentOfInertiaTensor returns (2/5) m r^2 for a uniform solid
// sphere about its own center.
func (s *Sphere) ColliderMomentOfInertiaTensor() mgl64.Mat3 {
	i := 0.4 * s.Mass * s.Radius * s.Radius
	return mgl64.Mat3{
		i, 0, 0,
		0, i, 0,
		0, 0, i,
	}
}

func (s *Sphere) RestitutionCoefficient() float64 { return s.RestitutionCoeff }
func (s *Sphere) FrictionThreshold() float64 { return s.FrictionThresholdValue }
func (s *Sphere) StaticFrictionCoefficient() float64 { return s.StaticFrictionCoeff }
func (s *Sphere) DynamicFrictionCoefficient() float64 { return s.DynamicFrictionCoeff }

func (s *Sphere) Validate() error {
	if s.Radius <= MinSphereRadius {
		return rerr.NewValidationError("radius", "must exceed the minimum sphere radius")
	}
	if s.Mass < 0 {
		return rerr.NewValidationError("mass", "must be non-negative")
	}
	return nil
}
