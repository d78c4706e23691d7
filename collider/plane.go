package collider

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/interval"
	"github.com/rigidphys/rigidphys/rerr"
)

// Plane is an infinite half-space boundary: a local anchor point plus a
// unit normal. The half-space opposite the normal is "solid". Infinite
// mass is permitted here and is the typical use (an immovable floor or
// wall).
type Plane struct {
	entityLink

	// Position is a point on the plane, in the owning entity's local
	// frame.
	Position mgl64.Vec3
	// Normal points away from the solid half-space. Rejected by Validate
	// if it is near zero-length; normalized (see Normalized) when the
	// world adds or updates the plane.
	Normal mgl64.Vec3

	Mass                   float64
	RestitutionCoeff       float64
	FrictionThresholdValue float64
	StaticFrictionCoeff    float64
	DynamicFrictionCoeff   float64
}

// NewPlane returns a Plane with the given outward normal (not yet
// normalized) and the reference defaults: zero mass, full restitution.
func NewPlane(normal mgl64.Vec3) *Plane {
	return &Plane{
		Normal:                 normal,
		RestitutionCoeff:       1,
		FrictionThresholdValue: 0.25,
		StaticFrictionCoeff:    1,
		DynamicFrictionCoeff:   0.3,
	}
}

func (p *Plane) Type() Type { return TypePlane }

func (p *Plane) ColliderMass() float64 { return p.Mass }
func (p *Plane) ColliderLocalCenterOfMass() mgl64.Vec3 { return p.Position }
func (p *Plane) ColliderMomentOfInertiaTensor() mgl64.Mat3 { return mgl64.Mat3{} }

func (p *Plane) RestitutionCoefficient() float64 { return p.RestitutionCoeff }
func (p *Plane) FrictionThreshold() float64 { return p.FrictionThresholdValue }
func (p *Plane) StaticFrictionCoefficient() float64 { return p.StaticFrictionCoeff }
func (p *Plane) DynamicFrictionCoefficient() float64 { return p.DynamicFrictionCoeff }

func (p *Plane) Validate() error {
	if p.Mass < 0 {
		return rerr.NewValidationError("mass", "must be non-negative")
	}
	if p.Normal.Len() < interval.Epsilon {
		return rerr.NewValidationError("normal", "must not be near-zero length")
	}
	return nil
}

// Normalized returns a copy of p with Normal replaced by its unit vector.
// Callers (the world's add/update path) apply this after Validate
// succeeds so the stored normal is always unit length.
func (p *Plane) Normalized() *Plane {
	out := *p
	out.Normal = p.Normal.Normalize()
	return &out
}
