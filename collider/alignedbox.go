package collider

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/interval"
	"github.com/rigidphys/rigidphys/rerr"
)

// AlignedBox is an axis-aligned rectangular prism: a local origin plus
// min/max corners. MinCorner/MaxCorner need not already satisfy
// min<max per axis; Canonicalized reorders them, and the world applies it
// when a box is added or updated.
type AlignedBox struct {
	entityLink

	// Position is the box's local origin, in the owning entity's local
	// frame. The box's local center of mass is Position + the corner
	// midpoint, not Position itself.
	Position  mgl64.Vec3
	MinCorner mgl64.Vec3
	MaxCorner mgl64.Vec3

	Mass                   float64
	RestitutionCoeff       float64
	FrictionThresholdValue float64
	StaticFrictionCoeff    float64
	DynamicFrictionCoeff   float64
}

// NewAlignedBox returns a unit cube from the origin to (1,1,1) with the
// reference defaults: zero mass, full restitution.
func NewAlignedBox() *AlignedBox {
	return &AlignedBox{
		MaxCorner:              mgl64.Vec3{1, 1, 1},
		RestitutionCoeff:       1,
		FrictionThresholdValue: 0.25,
		StaticFrictionCoeff:    1,
		DynamicFrictionCoeff:   0.3,
	}
}

func (b *AlignedBox) Type() Type { return TypeAlignedBox }

func (b *AlignedBox) ColliderMass() float64 { return b.Mass }

func (b *AlignedBox) ColliderLocalCenterOfMass() mgl64.Vec3 {
	return b.Position.Add(b.MinCorner.Add(b.MaxCorner).Mul(0.5))
}

// ColliderMomentOfInertiaTensor returns the exact rectangular-prism
// formula diag(m(y²+z²)/12, m(x²+z²)/12, m(x²+y²)/12).
func (b *AlignedBox) ColliderMomentOfInertiaTensor() mgl64.Mat3 {
	size := b.MaxCorner.Sub(b.MinCorner)
	sx, sy, sz := size.X()*size.X(), size.Y()*size.Y(), size.Z()*size.Z()
	c := b.Mass / 12
	return mgl64.Mat3{
		c * (sy + sz), 0, 0,
		0, c * (sx + sz), 0,
		0, 0, c * (sx + sy),
	}
}

func (b *AlignedBox) RestitutionCoefficient() float64 { return b.RestitutionCoeff }
func (b *AlignedBox) FrictionThreshold() float64 { return b.FrictionThresholdValue }
func (b *AlignedBox) StaticFrictionCoefficient() float64 { return b.StaticFrictionCoeff }
func (b *AlignedBox) DynamicFrictionCoefficient() float64 { return b.DynamicFrictionCoeff }

func (b *AlignedBox) Validate() error {
	size := b.MaxCorner.Sub(b.MinCorner)
	if math.Abs(size.X()) < interval.Epsilon || math.Abs(size.Y()) < interval.Epsilon || math.Abs(size.Z()) < interval.Epsilon {
		return rerr.NewValidationError("corners", "box must not be degenerate on any axis")
	}
	if b.Mass < 0 {
		return rerr.NewValidationError("mass", "must be non-negative")
	}
	return nil
}

// Canonicalized returns a copy of b with MinCorner/MaxCorner reordered so
// that MinCorner holds the smaller value on every axis.
func (b *AlignedBox) Canonicalized() *AlignedBox {
	out := *b
	out.MinCorner = mgl64.Vec3{
		math.Min(b.MinCorner.X(), b.MaxCorner.X()),
		math.Min(b.MinCorner.Y(), b.MaxCorner.Y()),
		math.Min(b.MinCorner.Z(), b.MaxCorner.Z()),
	}
	out.MaxCorner = mgl64.Vec3{
		math.Max(b.MinCorner.X(), b.MaxCorner.X()),
		math.Max(b.MinCorner.Y(), b.MaxCorner.Y()),
		math.Max(b.MinCorner.Z(), b.MaxCorner.Z()),
	}
	return &out
}
