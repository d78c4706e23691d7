package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/handle"
)

// ColliderMassProperties is the subset of a collider's state the mass/
// inertia rollup needs. Implemented by the collider package's variant
// types; declared here (rather than imported) so this package never
// depends on collider, avoiding an import cycle (collider depends on this
// package for handle.Entity linkage).
type ColliderMassProperties interface {
	ColliderMass() float64
	ColliderLocalCenterOfMass() mgl64.Vec3
	ColliderMomentOfInertiaTensor() mgl64.Mat3
}

// ColliderLookup resolves a collider handle to its mass properties. The
// root package supplies this as a closure over its collider arena.
type ColliderLookup func(handle.Collider) (ColliderMassProperties, bool)

// Entity is a rigid body: an oriented frame with velocity, angular
// velocity, and a set of colliders whose combined mass and inertia are
// rolled up into it. TotalMass and the inertia tensor are caches kept
// current by RecalculateMass; callers never set them directly.
type Entity struct {
	Orientation     Orientation
	OwnMass         float64
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3

	Colliders map[handle.Collider]struct{}

	Asleep            bool
	FallingAsleep     bool
	FallingAsleepTime float64
	Neighbors         map[handle.Entity]struct{}

	totalMass              float64
	preppedMomentOfInertia mgl64.Mat3
}

// NewEntity constructs an Entity at the given position with the given own
// mass (the mass of the body itself, before any collider mass is rolled
// in). own mass must be non-negative.
func NewEntity(position mgl64.Vec3, ownMass float64) Entity {
	return Entity{
		Orientation: NewOrientation(position, mgl64.Vec3{}, mgl64.Vec3{}),
		OwnMass:     ownMass,
		Colliders:   make(map[handle.Collider]struct{}),
		Neighbors:   make(map[handle.Entity]struct{}),
		totalMass:   ownMass,
	}
}

// LinkCollider records that h belongs to this entity. It does not
// recalculate mass; callers recalculate once after all links for a given
// operation are applied.
func (e *Entity) LinkCollider(h handle.Collider) {
	if e.Colliders == nil {
		e.Colliders = make(map[handle.Collider]struct{})
	}
	e.Colliders[h] = struct{}{}
}

// UnlinkCollider removes h from this entity's collider set.
func (e *Entity) UnlinkCollider(h handle.Collider) {
	delete(e.Colliders, h)
}

// TotalMass returns the cached rolled-up mass (own mass plus every linked
// collider's mass), or +Inf if any linked collider has infinite mass.
func (e *Entity) TotalMass() float64 { return e.totalMass }

// IsInfiniteMass reports whether this entity's total mass is infinite, the
// engine's stand-in for an immovable/kinematic body.
func (e *Entity) IsInfiniteMass() bool { return math.IsInf(e.totalMass, 1) }

// RecalculateMass recomputes TotalMass, the center of mass (folded into
// Orientation's position and internal origin offset), and the prepped
// moment of inertia tensor from this entity's own mass and every linked
// collider's contribution.
//
// Mirrors three cases: an infinite-mass collider makes the whole entity
// infinite mass and leaves the inertia tensor at zero; one or more finite-
// mass colliders shift the center of mass to their mass-weighted centroid
// and rebase the local frame to keep collider-local coordinates valid;
// with no mass-contributing colliders the entity's position moves onto
// the local frame's origin and the origin offset is cleared.
func (e *Entity) RecalculateMass(lookup ColliderLookup) {
	totalMass := e.OwnMass
	foundInfinite := false
	totalOtherMass := 0.0
	centerOfMass := mgl64.Vec3{}

	for h := range e.Colliders {
		props, ok := lookup(h)
		if !ok {
			continue
		}
		m := props.ColliderMass()
		if math.IsInf(m, 1) {
			foundInfinite = true
			break
		}
		totalOtherMass += m
		worldCoM := e.Orientation.PositionIntoWorld(props.ColliderLocalCenterOfMass())
		centerOfMass = centerOfMass.Add(worldCoM.Mul(m))
	}

	switch {
	case foundInfinite:
		totalMass = math.Inf(1)
	case totalOtherMass > 0:
		totalMass += totalOtherMass
		centerOfMass = centerOfMass.Mul(1 / totalOtherMass)
		comMovement := centerOfMass.Sub(e.Orientation.Position)
		newOffset := e.Orientation.InternalOriginOffset().Sub(e.Orientation.DirectionIntoLocal(comMovement))
		e.Orientation = e.Orientation.WithInternalOriginOffset(newOffset)
		e.Orientation.Position = e.Orientation.Position.Add(comMovement)
	default:
		localComMovement := e.Orientation.InternalOriginOffset()
		e.Orientation = e.Orientation.WithInternalOriginOffset(mgl64.Vec3{})
		e.Orientation.Position = e.Orientation.Position.Add(e.Orientation.DirectionIntoWorld(localComMovement))
	}
	e.totalMass = totalMass

	var prepped mgl64.Mat3
	if !foundInfinite {
		for h := range e.Colliders {
			props, ok := lookup(h)
			if !ok {
				continue
			}
			contribution := e.Orientation.PrepMomentOfInertia(
				props.ColliderLocalCenterOfMass(),
				props.ColliderMass(),
				props.ColliderMomentOfInertiaTensor(),
			)
			prepped = addMat3(prepped, contribution)
		}
	}
	e.preppedMomentOfInertia = prepped
}

// MomentOfInertia returns the current world-space moment of inertia
// tensor.
func (e *Entity) MomentOfInertia() mgl64.Mat3 {
	return e.Orientation.FinalizeMomentOfInertia(e.preppedMomentOfInertia)
}

// InverseMomentOfInertia returns the inverse of MomentOfInertia, or the
// zero matrix if the tensor is singular (as for an infinite-mass entity,
// whose prepped tensor is always zero). logWarn is called with a
// diagnostic message when inversion is skipped for a non-trivial tensor,
// since that indicates a degenerate (zero-volume or co-linear) mass
// distribution rather than an intentional immovable body.
func (e *Entity) InverseMomentOfInertia(logWarn func(string)) mgl64.Mat3 {
	i := e.MomentOfInertia()
	det := i.Det()
	if math.Abs(det) < 1e-9 {
		if logWarn != nil && mat3Magnitude(i) > 1e-9 {
			logWarn("entity moment of inertia tensor is singular; treating inverse as zero")
		}
		return mgl64.Mat3{}
	}
	return i.Inv()
}

// VelocityAt returns the instantaneous world-space velocity of the
// material point of this entity currently at worldPosition.
func (e *Entity) VelocityAt(worldPosition mgl64.Vec3) mgl64.Vec3 {
	r := worldPosition.Sub(e.Orientation.Position)
	return e.Velocity.Add(e.AngularVelocity.Cross(r))
}

// TotalEnergy returns the entity's linear plus rotational kinetic energy.
// An infinite-mass entity has zero energy if it is not moving and
// infinite energy otherwise, since its motion cannot be produced by any
// finite impulse.
func (e *Entity) TotalEnergy(logWarn func(string)) float64 {
	if e.IsInfiniteMass() {
		if e.Velocity.Len() < 1e-9 && e.AngularVelocity.Len() < 1e-9 {
			return 0
		}
		return math.Inf(1)
	}
	linear := 0.5 * e.totalMass * e.Velocity.Dot(e.Velocity)
	i := e.MomentOfInertia()
	iw := mat3MulVec3(i, e.AngularVelocity)
	angular := 0.5 * e.AngularVelocity.Dot(iw)
	return linear + angular
}

// ApplyImpulse applies impulse J at worldPosition, updating linear and
// angular velocity. For an infinite-mass entity this is a no-op (1/mass
// and the inverse inertia both evaluate to zero), and a near-zero-mass
// entity is left untouched rather than launched to infinity.
func (e *Entity) ApplyImpulse(worldPosition mgl64.Vec3, impulse mgl64.Vec3, logWarn func(string)) {
	if e.totalMass < 1e-9 {
		return
	}
	e.Velocity = e.Velocity.Add(impulse.Mul(1 / e.totalMass))
	r := worldPosition.Sub(e.Orientation.Position)
	invInertia := e.InverseMomentOfInertia(logWarn)
	e.AngularVelocity = e.AngularVelocity.Add(mat3MulVec3(invInertia, r.Cross(impulse)))
}

// Wake marks this entity awake and clears its sleep-graph neighbor set;
// the graph is rebuilt fresh by whichever contacts occur next.
func (e *Entity) Wake() {
	e.Asleep = false
	e.FallingAsleep = false
	e.FallingAsleepTime = 0
	e.Neighbors = make(map[handle.Entity]struct{})
}

func addMat3(a, b mgl64.Mat3) mgl64.Mat3 {
	var out mgl64.Mat3
	for k := range out {
		out[k] = a[k] + b[k]
	}
	return out
}

func mat3Magnitude(m mgl64.Mat3) float64 {
	sum := 0.0
	for _, v := range m {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func mat3MulVec3(m mgl64.Mat3, v mgl64.Vec3) mgl64.Vec3 {
	return m.Mul3x1(v)
}
