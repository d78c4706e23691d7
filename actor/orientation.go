// Package actor holds the body-adjacent state that sits beneath a world's
// entities: the local-to-world transform (Orientation) and the entity
// aggregate built on top of it.
package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orientation is a rigid transform from an entity's internal local frame
// to world space, plus the offset between that local frame's origin and
// the entity's declared position.
//
// The split exists because an entity's position tracks its center of mass,
// while colliders are authored in a frame the entity owner chose. When mass
// is recalculated the center of mass can move relative to that authored
// frame; internalOriginOffset absorbs the difference so collider-local
// coordinates never need to be rewritten.
type Orientation struct {
	Position             mgl64.Vec3
	rotation             mgl64.Quat
	internalOriginOffset mgl64.Vec3
}

// NewOrientation builds an Orientation from a position, a rotation given as
// a scaled-axis vector (direction = axis, magnitude = angle in radians),
// and the local frame's origin offset.
func NewOrientation(position mgl64.Vec3, rotation mgl64.Vec3, internalOriginOffset mgl64.Vec3) Orientation {
	return Orientation{
		Position:             position,
		rotation:             quatFromScaledAxis(rotation),
		internalOriginOffset: internalOriginOffset,
	}
}

// RotationVec returns the current rotation as a scaled-axis vector.
func (o Orientation) RotationVec() mgl64.Vec3 {
	return quatToScaledAxis(o.rotation)
}

// IntoWorld returns the point obtained by un-transforming a local-frame
// point into world space: translate by the origin offset, then rotate,
// then translate by Position.
func (o Orientation) IntoWorld(local mgl64.Vec3) mgl64.Vec3 {
	return o.PositionIntoWorld(local)
}

// IntoLocal is the inverse of IntoWorld.
func (o Orientation) IntoLocal(world mgl64.Vec3) mgl64.Vec3 {
	return o.PositionIntoLocal(world)
}

// PositionIntoWorld transforms a point expressed in the local frame
// (relative to internalOriginOffset) into world space.
func (o Orientation) PositionIntoWorld(local mgl64.Vec3) mgl64.Vec3 {
	shifted := local.Add(o.internalOriginOffset)
	rotated := o.rotation.Rotate(shifted)
	return rotated.Add(o.Position)
}

// PositionIntoLocal is the inverse of PositionIntoWorld.
func (o Orientation) PositionIntoLocal(world mgl64.Vec3) mgl64.Vec3 {
	untranslated := world.Sub(o.Position)
	unrotated := o.rotation.Conjugate().Rotate(untranslated)
	return unrotated.Sub(o.internalOriginOffset)
}

// DirectionIntoWorld rotates a direction vector from the local frame into
// world space, ignoring all translation (both Position and the origin
// offset are positional, not directional).
func (o Orientation) DirectionIntoWorld(local mgl64.Vec3) mgl64.Vec3 {
	return o.rotation.Rotate(local)
}

// DirectionIntoLocal is the inverse of DirectionIntoWorld.
func (o Orientation) DirectionIntoLocal(world mgl64.Vec3) mgl64.Vec3 {
	return o.rotation.Conjugate().Rotate(world)
}

// LocalOriginInWorld returns the world-space position of the local frame's
// origin (i.e. PositionIntoWorld of the zero vector).
func (o Orientation) LocalOriginInWorld() mgl64.Vec3 {
	return o.PositionIntoWorld(mgl64.Vec3{})
}

// AffectWith applies a linear displacement and an angular displacement
// (scaled-axis) to this orientation in place. Rotation is applied by
// premultiplying, matching the convention that angularMovement is expressed
// in world space.
func (o *Orientation) AffectWith(linearMovement, angularMovement mgl64.Vec3) {
	o.Position = o.Position.Add(linearMovement)
	o.rotation = quatFromScaledAxis(angularMovement).Mul(o.rotation)
}

// AfterAffected returns a copy of o with AffectWith applied, leaving o
// unchanged.
func (o Orientation) AfterAffected(linearMovement, angularMovement mgl64.Vec3) Orientation {
	next := o
	next.AffectWith(linearMovement, angularMovement)
	return next
}

// Lerp linearly blends two orientations at parameter t in [0, 1]: position
// is a straight linear interpolation, rotation is interpolated as a
// scaled-axis vector (sufficient for the small per-step angular deltas
// this engine produces; it is not a constant-angular-velocity slerp). The
// origin offset is taken from a, since both orientations being blended
// belong to the same entity across a single step and the offset does not
// change mid-step.
func Lerp(a, b Orientation, t float64) Orientation {
	position := a.Position.Mul(1 - t).Add(b.Position.Mul(t))
	rotation := a.RotationVec().Mul(1 - t).Add(b.RotationVec().Mul(t))
	return NewOrientation(position, rotation, a.internalOriginOffset)
}

// InternalOriginOffset returns the current local-frame origin offset.
func (o Orientation) InternalOriginOffset() mgl64.Vec3 {
	return o.internalOriginOffset
}

// WithInternalOriginOffset returns a copy of o with the origin offset
// replaced.
func (o Orientation) WithInternalOriginOffset(offset mgl64.Vec3) Orientation {
	o.internalOriginOffset = offset
	return o
}

// PrepMomentOfInertia translates a collider's local moment-of-inertia
// tensor (about its own center of mass, in the identity pose) to a tensor
// about the entity's center of mass, still in the identity pose. The
// result is additive across colliders and independent of the entity's
// current rotation; FinalizeMomentOfInertia rotates the accumulated sum
// into world orientation once, rather than rotating every collider's
// tensor on every step.
//
// colliderLocalCoM is the collider's center of mass in the entity's local
// frame; mass and localTensor are the collider's own mass and moment of
// inertia tensor about colliderLocalCoM.
func (o Orientation) PrepMomentOfInertia(colliderLocalCoM mgl64.Vec3, mass float64, localTensor mgl64.Mat3) mgl64.Mat3 {
	r := o.internalOriginOffset.Add(colliderLocalCoM)
	return parallelAxisTranslate(localTensor, mass, r)
}

// FinalizeMomentOfInertia rotates a prepped (identity-pose) moment of
// inertia tensor into the orientation's current world rotation via R I Rᵀ.
func (o Orientation) FinalizeMomentOfInertia(prepped mgl64.Mat3) mgl64.Mat3 {
	r := o.rotation.Mat4().Mat3()
	return r.Mul3(prepped).Mul3(r.Transpose())
}

// parallelAxisTranslate applies the parallel axis theorem, shifting I
// (about the origin) by displacement r scaled by mass.
func parallelAxisTranslate(i mgl64.Mat3, mass float64, r mgl64.Vec3) mgl64.Mat3 {
	rSq := r.Dot(r)
	shift := mgl64.Mat3{
		rSq, 0, 0,
		0, rSq, 0,
		0, 0, rSq,
	}
	outer := mgl64.Mat3{
		r.X() * r.X(), r.X() * r.Y(), r.X() * r.Z(),
		r.Y() * r.X(), r.Y() * r.Y(), r.Y() * r.Z(),
		r.Z() * r.X(), r.Z() * r.Y(), r.Z() * r.Z(),
	}
	var delta mgl64.Mat3
	for k := range delta {
		delta[k] = mass * (shift[k] - outer[k])
	}
	var result mgl64.Mat3
	for k := range result {
		result[k] = i[k] + delta[k]
	}
	return result
}

func quatFromScaledAxis(v mgl64.Vec3) mgl64.Quat {
	angle := v.Len()
	if angle < 1e-12 {
		return mgl64.QuatIdent()
	}
	axis := v.Mul(1 / angle)
	return mgl64.QuatRotate(angle, axis)
}

// quatToScaledAxis is the inverse of quatFromScaledAxis. The quaternion
// is canonicalized to its positive-W representative first so the
// reported angle is the short way around, in [0, pi].
func quatToScaledAxis(q mgl64.Quat) mgl64.Vec3 {
	normalized := q.Normalize()
	if normalized.W < 0 {
		normalized = mgl64.Quat{W: -normalized.W, V: normalized.V.Mul(-1)}
	}
	sinHalf := normalized.V.Len()
	if sinHalf < 1e-12 {
		return mgl64.Vec3{}
	}
	angle := 2 * math.Atan2(sinHalf, normalized.W)
	return normalized.V.Mul(angle / sinHalf)
}
