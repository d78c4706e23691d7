package rigidphys

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/actor"
	"github.com/rigidphys/rigidphys/arena"
	"github.com/rigidphys/rigidphys/handle"
	"github.com/rigidphys/rigidphys/interval"
	"github.com/rigidphys/rigidphys/narrowphase"
)

// entityMotion is the tentative (Δx, Δθ) an entity would undergo across
// the remaining, not-yet-consumed fraction of the current step. It
// shrinks by (1-α) every time the iteration loop advances the world to
// an earlier contact, and is refreshed from an entity's velocity after
// every impulse that changes it.
type entityMotion struct {
	deltaPos mgl64.Vec3
	deltaRot mgl64.Vec3
}

// pairHit is a candidate earliest contact found during one iteration of
// Step's resolution loop.
type pairHit struct {
	firstEntity, secondEntity     handle.Entity
	firstCollider, secondCollider handle.Collider
	collision                     *narrowphase.Collision
}

// Step advances the world by dt: integrates tentative motion from the
// registered force generators, then repeatedly finds the earliest
// remaining contact, advances every awake entity to it, resolves a
// normal + friction impulse pair, and records it, until the step's time
// budget is consumed, no further contact is found, or IterationMax is
// reached. Every awake entity then moves through whatever tentative
// motion is left, and finally the sleep/wake dwell-timer state machine
// runs. Resting-contact neighbor edges of awake entities are rebuilt from
// scratch every step; a sleeping entity keeps the edges it fell asleep
// with.
//
// A |dt| below interval.Epsilon is treated as a no-op, including for
// sleep bookkeeping, so that a caller driving many tiny steps (e.g. for
// testing) cannot accidentally put a still-moving entity to sleep.
func (w *World) Step(dt float64) {
	if math.Abs(dt) < interval.Epsilon {
		return
	}

	w.CollisionRecords = nil

	w.entities.Each(func(_ arena.Key, e *actor.Entity) {
		if !e.Asleep {
			e.Neighbors = make(map[handle.Entity]struct{})
		}
	})

	entityHandles := w.liveEntityHandles()
	motion := w.computeTentativeMotion(entityHandles, dt)

	remaining := dt
	elapsed := 0.0
	maxIterations := w.IterationMax
	if maxIterations <= 0 {
		maxIterations = DefaultIterationMax
	}

	for iter := 0; iter < maxIterations; iter++ {
		hit := w.findEarliestCollision(entityHandles, motion)
		if hit == nil {
			break
		}

		if e, ok := w.entities.Get(hit.firstEntity.Key()); ok && !e.IsInfiniteMass() {
			w.wake(hit.firstEntity)
		}
		if e, ok := w.entities.Get(hit.secondEntity.Key()); ok && !e.IsInfiniteMass() {
			w.wake(hit.secondEntity)
		}

		alpha := hit.collision.Times.Min()
		switch {
		case alpha < 0:
			alpha = 0
		case alpha > 1:
			alpha = 1
		}

		w.advanceAwake(entityHandles, motion, alpha)
		elapsed += alpha * remaining
		remaining *= 1 - alpha

		w.resolveContact(hit, motion, remaining, elapsed)
	}

	w.advanceAwake(entityHandles, motion, 1)

	w.stepSleepStateMachine(dt)
}

// liveEntityHandles returns every currently-live entity handle, in arena
// slot order (stable across a single Step call).
func (w *World) liveEntityHandles() []handle.Entity {
	keys := w.entities.Keys()
	out := make([]handle.Entity, len(keys))
	for i, k := range keys {
		out[i] = handle.NewEntity(k)
	}
	return out
}

// computeTentativeMotion aggregates unary force generator output into
// linear/angular acceleration, integrates velocities by dt, and derives
// each entity's tentative (Δx, Δθ) for the step. Sleeping entities still
// go through this so that a wake mid-step starts from correct
// velocities; generators are skipped for infinite or near-zero mass
// entities.
func (w *World) computeTentativeMotion(entityHandles []handle.Entity, dt float64) map[handle.Entity]*entityMotion {
	motion := make(map[handle.Entity]*entityMotion, len(entityHandles))
	for _, eh := range entityHandles {
		e := w.entities.GetMut(eh.Key())
		if e == nil {
			continue
		}
		totalMass := e.TotalMass()
		if !e.IsInfiniteMass() && totalMass > interval.Epsilon {
			var force, torque mgl64.Vec3
			w.forceGens.Each(func(_ arena.Key, fg *UnaryForceGenerator) {
				f := (*fg).MakeForce(dt, w, eh)
				force = force.Add(f.Force)
				lever := f.Position.Sub(e.Orientation.Position)
				torque = torque.Add(lever.Cross(f.Force))
			})
			acceleration := force.Mul(1 / totalMass)
			invInertia := e.InverseMomentOfInertia(w.logWarn)
			angularAcceleration := invInertia.Mul3x1(torque)
			e.Velocity = e.Velocity.Add(acceleration.Mul(dt))
			e.AngularVelocity = e.AngularVelocity.Add(angularAcceleration.Mul(dt))
		}
		motion[eh] = &entityMotion{
			deltaPos: e.Velocity.Mul(dt),
			deltaRot: e.AngularVelocity.Mul(dt),
		}
	}
	return motion
}

// findEarliestCollision searches every unordered entity pair (skipping
// cached resting-contact neighbors) and every cross-pair of their
// colliders for the earliest continuous collision over the remaining
// tentative motion, rejecting candidates that are already separating
// along the contact normal.
func (w *World) findEarliestCollision(entityHandles []handle.Entity, motion map[handle.Entity]*entityMotion) *pairHit {
	var best *pairHit

	for i := 0; i < len(entityHandles); i++ {
		firstHandle := entityHandles[i]
		first, ok := w.entities.Get(firstHandle.Key())
		if !ok {
			continue
		}
		firstMotion := motion[firstHandle]
		startFirst := first.Orientation
		endFirst := startFirst.AfterAffected(firstMotion.deltaPos, firstMotion.deltaRot)

		for j := i + 1; j < len(entityHandles); j++ {
			secondHandle := entityHandles[j]
			second, ok := w.entities.Get(secondHandle.Key())
			if !ok {
				continue
			}
			if _, skip := first.Neighbors[secondHandle]; skip {
				continue
			}
			if _, skip := second.Neighbors[firstHandle]; skip {
				continue
			}

			secondMotion := motion[secondHandle]
			startSecond := second.Orientation
			endSecond := startSecond.AfterAffected(secondMotion.deltaPos, secondMotion.deltaRot)

			for firstColliderHandle := range first.Colliders {
				firstCollider, ok := w.colliders.Get(firstColliderHandle.Key())
				if !ok {
					continue
				}
				for secondColliderHandle := range second.Colliders {
					secondCollider, ok := w.colliders.Get(secondColliderHandle.Key())
					if !ok {
						continue
					}
					if !colliderPairMayTouch(firstCollider, startFirst, endFirst, secondCollider, startSecond, endSecond) {
						continue
					}
					collision := narrowphase.Collide(
						firstCollider, startFirst, endFirst,
						secondCollider, startSecond, endSecond,
					)
					if collision == nil {
						continue
					}

					relativeNormalVelocity := first.VelocityAt(collision.Position).
						Sub(second.VelocityAt(collision.Position)).
						Dot(collision.Normal)
					if relativeNormalVelocity < interval.Epsilon {
						continue
					}

					if best == nil || collision.Times.Min() < best.collision.Times.Min() {
						best = &pairHit{
							firstEntity:    firstHandle,
							secondEntity:   secondHandle,
							firstCollider:  firstColliderHandle,
							secondCollider: secondColliderHandle,
							collision:      collision,
						}
					}
				}
			}
		}
	}

	return best
}

// advanceAwake moves every awake entity's orientation forward by alpha
// of its remaining tentative motion, then shrinks that remaining motion
// by (1-alpha). Asleep entities neither move nor have their remaining
// motion consumed; an entity woken earlier in the same iteration (it was
// part of the winning pair) is already awake by the time this runs, so
// it advances along with everything else.
func (w *World) advanceAwake(entityHandles []handle.Entity, motion map[handle.Entity]*entityMotion, alpha float64) {
	for _, eh := range entityHandles {
		e := w.entities.GetMut(eh.Key())
		if e == nil || e.Asleep {
			continue
		}
		m := motion[eh]
		if m == nil {
			continue
		}
		e.Orientation.AffectWith(m.deltaPos.Mul(alpha), m.deltaRot.Mul(alpha))
		m.deltaPos = m.deltaPos.Mul(1 - alpha)
		m.deltaRot = m.deltaRot.Mul(1 - alpha)
	}
}

// resolveContact applies the normal impulse, then the Coulomb friction
// impulse, to the winning pair, records a resting-contact neighbor edge
// if the two are no longer separating afterward, and appends the
// CollisionRecord.
func (w *World) resolveContact(hit *pairHit, motion map[handle.Entity]*entityMotion, remaining, elapsed float64) {
	first := w.entities.GetMut(hit.firstEntity.Key())
	second := w.entities.GetMut(hit.secondEntity.Key())
	if first == nil || second == nil {
		return
	}
	firstCollider, ok1 := w.colliders.Get(hit.firstCollider.Key())
	secondCollider, ok2 := w.colliders.Get(hit.secondCollider.Key())
	if !ok1 || !ok2 {
		return
	}

	position := hit.collision.Position
	normal := hit.collision.Normal
	restitution := firstCollider.RestitutionCoefficient() * secondCollider.RestitutionCoefficient()

	r1 := position.Sub(first.Orientation.Position)
	r2 := position.Sub(second.Orientation.Position)
	invI1 := first.InverseMomentOfInertia(w.logWarn)
	invI2 := second.InverseMomentOfInertia(w.logWarn)
	angularTerm1 := invI1.Mul3x1(r1.Cross(normal)).Cross(r1)
	angularTerm2 := invI2.Mul3x1(r2.Cross(normal)).Cross(r2)
	effectiveMass := inverseMass(first.TotalMass()) + inverseMass(second.TotalMass()) +
		angularTerm1.Add(angularTerm2).Dot(normal)

	var impulseMagnitude float64
	if effectiveMass > interval.Epsilon {
		relativeVelocity := first.VelocityAt(position).Sub(second.VelocityAt(position))
		impulseMagnitude = -(1 + restitution) * relativeVelocity.Dot(normal) / effectiveMass
	}
	first.ApplyImpulse(position, normal.Mul(impulseMagnitude), w.logWarn)
	second.ApplyImpulse(position, normal.Mul(-impulseMagnitude), w.logWarn)
	refreshMotion(hit.firstEntity, first, motion, remaining)
	refreshMotion(hit.secondEntity, second, motion, remaining)

	if effectiveMass > interval.Epsilon {
		w.applyFriction(first, second, firstCollider, secondCollider, position, normal, impulseMagnitude, effectiveMass)
		refreshMotion(hit.firstEntity, first, motion, remaining)
		refreshMotion(hit.secondEntity, second, motion, remaining)
	}

	finalRelativeVelocity := first.VelocityAt(position).Sub(second.VelocityAt(position))
	if math.Abs(finalRelativeVelocity.Dot(normal)) < interval.Epsilon {
		if first.Neighbors == nil {
			first.Neighbors = make(map[handle.Entity]struct{})
		}
		if second.Neighbors == nil {
			second.Neighbors = make(map[handle.Entity]struct{})
		}
		first.Neighbors[hit.secondEntity] = struct{}{}
		second.Neighbors[hit.firstEntity] = struct{}{}
	}

	w.CollisionRecords = append(w.CollisionRecords, CollisionRecord{
		FirstEntity:            hit.firstEntity,
		SecondEntity:           hit.secondEntity,
		Position:               position,
		Normal:                 normal,
		Time:                   elapsed,
		RestitutionCoefficient: restitution,
		ImpulseMagnitude:       math.Abs(impulseMagnitude),
	})
}

// applyFriction computes and applies the Coulomb friction impulse for a
// contact whose normal impulse has already been applied. The static
// coefficient is used when the ratio of normal to tangential relative
// speed falls below the product of the two colliders' friction
// thresholds; a NaN or infinite ratio (a near-zero tangential velocity)
// defaults to dynamic.
func (w *World) applyFriction(
	first, second *actor.Entity,
	firstCollider, secondCollider interface {
		FrictionThreshold() float64
		StaticFrictionCoefficient() float64
		DynamicFrictionCoefficient() float64
	},
	position, normal mgl64.Vec3,
	normalImpulse, effectiveMass float64,
) {
	relativeVelocity := first.VelocityAt(position).Sub(second.VelocityAt(position))
	normalComponent := relativeVelocity.Dot(normal)
	tangential := relativeVelocity.Sub(normal.Mul(normalComponent))
	tangentialSpeed := tangential.Len()
	if tangentialSpeed < interval.Epsilon {
		return
	}

	ratio := math.Abs(normalComponent) / tangentialSpeed
	thresholdProduct := firstCollider.FrictionThreshold() * secondCollider.FrictionThreshold()
	mu := firstCollider.DynamicFrictionCoefficient() * secondCollider.DynamicFrictionCoefficient()
	if !math.IsNaN(ratio) && !math.IsInf(ratio, 0) && ratio < thresholdProduct {
		mu = firstCollider.StaticFrictionCoefficient() * secondCollider.StaticFrictionCoefficient()
	}

	maxImpulse := tangentialSpeed / effectiveMass
	magnitude := math.Min(math.Abs(normalImpulse)*mu, maxImpulse)
	direction := tangential.Mul(1 / tangentialSpeed)
	frictionImpulse := direction.Mul(-magnitude)

	first.ApplyImpulse(position, frictionImpulse, w.logWarn)
	second.ApplyImpulse(position, frictionImpulse.Mul(-1), w.logWarn)
}

func refreshMotion(h handle.Entity, e *actor.Entity, motion map[handle.Entity]*entityMotion, remaining float64) {
	m := motion[h]
	if m == nil {
		return
	}
	m.deltaPos = e.Velocity.Mul(remaining)
	m.deltaRot = e.AngularVelocity.Mul(remaining)
}

func inverseMass(mass float64) float64 {
	if math.IsInf(mass, 1) || mass <= interval.Epsilon {
		return 0
	}
	return 1 / mass
}
