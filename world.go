// Package rigidphys is a continuous-collision, impulse-based 3-D rigid
// body simulation kernel: a World stores entities, colliders, and unary
// force generators behind stable handles and advances them with Step.
package rigidphys

import (
	"log"

	"github.com/rigidphys/rigidphys/actor"
	"github.com/rigidphys/rigidphys/arena"
	"github.com/rigidphys/rigidphys/collider"
	"github.com/rigidphys/rigidphys/handle"
	"github.com/rigidphys/rigidphys/rerr"
)

// DefaultIterationMax bounds how many contacts a single Step resolves;
// once it is reached, the rest of dt's motion is applied without further
// contact checks.
const DefaultIterationMax = 5

// DefaultEnergySleepThreshold is the kinetic energy below which an entity
// starts its falling-asleep dwell timer.
const DefaultEnergySleepThreshold = 1e-3

// DefaultSleepTimeThreshold is how long an entity must stay below the
// energy threshold before it is put to sleep.
const DefaultSleepTimeThreshold = 0.1

// World owns every entity, collider, and unary force generator in a
// simulation, plus the scalars that govern one Step.
type World struct {
	entities  arena.Arena[actor.Entity]
	colliders arena.Arena[collider.Collider]
	forceGens arena.Arena[UnaryForceGenerator]

	IterationMax         int
	EnergySleepThreshold float64
	SleepTimeThreshold   float64

	// CollisionRecords holds the contacts resolved by the most recent
	// Step, earliest first. Replaced (not appended to) on every call.
	CollisionRecords []CollisionRecord

	// Logger receives NumericWarning-class diagnostics. Defaults to
	// log.Printf; set to nil to silence them.
	Logger func(string, ...any)
}

// NewWorld returns an empty World with the reference default scalars.
func NewWorld() *World {
	return &World{
		IterationMax:         DefaultIterationMax,
		EnergySleepThreshold: DefaultEnergySleepThreshold,
		SleepTimeThreshold:   DefaultSleepTimeThreshold,
		Logger:               log.Printf,
	}
}

func (w *World) logWarn(message string) {
	if w.Logger != nil {
		w.Logger("%s", message)
	}
}

// AddEntity inserts e and returns its handle. Fails if e.OwnMass is
// negative, leaving the world unchanged.
func (w *World) AddEntity(e actor.Entity) (handle.Entity, error) {
	if e.OwnMass < 0 {
		return handle.Entity{}, rerr.NewValidationError("own_mass", "must be non-negative")
	}
	if e.Colliders == nil {
		e.Colliders = make(map[handle.Collider]struct{})
	}
	if e.Neighbors == nil {
		e.Neighbors = make(map[handle.Entity]struct{})
	}
	e.RecalculateMass(w.colliderLookup())
	key := w.entities.Insert(e)
	return handle.NewEntity(key), nil
}

// RemoveEntity deletes h and cascades to removing every collider still
// linked to it. Reports whether h referred to a live entity.
func (w *World) RemoveEntity(h handle.Entity) bool {
	e, ok := w.entities.Get(h.Key())
	if !ok {
		return false
	}
	for colliderHandle := range e.Colliders {
		w.colliders.Remove(colliderHandle.Key())
	}
	w.entities.Remove(h.Key())
	return true
}

// GetEntity returns a value-copy snapshot of the entity at h, or false if
// h is stale or unknown.
func (w *World) GetEntity(h handle.Entity) (actor.Entity, bool) {
	return w.entities.Get(h.Key())
}

// UpdateEntity overwrites the entity at h with snapshot, preserving its
// collider links and sleep state (snapshot.Colliders/Asleep/Neighbors are
// ignored; use LinkCollider to change links). Recalculates mass and wakes
// the entity plus its transitive neighbors if any settable field
// materially changed.
func (w *World) UpdateEntity(h handle.Entity, snapshot actor.Entity) error {
	current, ok := w.entities.Get(h.Key())
	if !ok {
		return rerr.NewHandleError("update_entity")
	}
	if snapshot.OwnMass < 0 {
		return rerr.NewValidationError("own_mass", "must be non-negative")
	}

	changed := materiallyChanged(current, snapshot)

	snapshot.Colliders = current.Colliders
	snapshot.Neighbors = current.Neighbors
	snapshot.Asleep = current.Asleep
	snapshot.FallingAsleep = current.FallingAsleep
	snapshot.FallingAsleepTime = current.FallingAsleepTime
	snapshot.RecalculateMass(w.colliderLookup())

	w.entities.Set(h.Key(), snapshot)
	if changed {
		w.wake(h)
	}
	return nil
}

// materiallyChanged reports whether any of the publicly settable fields
// of an entity differ by more than a small epsilon. A material change
// wakes the entity and its transitive contact neighbors.
func materiallyChanged(a, b actor.Entity) bool {
	const eps = 1e-9
	return a.OwnMass != b.OwnMass ||
		a.Orientation.Position.Sub(b.Orientation.Position).Len() > eps ||
		a.Orientation.RotationVec().Sub(b.Orientation.RotationVec()).Len() > eps ||
		a.Velocity.Sub(b.Velocity).Len() > eps ||
		a.AngularVelocity.Sub(b.AngularVelocity).Len() > eps
}

// AddCollider validates and inserts c, returning its handle. c is not
// linked to any entity; use LinkCollider for that.
func (w *World) AddCollider(c collider.Collider) (handle.Collider, error) {
	if err := c.Validate(); err != nil {
		return handle.Collider{}, err
	}
	c = normalizeOnInsert(c)
	key := w.colliders.Insert(c)
	return handle.NewCollider(key), nil
}

// normalizeOnInsert applies per-variant post-validation normalization
// (unit-length plane normals, canonicalized box corners) before a
// collider is stored.
func normalizeOnInsert(c collider.Collider) collider.Collider {
	switch v := c.(type) {
	case *collider.Plane:
		return v.Normalized()
	case *collider.AlignedBox:
		return v.Canonicalized()
	default:
		return c
	}
}

// RemoveCollider deletes the collider at h, unlinking and recalculating
// its owning entity's mass rollup if it had one.
func (w *World) RemoveCollider(h handle.Collider) bool {
	c, ok := w.colliders.Get(h.Key())
	if !ok {
		return false
	}
	if owner, linked := c.LinkedEntity(); linked {
		if e := w.entities.GetMut(owner.Key()); e != nil {
			e.UnlinkCollider(h)
			e.RecalculateMass(w.colliderLookup())
		}
	}
	w.colliders.Remove(h.Key())
	return true
}

// GetCollider returns a value-copy snapshot of the collider at h (still
// behind the Collider interface, so the concrete variant survives).
func (w *World) GetCollider(h handle.Collider) (collider.Collider, bool) {
	return w.colliders.Get(h.Key())
}

// UpdateCollider validates and overwrites the collider at h, preserving
// its current entity link (any link carried on snapshot is ignored), and
// recalculates and wakes the owning entity.
func (w *World) UpdateCollider(h handle.Collider, snapshot collider.Collider) error {
	current, ok := w.colliders.Get(h.Key())
	if !ok {
		return rerr.NewHandleError("update_collider")
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}
	snapshot = normalizeOnInsert(snapshot)
	if owner, linked := current.LinkedEntity(); linked {
		snapshot.SetLinkedEntity(owner, true)
	} else {
		snapshot.SetLinkedEntity(handle.Entity{}, false)
	}
	w.colliders.Set(h.Key(), snapshot)
	if owner, linked := snapshot.LinkedEntity(); linked {
		if e := w.entities.GetMut(owner.Key()); e != nil {
			e.RecalculateMass(w.colliderLookup())
		}
		w.wake(owner)
	}
	return nil
}

// LinkCollider attaches colliderHandle to entityHandle (transferring it
// away from any prior owner), or unlinks it if entityHandle is nil.
// Idempotent when entityHandle already owns it. Mirrors the reference
// engine's bidirectional-transfer algorithm: verify the collider exists;
// if a new owner is given, insert into its collider set and recalculate;
// then, if the prior owner differs, remove from its set and recalculate
// that one too.
func (w *World) LinkCollider(colliderHandle handle.Collider, entityHandle *handle.Entity) error {
	c, ok := w.colliders.Get(colliderHandle.Key())
	if !ok {
		return rerr.NewHandleError("link_collider")
	}

	prior, wasLinked := c.LinkedEntity()

	if entityHandle != nil {
		e := w.entities.GetMut(entityHandle.Key())
		if e == nil {
			return rerr.NewHandleError("link_collider")
		}
		e.LinkCollider(colliderHandle)
		e.RecalculateMass(w.colliderLookup())
		c.SetLinkedEntity(*entityHandle, true)
		w.colliders.Set(colliderHandle.Key(), c)
	} else {
		c.SetLinkedEntity(handle.Entity{}, false)
		w.colliders.Set(colliderHandle.Key(), c)
	}

	if wasLinked && (entityHandle == nil || prior.Key() != entityHandle.Key()) {
		if priorEntity := w.entities.GetMut(prior.Key()); priorEntity != nil {
			priorEntity.UnlinkCollider(colliderHandle)
			priorEntity.RecalculateMass(w.colliderLookup())
		}
	}
	return nil
}

// AddUnaryForceGenerator registers fg, returning its handle.
func (w *World) AddUnaryForceGenerator(fg UnaryForceGenerator) handle.ForceGenerator {
	key := w.forceGens.Insert(fg)
	return handle.NewForceGenerator(key)
}

// RemoveUnaryForceGenerator deletes the generator at h, returning it and
// true on success.
func (w *World) RemoveUnaryForceGenerator(h handle.ForceGenerator) (UnaryForceGenerator, bool) {
	return w.forceGens.Remove(h.Key())
}

// colliderLookup adapts the collider arena to actor.ColliderLookup.
func (w *World) colliderLookup() actor.ColliderLookup {
	return func(h handle.Collider) (actor.ColliderMassProperties, bool) {
		c, ok := w.colliders.Get(h.Key())
		if !ok {
			return nil, false
		}
		return c, true
	}
}
