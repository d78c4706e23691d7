// Package handle defines the stable, opaque handle types used to cross-
// reference entities, colliders, and force generators stored in a world's
// arenas. A handle never aliases a different object after its target is
// removed: see arena.Key.
package handle

import "github.com/rigidphys/rigidphys/arena"

// Entity identifies an entity stored in a world.
type Entity struct{ key arena.Key }

// Collider identifies a collider stored in a world.
type Collider struct{ key arena.Key }

// ForceGenerator identifies a unary force generator stored in a world.
type ForceGenerator struct{ key arena.Key }

// NewEntity wraps an arena.Key as an Entity handle.
func NewEntity(key arena.Key) Entity { return Entity{key: key} }

// Key returns the underlying arena.Key.
func (h Entity) Key() arena.Key { return h.key }

// NewCollider wraps an arena.Key as a Collider handle.
func NewCollider(key arena.Key) Collider { return Collider{key: key} }

// Key returns the underlying arena.Key.
func (h Collider) Key() arena.Key { return h.key }

// NewForceGenerator wraps an arena.Key as a ForceGenerator handle.
func NewForceGenerator(key arena.Key) ForceGenerator { return ForceGenerator{key: key} }

// Key returns the underlying arena.Key.
func (h ForceGenerator) Key() arena.Key { return h.key }
