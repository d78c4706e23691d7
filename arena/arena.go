// Package arena implements a generational arena: a slice-backed store whose
// handles (index + generation) stay meaningful across insertions and
// removals and detect stale references instead of silently aliasing a
// different, later occupant of the same slot.
package arena

// Key identifies a slot in an Arena. The generation changes every time a
// slot is reused, so a Key copied before a Remove never matches after the
// slot is handed back out.
type Key struct {
	index      uint32
	generation uint32
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Arena is a generic, stable-handle store. The zero value is ready to use.
type Arena[T any] struct {
	slots     []slot[T]
	freeList  []uint32
	liveCount int
}

// Insert stores value and returns a Key that remains valid until the
// corresponding Remove.
func (a *Arena[T]) Insert(value T) Key {
	a.liveCount++
	if n := len(a.freeList); n > 0 {
		index := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		s := &a.slots[index]
		s.value = value
		s.occupied = true
		return Key{index: index, generation: s.generation}
	}
	index := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{value: value, occupied: true})
	return Key{index: index, generation: 0}
}

// Get returns the value stored at key, or false if key is stale or was
// never issued by this Arena.
func (a *Arena[T]) Get(key Key) (T, bool) {
	var zero T
	s, ok := a.slotFor(key)
	if !ok {
		return zero, false
	}
	return s.value, true
}

// GetMut returns a pointer to the stored value for in-place mutation, or
// nil if key is stale.
func (a *Arena[T]) GetMut(key Key) *T {
	s, ok := a.slotFor(key)
	if !ok {
		return nil
	}
	return &s.value
}

// Set overwrites the value at key. Returns false if key is stale.
func (a *Arena[T]) Set(key Key, value T) bool {
	s, ok := a.slotFor(key)
	if !ok {
		return false
	}
	s.value = value
	return true
}

// Contains reports whether key currently refers to a live slot.
func (a *Arena[T]) Contains(key Key) bool {
	_, ok := a.slotFor(key)
	return ok
}

// Remove evicts the value at key, bumping the slot's generation so any
// copy of key becomes stale. Returns the removed value and true on
// success.
func (a *Arena[T]) Remove(key Key) (T, bool) {
	var zero T
	if int(key.index) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[key.index]
	if !s.occupied || s.generation != key.generation {
		return zero, false
	}
	value := s.value
	s.value = zero
	s.occupied = false
	s.generation++
	a.freeList = append(a.freeList, key.index)
	a.liveCount--
	return value, true
}

// Len returns the number of live entries.
func (a *Arena[T]) Len() int { return a.liveCount }

// Keys returns the keys of all live entries, in slot order.
func (a *Arena[T]) Keys() []Key {
	keys := make([]Key, 0, a.liveCount)
	for index := range a.slots {
		s := &a.slots[index]
		if s.occupied {
			keys = append(keys, Key{index: uint32(index), generation: s.generation})
		}
	}
	return keys
}

// Each calls fn for every live entry, in slot order. fn must not mutate
// the Arena itself (use GetMut by key for that).
func (a *Arena[T]) Each(fn func(Key, *T)) {
	for index := range a.slots {
		s := &a.slots[index]
		if s.occupied {
			fn(Key{index: uint32(index), generation: s.generation}, &s.value)
		}
	}
}

func (a *Arena[T]) slotFor(key Key) (*slot[T], bool) {
	if int(key.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[key.index]
	if !s.occupied || s.generation != key.generation {
		return nil, false
	}
	return s, true
}
