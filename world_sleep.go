package rigidphys

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/rigidphys/rigidphys/actor"
	"github.com/rigidphys/rigidphys/arena"
	"github.com/rigidphys/rigidphys/handle"
)

// wake clears the sleep state of seed and transitively of every entity
// reachable through its neighbor graph. An infinite-mass neighbor is
// never woken or recursed into (it cannot move, so it is not a resting
// contact that needs reconsidering), but the waking entity is still
// removed from its neighbor set so a stale resting-contact edge doesn't
// later suppress a real collision search against it.
func (w *World) wake(seed handle.Entity) {
	visited := map[handle.Entity]bool{seed: true}
	queue := []handle.Entity{seed}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		e := w.entities.GetMut(current.Key())
		if e == nil {
			continue
		}
		neighbors := e.Neighbors
		e.Wake()

		for neighbor := range neighbors {
			ne := w.entities.GetMut(neighbor.Key())
			if ne == nil {
				continue
			}
			if ne.IsInfiniteMass() {
				delete(ne.Neighbors, current)
				continue
			}
			if visited[neighbor] {
				continue
			}
			visited[neighbor] = true
			queue = append(queue, neighbor)
		}
	}
}

// stepSleepStateMachine runs the per-entity energy/dwell-timer sleep
// transition after the iteration loop has already seeded this step's
// resting-contact neighbor edges via resolveContact. An
// already-sleeping entity has its velocities zeroed
// to guard against drift introduced by computeTentativeMotion's
// still-sleeping integration.
func (w *World) stepSleepStateMachine(dt float64) {
	w.entities.Each(func(key arena.Key, e *actor.Entity) {
		selfHandle := handle.NewEntity(key)

		if e.Asleep {
			e.Velocity = mgl64.Vec3{}
			e.AngularVelocity = mgl64.Vec3{}
			return
		}
		// Infinite-mass bodies never move, so they never sleep; letting
		// one sleep would also let stale neighbor edges accumulate on it.
		if e.IsInfiniteMass() {
			return
		}

		energy := e.TotalEnergy(w.logWarn)
		if energy > w.EnergySleepThreshold {
			e.FallingAsleep = false
			e.FallingAsleepTime = 0
			return
		}

		if e.FallingAsleep {
			e.FallingAsleepTime += dt
		} else {
			e.FallingAsleep = true
		}

		if e.FallingAsleepTime >= w.SleepTimeThreshold {
			e.Asleep = true
			for neighbor := range e.Neighbors {
				ne := w.entities.GetMut(neighbor.Key())
				if ne == nil {
					continue
				}
				if ne.Neighbors == nil {
					ne.Neighbors = make(map[handle.Entity]struct{})
				}
				ne.Neighbors[selfHandle] = struct{}{}
			}
		}
	})
}
