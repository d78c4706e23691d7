package rigidphys

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigidphys/rigidphys/actor"
	"github.com/rigidphys/rigidphys/collider"
	"github.com/rigidphys/rigidphys/handle"
)

func newBall(t *testing.T, w *World, position mgl64.Vec3, mass, radius float64) (handle.Entity, handle.Collider) {
	t.Helper()
	eh, err := w.AddEntity(actor.NewEntity(position, 0))
	require.NoError(t, err)
	sphere := collider.NewSphere(radius)
	sphere.Mass = mass
	ch, err := w.AddCollider(sphere)
	require.NoError(t, err)
	require.NoError(t, w.LinkCollider(ch, &eh))
	return eh, ch
}

func TestAddEntityRejectsNegativeMass(t *testing.T) {
	w := NewWorld()
	_, err := w.AddEntity(actor.NewEntity(mgl64.Vec3{}, -1))
	assert.Error(t, err)
}

func TestHandleStabilityAcrossUnrelatedChurn(t *testing.T) {
	w := NewWorld()
	eh, _ := newBall(t, w, mgl64.Vec3{0, 0, 0}, 1, 1)

	other, _ := newBall(t, w, mgl64.Vec3{10, 10, 10}, 1, 1)
	w.RemoveEntity(other)
	_, _ = newBall(t, w, mgl64.Vec3{20, 20, 20}, 1, 1)

	snap, ok := w.GetEntity(eh)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, snap.Orientation.Position)
}

func TestRemoveEntityInvalidatesHandle(t *testing.T) {
	w := NewWorld()
	eh, _ := newBall(t, w, mgl64.Vec3{}, 1, 1)
	require.True(t, w.RemoveEntity(eh))
	_, ok := w.GetEntity(eh)
	assert.False(t, ok)
	assert.False(t, w.RemoveEntity(eh))
}

func TestLinkBidirectionality(t *testing.T) {
	w := NewWorld()
	eh, ch := newBall(t, w, mgl64.Vec3{}, 1, 1)

	entitySnap, ok := w.GetEntity(eh)
	require.True(t, ok)
	_, linked := entitySnap.Colliders[ch]
	assert.True(t, linked)

	colliderSnap, ok := w.GetCollider(ch)
	require.True(t, ok)
	owner, hasOwner := colliderSnap.LinkedEntity()
	require.True(t, hasOwner)
	assert.Equal(t, eh, owner)
}

func TestMassRollupOnLinkAndUnlink(t *testing.T) {
	w := NewWorld()
	eh, err := w.AddEntity(actor.NewEntity(mgl64.Vec3{}, 2))
	require.NoError(t, err)

	s1 := collider.NewSphere(1)
	s1.Mass = 3
	h1, err := w.AddCollider(s1)
	require.NoError(t, err)
	require.NoError(t, w.LinkCollider(h1, &eh))

	snap, _ := w.GetEntity(eh)
	assert.InDelta(t, 5, snap.TotalMass(), 1e-9)

	require.NoError(t, w.LinkCollider(h1, nil))
	snap, _ = w.GetEntity(eh)
	assert.InDelta(t, 2, snap.TotalMass(), 1e-9)
}

func TestMassRollupInfiniteAbsorbs(t *testing.T) {
	w := NewWorld()
	eh, err := w.AddEntity(actor.NewEntity(mgl64.Vec3{}, 1))
	require.NoError(t, err)

	plane := collider.NewPlane(mgl64.Vec3{0, 1, 0})
	plane.Mass = math.Inf(1)
	ph, err := w.AddCollider(plane)
	require.NoError(t, err)
	require.NoError(t, w.LinkCollider(ph, &eh))

	snap, _ := w.GetEntity(eh)
	assert.True(t, snap.IsInfiniteMass())
}

func TestCoMInvarianceAcrossLink(t *testing.T) {
	w := NewWorld()
	eh, err := w.AddEntity(actor.NewEntity(mgl64.Vec3{5, 0, 0}, 0))
	require.NoError(t, err)

	before, _ := w.GetEntity(eh)
	localOriginBefore := before.Orientation.LocalOriginInWorld()

	sphere := collider.NewSphere(1)
	sphere.Mass = 4
	sphere.Center = mgl64.Vec3{2, 0, 0}
	ch, err := w.AddCollider(sphere)
	require.NoError(t, err)
	require.NoError(t, w.LinkCollider(ch, &eh))

	after, _ := w.GetEntity(eh)
	localOriginAfter := after.Orientation.LocalOriginInWorld()
	assert.InDelta(t, 0, localOriginBefore.Sub(localOriginAfter).Len(), 1e-9)
}

func TestLinkColliderTransfersBetweenEntities(t *testing.T) {
	w := NewWorld()
	e1, err := w.AddEntity(actor.NewEntity(mgl64.Vec3{}, 1))
	require.NoError(t, err)
	e2, err := w.AddEntity(actor.NewEntity(mgl64.Vec3{5, 0, 0}, 1))
	require.NoError(t, err)

	sphere := collider.NewSphere(1)
	sphere.Mass = 2
	ch, err := w.AddCollider(sphere)
	require.NoError(t, err)

	require.NoError(t, w.LinkCollider(ch, &e1))
	snap1, _ := w.GetEntity(e1)
	assert.InDelta(t, 3, snap1.TotalMass(), 1e-9)

	require.NoError(t, w.LinkCollider(ch, &e2))
	snap1, _ = w.GetEntity(e1)
	snap2, _ := w.GetEntity(e2)
	assert.InDelta(t, 1, snap1.TotalMass(), 1e-9)
	assert.InDelta(t, 3, snap2.TotalMass(), 1e-9)
}

func TestLinkColliderStaleHandleErrors(t *testing.T) {
	w := NewWorld()
	eh, err := w.AddEntity(actor.NewEntity(mgl64.Vec3{}, 1))
	require.NoError(t, err)
	sphere := collider.NewSphere(1)
	ch, err := w.AddCollider(sphere)
	require.NoError(t, err)
	require.True(t, w.RemoveEntity(eh))

	assert.Error(t, w.LinkCollider(ch, &eh))
}

func TestRemoveEntityCascadesColliders(t *testing.T) {
	w := NewWorld()
	eh, ch := newBall(t, w, mgl64.Vec3{}, 1, 1)
	require.True(t, w.RemoveEntity(eh))
	_, ok := w.GetCollider(ch)
	assert.False(t, ok)
}
