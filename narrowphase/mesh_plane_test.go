package narrowphase

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/rigidphys/rigidphys/actor"
	"github.com/rigidphys/rigidphys/collider"
)

func TestCollideMeshWithPlane(t *testing.T) {
	m := collider.NewMesh()
	m.AddFace([]mgl64.Vec3{
		{0, 1, 0},
		{2, 1, 0},
		{0, 1, 2},
	})
	p := collider.NewPlane(mgl64.Vec3{0, 1, 0})

	startM := actor.NewOrientation(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{})
	endM := actor.NewOrientation(mgl64.Vec3{0, -2, 0}, mgl64.Vec3{}, mgl64.Vec3{})
	staticO := actor.NewOrientation(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{})

	c := Collide(m, startM, endM, p, staticO, staticO)
	if assert.NotNil(t, c) {
		assert.InDelta(t, 0.5, c.Times.Min(), 1e-9)
		assert.InDelta(t, -1, c.Normal.Y(), 1e-9)
		assert.InDelta(t, 2.0/3.0, c.Position.X(), 1e-9)
		assert.InDelta(t, 1, c.Position.Y(), 1e-9)
		assert.InDelta(t, 2.0/3.0, c.Position.Z(), 1e-9)
	}
}

func TestCollideMeshWithPlaneNoContact(t *testing.T) {
	m := collider.NewMesh()
	m.AddFace([]mgl64.Vec3{
		{0, 5, 0},
		{2, 5, 0},
		{0, 5, 2},
	})
	p := collider.NewPlane(mgl64.Vec3{0, 1, 0})

	startM := actor.NewOrientation(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{})
	endM := actor.NewOrientation(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, mgl64.Vec3{})
	staticO := actor.NewOrientation(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{})

	c := Collide(m, startM, endM, p, staticO, staticO)
	assert.Nil(t, c)
}
