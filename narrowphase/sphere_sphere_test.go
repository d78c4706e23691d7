package narrowphase

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/rigidphys/rigidphys/actor"
	"github.com/rigidphys/rigidphys/collider"
)

func TestCollideSphereWithSphere(t *testing.T) {
	s1 := collider.NewSphere(1)
	s2 := collider.NewSphere(1)

	start1 := actor.NewOrientation(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{})
	end1 := actor.NewOrientation(mgl64.Vec3{3, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{})
	start2 := actor.NewOrientation(mgl64.Vec3{4, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{})
	end2 := start2

	c := Collide(s1, start1, end1, s2, start2, end2)
	if assert.NotNil(t, c) {
		assert.InDelta(t, 2.0/3.0, c.Times.Min(), 1e-9)
		assert.InDelta(t, 3, c.Position.X(), 1e-9)
		assert.InDelta(t, 0, c.Position.Y(), 1e-9)
		assert.InDelta(t, 1, c.Normal.X(), 1e-9)
	}
}

func TestCollideSphereWithSphereNoContact(t *testing.T) {
	s1 := collider.NewSphere(1)
	s2 := collider.NewSphere(1)

	start1 := actor.NewOrientation(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{})
	end1 := actor.NewOrientation(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{})
	start2 := actor.NewOrientation(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{})
	end2 := start2

	c := Collide(s1, start1, end1, s2, start2, end2)
	assert.Nil(t, c)
}
