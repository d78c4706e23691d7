package narrowphase

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/rigidphys/rigidphys/actor"
	"github.com/rigidphys/rigidphys/collider"
)

func TestCollideMeshWithMesh(t *testing.T) {
	floor := unitSquareMesh()

	falling := collider.NewMesh()
	falling.AddFace([]mgl64.Vec3{
		{0, 1, 0},
		{1, 1.2, 0},
		{0, 1.1, 1},
	})

	startFloor := actor.NewOrientation(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{})
	startFalling := actor.NewOrientation(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{})
	endFalling := actor.NewOrientation(mgl64.Vec3{0, -3, 0}, mgl64.Vec3{}, mgl64.Vec3{})

	c := Collide(falling, startFalling, endFalling, floor, startFloor, startFloor)
	if assert.NotNil(t, c) {
		assert.GreaterOrEqual(t, c.Times.Min(), 0.0)
		assert.LessOrEqual(t, c.Times.Min(), 1.0)
	}
}

func TestCollideMeshWithMeshMiss(t *testing.T) {
	floor := unitSquareMesh()

	distant := collider.NewMesh()
	distant.AddFace([]mgl64.Vec3{
		{100, 1, 0},
		{101, 1, 0},
		{100, 1, 1},
	})

	startFloor := actor.NewOrientation(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{})
	startDistant := actor.NewOrientation(mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{})
	endDistant := actor.NewOrientation(mgl64.Vec3{0, -3, 0}, mgl64.Vec3{}, mgl64.Vec3{})

	c := Collide(distant, startDistant, endDistant, floor, startFloor, startFloor)
	assert.Nil(t, c)
}
