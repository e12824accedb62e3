package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform(t *testing.T) {
	t.Run("zero rotation is the identity", func(t *testing.T) {
		transform := Transform{Position: mgl64.Vec3{1, 2, 3}}
		assert.Equal(t, mgl64.Vec3{2, 2, 3}, transform.TransformPoint(mgl64.Vec3{1, 0, 0}))
		assert.Equal(t, 3, transform.Dim())
	})

	t.Run("inverse rotation", func(t *testing.T) {
		transform := Transform{
			Position: mgl64.Vec3{0, 0, 0},
			Rotation: mgl64.QuatRotate(0.7, mgl64.Vec3{1, 2, 3}.Normalize()),
		}
		v := mgl64.Vec3{0.3, -1, 2}
		back := transform.InverseRotate(transform.Rotate(v))
		if !vec3Equal(back, v, 1e-12) {
			t.Errorf("InverseRotate(Rotate(%v)) = %v", v, back)
		}
	})
}

func TestTransform2(t *testing.T) {
	transform := Transform2{Position: mgl64.Vec2{1, 0}, Angle: math.Pi / 2}

	p := transform.TransformPoint(mgl64.Vec2{1, 0})
	assert.InDelta(t, 1, p.X(), 1e-12)
	assert.InDelta(t, 1, p.Y(), 1e-12)

	v := mgl64.Vec2{0.5, 2}
	back := transform.InverseRotate(transform.Rotate(v))
	assert.InDelta(t, v.X(), back.X(), 1e-12)
	assert.InDelta(t, v.Y(), back.Y(), 1e-12)
	assert.Equal(t, 2, transform.Dim())
}

func TestTransformN(t *testing.T) {
	t.Run("no rotation", func(t *testing.T) {
		transform := NewTransformN(1, 2, 3, 4)
		require.Equal(t, 4, transform.Dim())
		assert.Equal(t, []float64{2, 2, 3, 4}, transform.TransformPoint(NewVecN(1, 0, 0, 0)).Raw())
	})

	t.Run("axis swap rotation", func(t *testing.T) {
		// swaps the first two axes and flips the sign of the first one
		rotation := mgl64.NewMatrixFromData([]float64{
			0, 1, 0, 0,
			-1, 0, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}, 4, 4)
		transform := TransformN{Position: NewVecN(0, 0, 0, 0), Rotation: rotation}

		v := NewVecN(1, 2, 3, 4)
		back := transform.InverseRotate(transform.Rotate(v))
		assert.InDeltaSlice(t, v.Raw(), back.Raw(), 1e-12)
	})
}
