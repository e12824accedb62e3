package actor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestVecN(t *testing.T) {
	a := NewVecN(1, 2, 3, 4)
	b := NewVecN(4, 3, 2, 1)

	assert.Equal(t, []float64{5, 5, 5, 5}, a.Add(b).Raw())
	assert.Equal(t, []float64{-3, -1, 1, 3}, a.Sub(b).Raw())
	assert.Equal(t, []float64{2, 4, 6, 8}, a.Mul(2).Raw())
	assert.Equal(t, 20.0, a.Dot(b))
	assert.Equal(t, 30.0, a.LenSqr())
	assert.Equal(t, 4, a.Size())
	assert.Equal(t, 3.0, a.At(2))

	// value semantics: operations never modify their operands
	assert.Equal(t, []float64{1, 2, 3, 4}, a.Raw())
}

func TestNormalize(t *testing.T) {
	t.Run("regular vector", func(t *testing.T) {
		unit, length, ok := Normalize(mgl64.Vec3{3, 4, 0}, 0)
		assert.True(t, ok)
		assert.InDelta(t, 5, length, 1e-12)
		assert.InDelta(t, 1, unit.Len(), 1e-12)
	})

	t.Run("too short", func(t *testing.T) {
		_, _, ok := Normalize(mgl64.Vec2{1e-9, 0}, 1e-6)
		assert.False(t, ok)
	})

	t.Run("zero vector", func(t *testing.T) {
		_, _, ok := Normalize(ZeroVecN(5), 0)
		assert.False(t, ok)
	})
}

func TestAxis(t *testing.T) {
	assert.Equal(t, mgl64.Vec2{0, 1}, Axis(mgl64.Vec2{5, 5}, 1))
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, Axis(mgl64.Vec3{}, 0))
	assert.Equal(t, []float64{0, 0, 1, 0, 0}, Axis(ZeroVecN(5), 2).Raw())
	assert.Equal(t, []float64{0, 0, 0}, Zero(NewVecN(1, 2, 3)).Raw())
}
