package actor

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector is the arithmetic every point/vector type of the engine provides.
// mgl64.Vec2, mgl64.Vec3 and VecN satisfy it, which lets the same GJK code
// run in 2D, 3D and any other dimension.
type Vector[V any] interface {
	Add(V) V
	Sub(V) V
	Mul(float64) V
	Dot(V) float64
	Len() float64
	LenSqr() float64
}

// VecN is a value-semantics wrapper around mgl64.VecN, for dimensions other than 2 and 3.
// Every operation returns a fresh vector, the receiver is never modified.
type VecN struct {
	v *mgl64.VecN
}

// NewVecN copies data into a new vector.
func NewVecN(data ...float64) VecN {
	raw := make([]float64, len(data))
	copy(raw, data)
	return VecN{v: mgl64.NewVecNFromData(raw)}
}

// ZeroVecN returns the zero vector of dimension n.
func ZeroVecN(n int) VecN {
	return VecN{v: mgl64.NewVecNFromData(make([]float64, n))}
}

func (a VecN) Add(b VecN) VecN {
	return VecN{v: a.v.Add(nil, b.v)}
}

func (a VecN) Sub(b VecN) VecN {
	return VecN{v: a.v.Sub(nil, b.v)}
}

func (a VecN) Mul(c float64) VecN {
	return VecN{v: a.v.Mul(nil, c)}
}

func (a VecN) Dot(b VecN) float64 {
	return a.v.Dot(b.v)
}

func (a VecN) Len() float64 {
	return a.v.Len()
}

func (a VecN) LenSqr() float64 {
	return a.v.Dot(a.v)
}

// Size is the dimension of the vector.
func (a VecN) Size() int {
	if a.v == nil {
		return 0
	}
	return len(a.v.Raw())
}

// At returns the i-th coordinate.
func (a VecN) At(i int) float64 {
	return a.v.Raw()[i]
}

// Raw returns a copy of the coordinates.
func (a VecN) Raw() []float64 {
	raw := make([]float64, a.Size())
	if a.v != nil {
		copy(raw, a.v.Raw())
	}
	return raw
}

// Mgl exposes the underlying mathgl vector (shared, do not mutate).
func (a VecN) Mgl() *mgl64.VecN {
	return a.v
}

func (a VecN) String() string {
	return fmt.Sprint(a.Raw())
}

// Normalize returns v scaled to unit length together with its original length.
// ok is false when v is shorter than eps, in which case v is returned unchanged.
func Normalize[V Vector[V]](v V, eps float64) (unit V, length float64, ok bool) {
	length = v.Len()
	if length <= eps || math.IsNaN(length) {
		return v, length, false
	}
	return v.Mul(1.0 / length), length, true
}

// Axis returns the i-th canonical basis vector of the space like belongs to.
func Axis[V Vector[V]](like V, i int) V {
	var out any
	switch v := any(like).(type) {
	case mgl64.Vec2:
		var a mgl64.Vec2
		a[i] = 1
		out = a
	case mgl64.Vec3:
		var a mgl64.Vec3
		a[i] = 1
		out = a
	case VecN:
		raw := make([]float64, v.Size())
		raw[i] = 1
		out = NewVecN(raw...)
	default:
		panic(fmt.Sprintf("actor: unsupported vector type %T", like))
	}
	return out.(V)
}

// Zero returns the zero vector of the space like belongs to.
func Zero[V Vector[V]](like V) V {
	return like.Mul(0)
}
