package gjk

import (
	"github.com/akmonengine/proximity/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// duplicateThreshold is the squared distance under which a new support point
// is considered already part of the simplex.
const duplicateThreshold = 1e-20

// SupportPoint is a point of the Minkowski difference (CSO) A - B, annotated
// with the two shape points that produced it: Point = Orig1 - Orig2.
type SupportPoint[V actor.Vector[V]] struct {
	Point V
	Orig1 V
	Orig2 V
}

// Swapped re-expresses the point for the pair (B, A).
func (p SupportPoint[V]) Swapped() SupportPoint[V] {
	return SupportPoint[V]{
		Point: p.Orig2.Sub(p.Orig1),
		Orig1: p.Orig2,
		Orig2: p.Orig1,
	}
}

// CSOSupportPoint computes a support point of the Minkowski difference A - B
// along direction: furthestPoint(A, direction) - furthestPoint(B, -direction).
//
// This is the fundamental query that makes GJK work for any convex shape - shapes only
// need to implement a Support() function, not expose their full geometry.
// A zero direction has no support point and is a caller bug.
func CSOSupportPoint[V actor.Vector[V]](m1 actor.Isometry[V], g1 actor.SupportMap[V], m2 actor.Isometry[V], g2 actor.SupportMap[V], direction V) SupportPoint[V] {
	if direction.LenSqr() == 0 {
		panic("gjk: support point requested along a zero direction")
	}

	supportA := actor.SupportWorld(m1, g1, direction)
	supportB := actor.SupportWorld(m2, g2, direction.Mul(-1))

	return SupportPoint[V]{
		Point: supportA.Sub(supportB),
		Orig1: supportA,
		Orig2: supportB,
	}
}

// Simplex is the evolving set of at most d+1 support points GJK uses to track
// the feature of the CSO closest to the origin.
//
// Implementations differ only in storage, they must agree on every result.
type Simplex[V actor.Vector[V]] interface {
	// Reset empties the simplex and starts it from a single point
	Reset(p SupportPoint[V])
	// AddPoint appends p, returning false when p is already part of the simplex
	AddPoint(p SupportPoint[V]) bool
	// ProjectOriginAndReduce returns the point of the simplex hull closest to the origin
	// (annotated with the matching shape points) and drops every vertex that does not
	// support it.
	ProjectOriginAndReduce() SupportPoint[V]
	// Dimension is the number of points minus one
	Dimension() int
	// Points returns the current vertices; the slice is only valid until the next mutation
	Points() []SupportPoint[V]
}

// NewSimplex picks the simplex representation for a dimension tag:
// VoronoiSimplex2 for planar vectors, VoronoiSimplex3 for 3D vectors, JohnsonSimplex otherwise.
func NewSimplex[V actor.Vector[V]](dim int) Simplex[V] {
	var s any
	switch dim {
	case 2:
		s = &VoronoiSimplex2{}
	case 3:
		s = &VoronoiSimplex3{}
	}
	if simplex, ok := s.(Simplex[V]); ok {
		return simplex
	}
	return NewJohnsonSimplex[V](dim)
}

var (
	_ Simplex[mgl64.Vec2] = (*VoronoiSimplex2)(nil)
	_ Simplex[mgl64.Vec3] = (*VoronoiSimplex3)(nil)
	_ Simplex[actor.VecN] = (*JohnsonSimplex[actor.VecN])(nil)
	_ Simplex[mgl64.Vec3] = (*JohnsonSimplex[mgl64.Vec3])(nil)
)

// combine returns the barycentric combination of points with the given weights.
func combine[V actor.Vector[V]](points []SupportPoint[V], weights []float64) SupportPoint[V] {
	result := SupportPoint[V]{
		Point: points[0].Point.Mul(weights[0]),
		Orig1: points[0].Orig1.Mul(weights[0]),
		Orig2: points[0].Orig2.Mul(weights[0]),
	}
	for i := 1; i < len(points); i++ {
		result.Point = result.Point.Add(points[i].Point.Mul(weights[i]))
		result.Orig1 = result.Orig1.Add(points[i].Orig1.Mul(weights[i]))
		result.Orig2 = result.Orig2.Add(points[i].Orig2.Mul(weights[i]))
	}
	return result
}

// contains reports whether p duplicates one of points.
func contains[V actor.Vector[V]](points []SupportPoint[V], p SupportPoint[V]) bool {
	for _, q := range points {
		if q.Point.Sub(p.Point).LenSqr() <= duplicateThreshold {
			return true
		}
	}
	return false
}
