// Package query holds the pairwise geometric queries of the narrow phase:
// closest points, proximity classification and contact generation, with an
// analytic path for balls and a GJK path for any pair of support maps.
package query

import (
	"fmt"

	"github.com/akmonengine/proximity/actor"
	"github.com/akmonengine/proximity/gjk"
)

// Kind classifies the spatial relationship of two shapes for a given margin.
// Exactly one kind is produced per query.
type Kind uint8

const (
	// Intersecting: the shapes overlap, no points are reported.
	Intersecting Kind = iota
	// WithinMargin: the shapes are separated by at most the margin.
	WithinMargin
	// Disjoint: the shapes are separated by more than the margin, no points are reported.
	Disjoint
)

func (k Kind) String() string {
	switch k {
	case Intersecting:
		return "intersecting"
	case WithinMargin:
		return "within-margin"
	case Disjoint:
		return "disjoint"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ClosestPoints is the result of a closest points query.
// Points is only meaningful for WithinMargin: the point of the first shape closest
// to the second one, and the other way around, in world coordinates.
type ClosestPoints[V actor.Vector[V]] struct {
	Kind   Kind
	Points [2]V
}

// Swapped returns the result of the same query with the shapes exchanged.
func (c ClosestPoints[V]) Swapped() ClosestPoints[V] {
	c.Points[0], c.Points[1] = c.Points[1], c.Points[0]
	return c
}

func assertMargin(margin float64) {
	if !(margin >= 0) {
		panic(fmt.Sprintf("query: the proximity margin must be positive or null, got %v", margin))
	}
}

// BallAgainstBall computes the closest points between two balls analytically.
// A negative margin is a caller bug and panics.
func BallAgainstBall[V actor.Vector[V]](center1 V, b1 *actor.Ball[V], center2 V, b2 *actor.Ball[V], margin float64) ClosestPoints[V] {
	assertMargin(margin)

	r1 := b1.Radius
	r2 := b2.Radius
	deltaPos := center2.Sub(center1)
	distanceSquared := deltaPos.LenSqr()
	sumRadius := r1 + r2
	sumRadiusWithMargin := sumRadius + margin

	if distanceSquared > sumRadiusWithMargin*sumRadiusWithMargin {
		return ClosestPoints[V]{Kind: Disjoint}
	}
	// Coincident centers always land here, the delta is never normalized
	if distanceSquared <= sumRadius*sumRadius {
		return ClosestPoints[V]{Kind: Intersecting}
	}

	normal := deltaPos.Mul(1.0 / deltaPos.Len())
	return ClosestPoints[V]{
		Kind: WithinMargin,
		Points: [2]V{
			center1.Add(normal.Mul(r1)),
			center2.Sub(normal.Mul(r2)),
		},
	}
}

// SupportMapAgainstSupportMap computes the closest points between two support-mapped
// shapes (Box, ConvexHull, Ball, ...) with GJK. The simplex representation is picked
// from the placement's dimension.
func SupportMapAgainstSupportMap[V actor.Vector[V]](m1 actor.Isometry[V], g1 actor.SupportMap[V], m2 actor.Isometry[V], g2 actor.SupportMap[V], prediction float64) ClosestPoints[V] {
	return supportMapClosestPoints(m1, g1, m2, g2, prediction, gjk.Limits{})
}

func supportMapClosestPoints[V actor.Vector[V]](m1 actor.Isometry[V], g1 actor.SupportMap[V], m2 actor.Isometry[V], g2 actor.SupportMap[V], prediction float64, limits gjk.Limits) ClosestPoints[V] {
	assertMargin(prediction)

	simplex := gjk.NewSimplex[V](m1.Dim())
	result := supportMapWithParams(m1, g1, m2, g2, prediction, simplex, nil, limits)
	return FromResult(result)
}

// FromResult maps an exact-distance GJK result to closest points.
// A Proximity result can only come from the existence-only mode; receiving one here
// means the caller dispatched to the wrong engine mode, and it panics.
func FromResult[V actor.Vector[V]](result gjk.Result[V]) ClosestPoints[V] {
	switch result.Kind {
	case gjk.Projection:
		return ClosestPoints[V]{Kind: WithinMargin, Points: result.Points}
	case gjk.NoIntersection:
		return ClosestPoints[V]{Kind: Disjoint}
	case gjk.Intersection:
		return ClosestPoints[V]{Kind: Intersecting}
	}
	panic(fmt.Sprintf("query: unexpected %v result from the closest points engine", result.Kind))
}

// SupportMapAgainstSupportMapWithParams gives full control over the underlying GJK run:
// the caller provides the simplex and, optionally, the initial search direction
// (typically the direction returned by the previous frame). The raw GJK result is returned.
//
// Without initDir the search starts along m2.Translation() - m1.Translation(), the
// direction from the CSO center toward the origin.
func SupportMapAgainstSupportMapWithParams[V actor.Vector[V]](m1 actor.Isometry[V], g1 actor.SupportMap[V], m2 actor.Isometry[V], g2 actor.SupportMap[V], prediction float64, simplex gjk.Simplex[V], initDir *V) gjk.Result[V] {
	assertMargin(prediction)
	return supportMapWithParams(m1, g1, m2, g2, prediction, simplex, initDir, gjk.Limits{})
}

func supportMapWithParams[V actor.Vector[V]](m1 actor.Isometry[V], g1 actor.SupportMap[V], m2 actor.Isometry[V], g2 actor.SupportMap[V], prediction float64, simplex gjk.Simplex[V], initDir *V, limits gjk.Limits) gjk.Result[V] {
	simplex.Reset(gjk.CSOSupportPoint(m1, g1, m2, g2, initialDirection(m1, m2, initDir)))
	return gjk.ClosestPoints(m1, g1, m2, g2, prediction, simplex, limits)
}

// initialDirection never returns a zero vector: coincident placements fall back to the first axis.
func initialDirection[V actor.Vector[V]](m1, m2 actor.Isometry[V], initDir *V) V {
	var dir V
	if initDir != nil {
		dir = *initDir
	} else {
		dir = m2.Translation().Sub(m1.Translation())
	}

	if dir.LenSqr() == 0 {
		dir = actor.Axis(m1.Translation(), 0)
	}
	return dir
}
