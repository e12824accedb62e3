package query

import (
	"fmt"

	"github.com/akmonengine/proximity/actor"
	"github.com/akmonengine/proximity/gjk"
)

// ClosestPointsBetween picks the closest points strategy for a pair of shapes:
// the analytic formula when both are balls, GJK otherwise.
func ClosestPointsBetween[V actor.Vector[V]](m1 actor.Isometry[V], g1 actor.Shape[V], m2 actor.Isometry[V], g2 actor.Shape[V], margin float64) ClosestPoints[V] {
	if b1, b2, ok := balls(g1, g2); ok {
		return BallAgainstBall(m1.Translation(), b1, m2.Translation(), b2, margin)
	}
	return SupportMapAgainstSupportMap[V](m1, g1, m2, g2, margin)
}

// ProximityBetween only classifies the pair, without computing any point.
// Support maps go through the existence-only GJK mode, which stops as soon as
// the classification is known.
func ProximityBetween[V actor.Vector[V]](m1 actor.Isometry[V], g1 actor.Shape[V], m2 actor.Isometry[V], g2 actor.Shape[V], margin float64) Kind {
	if b1, b2, ok := balls(g1, g2); ok {
		return BallAgainstBall(m1.Translation(), b1, m2.Translation(), b2, margin).Kind
	}

	assertMargin(margin)
	simplex := gjk.NewSimplex[V](m1.Dim())
	simplex.Reset(gjk.CSOSupportPoint[V](m1, g1, m2, g2, initialDirection(m1, m2, nil)))

	result := gjk.ProximityOf[V](m1, g1, m2, g2, margin, simplex, gjk.Limits{})
	switch result.Kind {
	case gjk.Intersection:
		return Intersecting
	case gjk.Proximity:
		return WithinMargin
	case gjk.NoIntersection:
		return Disjoint
	}
	panic(fmt.Sprintf("query: unexpected %v result from the proximity engine", result.Kind))
}

func balls[V actor.Vector[V]](g1, g2 actor.Shape[V]) (*actor.Ball[V], *actor.Ball[V], bool) {
	b1, ok1 := g1.(*actor.Ball[V])
	b2, ok2 := g2.(*actor.Ball[V])
	return b1, b2, ok1 && ok2
}
