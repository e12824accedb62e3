package query

import (
	"errors"
	"math"

	"github.com/akmonengine/proximity/actor"
	"github.com/akmonengine/proximity/epa"
	"github.com/akmonengine/proximity/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// Contact is a single contact point between two shapes.
//
// Normal is a unit vector pointing from the first shape toward the second one.
// Depth > 0 is a penetration: moving the second shape by Normal*Depth separates them.
// Depth <= 0 is a gap of -Depth, reported because it is within the prediction distance.
type Contact[V actor.Vector[V]] struct {
	World1 V
	World2 V
	Normal V
	Depth  float64
}

// Flipped returns the same contact seen from the second shape.
func (c Contact[V]) Flipped() Contact[V] {
	return Contact[V]{
		World1: c.World2,
		World2: c.World1,
		Normal: c.Normal.Mul(-1),
		Depth:  c.Depth,
	}
}

// BallAgainstBallContact computes the contact between two balls, if they are
// closer than prediction. Coincident centers use the first axis as normal.
func BallAgainstBallContact[V actor.Vector[V]](center1 V, b1 *actor.Ball[V], center2 V, b2 *actor.Ball[V], prediction float64) (Contact[V], bool) {
	assertMargin(prediction)

	deltaPos := center2.Sub(center1)
	sumRadius := b1.Radius + b2.Radius
	limit := sumRadius + prediction
	if deltaPos.LenSqr() > limit*limit {
		return Contact[V]{}, false
	}

	normal, distance, ok := actor.Normalize(deltaPos, 0)
	if !ok {
		normal = actor.Axis(center1, 0)
	}

	return Contact[V]{
		World1: center1.Add(normal.Mul(b1.Radius)),
		World2: center2.Sub(normal.Mul(b2.Radius)),
		Normal: normal,
		Depth:  sumRadius - distance,
	}, true
}

// SupportMapAgainstSupportMapContact computes the contact between two support-mapped
// shapes, if they are closer than prediction.
//
// simplex and dir carry the state of the previous query: dir is used as the initial
// search direction when it is not nil, and receives the new separating direction.
// Separated shapes report the closest points. Overlapping shapes report the
// penetration: through EPA in 3D, and along the axis of least overlap otherwise.
func SupportMapAgainstSupportMapContact[V actor.Vector[V]](m1 actor.Isometry[V], g1 actor.SupportMap[V], m2 actor.Isometry[V], g2 actor.SupportMap[V], prediction float64, simplex gjk.Simplex[V], dir *V) (Contact[V], bool) {
	return SupportMapContactWithLimits(m1, g1, m2, g2, prediction, simplex, dir, gjk.Limits{})
}

// SupportMapContactWithLimits is SupportMapAgainstSupportMapContact with explicit GJK limits.
func SupportMapContactWithLimits[V actor.Vector[V]](m1 actor.Isometry[V], g1 actor.SupportMap[V], m2 actor.Isometry[V], g2 actor.SupportMap[V], prediction float64, simplex gjk.Simplex[V], dir *V, limits gjk.Limits) (Contact[V], bool) {
	assertMargin(prediction)

	result := supportMapWithParams(m1, g1, m2, g2, prediction, simplex, dir, limits)

	switch result.Kind {
	case gjk.NoIntersection:
		storeDir(dir, result.Dir)
		return Contact[V]{}, false
	case gjk.Projection:
		storeDir(dir, result.Dir)
		return Contact[V]{
			World1: result.Points[0],
			World2: result.Points[1],
			Normal: result.Dir,
			Depth:  -result.Points[1].Sub(result.Points[0]).Len(),
		}, true
	case gjk.Intersection:
		if c, ok := penetration3D(m1, g1, m2, g2, simplex.Points()); ok {
			storeDir(dir, c.Normal)
			return c, true
		}
		c := leastOverlap(m1, g1, m2, g2, dir)
		storeDir(dir, c.Normal)
		return c, true
	}
	panic("query: unexpected " + result.Kind.String() + " result from the closest points engine")
}

func storeDir[V actor.Vector[V]](dir *V, d V) {
	if dir != nil && d.LenSqr() > 0 {
		*dir = d
	}
}

// penetration3D runs EPA when V is mgl64.Vec3; ok is false in other dimensions
// or when the polytope could not be built.
func penetration3D[V actor.Vector[V]](m1 actor.Isometry[V], g1 actor.SupportMap[V], m2 actor.Isometry[V], g2 actor.SupportMap[V], points []gjk.SupportPoint[V]) (Contact[V], bool) {
	m13, ok1 := any(m1).(actor.Isometry[mgl64.Vec3])
	g13, ok2 := any(g1).(actor.SupportMap[mgl64.Vec3])
	m23, ok3 := any(m2).(actor.Isometry[mgl64.Vec3])
	g23, ok4 := any(g2).(actor.SupportMap[mgl64.Vec3])
	simplex, ok5 := any(points).([]gjk.SupportPoint[mgl64.Vec3])
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return Contact[V]{}, false
	}

	result, err := epa.Penetration(m13, g13, m23, g23, simplex)
	if err != nil && !errors.Is(err, epa.ErrNoConvergence) {
		return Contact[V]{}, false
	}
	if math.IsNaN(result.Depth) || math.IsInf(result.Depth, 0) {
		return Contact[V]{}, false
	}

	return Contact[V]{
		World1: any(result.Points[0]).(V),
		World2: any(result.Points[1]).(V),
		Normal: any(result.Normal).(V),
		Depth:  result.Depth,
	}, true
}

// leastOverlap measures the overlap of the shapes projected on a few candidate
// axes (the cached direction, the center line and the basis axes) and keeps the
// smallest one. It is exact for boxes and balls and a bound for other shapes.
func leastOverlap[V actor.Vector[V]](m1 actor.Isometry[V], g1 actor.SupportMap[V], m2 actor.Isometry[V], g2 actor.SupportMap[V], dir *V) Contact[V] {
	like := m1.Translation()
	candidates := make([]V, 0, 2*m1.Dim()+2)
	if dir != nil {
		if d, _, ok := actor.Normalize(*dir, 0); ok {
			candidates = append(candidates, d)
		}
	}
	if d, _, ok := actor.Normalize(m2.Translation().Sub(m1.Translation()), 0); ok {
		candidates = append(candidates, d)
	}
	for i := 0; i < m1.Dim(); i++ {
		axis := actor.Axis(like, i)
		candidates = append(candidates, axis, axis.Mul(-1))
	}

	var best Contact[V]
	best.Depth = math.Inf(1)
	for _, n := range candidates {
		support := gjk.CSOSupportPoint(m1, g1, m2, g2, n)
		if depth := support.Point.Dot(n); depth < best.Depth {
			best = Contact[V]{
				World1: support.Orig1,
				World2: support.Orig2,
				Normal: n,
				Depth:  depth,
			}
		}
	}
	return best
}
