// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) distance algorithm.
//
// GJK computes the distance between two convex shapes by finding the point of their
// Minkowski difference (the configuration space obstacle, CSO) closest to the origin.
// The algorithm keeps a simplex of support points and shrinks it toward the origin,
// bracketing the distance between an upper bound (the current projection) and a lower
// bound (the support plane along the search direction).
//
// The engine is generic over the vector type: the same code runs in 2D, 3D and any
// other dimension, the Simplex implementation being the only dimension specific part.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"fmt"
	"math"

	"github.com/akmonengine/proximity/actor"
)

const (
	// DefaultMaxIterations bounds the main loop. Convergence usually takes 3-10
	// iterations; the limit only guards against numerical cycling.
	DefaultMaxIterations = 128

	machineEpsilon = 2.220446049250313e-16
)

var (
	// epsTol is the length under which the projection is considered to be the origin.
	epsTol = 100 * machineEpsilon
	// epsRel is the relative gap between the bounds at which the distance has converged.
	epsRel = math.Sqrt(machineEpsilon)
)

// ResultKind tags the variant held by a Result.
type ResultKind uint8

const (
	// Intersection: the shapes overlap.
	Intersection ResultKind = iota
	// Proximity: the shapes are separated by less than the max distance; only Dir is set.
	// Reported by the existence-only mode.
	Proximity
	// Projection: the shapes are separated by less than the max distance; Points holds
	// the closest points and Dir the separating direction.
	Projection
	// NoIntersection: the shapes are farther apart than the max distance; Dir separates them.
	NoIntersection
)

func (k ResultKind) String() string {
	switch k {
	case Intersection:
		return "intersection"
	case Proximity:
		return "proximity"
	case Projection:
		return "projection"
	case NoIntersection:
		return "no-intersection"
	}
	return fmt.Sprintf("ResultKind(%d)", uint8(k))
}

// Result is the outcome of a GJK query.
// Dir is a unit vector pointing from the first shape toward the second one.
type Result[V actor.Vector[V]] struct {
	Kind   ResultKind
	Points [2]V
	Dir    V
}

// Limits tunes the engine. The zero value applies the defaults.
type Limits struct {
	MaxIterations int
}

func (l Limits) maxIterations() int {
	if l.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return l.MaxIterations
}

// ClosestPoints computes the closest points between two support-mapped shapes,
// as long as they are closer than maxDist.
//
// The simplex must have been reset with at least one support point of the CSO;
// it is modified in place and can be reused to warm start the next query.
//
// Returns Projection, NoIntersection or Intersection; never Proximity.
func ClosestPoints[V actor.Vector[V]](m1 actor.Isometry[V], g1 actor.SupportMap[V], m2 actor.Isometry[V], g2 actor.SupportMap[V], maxDist float64, simplex Simplex[V], limits Limits) Result[V] {
	return run(m1, g1, m2, g2, maxDist, simplex, true, limits)
}

// ProximityOf only decides whether the shapes intersect, are within maxDist of each
// other, or farther apart. It stops as soon as the answer is known, without refining
// the closest points.
//
// Returns Proximity, NoIntersection or Intersection.
func ProximityOf[V actor.Vector[V]](m1 actor.Isometry[V], g1 actor.SupportMap[V], m2 actor.Isometry[V], g2 actor.SupportMap[V], maxDist float64, simplex Simplex[V], limits Limits) Result[V] {
	return run(m1, g1, m2, g2, maxDist, simplex, false, limits)
}

func run[V actor.Vector[V]](m1 actor.Isometry[V], g1 actor.SupportMap[V], m2 actor.Isometry[V], g2 actor.SupportMap[V], maxDist float64, simplex Simplex[V], exact bool, limits Limits) Result[V] {
	dim := m1.Dim()

	proj := simplex.ProjectOriginAndReduce()
	oldProj := proj

	oldDir, _, ok := actor.Normalize(proj.Point, 0)
	if !ok {
		// First support point is the origin: the shapes are touching
		return Result[V]{Kind: Intersection}
	}
	oldDir = oldDir.Mul(-1)

	separated := func(p SupportPoint[V], dir V) Result[V] {
		if exact {
			return Result[V]{Kind: Projection, Points: [2]V{p.Orig1, p.Orig2}, Dir: dir}
		}
		return Result[V]{Kind: Proximity, Dir: dir}
	}

	maxBound := math.Inf(1)
	maxIterations := limits.maxIterations()

	for i := 0; ; i++ {
		oldMaxBound := maxBound

		// Search toward the origin from the current projection
		dir, dist, ok := actor.Normalize(proj.Point.Mul(-1), epsTol)
		if !ok {
			return Result[V]{Kind: Intersection}
		}
		maxBound = dist

		// The upper bound must decrease; if it does not, rounding took over and
		// the previous projection is the best we can do
		if maxBound >= oldMaxBound {
			return separated(oldProj, oldDir)
		}

		support := CSOSupportPoint(m1, g1, m2, g2, dir)
		minBound := -dir.Dot(support.Point)

		// Early exit: the support plane proves the distance exceeds maxDist
		if minBound > maxDist {
			return Result[V]{Kind: NoIntersection, Dir: dir}
		}
		if !exact && minBound > 0 && maxBound <= maxDist {
			return Result[V]{Kind: Proximity, Dir: oldDir}
		}
		if maxBound-minBound <= epsRel*maxBound {
			return separated(proj, dir)
		}

		// Support point already in the simplex: no progress possible
		if !simplex.AddPoint(support) {
			return separated(proj, dir)
		}

		oldProj = proj
		proj = simplex.ProjectOriginAndReduce()
		oldDir = dir

		// A full-dimensional simplex only survives the reduction when it contains the origin
		if simplex.Dimension() == dim {
			if minBound >= epsTol {
				return separated(oldProj, oldDir)
			}
			return Result[V]{Kind: Intersection}
		}

		if i+1 >= maxIterations {
			return Result[V]{Kind: NoIntersection, Dir: dir}
		}
	}
}
