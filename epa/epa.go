// Package epa implements the Expanding Polytope Algorithm for computing penetration depth.
//
// EPA is run after GJK reports an intersection to determine:
//   - Penetration depth (how far shapes overlap)
//   - Contact normal (direction to separate shapes)
//   - Contact points (the deepest point of each shape)
//
// The algorithm expands a polytope (starting from GJK's final simplex) toward the boundary
// of the Minkowski difference, finding the face closest to the origin which gives the
// Minimum Translation Vector (MTV) to separate the shapes.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"errors"
	"fmt"

	"github.com/akmonengine/proximity/actor"
	"github.com/akmonengine/proximity/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// EPAMaxIterations limits polytope expansion to prevent infinite loops.
	// Typical convergence: 5-15 iterations for simple shapes.
	EPAMaxIterations = 64

	// EPAConvergenceTolerance defines when EPA has converged.
	// If the distance to a new support point improves by less than this threshold,
	// we've found the closest face to the origin.
	EPAConvergenceTolerance = 1e-6

	// Small initial capacity for PolytopeBuilder - grows dynamically as needed
	polytopeInitialCapacity = 4
)

var (
	// ErrNoConvergence is returned when the polytope keeps growing past EPAMaxIterations.
	ErrNoConvergence = errors.New("epa: failed to converge")
	// ErrDegenerateSimplex is returned when no tetrahedron can be built around the origin.
	ErrDegenerateSimplex = errors.New("epa: degenerate simplex")
)

// Result describes how two intersecting shapes overlap.
// Normal points from the first shape toward the second one: translating the second
// shape by Normal*Depth brings them into touching contact.
type Result struct {
	Normal mgl64.Vec3
	Depth  float64
	// Points are the deepest point of each shape, in world space
	Points [2]mgl64.Vec3
}

// Penetration computes penetration depth and contact information for overlapping convex shapes.
//
// Algorithm overview:
//  1. Complete the GJK simplex into a tetrahedron containing the origin
//  2. Find face closest to origin
//  3. Get support point in face normal direction
//  4. If converged (new point doesn't improve distance) → done
//  5. Otherwise, expand polytope by adding support point
//  6. Repeat from step 2
//
// On ErrNoConvergence the returned Result is still the best estimate found.
func Penetration(m1 actor.Isometry[mgl64.Vec3], g1 actor.SupportMap[mgl64.Vec3], m2 actor.Isometry[mgl64.Vec3], g2 actor.SupportMap[mgl64.Vec3], simplex []gjk.SupportPoint[mgl64.Vec3]) (Result, error) {
	support := func(direction mgl64.Vec3) vertex {
		return gjk.CSOSupportPoint(m1, g1, m2, g2, direction)
	}

	tetra, err := completeTetrahedron(simplex, support)
	if err != nil {
		return Result{}, err
	}

	builder := polytopeBuilderPool.Get().(*PolytopeBuilder)
	defer polytopeBuilderPool.Put(builder)
	builder.Reset()
	builder.BuildInitialFaces(tetra)

	var closest Face
	for i := 0; i < EPAMaxIterations; i++ {
		closest = builder.faces[builder.FindClosestFaceIndex()]

		point := support(closest.Normal)
		distance := point.Point.Dot(closest.Normal)

		if distance-closest.Distance < EPAConvergenceTolerance {
			return penetrationFromFace(closest), nil
		}

		if !builder.AddPointAndRebuildFaces(point) {
			return penetrationFromFace(closest), nil
		}
	}

	return penetrationFromFace(closest), fmt.Errorf("%w after %d iterations", ErrNoConvergence, EPAMaxIterations)
}

// completeTetrahedron adds support points along the principal axes until the
// simplex spans a non-degenerate tetrahedron. The GJK simplex contains the origin
// and the CSO is convex, so the grown tetrahedron still does.
func completeTetrahedron(simplex []gjk.SupportPoint[mgl64.Vec3], support func(mgl64.Vec3) vertex) ([4]vertex, error) {
	var tetra [4]vertex
	n := copy(tetra[:], simplex)
	if n == 4 && tetrahedronVolume(tetra) > 1e-12 {
		return tetra, nil
	}
	if n == 4 {
		n = 3
	}

	directions := [...]mgl64.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
		{1, 1, 1}, {-1, -1, -1},
	}

	for _, dir := range directions {
		if n == 4 {
			break
		}
		candidate := support(dir)
		if isAffinelyIndependent(tetra[:n], candidate.Point) {
			tetra[n] = candidate
			n++
		}
	}

	if n < 4 {
		return tetra, ErrDegenerateSimplex
	}
	return tetra, nil
}

func isAffinelyIndependent(points []vertex, p mgl64.Vec3) bool {
	const eps = 1e-12

	switch len(points) {
	case 0:
		return true
	case 1:
		return p.Sub(points[0].Point).LenSqr() > eps
	case 2:
		ab := points[1].Point.Sub(points[0].Point)
		ap := p.Sub(points[0].Point)
		return ab.Cross(ap).LenSqr() > eps
	case 3:
		a, b, c := points[0].Point, points[1].Point, points[2].Point
		return tetrahedronVolume([4]vertex{points[0], points[1], points[2], {Point: p}}) > eps &&
			b.Sub(a).Cross(c.Sub(a)).LenSqr() > eps
	}
	return false
}

func tetrahedronVolume(t [4]vertex) float64 {
	a := t[0].Point
	v := t[1].Point.Sub(a).Dot(t[2].Point.Sub(a).Cross(t[3].Point.Sub(a)))
	if v < 0 {
		return -v
	}
	return v
}

// penetrationFromFace recovers the witness points from the barycentric coordinates
// of the origin's projection on the face.
func penetrationFromFace(face Face) Result {
	projection := face.Normal.Mul(face.Distance)
	u, v, w := barycentric(face.Points[0].Point, face.Points[1].Point, face.Points[2].Point, projection)

	return Result{
		Normal: face.Normal,
		Depth:  face.Distance,
		Points: [2]mgl64.Vec3{
			face.Points[0].Orig1.Mul(u).Add(face.Points[1].Orig1.Mul(v)).Add(face.Points[2].Orig1.Mul(w)),
			face.Points[0].Orig2.Mul(u).Add(face.Points[1].Orig2.Mul(v)).Add(face.Points[2].Orig2.Mul(w)),
		},
	}
}

// barycentric returns the coordinates of p in triangle (a, b, c).
func barycentric(a, b, c, p mgl64.Vec3) (u, v, w float64) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	if denom == 0 {
		return 1, 0, 0
	}

	v = (d11*d20 - d01*d21) / denom
	w = (d00*d21 - d01*d20) / denom
	u = 1 - v - w
	return u, v, w
}
