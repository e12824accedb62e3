package gjk

import (
	"math"

	"github.com/akmonengine/proximity/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// The projections below locate the Voronoi region of the simplex feature
// containing the origin and return the barycentric weights of the origin's
// projection. Zero weights mark vertices the reduction drops.
//
// Reference: Ericson, "Real-Time Collision Detection" (2005), 5.1.

// projectSegment projects the origin onto segment [a, b].
func projectSegment[V actor.Vector[V]](a, b V) [2]float64 {
	ab := b.Sub(a)
	t := safeDiv(-a.Dot(ab), ab.LenSqr())

	// Region A
	if t <= 0 {
		return [2]float64{1, 0}
	}
	// Region B
	if t >= 1 {
		return [2]float64{0, 1}
	}
	// Region AB
	return [2]float64{1 - t, t}
}

// projectTriangle projects the origin onto triangle (a, b, c).
// Only dot products are involved, so it works for any dimension >= 2.
func projectTriangle[V actor.Vector[V]](a, b, c V) [3]float64 {
	ab := b.Sub(a)
	ac := c.Sub(a)

	// Region A
	d1 := -ab.Dot(a)
	d2 := -ac.Dot(a)
	if d1 <= 0 && d2 <= 0 {
		return [3]float64{1, 0, 0}
	}

	// Region B
	d3 := -ab.Dot(b)
	d4 := -ac.Dot(b)
	if d3 >= 0 && d4 <= d3 {
		return [3]float64{0, 1, 0}
	}

	// Region AB
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := safeDiv(d1, d1-d3)
		return [3]float64{1 - v, v, 0}
	}

	// Region C
	d5 := -ab.Dot(c)
	d6 := -ac.Dot(c)
	if d6 >= 0 && d5 <= d6 {
		return [3]float64{0, 0, 1}
	}

	// Region AC
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := safeDiv(d2, d2-d6)
		return [3]float64{1 - w, 0, w}
	}

	// Region BC
	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		w := safeDiv(d4-d3, (d4-d3)+(d5-d6))
		return [3]float64{0, 1 - w, w}
	}

	// Region ABC
	sum := va + vb + vc
	if sum <= 0 {
		return projectFlatTriangle(a, b, c)
	}
	v := vb / sum
	w := vc / sum
	return [3]float64{1 - v - w, v, w}
}

// projectFlatTriangle handles zero-area triangles by keeping the closest edge.
func projectFlatTriangle[V actor.Vector[V]](a, b, c V) [3]float64 {
	var best [3]float64
	bestDist := math.Inf(1)

	edges := [3][2]int{{0, 1}, {0, 2}, {1, 2}}
	vertices := [3]V{a, b, c}
	for _, e := range edges {
		w := projectSegment(vertices[e[0]], vertices[e[1]])
		q := vertices[e[0]].Mul(w[0]).Add(vertices[e[1]].Mul(w[1]))
		if d := q.LenSqr(); d < bestDist {
			bestDist = d
			best = [3]float64{}
			best[e[0]] = w[0]
			best[e[1]] = w[1]
		}
	}
	return best
}

// projectTetrahedron projects the origin onto tetrahedron (a, b, c, d).
// When the origin is inside, all four weights are positive and the returned
// combination is the origin itself.
func projectTetrahedron(points [4]mgl64.Vec3) [4]float64 {
	a, b, c, d := points[0], points[1], points[2], points[3]

	volume := b.Sub(a).Dot(c.Sub(a).Cross(d.Sub(a)))
	scale := b.Sub(a).Len() * c.Sub(a).Len() * d.Sub(a).Len()
	degenerate := math.Abs(volume) <= 1e-12*scale

	// Each face with the index of its opposite vertex
	faces := [4][4]int{
		{0, 1, 2, 3}, // Face ABC, opposite point is D
		{0, 2, 3, 1}, // Face ACD, opposite point is B
		{0, 3, 1, 2}, // Face ADB, opposite point is C
		{1, 3, 2, 0}, // Face BDC, opposite point is A
	}

	var barycentric, best [4]float64
	bestDist := math.Inf(1)
	inside := true

	for _, f := range faces {
		p0, p1, p2, opposite := points[f[0]], points[f[1]], points[f[2]], points[f[3]]
		normal := p1.Sub(p0).Cross(p2.Sub(p0))
		signOrigin := -normal.Dot(p0)
		signOpposite := normal.Dot(opposite.Sub(p0))

		if !degenerate && signOrigin*signOpposite >= 0 {
			// origin on the same side of the face as the opposite vertex
			barycentric[f[3]] = signOrigin / signOpposite
			continue
		}

		inside = false
		tw := projectTriangle(p0, p1, p2)
		q := p0.Mul(tw[0]).Add(p1.Mul(tw[1])).Add(p2.Mul(tw[2]))
		if dist := q.LenSqr(); dist < bestDist {
			bestDist = dist
			best = [4]float64{}
			best[f[0]] = tw[0]
			best[f[1]] = tw[1]
			best[f[2]] = tw[2]
		}
	}

	if inside {
		return barycentric
	}
	return best
}

func safeDiv(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}
