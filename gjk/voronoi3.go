package gjk

import "github.com/go-gl/mathgl/mgl64"

// VoronoiSimplex3 is the 3D simplex: up to a tetrahedron, reduced with
// Voronoi region tests.
// Size progression: 1 point → 2 points (line) → 3 points (triangle) → 4 points (tetrahedron)
type VoronoiSimplex3 struct {
	points [4]SupportPoint[mgl64.Vec3]
	count  int
}

func (s *VoronoiSimplex3) Reset(p SupportPoint[mgl64.Vec3]) {
	s.points[0] = p
	s.count = 1
}

func (s *VoronoiSimplex3) AddPoint(p SupportPoint[mgl64.Vec3]) bool {
	if s.count == len(s.points) || contains(s.points[:s.count], p) {
		return false
	}
	s.points[s.count] = p
	s.count++
	return true
}

func (s *VoronoiSimplex3) Dimension() int {
	return s.count - 1
}

func (s *VoronoiSimplex3) Points() []SupportPoint[mgl64.Vec3] {
	return s.points[:s.count]
}

func (s *VoronoiSimplex3) ProjectOriginAndReduce() SupportPoint[mgl64.Vec3] {
	switch s.count {
	case 2:
		w := projectSegment(s.points[0].Point, s.points[1].Point)
		return s.reduce(w[:])
	case 3:
		w := projectTriangle(s.points[0].Point, s.points[1].Point, s.points[2].Point)
		return s.reduce(w[:])
	case 4:
		w := projectTetrahedron([4]mgl64.Vec3{
			s.points[0].Point,
			s.points[1].Point,
			s.points[2].Point,
			s.points[3].Point,
		})
		return s.reduce(w[:])
	}
	return s.points[0]
}

// reduce keeps the vertices with a positive weight, in order.
func (s *VoronoiSimplex3) reduce(weights []float64) SupportPoint[mgl64.Vec3] {
	result := combine(s.points[:s.count], weights)

	n := 0
	for i := 0; i < s.count; i++ {
		if weights[i] > 0 {
			s.points[n] = s.points[i]
			n++
		}
	}
	s.count = max(n, 1)
	return result
}
