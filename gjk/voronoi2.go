package gjk

import "github.com/go-gl/mathgl/mgl64"

// VoronoiSimplex2 is the planar simplex: up to a triangle, reduced with
// Voronoi region tests.
type VoronoiSimplex2 struct {
	points [3]SupportPoint[mgl64.Vec2]
	count  int
}

func (s *VoronoiSimplex2) Reset(p SupportPoint[mgl64.Vec2]) {
	s.points[0] = p
	s.count = 1
}

func (s *VoronoiSimplex2) AddPoint(p SupportPoint[mgl64.Vec2]) bool {
	if s.count == len(s.points) || contains(s.points[:s.count], p) {
		return false
	}
	s.points[s.count] = p
	s.count++
	return true
}

func (s *VoronoiSimplex2) Dimension() int {
	return s.count - 1
}

func (s *VoronoiSimplex2) Points() []SupportPoint[mgl64.Vec2] {
	return s.points[:s.count]
}

func (s *VoronoiSimplex2) ProjectOriginAndReduce() SupportPoint[mgl64.Vec2] {
	switch s.count {
	case 2:
		w := projectSegment(s.points[0].Point, s.points[1].Point)
		return s.reduce(w[:])
	case 3:
		w := projectTriangle(s.points[0].Point, s.points[1].Point, s.points[2].Point)
		return s.reduce(w[:])
	}
	return s.points[0]
}

// reduce keeps the vertices with a positive weight, in order.
func (s *VoronoiSimplex2) reduce(weights []float64) SupportPoint[mgl64.Vec2] {
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
