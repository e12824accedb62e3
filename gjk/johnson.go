package gjk

import (
	"math"
	"math/bits"

	"github.com/akmonengine/proximity/actor"
)

// JohnsonSimplex works in any dimension. The projection uses Johnson's
// distance sub-algorithm: every subset of the vertices is scored with the
// recursive cofactors Δ, and the subset whose affine hull contains the
// projection of the origin (all Δ positive, every extension non-positive)
// is kept.
//
// Reference: Gilbert, Johnson, Keerthi (1988), appendix.
type JohnsonSimplex[V actor.Vector[V]] struct {
	points []SupportPoint[V]
	dim    int

	// scratch, reused between projections
	dots    []float64
	deltas  []float64
	weights []float64
}

// NewJohnsonSimplex creates a simplex for vectors of dimension dim.
func NewJohnsonSimplex[V actor.Vector[V]](dim int) *JohnsonSimplex[V] {
	return &JohnsonSimplex[V]{
		points: make([]SupportPoint[V], 0, dim+1),
		dim:    dim,
	}
}

func (s *JohnsonSimplex[V]) Reset(p SupportPoint[V]) {
	s.points = append(s.points[:0], p)
}

func (s *JohnsonSimplex[V]) AddPoint(p SupportPoint[V]) bool {
	if len(s.points) > s.dim || contains(s.points, p) {
		return false
	}
	s.points = append(s.points, p)
	return true
}

func (s *JohnsonSimplex[V]) Dimension() int {
	return len(s.points) - 1
}

func (s *JohnsonSimplex[V]) Points() []SupportPoint[V] {
	return s.points
}

func (s *JohnsonSimplex[V]) ProjectOriginAndReduce() SupportPoint[V] {
	n := len(s.points)
	if n == 1 {
		return s.points[0]
	}

	s.computeDeltas(n)
	mask := s.supportingSubset(n)

	// Weights of the kept vertices, normalized by Δ(X)
	total := 0.0
	for i := 0; i < n; i++ {
		if mask&(1<<i) != 0 {
			total += s.deltas[mask*n+i]
		}
	}
	s.weights = s.weights[:0]
	for i := 0; i < n; i++ {
		w := 0.0
		if mask&(1<<i) != 0 {
			w = s.deltas[mask*n+i] / total
		}
		s.weights = append(s.weights, w)
	}

	result := combine(s.points, s.weights)

	kept := 0
	for i := 0; i < n; i++ {
		if mask&(1<<i) != 0 {
			s.points[kept] = s.points[i]
			kept++
		}
	}
	s.points = s.points[:kept]

	return result
}

// computeDeltas fills deltas[mask*n+i] = Δ_i(mask) for every non-empty subset.
// A subset's mask is always greater than the masks of its own subsets, so an
// ascending scan sees every dependency first.
func (s *JohnsonSimplex[V]) computeDeltas(n int) {
	s.dots = resize(s.dots, n*n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d := s.points[i].Point.Dot(s.points[j].Point)
			s.dots[i*n+j] = d
			s.dots[j*n+i] = d
		}
	}

	size := 1 << n
	s.deltas = resize(s.deltas, size*n)
	for mask := 1; mask < size; mask++ {
		if bits.OnesCount(uint(mask)) == 1 {
			s.deltas[mask*n+bits.TrailingZeros(uint(mask))] = 1
			continue
		}

		for j := 0; j < n; j++ {
			if mask&(1<<j) == 0 {
				continue
			}
			sub := mask &^ (1 << j)
			k := bits.TrailingZeros(uint(sub))

			sum := 0.0
			for i := 0; i < n; i++ {
				if sub&(1<<i) != 0 {
					sum += s.deltas[sub*n+i] * (s.dots[k*n+i] - s.dots[j*n+i])
				}
			}
			s.deltas[mask*n+j] = sum
		}
	}
}

// supportingSubset returns the subset satisfying Johnson's conditions. When
// rounding leaves none, the positive subset with the closest projection wins.
func (s *JohnsonSimplex[V]) supportingSubset(n int) int {
	size := 1 << n
	backup, backupDist := 1, math.Inf(1)

	for mask := 1; mask < size; mask++ {
		total := 0.0
		positive := true
		for i := 0; i < n; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			d := s.deltas[mask*n+i]
			if d <= 0 {
				positive = false
				break
			}
			total += d
		}
		if !positive {
			continue
		}

		valid := true
		for j := 0; j < n; j++ {
			if mask&(1<<j) != 0 {
				continue
			}
			if s.deltas[(mask|1<<j)*n+j] > 0 {
				valid = false
				break
			}
		}
		if valid {
			return mask
		}

		if dist := s.projectionSqLen(mask, n, total); dist < backupDist {
			backup, backupDist = mask, dist
		}
	}

	return backup
}

// projectionSqLen is |v|² for v = Σ Δ_i y_i / Δ over mask, from the cached dot products.
func (s *JohnsonSimplex[V]) projectionSqLen(mask, n int, total float64) float64 {
	sum := 0.0
	for i := 0; i < n; i++ {
		if mask&(1<<i) == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if mask&(1<<j) == 0 {
				continue
			}
			sum += s.deltas[mask*n+i] * s.deltas[mask*n+j] * s.dots[i*n+j]
		}
	}
	return sum / (total * total)
}

func resize(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}
	buf = buf[:n]
	clear(buf)
	return buf
}
