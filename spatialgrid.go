package proximity

import (
	"encoding/binary"
	"math"
	"slices"

	"github.com/akmonengine/proximity/actor"
	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey is the integer coordinates of a grid cell.
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the boxes overlapping it.
type Cell struct {
	indices []int
}

// GridPair is a pair of box indices, A < B, whose boxes overlap.
type GridPair struct {
	A, B int
}

// SpatialGrid is a uniform grid hashed into a fixed number of cells.
// It is the broad phase of World: boxes sharing a cell are tested for overlap.
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
	aabbs    []actor.AABB
}

// NewSpatialGrid creates a grid of cellSize cells, numCells being rounded up to a power of two.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].indices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo rounds n up to a power of two.
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert adds the box to every cell it covers.
func (sg *SpatialGrid) Insert(index int, aabb actor.AABB) {
	for len(sg.aabbs) <= index {
		sg.aabbs = append(sg.aabbs, actor.AABB{})
	}
	sg.aabbs[index] = aabb

	sg.forEachCell(aabb, func(cellIdx int) {
		sg.cells[cellIdx].indices = append(sg.cells[cellIdx].indices, index)
	})
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].indices = sg.cells[i].indices[:0]
	}
	sg.aabbs = sg.aabbs[:0]
}

// FindPairs returns every pair of overlapping boxes, sorted, each pair once.
// Boxes are split across workersCount goroutines.
func (sg *SpatialGrid) FindPairs(workersCount int) []GridPair {
	n := len(sg.aabbs)
	perBox := make([][]GridPair, n)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	_ = task(workersCount, indices, func(i int) error {
		perBox[i] = sg.pairsOf(i)
		return nil
	})

	pairs := make([]GridPair, 0, n)
	for _, p := range perBox {
		pairs = append(pairs, p...)
	}
	return pairs
}

// pairsOf returns the pairs (i, j), j > i, in increasing j order.
func (sg *SpatialGrid) pairsOf(i int) []GridPair {
	aabb := sg.aabbs[i]
	var pairs []GridPair

	sg.forEachCell(aabb, func(cellIdx int) {
		for _, other := range sg.cells[cellIdx].indices {
			// avoid duplicates: (A,B) and (B,A), and boxes sharing several cells
			if other <= i || slices.ContainsFunc(pairs, func(p GridPair) bool { return p.B == other }) {
				continue
			}
			if aabb.Overlaps(sg.aabbs[other]) {
				pairs = append(pairs, GridPair{A: i, B: other})
			}
		}
	})

	slices.SortFunc(pairs, func(a, b GridPair) int { return a.B - b.B })
	return pairs
}

func (sg *SpatialGrid) forEachCell(aabb actor.AABB, fn func(cellIdx int)) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				fn(sg.hashCell(CellKey{x, y, z}))
			}
		}
	}
}

// worldToCell converts a world position to cell coordinates.
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell maps a cell to an index in the cell array.
func (sg *SpatialGrid) hashCell(key CellKey) int {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(key.X))
	binary.LittleEndian.PutUint64(buf[8:], uint64(key.Y))
	binary.LittleEndian.PutUint64(buf[16:], uint64(key.Z))
	return int(xxhash.Sum64(buf[:]) & uint64(sg.cellMask))
}
