package epa

import (
	"math"
	"sync"

	"github.com/akmonengine/proximity/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

type vertex = gjk.SupportPoint[mgl64.Vec3]

// Face is a triangle of the polytope with its outward normal and its distance to the origin.
type Face struct {
	Points   [3]vertex
	Normal   mgl64.Vec3
	Distance float64
}

// EdgeEntry represents an edge with occurrence counting for boundary detection.
// An edge is a boundary edge if it appears exactly once (count == 1).
// Edges are normalized so A < B lexicographically for consistent deduplication.
type EdgeEntry struct {
	A, B  vertex
	Count int
}

// PolytopeBuilder manages polytope expansion with dynamic buffers and initial capacity.
type PolytopeBuilder struct {
	faces          []Face
	edges          []EdgeEntry
	visibleIndices []int

	// interior is a point strictly inside the polytope, used to orient new faces
	interior mgl64.Vec3
}

// polytopeBuilderPool avoids reallocating the builder buffers on every query.
var polytopeBuilderPool = sync.Pool{
	New: func() interface{} {
		return &PolytopeBuilder{
			faces:          make([]Face, 0, polytopeInitialCapacity),
			edges:          make([]EdgeEntry, 0, polytopeInitialCapacity),
			visibleIndices: make([]int, 0, polytopeInitialCapacity),
		}
	},
}

// Reset prepares the builder for reuse by clearing all slices.
func (b *PolytopeBuilder) Reset() {
	b.faces = b.faces[:0]
	b.edges = b.edges[:0]
	b.visibleIndices = b.visibleIndices[:0]
}

// BuildInitialFaces creates the 4 faces of the starting tetrahedron.
func (b *PolytopeBuilder) BuildInitialFaces(tetra [4]vertex) {
	p0, p1, p2, p3 := tetra[0], tetra[1], tetra[2], tetra[3]

	b.interior = p0.Point.Add(p1.Point).Add(p2.Point).Add(p3.Point).Mul(0.25)
	b.faces = append(b.faces,
		b.createFaceOutward(p0, p1, p2), // Face ABC, opposite point is D
		b.createFaceOutward(p0, p2, p3), // Face ACD, opposite point is B
		b.createFaceOutward(p0, p3, p1), // Face ADB, opposite point is C
		b.createFaceOutward(p1, p3, p2), // Face BDC, opposite point is A
	)
}

// createFaceOutward creates a Face with normal pointing away from the interior point.
func (b *PolytopeBuilder) createFaceOutward(p0, p1, p2 vertex) Face {
	face := Face{Points: [3]vertex{p0, p1, p2}}

	normal := p1.Point.Sub(p0.Point).Cross(p2.Point.Sub(p0.Point))
	normalLength := normal.Len()
	if normalLength < 1e-12 {
		// Degenerate triangle (zero area), never selected as closest
		face.Normal = mgl64.Vec3{0, 1, 0}
		face.Distance = math.Inf(1)
		return face
	}
	normal = normal.Mul(1.0 / normalLength)

	// If normal points TOWARDS the interior, it's pointing INWARD
	if normal.Dot(b.interior.Sub(p0.Point)) > 0 {
		normal = normal.Mul(-1)
	}

	face.Normal = normal
	// The origin is inside the polytope, rounding aside the distance is never negative
	face.Distance = math.Max(0, p0.Point.Dot(normal))

	return face
}

// FindClosestFaceIndex returns the index of the face closest to the origin.
// Returns -1 if no faces exist.
func (b *PolytopeBuilder) FindClosestFaceIndex() int {
	if len(b.faces) == 0 {
		return -1
	}

	closestIndex := 0
	minDistance := b.faces[0].Distance

	for i := 1; i < len(b.faces); i++ {
		if b.faces[i].Distance < minDistance {
			closestIndex = i
			minDistance = b.faces[i].Distance
		}
	}

	return closestIndex
}

// findVisibleFaces populates visibleIndices with faces visible from the support point.
func (b *PolytopeBuilder) findVisibleFaces(support mgl64.Vec3) {
	b.visibleIndices = b.visibleIndices[:0]

	for i := 0; i < len(b.faces); i++ {
		face := &b.faces[i]
		if support.Sub(face.Points[0].Point).Dot(face.Normal) > 0 {
			b.visibleIndices = append(b.visibleIndices, i)
		}
	}
}

// findBoundaryEdges collects the edges of the visible faces; internal edges are
// shared by two visible faces and end up with a count of 2.
func (b *PolytopeBuilder) findBoundaryEdges() {
	b.edges = b.edges[:0]

	for _, faceIdx := range b.visibleIndices {
		face := &b.faces[faceIdx]

		edges := [3][2]vertex{
			{face.Points[0], face.Points[1]},
			{face.Points[1], face.Points[2]},
			{face.Points[2], face.Points[0]},
		}

		for _, edge := range edges {
			edgeA, edgeB := edge[0], edge[1]
			if compareVec3(edgeA.Point, edgeB.Point) > 0 {
				edgeA, edgeB = edgeB, edgeA
			}

			if edgeIdx := b.findEdgeIndex(edgeA.Point, edgeB.Point); edgeIdx >= 0 {
				b.edges[edgeIdx].Count++
			} else {
				b.edges = append(b.edges, EdgeEntry{A: edgeA, B: edgeB, Count: 1})
			}
		}
	}
}

// findEdgeIndex performs linear search for an edge in the edges buffer.
// Linear search is efficient for small edge counts (typically < 30).
func (b *PolytopeBuilder) findEdgeIndex(edgeA, edgeB mgl64.Vec3) int {
	for i := 0; i < len(b.edges); i++ {
		edge := &b.edges[i]
		if edge.A.Point == edgeA && edge.B.Point == edgeB {
			return i
		}
	}
	return -1
}

// removeVisibleFaces removes faces marked in visibleIndices using swap-with-last pattern.
// Indices are visited from the highest so swaps never move a face still to be removed.
func (b *PolytopeBuilder) removeVisibleFaces() {
	for i := len(b.visibleIndices) - 1; i >= 0; i-- {
		idx := b.visibleIndices[i]
		b.faces[idx] = b.faces[len(b.faces)-1]
		b.faces = b.faces[:len(b.faces)-1]
	}
}

// AddPointAndRebuildFaces expands the polytope by adding a support point:
// faces seen from the point are removed and the horizon is stitched to it.
// Returns false when the point sees no face (no expansion possible).
func (b *PolytopeBuilder) AddPointAndRebuildFaces(support vertex) bool {
	b.findVisibleFaces(support.Point)
	if len(b.visibleIndices) == 0 || len(b.visibleIndices) == len(b.faces) {
		return false
	}

	b.findBoundaryEdges()
	b.removeVisibleFaces()

	for i := range b.edges {
		if b.edges[i].Count != 1 {
			continue
		}
		b.faces = append(b.faces, b.createFaceOutward(b.edges[i].A, b.edges[i].B, support))
	}

	return len(b.faces) > 0
}

// compareVec3 orders vectors lexicographically.
func compareVec3(a, b mgl64.Vec3) int {
	for i := 0; i < 3; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}
