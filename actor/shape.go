package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeBall ShapeType = iota
	ShapeTypeBox
	ShapeTypeRectangle
	ShapeTypeConvexHull
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeBall:
		return "ball"
	case ShapeTypeBox:
		return "box"
	case ShapeTypeRectangle:
		return "rectangle"
	case ShapeTypeConvexHull:
		return "convex-hull"
	}
	return "unknown"
}

// SupportMap is the capability GJK relies on: the farthest point of the shape,
// in local space, along a local direction.
type SupportMap[V Vector[V]] interface {
	Support(direction V) V
}

// Shape is the closed set of collision shapes known to the dispatch layer.
// Every shape is a support map, balls additionally take the analytic fast path.
type Shape[V Vector[V]] interface {
	SupportMap[V]
	Type() ShapeType
}

// SupportWorld returns the support point of g placed by m along the world direction.
func SupportWorld[V Vector[V]](m Isometry[V], g SupportMap[V], direction V) V {
	localDirection := m.InverseRotate(direction)
	localSupport := g.Support(localDirection)
	return m.TransformPoint(localSupport)
}

// Ball is a sphere (3D), a disk (2D) or a hypersphere, centered on its placement.
type Ball[V Vector[V]] struct {
	Radius float64
}

func (b *Ball[V]) Type() ShapeType { return ShapeTypeBall }

func (b *Ball[V]) Support(direction V) V {
	unit, _, ok := Normalize(direction, 0)
	if !ok {
		return direction.Mul(0)
	}
	return unit.Mul(b.Radius)
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b *Box) Type() ShapeType { return ShapeTypeBox }

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

// Rectangle is the 2D counterpart of Box.
type Rectangle struct {
	HalfExtents mgl64.Vec2
}

func (r *Rectangle) Type() ShapeType { return ShapeTypeRectangle }

func (r *Rectangle) Support(direction mgl64.Vec2) mgl64.Vec2 {
	hx, hy := r.HalfExtents.X(), r.HalfExtents.Y()
	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	return mgl64.Vec2{hx, hy}
}

// ConvexHull is the convex hull of a point cloud, in any dimension.
// Points need not be extreme, interior points never win a support query.
type ConvexHull[V Vector[V]] struct {
	Points []V
}

func (c *ConvexHull[V]) Type() ShapeType { return ShapeTypeConvexHull }

func (c *ConvexHull[V]) Support(direction V) V {
	best := c.Points[0]
	bestDot := math.Inf(-1)
	for _, p := range c.Points {
		if d := p.Dot(direction); d > bestDot {
			bestDot = d
			best = p
		}
	}
	return best
}

// NewCube is a convex hull of the 8 corners of an axis aligned box, handy to
// exercise the hull path against Box.
func NewCube(half float64) *ConvexHull[mgl64.Vec3] {
	points := make([]mgl64.Vec3, 0, 8)
	for _, x := range []float64{-half, half} {
		for _, y := range []float64{-half, half} {
			for _, z := range []float64{-half, half} {
				points = append(points, mgl64.Vec3{x, y, z})
			}
		}
	}
	return &ConvexHull[mgl64.Vec3]{Points: points}
}
