package actor

import "github.com/go-gl/mathgl/mgl64"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ComputeAABB bounds a placed support map with six support queries, one per axis direction.
func ComputeAABB(transform Isometry[mgl64.Vec3], shape SupportMap[mgl64.Vec3]) AABB {
	var aabb AABB
	for i := 0; i < 3; i++ {
		var axis mgl64.Vec3
		axis[i] = 1

		aabb.Max[i] = SupportWorld[mgl64.Vec3](transform, shape, axis)[i]
		aabb.Min[i] = SupportWorld[mgl64.Vec3](transform, shape, axis.Mul(-1))[i]
	}
	return aabb
}

// Loosened grows the box by margin on every side.
func (a AABB) Loosened(margin float64) AABB {
	m := mgl64.Vec3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}
