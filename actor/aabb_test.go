package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vec3Equal(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) < tolerance &&
		math.Abs(a.Y()-b.Y()) < tolerance &&
		math.Abs(a.Z()-b.Z()) < tolerance
}

func TestAABBOverlaps(t *testing.T) {
	unit := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}

	tests := []struct {
		name     string
		other    AABB
		expected bool
	}{
		{"separated on X", AABB{Min: mgl64.Vec3{2, 0, 0}, Max: mgl64.Vec3{3, 1, 1}}, false},
		{"separated on Y", AABB{Min: mgl64.Vec3{0, -2, 0}, Max: mgl64.Vec3{1, -1, 1}}, false},
		{"separated on Z", AABB{Min: mgl64.Vec3{0, 0, 2}, Max: mgl64.Vec3{1, 1, 3}}, false},
		{"separated on one axis only", AABB{Min: mgl64.Vec3{0.5, 0.5, 1.5}, Max: mgl64.Vec3{2, 2, 2}}, false},
		{"partial overlap", AABB{Min: mgl64.Vec3{0.5, 0.5, 0.5}, Max: mgl64.Vec3{1.5, 1.5, 1.5}}, true},
		{"contained", AABB{Min: mgl64.Vec3{0.25, 0.25, 0.25}, Max: mgl64.Vec3{0.75, 0.75, 0.75}}, true},
		{"face touching", AABB{Min: mgl64.Vec3{1, 0, 0}, Max: mgl64.Vec3{2, 1, 1}}, true},
		{"corner touching", AABB{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{2, 2, 2}}, true},
		{"zero volume inside", AABB{Min: mgl64.Vec3{0.5, 0.5, 0.5}, Max: mgl64.Vec3{0.5, 0.5, 0.5}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unit.Overlaps(tt.other); got != tt.expected {
				t.Errorf("Overlaps() = %v, want %v", got, tt.expected)
			}
			// symmetry
			if got := tt.other.Overlaps(unit); got != tt.expected {
				t.Errorf("Overlaps() (swapped) = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAABBContainsPoint(t *testing.T) {
	aabb := AABB{Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}

	tests := []struct {
		name     string
		point    mgl64.Vec3
		expected bool
	}{
		{"center", mgl64.Vec3{0, 0, 0}, true},
		{"corner", mgl64.Vec3{1, 1, 1}, true},
		{"face center", mgl64.Vec3{0, 0, -1}, true},
		{"outside", mgl64.Vec3{1.0001, 0, 0}, false},
		{"far away", mgl64.Vec3{-5, 3, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := aabb.ContainsPoint(tt.point); got != tt.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tt.point, got, tt.expected)
			}
		})
	}
}

func TestComputeAABB(t *testing.T) {
	tests := []struct {
		name        string
		shape       SupportMap[mgl64.Vec3]
		transform   Transform
		expectedMin mgl64.Vec3
		expectedMax mgl64.Vec3
	}{
		{
			name:        "ball with offset position",
			shape:       &Ball[mgl64.Vec3]{Radius: 2},
			transform:   NewTransformAt(mgl64.Vec3{1, 2, 3}),
			expectedMin: mgl64.Vec3{-1, 0, 1},
			expectedMax: mgl64.Vec3{3, 4, 5},
		},
		{
			name:  "box rotated 90° around Z-axis",
			shape: &Box{HalfExtents: mgl64.Vec3{1, 2, 3}},
			transform: Transform{
				Rotation: mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 0, 1}),
			},
			expectedMin: mgl64.Vec3{-2, -1, -3},
			expectedMax: mgl64.Vec3{2, 1, 3},
		},
		{
			name:  "box rotated 45° around Y-axis",
			shape: &Box{HalfExtents: mgl64.Vec3{1, 1, 1}},
			transform: Transform{
				Rotation: mgl64.QuatRotate(mgl64.DegToRad(45), mgl64.Vec3{0, 1, 0}),
			},
			expectedMin: mgl64.Vec3{-math.Sqrt2, -1, -math.Sqrt2},
			expectedMax: mgl64.Vec3{math.Sqrt2, 1, math.Sqrt2},
		},
		{
			name:        "cube hull with zero rotation",
			shape:       NewCube(0.5),
			transform:   Transform{Position: mgl64.Vec3{5, 10, -3}},
			expectedMin: mgl64.Vec3{4.5, 9.5, -3.5},
			expectedMax: mgl64.Vec3{5.5, 10.5, -2.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aabb := ComputeAABB(tt.transform, tt.shape)

			if !vec3Equal(aabb.Min, tt.expectedMin, 1e-9) {
				t.Errorf("Min = %v, want %v", aabb.Min, tt.expectedMin)
			}
			if !vec3Equal(aabb.Max, tt.expectedMax, 1e-9) {
				t.Errorf("Max = %v, want %v", aabb.Max, tt.expectedMax)
			}
		})
	}
}

func TestAABBLoosened(t *testing.T) {
	aabb := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}.Loosened(0.5)

	if !vec3Equal(aabb.Min, mgl64.Vec3{-0.5, -0.5, -0.5}, 1e-12) || !vec3Equal(aabb.Max, mgl64.Vec3{1.5, 1.5, 1.5}, 1e-12) {
		t.Errorf("Loosened(0.5) = %v", aabb)
	}
}
