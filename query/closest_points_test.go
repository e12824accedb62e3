package query

import (
	"testing"

	"github.com/akmonengine/proximity/actor"
	"github.com/akmonengine/proximity/gjk"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-6

func at(x, y, z float64) actor.Transform {
	return actor.NewTransformAt(mgl64.Vec3{x, y, z})
}

func ball(radius float64) *actor.Ball[mgl64.Vec3] {
	return &actor.Ball[mgl64.Vec3]{Radius: radius}
}

func TestBallAgainstBall(t *testing.T) {
	tests := []struct {
		name   string
		center mgl64.Vec3
		margin float64
		kind   Kind
		points [2]mgl64.Vec3
	}{
		{"separated beyond the margin", mgl64.Vec3{3, 0, 0}, 0, Disjoint, [2]mgl64.Vec3{}},
		{"separated within the margin", mgl64.Vec3{3, 0, 0}, 1.5, WithinMargin, [2]mgl64.Vec3{{1, 0, 0}, {2, 0, 0}}},
		{"overlapping", mgl64.Vec3{1.5, 0, 0}, 0, Intersecting, [2]mgl64.Vec3{}},
		{"coincident centers", mgl64.Vec3{0, 0, 0}, 0, Intersecting, [2]mgl64.Vec3{}},
		{"diagonal within the margin", mgl64.Vec3{0, 3, 4}, 4, WithinMargin, [2]mgl64.Vec3{{0, 0.6, 0.8}, {0, 2.4, 3.2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BallAgainstBall(mgl64.Vec3{}, ball(1), tt.center, ball(1), tt.margin)
			require.Equal(t, tt.kind, result.Kind)
			assert.InDeltaSlice(t, tt.points[0][:], result.Points[0][:], 1e-12)
			assert.InDeltaSlice(t, tt.points[1][:], result.Points[1][:], 1e-12)
		})
	}
}

func TestBallAgainstBall_BoundaryContinuity(t *testing.T) {
	// touching exactly: d² == R²
	touching := BallAgainstBall(mgl64.Vec3{}, ball(1), mgl64.Vec3{2, 0, 0}, ball(1), 1)
	assert.Equal(t, Intersecting, touching.Kind)

	// just outside the touching distance, both points meet at the contact point
	justOut := BallAgainstBall(mgl64.Vec3{}, ball(1), mgl64.Vec3{2 + 1e-9, 0, 0}, ball(1), 1)
	require.Equal(t, WithinMargin, justOut.Kind)
	assert.InDelta(t, 1, justOut.Points[0].X(), 1e-8)
	assert.InDelta(t, 1, justOut.Points[1].X(), 1e-8)

	// reporting distance exactly: d² == Rm²
	atMargin := BallAgainstBall(mgl64.Vec3{}, ball(1), mgl64.Vec3{3, 0, 0}, ball(1), 1)
	assert.Equal(t, WithinMargin, atMargin.Kind)

	beyond := BallAgainstBall(mgl64.Vec3{}, ball(1), mgl64.Vec3{3 + 1e-9, 0, 0}, ball(1), 1)
	assert.Equal(t, Disjoint, beyond.Kind)
}

func TestBallAgainstBall_NegativeMarginPanics(t *testing.T) {
	assert.Panics(t, func() {
		BallAgainstBall(mgl64.Vec3{}, ball(1), mgl64.Vec3{3, 0, 0}, ball(1), -0.1)
	})
	assert.Panics(t, func() {
		SupportMapAgainstSupportMap[mgl64.Vec3](at(0, 0, 0), ball(1), at(3, 0, 0), ball(1), -1)
	})
}

// Unit cubes: side 1, so the facing faces are 0.5 away from each center.
func TestSupportMapAgainstSupportMap_Cubes(t *testing.T) {
	cube := actor.NewCube(0.5)

	tests := []struct {
		name       string
		distance   float64
		prediction float64
		kind       Kind
		faces      [2]float64
	}{
		{"far apart", 5, 0.1, Disjoint, [2]float64{}},
		{"1.5 apart with a small prediction", 1.5, 0.1, Disjoint, [2]float64{}},
		{"1.5 apart with a large prediction", 1.5, 1, WithinMargin, [2]float64{0.5, 1}},
		{"within prediction", 1.05, 0.1, WithinMargin, [2]float64{0.5, 0.55}},
		{"overlapping", 0.8, 0.1, Intersecting, [2]float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SupportMapAgainstSupportMap[mgl64.Vec3](at(0, 0, 0), cube, at(tt.distance, 0, 0), cube, tt.prediction)
			require.Equal(t, tt.kind, result.Kind)
			if tt.kind != WithinMargin {
				return
			}
			// points lie on the facing faces
			assert.InDelta(t, tt.faces[0], result.Points[0].X(), tolerance)
			assert.InDelta(t, tt.faces[1], result.Points[1].X(), tolerance)
		})
	}
}

func TestClosestPoints_Symmetry(t *testing.T) {
	box := &actor.Box{HalfExtents: mgl64.Vec3{1, 1, 1}}

	tests := []struct {
		name   string
		g1, g2 actor.Shape[mgl64.Vec3]
		m2     actor.Transform
		margin float64
	}{
		{"balls analytic", ball(1), ball(0.5), at(1, 2, 2), 2},
		{"box and ball", box, ball(0.5), at(0.3, 3, -0.2), 2},
		{"overlapping box and ball", box, ball(0.5), at(0.3, 1.2, -0.2), 2},
		{"boxes disjoint", box, box, at(10, 0, 0), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m1 := at(0, 0, 0)
			ab := ClosestPointsBetween[mgl64.Vec3](m1, tt.g1, tt.m2, tt.g2, tt.margin)
			ba := ClosestPointsBetween[mgl64.Vec3](tt.m2, tt.g2, m1, tt.g1, tt.margin).Swapped()

			require.Equal(t, ab.Kind, ba.Kind)
			// GJK stops on a relative distance gap, points on curved shapes are looser than distances
			assert.InDeltaSlice(t, ab.Points[0][:], ba.Points[0][:], 1e-3)
			assert.InDeltaSlice(t, ab.Points[1][:], ba.Points[1][:], 1e-3)
		})
	}
}

func TestClosestPoints_MarginMonotonicity(t *testing.T) {
	box := &actor.Box{HalfExtents: mgl64.Vec3{1, 0.5, 0.25}}
	m1 := actor.Transform{Rotation: mgl64.QuatRotate(0.4, mgl64.Vec3{0, 1, 1}.Normalize())}
	m2 := at(2.5, 1, 0)

	previous := Disjoint
	for _, margin := range []float64{0, 0.1, 0.25, 0.5, 1, 2, 4} {
		kind := ClosestPointsBetween[mgl64.Vec3](m1, box, m2, ball(0.3), margin).Kind
		if previous == WithinMargin {
			assert.Equal(t, WithinMargin, kind, "margin %v", margin)
		}
		assert.NotEqual(t, Intersecting, kind, "margin %v", margin)
		previous = kind
	}
	assert.Equal(t, WithinMargin, previous)
}

// Balls routed through GJK must agree with the analytic formula.
func TestClosestPoints_GJKAgreesWithAnalytic(t *testing.T) {
	t.Run("3D", func(t *testing.T) {
		centers := []mgl64.Vec3{{3, 0, 0}, {1, 2, 2}, {0, -2.5, 0.1}, {1, 0, 0}, {4, 4, 4}}
		for _, c := range centers {
			analytic := BallAgainstBall(mgl64.Vec3{}, ball(1), c, ball(0.5), 2)
			generic := SupportMapAgainstSupportMap[mgl64.Vec3](at(0, 0, 0), ball(1), actor.NewTransformAt(c), ball(0.5), 2)

			require.Equal(t, analytic.Kind, generic.Kind, "center %v", c)
			assert.InDeltaSlice(t, analytic.Points[0][:], generic.Points[0][:], tolerance)
			assert.InDeltaSlice(t, analytic.Points[1][:], generic.Points[1][:], tolerance)
		}
	})

	t.Run("2D", func(t *testing.T) {
		disk := &actor.Ball[mgl64.Vec2]{Radius: 1}
		for _, c := range []mgl64.Vec2{{2.5, 0}, {1, 2}, {0.5, 0.5}, {-3, 1}} {
			analytic := BallAgainstBall(mgl64.Vec2{}, disk, c, disk, 1)
			generic := SupportMapAgainstSupportMap[mgl64.Vec2](actor.Transform2{}, disk, actor.Transform2{Position: c}, disk, 1)

			require.Equal(t, analytic.Kind, generic.Kind, "center %v", c)
			assert.InDeltaSlice(t, analytic.Points[0][:], generic.Points[0][:], tolerance)
			assert.InDeltaSlice(t, analytic.Points[1][:], generic.Points[1][:], tolerance)
		}
	})

	t.Run("general dimension", func(t *testing.T) {
		hyperball := &actor.Ball[actor.VecN]{Radius: 1}
		origin := actor.NewTransformN(0, 0, 0, 0, 0)
		for _, c := range [][]float64{{0, 0, 0, 0, 2.5}, {1, 1, 1, 1, 0.5}, {0.5, 0, 0, 0, 0}} {
			m2 := actor.NewTransformN(c...)
			analytic := BallAgainstBall(origin.Position, hyperball, m2.Position, hyperball, 1)
			generic := SupportMapAgainstSupportMap[actor.VecN](origin, hyperball, m2, hyperball, 1)

			require.Equal(t, analytic.Kind, generic.Kind, "center %v", c)
			if analytic.Kind == WithinMargin {
				assert.InDeltaSlice(t, analytic.Points[0].Raw(), generic.Points[0].Raw(), tolerance)
				assert.InDeltaSlice(t, analytic.Points[1].Raw(), generic.Points[1].Raw(), tolerance)
			}
		}
	})
}

func TestFromResult(t *testing.T) {
	assert.Equal(t, Disjoint, FromResult(gjk.Result[mgl64.Vec3]{Kind: gjk.NoIntersection}).Kind)
	assert.Equal(t, Intersecting, FromResult(gjk.Result[mgl64.Vec3]{Kind: gjk.Intersection}).Kind)

	projection := FromResult(gjk.Result[mgl64.Vec3]{Kind: gjk.Projection, Points: [2]mgl64.Vec3{{1, 0, 0}, {2, 0, 0}}})
	assert.Equal(t, WithinMargin, projection.Kind)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, projection.Points[1])

	assert.Panics(t, func() {
		FromResult(gjk.Result[mgl64.Vec3]{Kind: gjk.Proximity})
	})
}

func TestSupportMapAgainstSupportMapWithParams(t *testing.T) {
	box := &actor.Box{HalfExtents: mgl64.Vec3{1, 1, 1}}
	simplex := &gjk.VoronoiSimplex3{}

	t.Run("coincident placements", func(t *testing.T) {
		result := SupportMapAgainstSupportMapWithParams[mgl64.Vec3](at(0, 0, 0), box, at(0, 0, 0), box, 0, simplex, nil)
		assert.Equal(t, gjk.Intersection, result.Kind)
	})

	t.Run("warm start", func(t *testing.T) {
		dir := mgl64.Vec3{0, 1, 0}
		result := SupportMapAgainstSupportMapWithParams[mgl64.Vec3](at(0, 0, 0), box, at(0, 3, 0), box, 2, simplex, &dir)
		require.Equal(t, gjk.Projection, result.Kind)
		assert.InDeltaSlice(t, []float64{0, 1, 0}, result.Dir[:], tolerance)
		assert.InDelta(t, 1, result.Points[1].Sub(result.Points[0]).Len(), tolerance)
	})

	t.Run("zero warm start direction", func(t *testing.T) {
		var dir mgl64.Vec3
		result := SupportMapAgainstSupportMapWithParams[mgl64.Vec3](at(0, 0, 0), box, at(0, 0, 3), box, 2, simplex, &dir)
		require.Equal(t, gjk.Projection, result.Kind)
		assert.InDeltaSlice(t, []float64{0, 0, 1}, result.Dir[:], tolerance)
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "intersecting", Intersecting.String())
	assert.Equal(t, "within-margin", WithinMargin.String())
	assert.Equal(t, "disjoint", Disjoint.String())
}
