package actor

import "github.com/go-gl/mathgl/mgl64"

// Isometry is a rigid placement (rotation + translation) of a shape.
// Dim is the dimension tag the query layer uses to pick a simplex implementation.
type Isometry[V Vector[V]] interface {
	Dim() int
	Translation() V
	// TransformPoint maps a local point to world space
	TransformPoint(p V) V
	// Rotate maps a local direction to world space
	Rotate(v V) V
	// InverseRotate maps a world direction to local space
	InverseRotate(v V) V
}

var (
	_ Isometry[mgl64.Vec3] = Transform{}
	_ Isometry[mgl64.Vec2] = Transform2{}
	_ Isometry[VecN]       = TransformN{}
)

// Transform represents a position and orientation in 3D space.
// A zero Rotation is read as the identity.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
	}
}

// NewTransformAt creates an unrotated transform at position
func NewTransformAt(position mgl64.Vec3) Transform {
	return Transform{Position: position, Rotation: mgl64.QuatIdent()}
}

func (t Transform) rotation() mgl64.Quat {
	if t.Rotation.W == 0 && t.Rotation.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return t.Rotation
}

func (t Transform) Dim() int { return 3 }

func (t Transform) Translation() mgl64.Vec3 { return t.Position }

func (t Transform) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return t.rotation().Rotate(p).Add(t.Position)
}

func (t Transform) Rotate(v mgl64.Vec3) mgl64.Vec3 {
	return t.rotation().Rotate(v)
}

func (t Transform) InverseRotate(v mgl64.Vec3) mgl64.Vec3 {
	return t.rotation().Conjugate().Rotate(v)
}

// Transform2 is a placement in the plane: a position and a counter-clockwise angle in radians.
type Transform2 struct {
	Position mgl64.Vec2
	Angle    float64
}

func (t Transform2) Dim() int { return 2 }

func (t Transform2) Translation() mgl64.Vec2 { return t.Position }

func (t Transform2) TransformPoint(p mgl64.Vec2) mgl64.Vec2 {
	return t.Rotate(p).Add(t.Position)
}

func (t Transform2) Rotate(v mgl64.Vec2) mgl64.Vec2 {
	if t.Angle == 0 {
		return v
	}
	return mgl64.Rotate2D(t.Angle).Mul2x1(v)
}

func (t Transform2) InverseRotate(v mgl64.Vec2) mgl64.Vec2 {
	if t.Angle == 0 {
		return v
	}
	return mgl64.Rotate2D(-t.Angle).Mul2x1(v)
}

// TransformN places a shape in an arbitrary dimension.
// Rotation must be an orthonormal Size x Size matrix, nil means no rotation.
type TransformN struct {
	Position VecN
	Rotation *mgl64.MatMxN
}

// NewTransformN creates an unrotated placement at position.
func NewTransformN(position ...float64) TransformN {
	return TransformN{Position: NewVecN(position...)}
}

func (t TransformN) Dim() int { return t.Position.Size() }

func (t TransformN) Translation() VecN { return t.Position }

func (t TransformN) TransformPoint(p VecN) VecN {
	return t.Rotate(p).Add(t.Position)
}

func (t TransformN) Rotate(v VecN) VecN {
	if t.Rotation == nil {
		return v
	}
	return VecN{v: t.Rotation.MulNx1(nil, v.v)}
}

func (t TransformN) InverseRotate(v VecN) VecN {
	if t.Rotation == nil {
		return v
	}
	return VecN{v: t.Rotation.Transpose(nil).MulNx1(nil, v.v)}
}
