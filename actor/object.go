package actor

// Object is a collision object as seen by the narrow phase: a placed shape
// carrying an opaque user tag that is forwarded with every event.
// The narrow phase only reads objects, it never moves them.
type Object[V Vector[V], T any] struct {
	Placement Isometry[V]
	Shape     Shape[V]
	Data      T
}

// NewObject creates an object from its placement, shape and user tag.
func NewObject[V Vector[V], T any](placement Isometry[V], shape Shape[V], data T) *Object[V, T] {
	return &Object[V, T]{
		Placement: placement,
		Shape:     shape,
		Data:      data,
	}
}
