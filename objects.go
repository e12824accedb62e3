package proximity

import (
	"errors"
	"fmt"
	"iter"

	"github.com/akmonengine/proximity/actor"
	"github.com/google/uuid"
)

var ErrDuplicateObject = errors.New("duplicate object")

// ObjectSet stores objects under a stable uuid and hands out dense ObjectKeys.
// Keys of removed objects are reused by later insertions, so a key is only
// meaningful while its object is in the set.
type ObjectSet[V actor.Vector[V], T any] struct {
	objects []*actor.Object[V, T]
	uids    []uuid.UUID
	keys    map[uuid.UUID]ObjectKey
	free    []ObjectKey
}

func NewObjectSet[V actor.Vector[V], T any]() *ObjectSet[V, T] {
	return &ObjectSet[V, T]{
		keys: make(map[uuid.UUID]ObjectKey),
	}
}

// Add inserts the object under a fresh uuid.
func (s *ObjectSet[V, T]) Add(object *actor.Object[V, T]) (uuid.UUID, ObjectKey) {
	uid := uuid.New()
	key, _ := s.Insert(uid, object)
	return uid, key
}

// Insert stores the object under uid.
func (s *ObjectSet[V, T]) Insert(uid uuid.UUID, object *actor.Object[V, T]) (ObjectKey, error) {
	if _, ok := s.keys[uid]; ok {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateObject, uid)
	}

	var key ObjectKey
	if n := len(s.free); n > 0 {
		key = s.free[n-1]
		s.free = s.free[:n-1]
		s.objects[key] = object
		s.uids[key] = uid
	} else {
		key = ObjectKey(len(s.objects))
		s.objects = append(s.objects, object)
		s.uids = append(s.uids, uid)
	}
	s.keys[uid] = key

	return key, nil
}

// Remove deletes the object stored under uid and frees its key.
func (s *ObjectSet[V, T]) Remove(uid uuid.UUID) (ObjectKey, bool) {
	key, ok := s.keys[uid]
	if !ok {
		return 0, false
	}
	delete(s.keys, uid)
	s.objects[key] = nil
	s.uids[key] = uuid.Nil
	s.free = append(s.free, key)
	return key, true
}

// Key returns the current key of uid.
func (s *ObjectSet[V, T]) Key(uid uuid.UUID) (ObjectKey, bool) {
	key, ok := s.keys[uid]
	return key, ok
}

// UID returns the uuid stored under key.
func (s *ObjectSet[V, T]) UID(key ObjectKey) (uuid.UUID, bool) {
	if int(key) >= len(s.objects) || s.objects[key] == nil {
		return uuid.Nil, false
	}
	return s.uids[key], true
}

func (s *ObjectSet[V, T]) Object(key ObjectKey) (*actor.Object[V, T], bool) {
	if int(key) >= len(s.objects) || s.objects[key] == nil {
		return nil, false
	}
	return s.objects[key], true
}

func (s *ObjectSet[V, T]) Len() int {
	return len(s.keys)
}

// All iterates over the objects in key order.
func (s *ObjectSet[V, T]) All() iter.Seq2[ObjectKey, *actor.Object[V, T]] {
	return func(yield func(ObjectKey, *actor.Object[V, T]) bool) {
		for i, object := range s.objects {
			if object == nil {
				continue
			}
			if !yield(ObjectKey(i), object) {
				return
			}
		}
	}
}

var _ Objects[actor.VecN, struct{}] = (*ObjectSet[actor.VecN, struct{}])(nil)
