package proximity

import (
	"iter"

	"github.com/akmonengine/proximity/actor"
	"github.com/akmonengine/proximity/query"
)

// ContactPair is a tracked pair with its detector, whether or not it has contacts.
type ContactPair[V actor.Vector[V], T any] struct {
	Object1  *actor.Object[V, T]
	Object2  *actor.Object[V, T]
	Detector CollisionDetector[V]
}

// PairContact is one contact of a tracked pair.
type PairContact[V actor.Vector[V], T any] struct {
	Object1 *actor.Object[V, T]
	Object2 *actor.Object[V, T]
	Contact query.Contact[V]
}

// ContactPairs iterates over the tracked pairs, in the narrow phase's pair order.
// The sequence is a snapshot of the current tick: it must not be used after the
// next Update or HandleProximity.
type ContactPairs[V actor.Vector[V], T any] struct {
	np      *NarrowPhase[V, T]
	objects Objects[V, T]
	next    int
}

// ContactPairs starts a new iteration over the tracked pairs.
func (np *NarrowPhase[V, T]) ContactPairs(objects Objects[V, T]) *ContactPairs[V, T] {
	return &ContactPairs[V, T]{np: np, objects: objects}
}

// Next returns the next pair; ok is false once the pairs are exhausted.
// Pairs whose objects left the store are skipped.
func (it *ContactPairs[V, T]) Next() (pair ContactPair[V, T], ok bool) {
	entries := it.np.pairs.entries
	for it.next < len(entries) {
		entry := entries[it.next]
		it.next++

		o1, o2 := it.np.lookup(it.objects, entry.pair)
		if o1 == nil {
			continue
		}
		return ContactPair[V, T]{Object1: o1, Object2: o2, Detector: entry.detector}, true
	}
	return ContactPair[V, T]{}, false
}

// All adapts the remaining pairs to a range-over-func sequence.
func (it *ContactPairs[V, T]) All() iter.Seq[ContactPair[V, T]] {
	return func(yield func(ContactPair[V, T]) bool) {
		for {
			pair, ok := it.Next()
			if !ok || !yield(pair) {
				return
			}
		}
	}
}

// Contacts flattens the remaining pairs into their individual contacts.
func (it *ContactPairs[V, T]) Contacts() *Contacts[V, T] {
	it.np.contacts = it.np.contacts[:0]
	return &Contacts[V, T]{pairs: it}
}

// Contacts iterates over the contacts of the tracked pairs. The contacts of one pair
// are copied into a buffer owned by the narrow phase and shared by every Contacts
// iterator: only one of them may be in use at a time, and a partially consumed one
// cannot be restarted.
type Contacts[V actor.Vector[V], T any] struct {
	pairs   *ContactPairs[V, T]
	current ContactPair[V, T]
	pos     int
}

// Next returns the next contact; ok is false once every pair is exhausted.
func (it *Contacts[V, T]) Next() (contact PairContact[V, T], ok bool) {
	np := it.pairs.np
	for it.pos >= len(np.contacts) {
		pair, ok := it.pairs.Next()
		if !ok {
			return PairContact[V, T]{}, false
		}
		it.current = pair
		it.pos = 0
		np.contacts = pair.Detector.Contacts(np.contacts[:0])
	}

	c := np.contacts[it.pos]
	it.pos++
	return PairContact[V, T]{Object1: it.current.Object1, Object2: it.current.Object2, Contact: c}, true
}

// All adapts the remaining contacts to a range-over-func sequence.
func (it *Contacts[V, T]) All() iter.Seq[PairContact[V, T]] {
	return func(yield func(PairContact[V, T]) bool) {
		for {
			contact, ok := it.Next()
			if !ok || !yield(contact) {
				return
			}
		}
	}
}
