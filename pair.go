package proximity

import (
	"fmt"

	"github.com/akmonengine/proximity/actor"
)

// ObjectKey identifies an object in an Objects store.
// Keys are issued by the store, the narrow phase only compares them.
type ObjectKey uint32

// Pair is an unordered pair of objects, normalized so that First < Second.
type Pair struct {
	First  ObjectKey
	Second ObjectKey
}

// NewPair creates a normalized pair key with consistent ordering.
// swapped reports whether k1 and k2 were exchanged.
func NewPair(k1, k2 ObjectKey) (pair Pair, swapped bool) {
	if k2 < k1 {
		return Pair{First: k2, Second: k1}, true
	}
	return Pair{First: k1, Second: k2}, false
}

// Less orders pairs by First, then Second.
func (p Pair) Less(other Pair) bool {
	if p.First != other.First {
		return p.First < other.First
	}
	return p.Second < other.Second
}

func (p Pair) String() string {
	return fmt.Sprintf("(%d, %d)", p.First, p.Second)
}

type pairEntry[V actor.Vector[V]] struct {
	pair     Pair
	detector CollisionDetector[V]
}

// pairTable maps pairs to their detector. Entries live in a slice so that
// iteration order only depends on the insertions and removals, never on the
// map layout: removals swap the last entry into the freed slot.
type pairTable[V actor.Vector[V]] struct {
	index   map[Pair]int
	entries []pairEntry[V]
}

func newPairTable[V actor.Vector[V]]() pairTable[V] {
	return pairTable[V]{
		index:   make(map[Pair]int),
		entries: make([]pairEntry[V], 0, 64),
	}
}

func (t *pairTable[V]) get(pair Pair) (CollisionDetector[V], bool) {
	i, ok := t.index[pair]
	if !ok {
		return nil, false
	}
	return t.entries[i].detector, true
}

// insert returns false when the pair is already tracked.
func (t *pairTable[V]) insert(pair Pair, detector CollisionDetector[V]) bool {
	if _, ok := t.index[pair]; ok {
		return false
	}
	t.index[pair] = len(t.entries)
	t.entries = append(t.entries, pairEntry[V]{pair: pair, detector: detector})
	return true
}

func (t *pairTable[V]) remove(pair Pair) (CollisionDetector[V], bool) {
	i, ok := t.index[pair]
	if !ok {
		return nil, false
	}
	detector := t.entries[i].detector

	last := len(t.entries) - 1
	if i != last {
		t.entries[i] = t.entries[last]
		t.index[t.entries[i].pair] = i
	}
	t.entries[last] = pairEntry[V]{}
	t.entries = t.entries[:last]
	delete(t.index, pair)

	return detector, true
}

func (t *pairTable[V]) len() int {
	return len(t.entries)
}
