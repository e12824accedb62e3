package proximity

import (
	"github.com/akmonengine/proximity/actor"
	"github.com/akmonengine/proximity/gjk"
	"github.com/akmonengine/proximity/query"
)

// CollisionDetector is the persistent state of one tracked pair.
// It is owned by the NarrowPhase and recomputes its contacts on every Update.
type CollisionDetector[V actor.Vector[V]] interface {
	// Update recomputes the contacts from the current placements.
	// Calling it again with the same timestamp is a no-op.
	Update(timestamp uint64, m1 actor.Isometry[V], g1 actor.Shape[V], m2 actor.Isometry[V], g2 actor.Shape[V], prediction float64)
	NumContacts() int
	// Contacts appends the current contacts to out.
	Contacts(out []query.Contact[V]) []query.Contact[V]
}

// Dispatcher builds the detector matching a pair of shapes.
type Dispatcher[V actor.Vector[V]] interface {
	// Supports reports whether a detector exists for the shape pair.
	Supports(t1, t2 actor.ShapeType) bool
	Dispatch(g1, g2 actor.Shape[V]) CollisionDetector[V]
}

type shapePair struct {
	t1, t2 actor.ShapeType
}

// DefaultDispatcher handles every shape pair: balls get the analytic detector,
// anything else goes through GJK. Pairs can be excluded with Ignore.
type DefaultDispatcher[V actor.Vector[V]] struct {
	limits  gjk.Limits
	ignored map[shapePair]struct{}
}

func NewDefaultDispatcher[V actor.Vector[V]](limits gjk.Limits) *DefaultDispatcher[V] {
	return &DefaultDispatcher[V]{
		limits:  limits,
		ignored: make(map[shapePair]struct{}),
	}
}

// Ignore removes the detector of a shape pair, in both orders.
func (d *DefaultDispatcher[V]) Ignore(t1, t2 actor.ShapeType) {
	d.ignored[shapePair{t1, t2}] = struct{}{}
	d.ignored[shapePair{t2, t1}] = struct{}{}
}

func (d *DefaultDispatcher[V]) Supports(t1, t2 actor.ShapeType) bool {
	_, ignored := d.ignored[shapePair{t1, t2}]
	return !ignored
}

func (d *DefaultDispatcher[V]) Dispatch(g1, g2 actor.Shape[V]) CollisionDetector[V] {
	if g1.Type() == actor.ShapeTypeBall && g2.Type() == actor.ShapeTypeBall {
		return &BallBallDetector[V]{}
	}
	return &SupportMapDetector[V]{limits: d.limits}
}

// timestampGuard skips redundant recomputations within a tick.
type timestampGuard struct {
	timestamp uint64
	valid     bool
}

// stale reports whether the detector must be recomputed, and records the timestamp.
func (g *timestampGuard) stale(timestamp uint64) bool {
	if g.valid && g.timestamp == timestamp {
		return false
	}
	g.timestamp = timestamp
	g.valid = true
	return true
}

// BallBallDetector tracks two balls with the analytic formula.
type BallBallDetector[V actor.Vector[V]] struct {
	guard      timestampGuard
	contact    query.Contact[V]
	hasContact bool
}

func (d *BallBallDetector[V]) Update(timestamp uint64, m1 actor.Isometry[V], g1 actor.Shape[V], m2 actor.Isometry[V], g2 actor.Shape[V], prediction float64) {
	if !d.guard.stale(timestamp) {
		return
	}

	b1, ok1 := g1.(*actor.Ball[V])
	b2, ok2 := g2.(*actor.Ball[V])
	if !ok1 || !ok2 {
		panic("proximity: ball detector updated with non-ball shapes")
	}

	d.contact, d.hasContact = query.BallAgainstBallContact(m1.Translation(), b1, m2.Translation(), b2, prediction)
}

func (d *BallBallDetector[V]) NumContacts() int {
	if d.hasContact {
		return 1
	}
	return 0
}

func (d *BallBallDetector[V]) Contacts(out []query.Contact[V]) []query.Contact[V] {
	if d.hasContact {
		out = append(out, d.contact)
	}
	return out
}

// SupportMapDetector tracks any two support maps with GJK. The simplex and the
// last separating direction are kept to warm start the next update.
type SupportMapDetector[V actor.Vector[V]] struct {
	guard      timestampGuard
	limits     gjk.Limits
	simplex    gjk.Simplex[V]
	dir        *V
	contact    query.Contact[V]
	hasContact bool
}

func (d *SupportMapDetector[V]) Update(timestamp uint64, m1 actor.Isometry[V], g1 actor.Shape[V], m2 actor.Isometry[V], g2 actor.Shape[V], prediction float64) {
	if !d.guard.stale(timestamp) {
		return
	}

	if d.simplex == nil {
		d.simplex = gjk.NewSimplex[V](m1.Dim())
	}

	var dir V
	if d.dir != nil {
		dir = *d.dir
	} else {
		dir = m2.Translation().Sub(m1.Translation())
	}

	d.contact, d.hasContact = query.SupportMapContactWithLimits[V](m1, g1, m2, g2, prediction, d.simplex, &dir, d.limits)
	if dir.LenSqr() > 0 {
		d.dir = &dir
	}
}

func (d *SupportMapDetector[V]) NumContacts() int {
	if d.hasContact {
		return 1
	}
	return 0
}

func (d *SupportMapDetector[V]) Contacts(out []query.Contact[V]) []query.Contact[V] {
	if d.hasContact {
		out = append(out, d.contact)
	}
	return out
}

var (
	_ CollisionDetector[actor.VecN] = (*BallBallDetector[actor.VecN])(nil)
	_ CollisionDetector[actor.VecN] = (*SupportMapDetector[actor.VecN])(nil)
	_ Dispatcher[actor.VecN]        = (*DefaultDispatcher[actor.VecN])(nil)
)
