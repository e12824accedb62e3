package proximity

import (
	"errors"
	"fmt"

	"github.com/akmonengine/proximity/actor"
	"github.com/akmonengine/proximity/gjk"
	"github.com/akmonengine/proximity/query"
	"go.uber.org/zap"
)

// ErrUnknownObject is returned when a tracked pair refers to an object missing from the store.
var ErrUnknownObject = errors.New("unknown object")

// Objects is the read-only view of the object store the narrow phase works on.
type Objects[V actor.Vector[V], T any] interface {
	Object(key ObjectKey) (*actor.Object[V, T], bool)
}

// NarrowPhase owns one CollisionDetector per tracked pair. Pairs are started and
// stopped by the broad phase through HandleProximity, and re-evaluated by Update.
//
// NarrowPhase is not safe for concurrent use: Update, HandleProximity and the
// iterators must be called from one goroutine.
type NarrowPhase[V actor.Vector[V], T any] struct {
	dispatcher Dispatcher[V]
	config     Config
	logger     *zap.Logger

	pairs pairTable[V]

	// scratch buffers reused between calls
	hadContacts []bool
	contacts    []query.Contact[V]
}

// NewNarrowPhase creates a narrow phase. A nil dispatcher uses DefaultDispatcher.
// The config must be valid, see Config.Validate.
func NewNarrowPhase[V actor.Vector[V], T any](dispatcher Dispatcher[V], config Config, opts ...Option) *NarrowPhase[V, T] {
	if err := config.Validate(); err != nil {
		panic(fmt.Sprintf("proximity: %v", err))
	}
	if dispatcher == nil {
		dispatcher = NewDefaultDispatcher[V](gjk.Limits{MaxIterations: config.MaxIterations})
	}
	o := buildOptions(opts)

	return &NarrowPhase[V, T]{
		dispatcher: dispatcher,
		config:     config,
		logger:     o.logger,
		pairs:      newPairTable[V](),
		contacts:   make([]query.Contact[V], 0, 8),
	}
}

// Len is the number of tracked pairs.
func (np *NarrowPhase[V, T]) Len() int {
	return np.pairs.len()
}

// Detector returns the detector of a tracked pair.
func (np *NarrowPhase[V, T]) Detector(k1, k2 ObjectKey) (CollisionDetector[V], bool) {
	pair, _ := NewPair(k1, k2)
	return np.pairs.get(pair)
}

// IsProximityAllowed reports whether the pair can be tracked: two distinct
// objects whose shape pair has a detector.
func (np *NarrowPhase[V, T]) IsProximityAllowed(o1, o2 *actor.Object[V, T]) bool {
	if o1 == nil || o2 == nil || o1 == o2 || o1.Shape == nil || o2.Shape == nil {
		return false
	}
	return np.dispatcher.Supports(o1.Shape.Type(), o2.Shape.Type())
}

// HandleProximity starts or stops tracking a pair. It must be called by the broad phase
// each time the pair enters (started) or leaves proximity, and only for allowed pairs:
// calling it for a pair IsProximityAllowed rejects panics.
//
// Starting emits a proximity begin event. Stopping emits a contact end event if the
// pair still had contacts, then a proximity end event. Redundant transitions are ignored.
func (np *NarrowPhase[V, T]) HandleProximity(contactSignal *ContactSignal[T], proximitySignal *ProximitySignal[T], objects Objects[V, T], k1, k2 ObjectKey, started bool) {
	pair, _ := NewPair(k1, k2)
	o1, o2 := np.lookup(objects, pair)
	if !np.IsProximityAllowed(o1, o2) {
		panic(fmt.Sprintf("proximity: HandleProximity called for the disallowed pair %v", pair))
	}

	if started {
		detector := np.dispatcher.Dispatch(o1.Shape, o2.Shape)
		if !np.pairs.insert(pair, detector) {
			np.logger.Warn("proximity started on a tracked pair", pairField(pair))
			return
		}
		np.logger.Debug("pair tracked", pairField(pair), zap.Stringer("shape1", o1.Shape.Type()), zap.Stringer("shape2", o2.Shape.Type()))
		proximitySignal.Emit(ProximityEvent[T]{Key1: pair.First, Key2: pair.Second, Data1: o1.Data, Data2: o2.Data, Started: true})
		return
	}

	detector, ok := np.pairs.remove(pair)
	if !ok {
		np.logger.Warn("proximity stopped on an untracked pair", pairField(pair))
		return
	}
	if detector.NumContacts() > 0 {
		contactSignal.Emit(ContactEvent[T]{Key1: pair.First, Key2: pair.Second, Data1: o1.Data, Data2: o2.Data, Started: false})
	}
	proximitySignal.Emit(ProximityEvent[T]{Key1: pair.First, Key2: pair.Second, Data1: o1.Data, Data2: o2.Data, Started: false})
	np.logger.Debug("pair untracked", pairField(pair))
}

// Update re-runs the detector of every tracked pair, and emits a contact event for
// each pair whose contacts went from none to some, or the reverse.
//
// Detectors are updated on Config.Workers goroutines, events are then emitted in
// pair order. Pairs whose objects are missing from the store keep their previous
// state and are reported through the returned error.
func (np *NarrowPhase[V, T]) Update(objects Objects[V, T], contactSignal *ContactSignal[T], proximitySignal *ProximitySignal[T], timestamp uint64) error {
	entries := np.pairs.entries

	np.hadContacts = np.hadContacts[:0]
	for _, entry := range entries {
		np.hadContacts = append(np.hadContacts, entry.detector.NumContacts() > 0)
	}

	var missing []error
	err := task(np.config.Workers, entries, func(entry pairEntry[V]) error {
		o1, o2 := np.lookup(objects, entry.pair)
		if o1 == nil || o2 == nil {
			return fmt.Errorf("pair %v: %w", entry.pair, ErrUnknownObject)
		}
		entry.detector.Update(timestamp, o1.Placement, o1.Shape, o2.Placement, o2.Shape, np.config.Prediction)
		return nil
	})
	if err != nil {
		// the pool stops on the first failure: finish the remaining pairs sequentially
		for _, entry := range entries {
			o1, o2 := np.lookup(objects, entry.pair)
			if o1 == nil || o2 == nil {
				missing = append(missing, fmt.Errorf("pair %v: %w", entry.pair, ErrUnknownObject))
				continue
			}
			entry.detector.Update(timestamp, o1.Placement, o1.Shape, o2.Placement, o2.Shape, np.config.Prediction)
		}
		np.logger.Warn("narrow phase update skipped pairs", zap.Int("count", len(missing)), zap.Error(missing[0]))
	}

	for i, entry := range entries {
		hasContacts := entry.detector.NumContacts() > 0
		if hasContacts == np.hadContacts[i] {
			continue
		}
		o1, o2 := np.lookup(objects, entry.pair)
		if o1 == nil || o2 == nil {
			continue
		}
		contactSignal.Emit(ContactEvent[T]{Key1: entry.pair.First, Key2: entry.pair.Second, Data1: o1.Data, Data2: o2.Data, Started: hasContacts})
	}

	return errors.Join(missing...)
}

func (np *NarrowPhase[V, T]) lookup(objects Objects[V, T], pair Pair) (*actor.Object[V, T], *actor.Object[V, T]) {
	o1, ok1 := objects.Object(pair.First)
	o2, ok2 := objects.Object(pair.Second)
	if !ok1 || !ok2 {
		return nil, nil
	}
	return o1, o2
}
