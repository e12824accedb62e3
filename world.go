package proximity

import (
	"slices"

	"github.com/akmonengine/proximity/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// World wires the narrow phase to a broad phase in 3D: each Step bounds the
// objects with loosened AABBs, finds the overlapping pairs with the SpatialGrid,
// starts and stops the matching narrow phase pairs, updates the detectors and
// flushes the events.
//
// Objects are moved by the caller between steps, the World never moves them.
type World[T any] struct {
	Objects         *ObjectSet[mgl64.Vec3, T]
	SpatialGrid     *SpatialGrid
	NarrowPhase     *NarrowPhase[mgl64.Vec3, T]
	ContactSignal   *ContactSignal[T]
	ProximitySignal *ProximitySignal[T]

	config    Config
	logger    *zap.Logger
	timestamp uint64

	// broad phase pairs of the previous step, sorted
	active []Pair
	keys   []ObjectKey
}

// NewWorld creates a world whose grid uses cellSize cells.
func NewWorld[T any](config Config, cellSize float64, opts ...Option) *World[T] {
	o := buildOptions(opts)

	return &World[T]{
		Objects:         NewObjectSet[mgl64.Vec3, T](),
		SpatialGrid:     NewSpatialGrid(cellSize, 1024),
		NarrowPhase:     NewNarrowPhase[mgl64.Vec3, T](nil, config, opts...),
		ContactSignal:   NewContactSignal[T](),
		ProximitySignal: NewProximitySignal[T](),
		config:          config,
		logger:          o.logger,
	}
}

// Add inserts an object and returns its uid.
func (w *World[T]) Add(placement actor.Isometry[mgl64.Vec3], shape actor.Shape[mgl64.Vec3], data T) uuid.UUID {
	uid, _ := w.Objects.Add(actor.NewObject(placement, shape, data))
	return uid
}

// Remove stops every pair of the object, then removes it. The proximity and
// contact end events are delivered by the next Step.
func (w *World[T]) Remove(uid uuid.UUID) bool {
	key, ok := w.Objects.Key(uid)
	if !ok {
		return false
	}

	n := 0
	for _, pair := range w.active {
		if pair.First != key && pair.Second != key {
			w.active[n] = pair
			n++
			continue
		}
		w.stop(pair)
	}
	w.active = w.active[:n]

	w.Objects.Remove(uid)
	return true
}

// Object returns the object stored under uid.
func (w *World[T]) Object(uid uuid.UUID) (*actor.Object[mgl64.Vec3, T], bool) {
	key, ok := w.Objects.Key(uid)
	if !ok {
		return nil, false
	}
	return w.Objects.Object(key)
}

// Timestamp is the number of steps run so far.
func (w *World[T]) Timestamp() uint64 {
	return w.timestamp
}

// Step runs the broad phase and the narrow phase. Events are flushed so that
// listeners subscribed to both signals see each pair's events in order.
func (w *World[T]) Step() error {
	w.timestamp++

	current := w.broadPhase()

	// Diff against the previous step, both lists are sorted
	i, j := 0, 0
	for i < len(w.active) || j < len(current) {
		switch {
		case j == len(current) || (i < len(w.active) && w.active[i].Less(current[j])):
			w.stop(w.active[i])
			i++
		case i == len(w.active) || current[j].Less(w.active[i]):
			w.start(current[j])
			j++
		default:
			i++
			j++
		}
	}
	w.active = current

	// A stopped pair emits its contact end before its proximity end,
	// a started pair only gets contact events from the update below
	w.ContactSignal.Flush()
	w.ProximitySignal.Flush()

	err := w.NarrowPhase.Update(w.Objects, w.ContactSignal, w.ProximitySignal, w.timestamp)
	if err != nil {
		w.logger.Error("narrow phase update failed", zap.Error(err))
	}

	w.ContactSignal.Flush()
	return err
}

func (w *World[T]) broadPhase() []Pair {
	w.SpatialGrid.Clear()
	w.keys = w.keys[:0]
	for key, object := range w.Objects.All() {
		aabb := actor.ComputeAABB(object.Placement, object.Shape).Loosened(w.config.Prediction)
		w.SpatialGrid.Insert(len(w.keys), aabb)
		w.keys = append(w.keys, key)
	}

	gridPairs := w.SpatialGrid.FindPairs(w.config.Workers)
	pairs := make([]Pair, 0, len(gridPairs))
	for _, p := range gridPairs {
		pair, _ := NewPair(w.keys[p.A], w.keys[p.B])
		pairs = append(pairs, pair)
	}
	slices.SortFunc(pairs, func(a, b Pair) int {
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})
	return pairs
}

func (w *World[T]) start(pair Pair) {
	o1, _ := w.Objects.Object(pair.First)
	o2, _ := w.Objects.Object(pair.Second)
	if !w.NarrowPhase.IsProximityAllowed(o1, o2) {
		return
	}
	w.NarrowPhase.HandleProximity(w.ContactSignal, w.ProximitySignal, w.Objects, pair.First, pair.Second, true)
}

func (w *World[T]) stop(pair Pair) {
	if _, tracked := w.NarrowPhase.Detector(pair.First, pair.Second); !tracked {
		return
	}
	w.NarrowPhase.HandleProximity(w.ContactSignal, w.ProximitySignal, w.Objects, pair.First, pair.Second, false)
}
