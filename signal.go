package proximity

import "sync"

// ContactEvent is emitted when a pair gets its first contact (Started) or loses its last one.
type ContactEvent[T any] struct {
	Key1, Key2   ObjectKey
	Data1, Data2 T
	Started      bool
}

// ProximityEvent is emitted when a pair starts or stops being tracked by the narrow phase.
type ProximityEvent[T any] struct {
	Key1, Key2   ObjectKey
	Data1, Data2 T
	Started      bool
}

// Listener is a callback for events
type Listener[E any] func(event E)

// Signal is an append-only event log. Emitted events are buffered until Flush
// sends them to the listeners, in emission order.
// Emit is safe for concurrent use.
type Signal[E any] struct {
	mu        sync.Mutex
	listeners []Listener[E]
	buffer    []E
}

type (
	ContactSignal[T any]   = Signal[ContactEvent[T]]
	ProximitySignal[T any] = Signal[ProximityEvent[T]]
)

func NewContactSignal[T any]() *ContactSignal[T] {
	return &ContactSignal[T]{buffer: make([]ContactEvent[T], 0, 256)}
}

func NewProximitySignal[T any]() *ProximitySignal[T] {
	return &ProximitySignal[T]{buffer: make([]ProximityEvent[T], 0, 256)}
}

// Subscribe adds a listener
func (s *Signal[E]) Subscribe(listener Listener[E]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *Signal[E]) Emit(event E) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = append(s.buffer, event)
}

// Events returns a copy of the pending events.
func (s *Signal[E]) Events() []E {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]E, len(s.buffer))
	copy(events, s.buffer)
	return events
}

// Len is the number of pending events.
func (s *Signal[E]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffer)
}

// Flush sends all buffered events and clears the buffer.
// Listeners run without the lock held, they may emit new events: those are kept for the next Flush.
func (s *Signal[E]) Flush() {
	s.mu.Lock()
	events := s.buffer
	s.buffer = make([]E, 0, cap(events))
	listeners := s.listeners
	s.mu.Unlock()

	for _, event := range events {
		for _, listener := range listeners {
			listener(event)
		}
	}
}
