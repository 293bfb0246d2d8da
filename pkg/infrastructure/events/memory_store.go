package events

import (
	"sync"
)

// InMemoryEventStore is the default EventStore. Handlers are notified
// synchronously on append so tests and CLI runs observe a deterministic
// event order.
type InMemoryEventStore struct {
	mu        sync.RWMutex
	streams   map[string][]Event
	allEvents []Event

	subscribers []subscription
}

type subscription struct {
	eventTypes map[string]bool // empty = all types
	handler    EventHandler
}

// NewInMemoryEventStore creates an empty in-memory event store
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		streams: make(map[string][]Event),
	}
}

// Verify interface compliance
var _ EventStore = (*InMemoryEventStore)(nil)

// AppendEvent appends an event to a stream, assigning its stream version
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mu.Lock()

	versioned := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}

	s.streams[streamID] = append(s.streams[streamID], versioned)
	s.allEvents = append(s.allEvents, versioned)
	subs := make([]subscription, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		if len(sub.eventTypes) > 0 && !sub.eventTypes[versioned.EventType] {
			continue
		}
		if sub.handler.CanHandle(versioned.EventType) {
			// Handler errors do not fail the append; the planning result
			// is already computed by the time events are emitted.
			_ = sub.handler.Handle(versioned)
		}
	}

	return nil
}

// ReadEvents returns a stream's events starting at fromVersion (1-based)
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(stream) {
		return []Event{}, nil
	}

	out := make([]Event, len(stream)-fromVersion+1)
	copy(out, stream[fromVersion-1:])
	return out, nil
}

// ReadAllEvents returns every event from a global position (0-based)
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	out := make([]Event, len(s.allEvents)-fromPosition)
	copy(out, s.allEvents[fromPosition:])
	return out, nil
}

// Subscribe registers a handler for the given event types (nil = all)
func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	types := make(map[string]bool, len(eventTypes))
	for _, t := range eventTypes {
		types[t] = true
	}
	s.subscribers = append(s.subscribers, subscription{eventTypes: types, handler: handler})
	return nil
}
