package events

import (
	"slices"
	"sync"

	"github.com/vsinha/bayplan/pkg/infrastructure/logging"
)

type InMemoryEventStore struct {
	streams     map[string][]Event
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	position    int
	allEvents   []Event
	logger      *logging.Logger
	inflight    sync.WaitGroup
}

func NewInMemoryEventStore(logger *logging.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
		logger:      logger.WithComponent("event_store"),
	}
}

// Verify interface compliance
var _ EventStore = (*InMemoryEventStore)(nil)

// AppendEvent stores the event with the next version of its stream and
// notifies subscribers asynchronously
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.position++
	eventWithVersion := BaseEvent{
		EventType:     event.Type(),
		Stream:        streamID,
		EventData:     event.Data(),
		EventTime:     event.Timestamp(),
		EventVersion:  len(s.streams[streamID]) + 1,
		EventPosition: s.position,
	}

	s.streams[streamID] = append(s.streams[streamID], eventWithVersion)
	s.allEvents = append(s.allEvents, eventWithVersion)

	handlers := slices.Clone(s.subscribers[eventWithVersion.EventType])
	for _, handler := range handlers {
		if !handler.CanHandle(eventWithVersion.EventType) {
			continue
		}
		s.inflight.Add(1)
		go s.deliver(handler, eventWithVersion)
	}

	return nil
}

func (s *InMemoryEventStore) deliver(h EventHandler, e Event) {
	defer s.inflight.Done()
	if err := h.Handle(e); err != nil {
		s.logger.Error("event handler failed",
			"event_type", e.Type(),
			"stream_id", e.StreamID(),
			"version", e.Version(),
			"position", e.Position(),
			"error", err.Error(),
		)
	}
}

// Wait blocks until every delivery started so far has finished
func (s *InMemoryEventStore) Wait() {
	s.inflight.Wait()
}

func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events, exists := s.streams[streamID]
	if !exists {
		return []Event{}, nil
	}

	if fromVersion < 1 {
		fromVersion = 1
	}

	if fromVersion > len(events) {
		return []Event{}, nil
	}

	return slices.Clone(events[fromVersion-1:]), nil
}

func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}

	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	return slices.Clone(s.allEvents[fromPosition:]), nil
}

// Position returns the number of events appended so far
func (s *InMemoryEventStore) Position() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.position
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		s.subscribers[eventType] = slices.DeleteFunc(slices.Clone(handlers), func(h EventHandler) bool {
			return h == handler
		})
	}

	return nil
}
