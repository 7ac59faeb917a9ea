package events

import (
	"time"
)

// Event is an immutable fact appended to a stream
type Event interface {
	Type() string
	StreamID() string
	Data() any
	Timestamp() time.Time
	// Version is the event's 1-based index within its stream
	Version() int
	// Position is the event's 1-based index across all streams; zero until stored
	Position() int
}

// EventHandler reacts to events of the types it subscribed to
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore appends events to per-stream logs and fans them out to subscribers
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// BaseEvent is the stored form of every event
type BaseEvent struct {
	EventType     string
	Stream        string
	EventData     any
	EventTime     time.Time
	EventVersion  int
	EventPosition int
}

func (e BaseEvent) Type() string {
	return e.EventType
}

func (e BaseEvent) StreamID() string {
	return e.Stream
}

func (e BaseEvent) Data() any {
	return e.EventData
}

func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

func (e BaseEvent) Version() int {
	return e.EventVersion
}

func (e BaseEvent) Position() int {
	return e.EventPosition
}

// NewEvent creates an unstored event timestamped now
func NewEvent(eventType, streamID string, data any) Event {
	return NewEventAt(eventType, streamID, data, time.Now())
}

// NewEventAt creates an event with an explicit timestamp
func NewEventAt(eventType, streamID string, data any, at time.Time) Event {
	return BaseEvent{
		EventType:    eventType,
		Stream:       streamID,
		EventData:    data,
		EventTime:    at,
		EventVersion: 1,
	}
}

// BayStream returns the stream id holding a bay's schedule events
func BayStream(bayID string) string {
	return "bay-" + bayID
}
