package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vsinha/bayplan/pkg/domain/entities"
)

type recordingHandler struct {
	mu       sync.Mutex
	received []Event
	err      error
}

func (h *recordingHandler) Handle(event Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) CanHandle(eventType string) bool {
	return eventType != BayRebalancedEvent
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

func TestInMemoryEventStore_StreamsAndVersions(t *testing.T) {
	store := NewInMemoryEventStore(nil)
	stream := BayStream("BAY_A")

	s1 := entities.ManufacturingSchedule{ID: "S1", BayID: "BAY_A"}
	require.NoError(t, store.AppendEvent(stream, NewEvent(ScheduleCreatedEvent, stream, ScheduleCreated{Schedule: s1})))
	require.NoError(t, store.AppendEvent(stream, NewEvent(ScheduleDeletedEvent, stream, ScheduleDeleted{Schedule: s1})))
	require.NoError(t, store.AppendEvent(BayStream("BAY_B"), NewEvent(ScheduleCreatedEvent, "", ScheduleCreated{})))

	events, err := store.ReadEvents(stream, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, 1, events[0].Version())
	require.Equal(t, 2, events[1].Version())
	require.Equal(t, ScheduleDeletedEvent, events[1].Type())

	payload, ok := events[0].Data().(ScheduleCreated)
	require.True(t, ok)
	require.Equal(t, entities.ScheduleID("S1"), payload.Schedule.ID)

	later, err := store.ReadEvents(stream, 2)
	require.NoError(t, err)
	require.Len(t, later, 1)

	none, err := store.ReadEvents("bay-UNKNOWN", 1)
	require.NoError(t, err)
	require.Empty(t, none)

	all, err := store.ReadAllEvents(1)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "bay-BAY_B", all[1].StreamID())
	require.Equal(t, 1, all[1].Version())
	require.Equal(t, 3, all[1].Position())
	require.Equal(t, 3, store.Position())
}

func TestInMemoryEventStore_Subscribers(t *testing.T) {
	store := NewInMemoryEventStore(nil)
	handler := &recordingHandler{err: errors.New("handler failed")}
	require.NoError(t, store.Subscribe(ScheduleEventTypes(), handler))

	stream := BayStream("BAY_A")
	require.NoError(t, store.AppendEvent(stream, NewEvent(ScheduleCreatedEvent, stream, nil)))
	require.NoError(t, store.AppendEvent(stream, NewEvent(BayRebalancedEvent, stream, nil)))
	require.NoError(t, store.AppendEvent(stream, NewEvent("unrelated", stream, nil)))
	store.Wait()

	// Errors are logged, not propagated; filtered and unsubscribed types are skipped
	require.Equal(t, 1, handler.count())

	require.NoError(t, store.Unsubscribe(handler))
	require.NoError(t, store.AppendEvent(stream, NewEvent(ScheduleUpdatedEvent, stream, nil)))
	store.Wait()
	require.Equal(t, 1, handler.count())
}
