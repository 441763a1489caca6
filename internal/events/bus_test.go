package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	inserted []Event
	fail     bool
}

func (f *fakeStore) InsertEvent(_ context.Context, topic, aggregateID string, payload []byte) (Event, error) {
	if f.fail {
		return Event{}, errors.New("insert failed")
	}
	ev := Event{
		ID:          "ev-1",
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  time.Now(),
	}
	f.inserted = append(f.inserted, ev)
	return ev, nil
}

type recordingNotifier struct {
	seen []Event
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, event Event) error {
	n.seen = append(n.seen, event)
	return n.err
}

func TestEmitPersistsAndNotifies(t *testing.T) {
	store := &fakeStore{}
	notifier := &recordingNotifier{}
	bus := &Bus{Store: store, Notifiers: []Notifier{notifier}}

	err := bus.Emit(context.Background(), TopicOrderCreated, "o1", map[string]any{"orderNo": "ORD-1001"})
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	require.Len(t, notifier.seen, 1)
	require.Equal(t, TopicOrderCreated, notifier.seen[0].Topic)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(notifier.seen[0].Payload, &payload))
	require.Equal(t, "ORD-1001", payload["orderNo"])
}

func TestEmitValidatesInput(t *testing.T) {
	bus := &Bus{Store: &fakeStore{}}
	require.Error(t, bus.Emit(context.Background(), "", "o1", nil))
	require.Error(t, bus.Emit(context.Background(), TopicOrderCreated, "", nil))
	require.Error(t, bus.Emit(context.Background(), TopicOrderCreated, "o1", []byte("not-json")))
}

func TestEmitSurfacesNotifierFailureAfterPersist(t *testing.T) {
	store := &fakeStore{}
	failing := &recordingNotifier{err: errors.New("webhook down")}
	bus := &Bus{Store: store, Notifiers: []Notifier{failing}}

	err := bus.Emit(context.Background(), TopicOrderStatusChanged, "o2", nil)
	require.Error(t, err)
	// the event is persisted even when fan-out fails
	require.Len(t, store.inserted, 1)
}
