package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/engineers-ent/backend-nirman/internal/events"
)

// InsertEvent appends a domain event to the log.
func (s *Store) InsertEvent(ctx context.Context, topic, aggregateID string, payload []byte) (events.Event, error) {
	evt := events.Event{
		ID:          uuid.NewString(),
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  time.Now().UTC(),
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO domain_events (id, topic, aggregate_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`,
		evt.ID, evt.Topic, evt.AggregateID, payload, evt.OccurredAt)
	if err != nil {
		return events.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return evt, nil
}
