package gateway

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"libranexus/internal/library"
	"libranexus/pkg/eventstore"
)

// EventLogPublisher appends events to the PostgreSQL event log.
type EventLogPublisher struct {
	log *eventstore.EventStore
}

func NewEventLogPublisher(log *eventstore.EventStore) *EventLogPublisher {
	return &EventLogPublisher{log: log}
}

// ToLogEvent converts a domain event into its log representation.
func ToLogEvent(event *library.DomainEvent) (eventstore.Event, error) {
	id, err := uuid.Parse(event.EventID)
	if err != nil {
		return eventstore.Event{}, library.Validation("400", "event id %q is not a uuid", event.EventID)
	}
	return eventstore.Event{
		EventID:   id,
		Name:      event.Name,
		Group:     event.Group,
		Key:       event.Key,
		Kind:      string(event.Kind),
		Data:      []byte(event.JSONData),
		Metadata:  event.Metadata,
		CreatedAt: event.CreatedAt.Time,
	}, nil
}

func (p *EventLogPublisher) Publish(ctx context.Context, event *library.DomainEvent) error {
	logEvent, err := ToLogEvent(event)
	if err != nil {
		return err
	}
	err = p.log.Append(ctx, logEvent)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, eventstore.ErrDuplicateEvent):
		return library.DuplicateKey("event %s already published", event.EventID)
	case errors.Is(err, eventstore.ErrInvalidEvent):
		return library.Validation("400", "%v", err)
	}
	return library.FromTransport(err, "append event %s", event.EventID)
}
