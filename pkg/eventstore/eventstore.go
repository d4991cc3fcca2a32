package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrDuplicateEvent = errors.New("event already appended")
	ErrInvalidEvent   = errors.New("invalid event")
)

// Event is one immutable entry of the log
type Event struct {
	ID        int64             `json:"id" db:"id"`
	EventID   uuid.UUID         `json:"event_id" db:"event_id"`
	Name      string            `json:"name" db:"name"`
	Group     string            `json:"group" db:"event_group"`
	Key       string            `json:"key" db:"event_key"`
	Kind      string            `json:"kind" db:"kind"`
	Data      json.RawMessage   `json:"data" db:"data"`
	Metadata  map[string]string `json:"metadata" db:"metadata"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

func (e Event) validate() error {
	switch {
	case e.EventID == uuid.Nil:
		return fmt.Errorf("%w: missing event id", ErrInvalidEvent)
	case e.Name == "" || e.Group == "":
		return fmt.Errorf("%w: %s needs a name and a group", ErrInvalidEvent, e.EventID)
	case len(e.Data) > 0 && !json.Valid(e.Data):
		return fmt.Errorf("%w: %s payload is not JSON", ErrInvalidEvent, e.EventID)
	}
	return nil
}

// Schema creates the events table. Safe to run repeatedly.
const Schema = `
CREATE TABLE IF NOT EXISTS domain_events (
	id BIGSERIAL PRIMARY KEY,
	event_id UUID NOT NULL UNIQUE,
	name TEXT NOT NULL,
	event_group TEXT NOT NULL,
	event_key TEXT NOT NULL,
	kind TEXT NOT NULL,
	data JSONB NOT NULL,
	metadata JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS domain_events_group_key ON domain_events (event_group, event_key, id);
`

// EventStore is an append-only log of domain events on PostgreSQL
type EventStore struct {
	db     *sql.DB
	tracer trace.Tracer
}

// NewEventStore creates a new event store on an existing pool
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{
		db:     db,
		tracer: otel.Tracer("libranexus/eventstore"),
	}
}

// EnsureSchema applies Schema
func (es *EventStore) EnsureSchema(ctx context.Context) error {
	if _, err := es.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create event schema: %w", err)
	}
	return nil
}

// Append writes events atomically. An event id seen before fails the whole
// batch with ErrDuplicateEvent.
func (es *EventStore) Append(ctx context.Context, events ...Event) error {
	ctx, span := es.tracer.Start(ctx, "eventstore.append",
		trace.WithAttributes(attribute.Int("event.count", len(events))),
	)
	defer span.End()

	for _, event := range events {
		if err := event.validate(); err != nil {
			return err
		}
	}

	tx, err := es.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO domain_events (event_id, name, event_group, event_key, kind, data, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, event := range events {
		metadataJSON, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata %d: %w", i, err)
		}
		data := event.Data
		if len(data) == 0 {
			data = json.RawMessage("null")
		}
		createdAt := event.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		var id int64
		err = stmt.QueryRowContext(ctx,
			event.EventID,
			event.Name,
			event.Group,
			event.Key,
			event.Kind,
			[]byte(data),
			metadataJSON,
			createdAt,
		).Scan(&id)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				span.SetAttributes(attribute.Bool("duplicate.detected", true))
				return fmt.Errorf("%w: %s", ErrDuplicateEvent, event.EventID)
			}
			return fmt.Errorf("insert event %d: %w", i, err)
		}

		span.AddEvent("event.appended", trace.WithAttributes(
			attribute.Int64("event.id", id),
			attribute.String("event.name", event.Name),
			attribute.String("event.group", event.Group),
		))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LoadEvents returns every event recorded for one group and key, oldest
// first.
func (es *EventStore) LoadEvents(ctx context.Context, group, key string) ([]Event, error) {
	ctx, span := es.tracer.Start(ctx, "eventstore.load",
		trace.WithAttributes(
			attribute.String("event.group", group),
			attribute.String("event.key", key),
		),
	)
	defer span.End()

	rows, err := es.db.QueryContext(ctx, `
		SELECT id, event_id, name, event_group, event_key, kind, data, metadata, created_at
		FROM domain_events
		WHERE event_group = $1 AND event_key = $2
		ORDER BY id ASC
	`, group, key)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("events.loaded", len(events)))
	return events, nil
}

// StreamEvents provides a cursor-based event stream for projections
func (es *EventStore) StreamEvents(ctx context.Context, fromID int64, batchSize int) ([]Event, error) {
	ctx, span := es.tracer.Start(ctx, "eventstore.stream",
		trace.WithAttributes(
			attribute.Int64("from.id", fromID),
			attribute.Int("batch.size", batchSize),
		),
	)
	defer span.End()

	rows, err := es.db.QueryContext(ctx, `
		SELECT id, event_id, name, event_group, event_key, kind, data, metadata, created_at
		FROM domain_events
		WHERE id > $1
		ORDER BY id ASC
		LIMIT $2
	`, fromID, batchSize)
	if err != nil {
		return nil, fmt.Errorf("query event stream: %w", err)
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("events.streamed", len(events)))
	return events, nil
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var data, metadataJSON []byte

		err := rows.Scan(
			&event.ID,
			&event.EventID,
			&event.Name,
			&event.Group,
			&event.Key,
			&event.Kind,
			&data,
			&metadataJSON,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.Data = json.RawMessage(data)
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &event.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata of event %d: %w", event.ID, err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
