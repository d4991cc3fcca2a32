// Package gateway delivers domain events to the outside world once the
// state change they describe has been stored.
package gateway

import (
	"context"
	"log/slog"

	jsoniter "github.com/json-iterator/go"

	"libranexus/internal/library"
	"libranexus/internal/platform/metrics"
	"libranexus/internal/store"
)

//go:generate mockgen -source=publisher.go -destination=mocks/publisher_mock.go -package=mocks

// Publisher hands one event to a sink. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event *library.DomainEvent) error
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EventsTable is where StorePublisher keeps events.
var EventsTable = store.Table{
	Name:          "events",
	IDAttr:        "event_id",
	PartitionAttr: "group",
	SortAttr:      "key",
}

// StorePublisher appends events to the events table of a store backend.
type StorePublisher struct {
	events *store.Repository[*library.DomainEvent]
}

func NewStorePublisher(backend store.Backend) *StorePublisher {
	return &StorePublisher{events: store.NewRepository[*library.DomainEvent](backend, EventsTable)}
}

func (p *StorePublisher) Publish(ctx context.Context, event *library.DomainEvent) error {
	_, err := p.events.Create(ctx, event)
	return err
}

// Query reads back stored events, e.g. {"group": "checkout", "key": id}.
func (p *StorePublisher) Query(ctx context.Context, predicate map[string]string, page string, pageSize int) (*library.PaginatedResult[*library.DomainEvent], error) {
	return p.events.Query(ctx, predicate, page, pageSize)
}

// LogPublisher writes events to a structured log.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event *library.DomainEvent) error {
	p.logger.InfoContext(ctx, "domain event",
		"event_id", event.EventID,
		"name", event.Name,
		"group", event.Group,
		"key", event.Key,
		"kind", event.Kind,
	)
	return nil
}

// Instrumented counts every publish by group and outcome.
type Instrumented struct {
	next    Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewInstrumented(next Publisher, m *metrics.Metrics, logger *slog.Logger) *Instrumented {
	if logger == nil {
		logger = slog.Default()
	}
	return &Instrumented{next: next, metrics: m, logger: logger}
}

func (p *Instrumented) Publish(ctx context.Context, event *library.DomainEvent) error {
	err := p.next.Publish(ctx, event)
	p.metrics.Published(event.Group, err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			"event_id", event.EventID,
			"group", event.Group,
			"error", err,
		)
	}
	return err
}
