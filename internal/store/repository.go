package store

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"libranexus/internal/library"
)

// Repository persists one entity type in one table with optimistic
// versioning.
type Repository[T Entity] struct {
	backend Backend
	table   Table
	tracer  trace.Tracer
	now     func() time.Time
}

// NewRepository binds a table to a backend.
func NewRepository[T Entity](backend Backend, table Table) *Repository[T] {
	return &Repository[T]{
		backend: backend,
		table:   table,
		tracer:  otel.Tracer("libranexus/store"),
		now:     time.Now,
	}
}

func (r *Repository[T]) Table() Table { return r.table }

func (r *Repository[T]) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("store.table", r.table.Name))
	return r.tracer.Start(ctx, "store."+op, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Create inserts entity only if its id is unused. It returns the number
// of records written.
func (r *Repository[T]) Create(ctx context.Context, entity T) (n int, err error) {
	ctx, span := r.start(ctx, "create", attribute.String("record.id", entity.GetID()))
	defer func() { finish(span, err) }()

	item, err := Encode(entity)
	if err != nil {
		return 0, err
	}
	if err := r.backend.Put(ctx, r.table, item); err != nil {
		return 0, err
	}
	return 1, nil
}

// Update writes entity only if the stored version still equals
// entity.GetVersion(). The stored copy gets version+1 and a fresh
// updated_at.
func (r *Repository[T]) Update(ctx context.Context, entity T) (int, error) {
	return r.UpdateAt(ctx, entity, library.At(r.now()))
}

// UpdateAt is Update with updated_at set to at, so callers can return the
// same instant they stored.
func (r *Repository[T]) UpdateAt(ctx context.Context, entity T, at library.Timestamp) (n int, err error) {
	expected := entity.GetVersion()
	ctx, span := r.start(ctx, "update",
		attribute.String("record.id", entity.GetID()),
		attribute.Int64("expected.version", expected),
	)
	defer func() { finish(span, err) }()

	item, err := Encode(entity)
	if err != nil {
		return 0, err
	}
	item[AttrVersion] = expected + 1
	item[AttrUpdatedAt] = at.String()
	if err := r.backend.Replace(ctx, r.table, item, expected); err != nil {
		span.SetAttributes(attribute.Bool("conflict.detected", library.IsVersionConflict(err)))
		return 0, err
	}
	return 1, nil
}

// Get returns the record stored under id.
func (r *Repository[T]) Get(ctx context.Context, id string) (out T, err error) {
	ctx, span := r.start(ctx, "get", attribute.String("record.id", id))
	defer func() { finish(span, err) }()

	items, err := r.backend.Lookup(ctx, r.table, id, 2)
	if err != nil {
		return out, err
	}
	switch len(items) {
	case 0:
		return out, library.NotFound("%s %s", r.table.Name, id)
	case 1:
		return Decode[T](items[0])
	}
	return out, library.Database(nil, false, "too many %s records for id %s", r.table.Name, id)
}

// Delete removes the record stored under id. Deleting a missing record
// succeeds.
func (r *Repository[T]) Delete(ctx context.Context, id string) (n int, err error) {
	ctx, span := r.start(ctx, "delete", attribute.String("record.id", id))
	defer func() { finish(span, err) }()

	if err := r.backend.Delete(ctx, r.table, id); err != nil {
		return 0, err
	}
	return 1, nil
}

// Query returns one page of records matching predicate in index order.
// Keys may carry an operator suffix ("due_at:<="); see Table.Plan for how
// keys map onto the index. Pages are filled after filtering, and NextPage
// is set only when another matching record exists.
func (r *Repository[T]) Query(ctx context.Context, predicate map[string]string, page string, pageSize int) (res *library.PaginatedResult[T], err error) {
	limit := ClampPageSize(pageSize)
	ctx, span := r.start(ctx, "query",
		attribute.Int("page.size", limit),
		attribute.Bool("page.resumed", page != ""),
	)
	defer func() { finish(span, err) }()

	plan, err := r.table.Plan(predicate)
	if err != nil {
		return nil, err
	}
	after, err := r.table.DecodeCursor(page, predicate)
	if err != nil {
		return nil, err
	}

	var (
		records []T
		keys    []Key
		scanned int
	)
scan:
	for {
		items, err := r.backend.Scan(ctx, r.table, IndexScan{
			Partition: plan.Partition,
			Sort:      plan.Sort,
			After:     after,
			Limit:     limit + 1,
		})
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			key, err := r.table.KeyOf(item)
			if err != nil {
				return nil, err
			}
			after = &key
			scanned++
			if !plan.Match(item) {
				continue
			}
			record, err := Decode[T](item)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
			keys = append(keys, key)
			if len(records) > limit {
				break scan
			}
		}
		if len(items) <= limit {
			break
		}
	}

	result := &library.PaginatedResult[T]{Page: page, PageSize: limit, Records: records}
	if len(records) > limit {
		result.Records = records[:limit]
		next, err := r.table.EncodeCursor(keys[limit-1])
		if err != nil {
			return nil, err
		}
		result.NextPage = next
	}
	if result.Records == nil {
		result.Records = []T{}
	}
	span.SetAttributes(attribute.Int("records.scanned", scanned), attribute.Int("records.returned", len(result.Records)))
	return result, nil
}
