// internal/chaos/chaos.go
package chaos

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"libranexus/internal/gateway"
	"libranexus/internal/library"
	"libranexus/internal/store"
)

// Faults describes what to inject. BlastRadius is the fraction of calls
// affected, 0.0 to 1.0; an affected call is delayed by Latency and then
// fails when FailRate (also a fraction of affected calls) says so.
type Faults struct {
	BlastRadius float64
	Latency     time.Duration
	FailRate    float64
	Seed        uint64
}

func (f Faults) Enabled() bool { return f.BlastRadius > 0 }

// Injector decides per call whether to delay or fail it and records each
// decision on the active span.
type Injector struct {
	faults Faults
	tracer trace.Tracer

	mu  sync.Mutex
	rng *rand.Rand

	affected int
	injected int
}

func NewInjector(faults Faults) *Injector {
	return &Injector{
		faults: faults,
		tracer: otel.Tracer("libranexus/chaos"),
		rng:    rand.New(rand.NewPCG(faults.Seed, faults.Seed^0x9e3779b97f4a7c15)),
	}
}

// Injected returns how many calls failed by injection so far.
func (in *Injector) Injected() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.injected
}

// Affected returns how many calls were picked for delay or failure.
func (in *Injector) Affected() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.affected
}

func (in *Injector) roll() (affected, fail bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	affected = in.rng.Float64() < in.faults.BlastRadius
	if affected {
		in.affected++
		fail = in.rng.Float64() < in.faults.FailRate
		if fail {
			in.injected++
		}
	}
	return affected, fail
}

// inject applies the faults to one call against component. A non-nil
// result replaces the call.
func (in *Injector) inject(ctx context.Context, component, op string) error {
	affected, fail := in.roll()
	if !affected {
		return nil
	}
	ctx, span := in.tracer.Start(ctx, "chaos.inject", trace.WithAttributes(
		attribute.String("chaos.component", component),
		attribute.String("chaos.operation", op),
		attribute.Bool("chaos.fail", fail),
	))
	defer span.End()

	if in.faults.Latency > 0 {
		span.AddEvent("injecting_latency")
		select {
		case <-time.After(in.faults.Latency):
		case <-ctx.Done():
			return library.FromTransport(ctx.Err(), "%s %s", component, op)
		}
	}
	if fail {
		span.AddEvent("injecting_failure")
		return library.Unavailable("chaos", true, "injected failure in %s %s", component, op)
	}
	return nil
}

// Backend injects faults in front of a store backend.
type Backend struct {
	next store.Backend
	in   *Injector
}

func WrapBackend(next store.Backend, in *Injector) *Backend {
	return &Backend{next: next, in: in}
}

func (b *Backend) Put(ctx context.Context, table store.Table, item store.Item) error {
	if err := b.in.inject(ctx, table.Name, "put"); err != nil {
		return err
	}
	return b.next.Put(ctx, table, item)
}

func (b *Backend) Replace(ctx context.Context, table store.Table, item store.Item, expected int64) error {
	if err := b.in.inject(ctx, table.Name, "replace"); err != nil {
		return err
	}
	return b.next.Replace(ctx, table, item, expected)
}

func (b *Backend) Lookup(ctx context.Context, table store.Table, id string, limit int) ([]store.Item, error) {
	if err := b.in.inject(ctx, table.Name, "lookup"); err != nil {
		return nil, err
	}
	return b.next.Lookup(ctx, table, id, limit)
}

func (b *Backend) Delete(ctx context.Context, table store.Table, id string) error {
	if err := b.in.inject(ctx, table.Name, "delete"); err != nil {
		return err
	}
	return b.next.Delete(ctx, table, id)
}

func (b *Backend) Scan(ctx context.Context, table store.Table, scan store.IndexScan) ([]store.Item, error) {
	if err := b.in.inject(ctx, table.Name, "scan"); err != nil {
		return nil, err
	}
	return b.next.Scan(ctx, table, scan)
}

// Publisher injects faults in front of an event publisher.
type Publisher struct {
	next gateway.Publisher
	in   *Injector
}

func WrapPublisher(next gateway.Publisher, in *Injector) *Publisher {
	return &Publisher{next: next, in: in}
}

func (p *Publisher) Publish(ctx context.Context, event *library.DomainEvent) error {
	if err := p.in.inject(ctx, "publisher", event.Group); err != nil {
		return err
	}
	return p.next.Publish(ctx, event)
}
