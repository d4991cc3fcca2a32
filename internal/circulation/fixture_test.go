package circulation_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"libranexus/internal/catalog"
	"libranexus/internal/circulation"
	"libranexus/internal/gateway"
	"libranexus/internal/library"
	"libranexus/internal/patrons"
	"libranexus/internal/store/memory"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	ctx       context.Context
	clock     *clock
	books     catalog.Service
	patrons   patrons.Service
	events    *gateway.StorePublisher
	checkouts circulation.CheckoutService
	holds     circulation.HoldService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := memory.New()
	events := gateway.NewStorePublisher(backend)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := &clock{now: time.Now().UTC()}

	books := catalog.NewService(backend, events, catalog.WithLogger(logger))
	parties := patrons.NewService(backend, patrons.WithLogger(logger))
	cfg := library.NewConfiguration("main")
	opts := []circulation.Option{circulation.WithLogger(logger), circulation.WithClock(clk.Now)}

	return &fixture{
		ctx:       context.Background(),
		clock:     clk,
		books:     books,
		patrons:   parties,
		events:    events,
		checkouts: circulation.NewCheckoutService(cfg, backend, books, parties, events, opts...),
		holds:     circulation.NewHoldService(cfg, backend, books, parties, events, opts...),
	}
}

func (f *fixture) book(t *testing.T, status library.BookStatus, restricted bool) *catalog.Book {
	t.Helper()
	book, err := f.books.AddBook(f.ctx, catalog.AddBookRequest{
		ISBN:       "isbn-" + string(status),
		Title:      "title",
		Status:     status,
		Restricted: restricted,
	})
	require.NoError(t, err)
	return book
}

func (f *fixture) patron(t *testing.T, roles ...library.Role) *patrons.Party {
	t.Helper()
	patron, err := f.patrons.AddPatron(f.ctx, patrons.AddPatronRequest{Email: "reader@example.org", GroupRoles: roles})
	require.NoError(t, err)
	return patron
}

// eventsFor returns the events published under group for key.
func (f *fixture) eventsFor(t *testing.T, group, key string) []*library.DomainEvent {
	t.Helper()
	res, err := f.events.Query(f.ctx, map[string]string{"group": group, "key": key}, "", 100)
	require.NoError(t, err)
	return res.Records
}

func (f *fixture) eventsIn(t *testing.T, group string) []*library.DomainEvent {
	t.Helper()
	res, err := f.events.Query(f.ctx, map[string]string{"group": group}, "", 100)
	require.NoError(t, err)
	return res.Records
}
