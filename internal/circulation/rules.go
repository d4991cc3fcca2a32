// internal/circulation/rules.go
package circulation

import (
	"context"
	"log/slog"
	"time"

	"libranexus/internal/catalog"
	"libranexus/internal/gateway"
	"libranexus/internal/library"
	"libranexus/internal/patrons"
	"libranexus/internal/platform/metrics"
)

// Option configures the checkout and hold services.
type Option func(*machine)

func WithLogger(logger *slog.Logger) Option {
	return func(m *machine) { m.logger = logger }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *machine) { m.metrics = mt }
}

// WithClock replaces the wall clock used for new timestamps and for the
// overdue and expiry cutoffs.
func WithClock(now func() time.Time) Option {
	return func(m *machine) { m.clock = now }
}

// machine holds what both state machines share. Nothing in it changes
// after construction.
type machine struct {
	cfg       library.Configuration
	books     BookFinder
	patrons   PatronFinder
	publisher gateway.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	clock     func() time.Time
}

func newMachine(cfg library.Configuration, books BookFinder, parties PatronFinder, publisher gateway.Publisher, opts []Option) machine {
	m := machine{
		cfg:       cfg.Normalize(),
		books:     books,
		patrons:   parties,
		publisher: publisher,
		logger:    slog.Default(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m *machine) now() library.Timestamp { return library.At(m.clock()) }

// resolve loads the patron first, then the book.
func (m *machine) resolve(ctx context.Context, patronID, bookID string) (*patrons.Party, *catalog.Book, error) {
	patron, err := m.patrons.FindPatronByID(ctx, patronID)
	if err != nil {
		return nil, nil, err
	}
	book, err := m.books.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, nil, err
	}
	return patron, book, nil
}

// eligible applies the lending rules shared by checkout and hold: the copy
// must be Available, and restricted copies need a patron with a role
// beyond Regular.
func (m *machine) eligible(ctx context.Context, entity string, patron *patrons.Party, book *catalog.Book) error {
	if !book.IsAvailable() {
		m.reject(ctx, entity, "unavailable", patron, book)
		return library.Validation("400", "book %s is not available (%s)", book.BookID, book.Status)
	}
	if book.IsRestricted() && patron.IsRegular() {
		m.reject(ctx, entity, "restricted", patron, book)
		return library.Validation("400", "patron %s cannot borrow restricted book %s", patron.PartyID, book.BookID)
	}
	return nil
}

func (m *machine) reject(ctx context.Context, entity, reason string, patron *patrons.Party, book *catalog.Book) {
	m.metrics.Rejection(entity, reason)
	m.logger.WarnContext(ctx, "circulation request rejected",
		"entity", entity,
		"reason", reason,
		"patron_id", patron.PartyID,
		"book_id", book.BookID,
	)
}

// conflict counts lost version races before handing the error back.
func (m *machine) conflict(entity string, err error) error {
	if library.IsVersionConflict(err) {
		m.metrics.VersionConflict(entity)
	}
	return err
}

// publish announces a stored transition. A failed publish leaves the write
// in place.
func (m *machine) publish(ctx context.Context, kind library.EventKind, name, group, key string, data any) error {
	event, err := library.NewEvent(kind, name, group, key, map[string]string{"branch_id": m.cfg.BranchID}, data)
	if err != nil {
		return err
	}
	if err := m.publisher.Publish(ctx, event); err != nil {
		return library.Runtime(err, "%s %s stored but event %s not published", group, key, event.EventID)
	}
	return nil
}
