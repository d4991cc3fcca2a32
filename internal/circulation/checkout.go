// internal/circulation/checkout.go
package circulation

import (
	"context"

	"github.com/google/uuid"

	"libranexus/internal/gateway"
	"libranexus/internal/library"
	"libranexus/internal/store"
)

type checkoutService struct {
	machine
	checkouts *CheckoutRepository
}

// NewCheckoutService wires the loan state machine. It never changes the
// book's own status.
func NewCheckoutService(cfg library.Configuration, backend store.Backend, books BookFinder, parties PatronFinder, publisher gateway.Publisher, opts ...Option) CheckoutService {
	return &checkoutService{
		machine:   newMachine(cfg, books, parties, publisher, opts),
		checkouts: NewCheckoutRepository(backend),
	}
}

// Checkout lends an Available copy to the patron.
func (s *checkoutService) Checkout(ctx context.Context, patronID, bookID string) (*Checkout, error) {
	patron, book, err := s.resolve(ctx, patronID, bookID)
	if err != nil {
		return nil, err
	}
	if err := s.eligible(ctx, "checkout", patron, book); err != nil {
		return nil, err
	}

	now := s.now()
	checkout := &Checkout{
		CheckoutID: uuid.NewString(),
		BranchID:   s.cfg.BranchID,
		BookID:     book.BookID,
		PatronID:   patron.PartyID,
		Status:     library.CheckoutCheckedOut,
		CheckoutAt: now,
		DueAt:      now.AddDays(s.cfg.BookLoanDays),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.checkouts.Create(ctx, checkout); err != nil {
		return nil, err
	}
	if err := s.publish(ctx, library.EventAdded, eventCheckout, groupCheckout, checkout.CheckoutID, checkout); err != nil {
		return nil, err
	}

	s.metrics.Transition("checkout", "checked_out")
	s.logger.InfoContext(ctx, "book checked out",
		"checkout_id", checkout.CheckoutID,
		"patron_id", patron.PartyID,
		"book_id", book.BookID,
		"due_at", checkout.DueAt.String(),
	)
	return checkout, nil
}

// Returned closes the patron's active loan of the copy. Returning a copy
// that is not on loan to the patron is NotFound.
func (s *checkoutService) Returned(ctx context.Context, patronID, bookID string) (*Checkout, error) {
	if _, _, err := s.resolve(ctx, patronID, bookID); err != nil {
		return nil, err
	}
	checkout, err := s.checkouts.FindActive(ctx, patronID, bookID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	checkout.Status = library.CheckoutReturned
	checkout.ReturnedAt = &now
	if _, err := s.checkouts.UpdateAt(ctx, checkout, now); err != nil {
		return nil, s.conflict("checkout", err)
	}
	checkout.Version++
	checkout.UpdatedAt = now

	if err := s.publish(ctx, library.EventDeleted, eventReturned, groupCheckout, checkout.CheckoutID, checkout); err != nil {
		return nil, err
	}

	s.metrics.Transition("checkout", "returned")
	s.logger.InfoContext(ctx, "book returned",
		"checkout_id", checkout.CheckoutID,
		"patron_id", patronID,
		"book_id", bookID,
	)
	return checkout, nil
}

func (s *checkoutService) QueryOverdue(ctx context.Context, predicate map[string]string, page string, pageSize int) (*library.PaginatedResult[*Checkout], error) {
	return s.checkouts.QueryOverdue(ctx, predicate, page, pageSize, s.now())
}

func (s *checkoutService) FindCheckout(ctx context.Context, id string) (*Checkout, error) {
	return s.checkouts.Get(ctx, id)
}
