// internal/circulation/hold.go
package circulation

import (
	"context"

	"github.com/google/uuid"

	"libranexus/internal/gateway"
	"libranexus/internal/library"
	"libranexus/internal/store"
)

type holdService struct {
	machine
	holds *HoldRepository
}

// NewHoldService wires the hold state machine. Two holds on the same copy
// can both succeed; nothing here reserves the book itself.
func NewHoldService(cfg library.Configuration, backend store.Backend, books BookFinder, parties PatronFinder, publisher gateway.Publisher, opts ...Option) HoldService {
	return &holdService{
		machine: newMachine(cfg, books, parties, publisher, opts),
		holds:   NewHoldRepository(backend),
	}
}

// Hold places an OnHold reservation under the same rules as a checkout.
func (s *holdService) Hold(ctx context.Context, patronID, bookID string) (*Hold, error) {
	patron, book, err := s.resolve(ctx, patronID, bookID)
	if err != nil {
		return nil, err
	}
	if err := s.eligible(ctx, "hold", patron, book); err != nil {
		return nil, err
	}

	now := s.now()
	hold := &Hold{
		HoldID:    uuid.NewString(),
		BranchID:  s.cfg.BranchID,
		BookID:    book.BookID,
		PatronID:  patron.PartyID,
		Status:    library.HoldOnHold,
		HoldAt:    now,
		ExpiresAt: now.AddDays(s.cfg.BookHoldDays),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.holds.Create(ctx, hold); err != nil {
		return nil, err
	}
	if err := s.publish(ctx, library.EventAdded, eventHold, eventHold, hold.HoldID, hold); err != nil {
		return nil, err
	}

	s.metrics.Transition("hold", "on_hold")
	s.logger.InfoContext(ctx, "book placed on hold",
		"hold_id", hold.HoldID,
		"patron_id", patron.PartyID,
		"book_id", book.BookID,
	)
	return hold, nil
}

// Cancel ends the patron's live hold on the copy.
func (s *holdService) Cancel(ctx context.Context, patronID, bookID string) (*Hold, error) {
	return s.close(ctx, patronID, bookID, library.HoldCanceled, eventHoldCancel, func(h *Hold, at *library.Timestamp) {
		h.CanceledAt = at
	})
}

// Checkout converts the patron's live hold on the copy into a loan.
func (s *holdService) Checkout(ctx context.Context, patronID, bookID string) (*Hold, error) {
	return s.close(ctx, patronID, bookID, library.HoldCheckedOut, eventHoldCheckout, func(h *Hold, at *library.Timestamp) {
		h.CheckedOutAt = at
	})
}

// close moves the first live hold to a terminal status and publishes a
// Deleted event named after the transition.
func (s *holdService) close(ctx context.Context, patronID, bookID string, status library.HoldStatus, event string, mark func(*Hold, *library.Timestamp)) (*Hold, error) {
	patron, book, err := s.resolve(ctx, patronID, bookID)
	if err != nil {
		return nil, err
	}
	hold, err := s.holds.FindActive(ctx, patron.PartyID, book.BookID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	hold.Status = status
	mark(hold, &now)
	if _, err := s.holds.UpdateAt(ctx, hold, now); err != nil {
		return nil, s.conflict("hold", err)
	}
	hold.Version++
	hold.UpdatedAt = now

	if err := s.publish(ctx, library.EventDeleted, event, event, hold.HoldID, hold); err != nil {
		return nil, err
	}

	s.metrics.Transition("hold", string(status))
	s.logger.InfoContext(ctx, "hold closed",
		"hold_id", hold.HoldID,
		"status", string(status),
		"patron_id", patronID,
		"book_id", bookID,
	)
	return hold, nil
}

func (s *holdService) QueryExpired(ctx context.Context, predicate map[string]string, page string, pageSize int) (*library.PaginatedResult[*Hold], error) {
	return s.holds.QueryExpired(ctx, predicate, page, pageSize, s.now())
}

func (s *holdService) FindHold(ctx context.Context, id string) (*Hold, error) {
	return s.holds.Get(ctx, id)
}
