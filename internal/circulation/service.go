// internal/circulation/service.go
package circulation

import (
	"context"

	"libranexus/internal/library"
)

// CheckoutService runs the loan state machine.
type CheckoutService interface {
	Checkout(ctx context.Context, patronID, bookID string) (*Checkout, error)
	Returned(ctx context.Context, patronID, bookID string) (*Checkout, error)
	QueryOverdue(ctx context.Context, predicate map[string]string, page string, pageSize int) (*library.PaginatedResult[*Checkout], error)
	FindCheckout(ctx context.Context, id string) (*Checkout, error)
}

// HoldService runs the hold state machine.
type HoldService interface {
	Hold(ctx context.Context, patronID, bookID string) (*Hold, error)
	Cancel(ctx context.Context, patronID, bookID string) (*Hold, error)
	Checkout(ctx context.Context, patronID, bookID string) (*Hold, error)
	QueryExpired(ctx context.Context, predicate map[string]string, page string, pageSize int) (*library.PaginatedResult[*Hold], error)
	FindHold(ctx context.Context, id string) (*Hold, error)
}

// BookRequest names the patron and book copy of a circulation command.
type BookRequest struct {
	PatronID string `json:"patron_id"`
	BookID   string `json:"book_id"`
}

func (r BookRequest) validate() error {
	if r.PatronID == "" || r.BookID == "" {
		return library.Validation("400", "patron_id and book_id are required")
	}
	return nil
}

type CheckoutResponse struct {
	Checkout *Checkout `json:"checkout"`
}

type HoldResponse struct {
	Hold *Hold `json:"hold"`
}
