// internal/circulation/repository.go
package circulation

import (
	"context"
	"maps"

	"libranexus/internal/library"
	"libranexus/internal/store"
)

// firstMatchLimit bounds the lookup behind return, cancel and hold
// checkout. The first record in index order wins.
const firstMatchLimit = 10

// CheckoutRepository adds the loan-specific queries to the generic
// repository.
type CheckoutRepository struct {
	*store.Repository[*Checkout]
}

func NewCheckoutRepository(backend store.Backend) *CheckoutRepository {
	return &CheckoutRepository{store.NewRepository[*Checkout](backend, CheckoutsTable)}
}

// QueryOverdue lists active loans due at or before now. Entries in
// predicate are applied last and replace the forced bounds on collision.
func (r *CheckoutRepository) QueryOverdue(ctx context.Context, predicate map[string]string, page string, pageSize int, now library.Timestamp) (*library.PaginatedResult[*Checkout], error) {
	return r.Query(ctx, overlay(map[string]string{
		"checkout_status": string(library.CheckoutCheckedOut),
		"due_at:<=":       now.String(),
	}, predicate), page, pageSize)
}

// FindActive returns the first active loan of bookID by patronID.
func (r *CheckoutRepository) FindActive(ctx context.Context, patronID, bookID string) (*Checkout, error) {
	res, err := r.Query(ctx, map[string]string{"patron_id": patronID, "book_id": bookID}, "", firstMatchLimit)
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, library.NotFound("checkout of book %s for patron %s not found", bookID, patronID)
	}
	return res.Records[0], nil
}

// HoldRepository adds the hold-specific queries to the generic repository.
type HoldRepository struct {
	*store.Repository[*Hold]
}

func NewHoldRepository(backend store.Backend) *HoldRepository {
	return &HoldRepository{store.NewRepository[*Hold](backend, HoldsTable)}
}

// QueryExpired lists live holds that expired at or before now, with the
// same override rule as QueryOverdue.
func (r *HoldRepository) QueryExpired(ctx context.Context, predicate map[string]string, page string, pageSize int, now library.Timestamp) (*library.PaginatedResult[*Hold], error) {
	return r.Query(ctx, overlay(map[string]string{
		"hold_status":   string(library.HoldOnHold),
		"expires_at:<=": now.String(),
	}, predicate), page, pageSize)
}

// FindActive returns the first live hold on bookID by patronID.
func (r *HoldRepository) FindActive(ctx context.Context, patronID, bookID string) (*Hold, error) {
	res, err := r.Query(ctx, map[string]string{"patron_id": patronID, "book_id": bookID}, "", firstMatchLimit)
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, library.NotFound("hold on book %s for patron %s not found", bookID, patronID)
	}
	return res.Records[0], nil
}

func overlay(forced, predicate map[string]string) map[string]string {
	out := maps.Clone(forced)
	maps.Copy(out, predicate)
	return out
}
