// internal/circulation/domain.go
package circulation

import (
	"libranexus/internal/library"
	"libranexus/internal/store"
)

// Checkout is one loan of one book copy. It is created CheckedOut and
// moves to Returned once; a later loan of the same copy is a new record.
type Checkout struct {
	CheckoutID string                 `json:"checkout_id"`
	Version    int64                  `json:"version"`
	BranchID   string                 `json:"branch_id"`
	BookID     string                 `json:"book_id"`
	PatronID   string                 `json:"patron_id"`
	Status     library.CheckoutStatus `json:"checkout_status"`
	CheckoutAt library.Timestamp      `json:"checkout_at"`
	DueAt      library.Timestamp      `json:"due_at"`
	ReturnedAt *library.Timestamp     `json:"returned_at"`
	CreatedAt  library.Timestamp      `json:"created_at"`
	UpdatedAt  library.Timestamp      `json:"updated_at"`
}

func (c *Checkout) GetID() string { return c.CheckoutID }
func (c *Checkout) GetVersion() int64 { return c.Version }

// Hold reserves a book copy for a patron. It is created OnHold and ends
// either Canceled or CheckedOut; exactly one of CanceledAt and
// CheckedOutAt is set once it ends.
type Hold struct {
	HoldID       string             `json:"hold_id"`
	Version      int64              `json:"version"`
	BranchID     string             `json:"branch_id"`
	BookID       string             `json:"book_id"`
	PatronID     string             `json:"patron_id"`
	Status       library.HoldStatus `json:"hold_status"`
	HoldAt       library.Timestamp  `json:"hold_at"`
	ExpiresAt    library.Timestamp  `json:"expires_at"`
	CanceledAt   *library.Timestamp `json:"canceled_at"`
	CheckedOutAt *library.Timestamp `json:"checked_out_at"`
	CreatedAt    library.Timestamp  `json:"created_at"`
	UpdatedAt    library.Timestamp  `json:"updated_at"`
}

func (h *Hold) GetID() string { return h.HoldID }
func (h *Hold) GetVersion() int64 { return h.Version }

// CheckoutsTable indexes loans by (checkout_status, patron_id); queries
// without a status read active loans only.
var CheckoutsTable = store.Table{
	Name:             "checkout",
	IDAttr:           "checkout_id",
	PartitionAttr:    "checkout_status",
	SortAttr:         "patron_id",
	DefaultPartition: string(library.CheckoutCheckedOut),
}

// HoldsTable indexes holds by (hold_status, patron_id); queries without a
// status read live holds only.
var HoldsTable = store.Table{
	Name:             "hold",
	IDAttr:           "hold_id",
	PartitionAttr:    "hold_status",
	SortAttr:         "patron_id",
	DefaultPartition: string(library.HoldOnHold),
}

// Event names and groups.
const (
	eventCheckout     = "book_checkout"
	eventReturned     = "book_returned"
	groupCheckout     = "checkout"
	eventHold         = "book_hold"
	eventHoldCancel   = "book_hold_cancel"
	eventHoldCheckout = "book_hold_checkout"
)
