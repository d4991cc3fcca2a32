package library

// PaginatedResult is one page of a cursor-paginated query. NextPage is
// empty on the last page.
type PaginatedResult[T any] struct {
	Page     string `json:"page,omitempty"`
	PageSize int    `json:"page_size"`
	NextPage string `json:"next_page,omitempty"`
	Records  []T    `json:"records"`
}

// Configuration holds the per-branch circulation settings.
type Configuration struct {
	BranchID     string `json:"branch_id"`
	BookLoanDays int    `json:"book_loan_days"`
	BookHoldDays int    `json:"book_hold_days"`
}

const (
	DefaultLoanDays = 15
	DefaultHoldDays = 15
)

func NewConfiguration(branchID string) Configuration {
	return Configuration{BranchID: branchID, BookLoanDays: DefaultLoanDays, BookHoldDays: DefaultHoldDays}
}

// Normalize fills unset durations with the defaults.
func (c Configuration) Normalize() Configuration {
	if c.BookLoanDays <= 0 {
		c.BookLoanDays = DefaultLoanDays
	}
	if c.BookHoldDays <= 0 {
		c.BookHoldDays = DefaultHoldDays
	}
	return c
}
