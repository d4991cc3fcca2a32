package library

// BookStatus is the circulation state of a catalog entry.
type BookStatus string

const (
	BookAvailable  BookStatus = "Available"
	BookCheckedOut BookStatus = "CheckedOut"
	BookOnHold     BookStatus = "OnHold"
	BookDeleted    BookStatus = "Deleted"
	BookUnknown    BookStatus = "Unknown"
)

// ParseBookStatus maps unrecognized values to BookUnknown.
func ParseBookStatus(s string) BookStatus {
	switch BookStatus(s) {
	case BookAvailable, BookCheckedOut, BookOnHold, BookDeleted:
		return BookStatus(s)
	}
	return BookUnknown
}

type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleRegular   Role = "Regular"
	RoleChild     Role = "Child"
	RoleEmployee  Role = "Employee"
	RoleLibrarian Role = "Librarian"
)

// ParseRole maps unrecognized values to RoleRegular.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleChild, RoleEmployee, RoleLibrarian:
		return Role(s)
	}
	return RoleRegular
}

type PartyKind string

const (
	PartyPatron       PartyKind = "Patron"
	PartyEmployee     PartyKind = "Employee"
	PartyBranch       PartyKind = "Branch"
	PartyOrganization PartyKind = "Organization"
)

// ParsePartyKind maps unrecognized values to PartyPatron.
func ParsePartyKind(s string) PartyKind {
	switch PartyKind(s) {
	case PartyEmployee, PartyBranch, PartyOrganization:
		return PartyKind(s)
	}
	return PartyPatron
}

type CheckoutStatus string

const (
	CheckoutCheckedOut CheckoutStatus = "CheckedOut"
	CheckoutReturned   CheckoutStatus = "Returned"
)

type HoldStatus string

const (
	HoldOnHold     HoldStatus = "OnHold"
	HoldCheckedOut HoldStatus = "CheckedOut"
	HoldCanceled   HoldStatus = "Canceled"
	// HoldWaiting is reserved; no transition produces it.
	HoldWaiting HoldStatus = "Waiting"
)
