// internal/patrons/service.go
package patrons

import (
	"context"

	"libranexus/internal/library"
)

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks

// Service defines the interface for the patron service. Nothing it does
// emits domain events.
type Service interface {
	AddPatron(ctx context.Context, req AddPatronRequest) (*Party, error)
	UpdatePatron(ctx context.Context, patron *Party) (*Party, error)
	RemovePatron(ctx context.Context, id string) error
	FindPatronByID(ctx context.Context, id string) (*Party, error)
	FindPatronByEmail(ctx context.Context, email string) ([]*Party, error)
	Authenticate(ctx context.Context, email, pin string) (*Party, error)
}

type AddPatronRequest struct {
	Email      string         `json:"email"`
	FirstName  string         `json:"first_name,omitempty"`
	LastName   string         `json:"last_name,omitempty"`
	Under13    bool           `json:"under_13,omitempty"`
	GroupRoles []library.Role `json:"group_roles,omitempty"`
	HomePhone  *string        `json:"home_phone,omitempty"`
	CellPhone  *string        `json:"cell_phone,omitempty"`
	WorkPhone  *string        `json:"work_phone,omitempty"`
	Address    *Address       `json:"address,omitempty"`
	PIN        string         `json:"pin,omitempty"`
}

type LoginRequest struct {
	Email string `json:"email"`
	PIN   string `json:"pin"`
}

type PatronResponse struct {
	Patron *Party `json:"patron"`
}

type PatronsResponse struct {
	Patrons []*Party `json:"patrons"`
}
