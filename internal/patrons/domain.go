// internal/patrons/domain.go
package patrons

import (
	"slices"

	"libranexus/internal/library"
	"libranexus/internal/store"
)

// Party is a person or organization known to the library. Patrons are the
// parties of kind Patron.
type Party struct {
	PartyID    string            `json:"party_id"`
	Version    int64             `json:"version"`
	Kind       library.PartyKind `json:"kind"`
	FirstName  string            `json:"first_name"`
	LastName   string            `json:"last_name"`
	Email      string            `json:"email"`
	Under13    bool              `json:"under_13"`
	GroupRoles []library.Role    `json:"group_roles"`
	NumHolds   int64             `json:"num_holds"`
	NumOverdue int64             `json:"num_overdue"`
	HomePhone  *string           `json:"home_phone,omitempty"`
	CellPhone  *string           `json:"cell_phone,omitempty"`
	WorkPhone  *string           `json:"work_phone,omitempty"`
	Address    *Address          `json:"address,omitempty"`
	Credential *Credential       `json:"credential,omitempty"`
	CreatedAt  library.Timestamp `json:"created_at"`
	UpdatedAt  library.Timestamp `json:"updated_at"`
}

type Address struct {
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	ZipCode       string `json:"zip_code"`
	State         string `json:"state"`
	Country       string `json:"country"`
}

// Credential is the salted Argon2id hash of a patron's PIN. It is stored
// with the party and stripped from everything the service returns.
type Credential struct {
	Hash string `json:"hash"`
	Salt string `json:"salt"`
}

func (p *Party) GetID() string { return p.PartyID }
func (p *Party) GetVersion() int64 { return p.Version }

func (p *Party) IsRole(role library.Role) bool { return slices.Contains(p.GroupRoles, role) }
func (p *Party) IsAdmin() bool { return p.IsRole(library.RoleAdmin) }
func (p *Party) IsChild() bool { return p.IsRole(library.RoleChild) }
func (p *Party) IsEmployee() bool { return p.IsRole(library.RoleEmployee) }
func (p *Party) IsLibrarian() bool { return p.IsRole(library.RoleLibrarian) }

// IsRegular is true for the default persona: no roles at all, or the
// Regular role among them.
func (p *Party) IsRegular() bool {
	return len(p.GroupRoles) == 0 || p.IsRole(library.RoleRegular)
}

// redacted returns a copy safe to hand to callers.
func (p *Party) redacted() *Party {
	out := *p
	out.Credential = nil
	return &out
}

// PartiesTable indexes parties by (kind, email); queries without a kind
// read the Patron partition.
var PartiesTable = store.Table{
	Name:             "parties",
	IDAttr:           "party_id",
	PartitionAttr:    "kind",
	SortAttr:         "email",
	DefaultPartition: string(library.PartyPatron),
}
