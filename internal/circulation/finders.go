// internal/circulation/finders.go
package circulation

import (
	"context"

	"libranexus/internal/catalog"
	"libranexus/internal/patrons"
)

//go:generate mockgen -source=finders.go -destination=mocks/finders_mock.go -package=mocks

// BookFinder resolves book copies. catalog.Service and the catalog HTTP
// client both satisfy it.
type BookFinder interface {
	FindBookByID(ctx context.Context, id string) (*catalog.Book, error)
}

// PatronFinder resolves patrons. patrons.Service and the patron HTTP
// client both satisfy it.
type PatronFinder interface {
	FindPatronByID(ctx context.Context, id string) (*patrons.Party, error)
}
