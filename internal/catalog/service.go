// internal/catalog/service.go
package catalog

import (
	"context"

	"libranexus/internal/library"
)

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks

// Service defines the interface for the catalog service.
type Service interface {
	AddBook(ctx context.Context, req AddBookRequest) (*Book, error)
	UpdateBook(ctx context.Context, book *Book) (*Book, error)
	RemoveBook(ctx context.Context, id string) error
	FindBookByID(ctx context.Context, id string) (*Book, error)
	FindBookByISBN(ctx context.Context, isbn string) ([]*Book, error)
	FindBooksByAuthor(ctx context.Context, authorID, page string, pageSize int) (*library.PaginatedResult[*Book], error)
}

// AddBookRequest describes a new copy. New copies start Available unless
// a status is given.
type AddBookRequest struct {
	ISBN           string             `json:"isbn"`
	Title          string             `json:"title"`
	AuthorID       string             `json:"author_id,omitempty"`
	PublisherID    string             `json:"publisher_id,omitempty"`
	Language       string             `json:"language,omitempty"`
	DeweyDecimalID string             `json:"dewey_decimal_id,omitempty"`
	Status         library.BookStatus `json:"book_status,omitempty"`
	Restricted     bool               `json:"restricted,omitempty"`
	PublishedAt    *library.Timestamp `json:"published_at,omitempty"`
}

type BookResponse struct {
	Book *Book `json:"book"`
}

type BooksResponse struct {
	Books    []*Book `json:"books"`
	NextPage string  `json:"next_page,omitempty"`
}
