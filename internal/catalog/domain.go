// internal/catalog/domain.go
package catalog

import (
	"libranexus/internal/library"
	"libranexus/internal/store"
)

// Book is one physical copy in the catalog. Many copies may share an ISBN.
// Its status is written by whoever composes circulation with catalog
// updates; the book itself never changes state.
type Book struct {
	BookID         string             `json:"book_id"`
	Version        int64              `json:"version"`
	DeweyDecimalID string             `json:"dewey_decimal_id"`
	AuthorID       string             `json:"author_id"`
	PublisherID    string             `json:"publisher_id"`
	Language       string             `json:"language"`
	ISBN           string             `json:"isbn"`
	Title          string             `json:"title"`
	Status         library.BookStatus `json:"book_status"`
	Restricted     bool               `json:"restricted"`
	PublishedAt    library.Timestamp  `json:"published_at"`
	CreatedAt      library.Timestamp  `json:"created_at"`
	UpdatedAt      library.Timestamp  `json:"updated_at"`
}

func (b *Book) GetID() string { return b.BookID }
func (b *Book) GetVersion() int64 { return b.Version }
func (b *Book) IsRestricted() bool { return b.Restricted }

// IsAvailable reports whether the copy may be checked out or held.
func (b *Book) IsAvailable() bool { return b.Status == library.BookAvailable }

// BooksTable indexes books by (book_status, isbn). Without a status in the
// predicate every partition is scanned.
var BooksTable = store.Table{
	Name:          "books",
	IDAttr:        "book_id",
	PartitionAttr: "book_status",
	SortAttr:      "isbn",
}

const eventGroup = "books"
