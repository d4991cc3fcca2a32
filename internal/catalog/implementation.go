// internal/catalog/implementation.go
package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"libranexus/internal/gateway"
	"libranexus/internal/library"
	"libranexus/internal/platform/metrics"
	"libranexus/internal/store"
)

const findByISBNLimit = 100

// Option configures the catalog service.
type Option func(*service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *service) { s.metrics = m }
}

// service implements the Service interface.
type service struct {
	books     *store.Repository[*Book]
	publisher gateway.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewService creates a new catalog service instance.
func NewService(backend store.Backend, publisher gateway.Publisher, opts ...Option) Service {
	s := &service{
		books:     store.NewRepository[*Book](backend, BooksTable),
		publisher: publisher,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddBook stores a new copy and announces it.
func (s *service) AddBook(ctx context.Context, req AddBookRequest) (*Book, error) {
	if strings.TrimSpace(req.ISBN) == "" || strings.TrimSpace(req.Title) == "" {
		return nil, library.Validation("400", "isbn and title are required")
	}
	now := library.Now()
	book := &Book{
		BookID:         uuid.NewString(),
		DeweyDecimalID: req.DeweyDecimalID,
		AuthorID:       req.AuthorID,
		PublisherID:    req.PublisherID,
		Language:       req.Language,
		ISBN:           req.ISBN,
		Title:          req.Title,
		Status:         library.BookAvailable,
		Restricted:     req.Restricted,
		PublishedAt:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Status != "" {
		book.Status = library.ParseBookStatus(string(req.Status))
	}
	if req.PublishedAt != nil {
		book.PublishedAt = *req.PublishedAt
	}
	if book.Language == "" {
		book.Language = "en"
	}

	if _, err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	if err := s.emit(ctx, library.EventAdded, book.BookID, book); err != nil {
		return nil, err
	}
	s.metrics.Transition("book", "added")
	s.logger.InfoContext(ctx, "book added", "book_id", book.BookID, "isbn", book.ISBN)
	return book, nil
}

// UpdateBook writes book if its version is still current. The returned
// copy carries the new version. created_at always comes from the stored
// record, and published_at does when book leaves it unset.
func (s *service) UpdateBook(ctx context.Context, book *Book) (*Book, error) {
	if book == nil || book.BookID == "" {
		return nil, library.Validation("400", "book_id is required")
	}
	current, err := s.books.Get(ctx, book.BookID)
	if err != nil {
		return nil, err
	}
	updated := *book
	updated.Status = library.ParseBookStatus(string(book.Status))
	updated.CreatedAt = current.CreatedAt
	if updated.PublishedAt.IsZero() {
		updated.PublishedAt = current.PublishedAt
	}

	now := library.Now()
	if _, err := s.books.UpdateAt(ctx, &updated, now); err != nil {
		if library.IsVersionConflict(err) {
			s.metrics.VersionConflict("book")
		}
		return nil, err
	}
	updated.Version++
	updated.UpdatedAt = now

	if err := s.emit(ctx, library.EventUpdated, updated.BookID, &updated); err != nil {
		return nil, err
	}
	s.metrics.Transition("book", "updated")
	s.logger.InfoContext(ctx, "book updated", "book_id", updated.BookID, "version", updated.Version)
	return &updated, nil
}

// RemoveBook deletes the copy. Removing an unknown id still publishes.
func (s *service) RemoveBook(ctx context.Context, id string) error {
	if _, err := s.books.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.emit(ctx, library.EventDeleted, id, id); err != nil {
		return err
	}
	s.metrics.Transition("book", "removed")
	s.logger.InfoContext(ctx, "book removed", "book_id", id)
	return nil
}

func (s *service) FindBookByID(ctx context.Context, id string) (*Book, error) {
	return s.books.Get(ctx, id)
}

// FindBookByISBN returns at most one page of copies; none is not an error.
func (s *service) FindBookByISBN(ctx context.Context, isbn string) ([]*Book, error) {
	res, err := s.books.Query(ctx, map[string]string{"isbn": isbn}, "", findByISBNLimit)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

func (s *service) FindBooksByAuthor(ctx context.Context, authorID, page string, pageSize int) (*library.PaginatedResult[*Book], error) {
	return s.books.Query(ctx, map[string]string{"author_id": authorID}, page, pageSize)
}

func (s *service) emit(ctx context.Context, kind library.EventKind, key string, data any) error {
	event, err := library.NewEvent(kind, eventGroup, eventGroup, key, nil, data)
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		return library.Runtime(err, "book %s stored but event %s not published", key, event.EventID)
	}
	return nil
}
