// internal/catalog/handler.go
package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"libranexus/internal/library"
	"libranexus/internal/platform/httpx"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the book routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/books", func(r chi.Router) {
		r.Post("/", h.handleAddBook)
		r.Get("/", h.handleFindBooks)
		r.Get("/{id}", h.handleGetBook)
		r.Put("/{id}", h.handleUpdateBook)
		r.Delete("/{id}", h.handleRemoveBook)
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "catalog request failed", "path", r.URL.Path, "error", err)
	}
	httpx.WriteError(w, err)
}

func (h *Handler) handleAddBook(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.Decode[AddBookRequest](r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	book, err := h.service.AddBook(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, BookResponse{Book: book})
}

// handleFindBooks answers ?isbn= or ?author_id= lookups.
func (h *Handler) handleFindBooks(w http.ResponseWriter, r *http.Request) {
	predicate, page, pageSize := httpx.PageParams(r)
	switch {
	case predicate["isbn"] != "":
		books, err := h.service.FindBookByISBN(r.Context(), predicate["isbn"])
		if err != nil {
			h.fail(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, BooksResponse{Books: books})
	case predicate["author_id"] != "":
		res, err := h.service.FindBooksByAuthor(r.Context(), predicate["author_id"], page, pageSize)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, BooksResponse{Books: res.Records, NextPage: res.NextPage})
	default:
		h.fail(w, r, library.Validation("400", "isbn or author_id is required"))
	}
}

func (h *Handler) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.FindBookByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, BookResponse{Book: book})
}

func (h *Handler) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	book, err := httpx.Decode[Book](r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if book.BookID == "" {
		book.BookID = id
	}
	if book.BookID != id {
		h.fail(w, r, library.Validation("400", "book_id %q does not match path", book.BookID))
		return
	}
	updated, err := h.service.UpdateBook(r.Context(), &book)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, BookResponse{Book: updated})
}

func (h *Handler) handleRemoveBook(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveBook(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
