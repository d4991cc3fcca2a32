// internal/patrons/handler.go
package patrons

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

// Register mounts the patron routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/patrons", func(r chi.Router) {
		r.Post("/", h.handleAddPatron)
		r.Get("/", h.handleFindPatrons)
		r.Post("/login", h.handleLogin)
		r.Get("/{id}", h.handleGetPatron)
		r.Put("/{id}", h.handleUpdatePatron)
		r.Delete("/{id}", h.handleRemovePatron)
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "patron request failed", "path", r.URL.Path, "error", err)
	}
	httpx.WriteError(w, err)
}

func (h *Handler) handleAddPatron(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.Decode[AddPatronRequest](r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	patron, err := h.service.AddPatron(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, PatronResponse{Patron: patron})
}

func (h *Handler) handleFindPatrons(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		h.fail(w, r, library.Validation("400", "email is required"))
		return
	}
	found, err := h.service.FindPatronByEmail(r.Context(), email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, PatronsResponse{Patrons: found})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := httpx.Decode[LoginRequest](r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	patron, err := h.service.Authenticate(r.Context(), req.Email, req.PIN)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, PatronResponse{Patron: patron})
}

func (h *Handler) handleGetPatron(w http.ResponseWriter, r *http.Request) {
	patron, err := h.service.FindPatronByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, PatronResponse{Patron: patron})
}

func (h *Handler) handleUpdatePatron(w http.ResponseWriter, r *http.Request) {
	patron, err := httpx.Decode[Party](r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if patron.PartyID == "" {
		patron.PartyID = id
	}
	if patron.PartyID != id {
		h.fail(w, r, library.Validation("400", "party_id %q does not match path", patron.PartyID))
		return
	}
	// Credentials only change through registration.
	patron.Credential = nil
	updated, err := h.service.UpdatePatron(r.Context(), &patron)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, PatronResponse{Patron: updated})
}

func (h *Handler) handleRemovePatron(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemovePatron(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
