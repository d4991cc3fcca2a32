// internal/circulation/handler.go
package circulation

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"libranexus/internal/platform/httpx"
)

type Handler struct {
	checkouts CheckoutService
	holds     HoldService
	logger    *slog.Logger
}

func NewHandler(checkouts CheckoutService, holds HoldService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{checkouts: checkouts, holds: holds, logger: logger}
}

// Register mounts the loan and hold routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/checkouts", func(r chi.Router) {
		r.Post("/", h.handleCheckout)
		r.Post("/return", h.handleReturn)
		r.Get("/overdue", h.handleOverdue)
		r.Get("/{id}", h.handleGetCheckout)
	})
	r.Route("/holds", func(r chi.Router) {
		r.Post("/", h.handleHold)
		r.Post("/cancel", h.handleCancelHold)
		r.Post("/checkout", h.handleCheckoutHold)
		r.Get("/expired", h.handleExpired)
		r.Get("/{id}", h.handleGetHold)
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "circulation request failed", "path", r.URL.Path, "error", err)
	}
	httpx.WriteError(w, err)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (BookRequest, bool) {
	req, err := httpx.Decode[BookRequest](r)
	if err == nil {
		err = req.validate()
	}
	if err != nil {
		h.fail(w, r, err)
		return req, false
	}
	return req, true
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	checkout, err := h.checkouts.Checkout(r.Context(), req.PatronID, req.BookID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, CheckoutResponse{Checkout: checkout})
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	checkout, err := h.checkouts.Returned(r.Context(), req.PatronID, req.BookID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, CheckoutResponse{Checkout: checkout})
}

func (h *Handler) handleOverdue(w http.ResponseWriter, r *http.Request) {
	predicate, page, pageSize := httpx.PageParams(r)
	res, err := h.checkouts.QueryOverdue(r.Context(), predicate, page, pageSize)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleGetCheckout(w http.ResponseWriter, r *http.Request) {
	checkout, err := h.checkouts.FindCheckout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, CheckoutResponse{Checkout: checkout})
}

func (h *Handler) handleHold(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	hold, err := h.holds.Hold(r.Context(), req.PatronID, req.BookID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, HoldResponse{Hold: hold})
}

func (h *Handler) handleCancelHold(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	hold, err := h.holds.Cancel(r.Context(), req.PatronID, req.BookID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, HoldResponse{Hold: hold})
}

func (h *Handler) handleCheckoutHold(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	hold, err := h.holds.Checkout(r.Context(), req.PatronID, req.BookID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, HoldResponse{Hold: hold})
}

func (h *Handler) handleExpired(w http.ResponseWriter, r *http.Request) {
	predicate, page, pageSize := httpx.PageParams(r)
	res, err := h.holds.QueryExpired(r.Context(), predicate, page, pageSize)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleGetHold(w http.ResponseWriter, r *http.Request) {
	hold, err := h.holds.FindHold(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, HoldResponse{Hold: hold})
}
