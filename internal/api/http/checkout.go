package http

import (
	"net/http"

	"eventrent-backend/internal/service"
)

func (h *handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	booking, items, err := h.svc.Checkout.Checkout(r.Context(), SessionFromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookingResponse{Booking: booking, Items: items})
}

// lastInvoice serves the printable invoice of the session's latest booking.
func (h *handler) lastInvoice(w http.ResponseWriter, r *http.Request) {
	html, err := h.svc.Checkout.LastInvoice(r.Context(), SessionFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
