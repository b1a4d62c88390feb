package http

import (
	"errors"
	"net/http"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/email"
	"eventrent-backend/internal/logger"
)

// sendBookingEmail is the HTTP face of the booking email function. Failures
// are reported in the body as {success: false, error}.
func (h *handler) sendBookingEmail(w http.ResponseWriter, r *http.Request) {
	var req email.Request
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, email.Response{Error: err.Error()})
		return
	}

	if err := h.svc.Function.Handle(r.Context(), req); err != nil {
		status := http.StatusInternalServerError
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			status = http.StatusBadRequest
		}
		logger.ErrorContext(r.Context(), "Error sending email", "type", req.Type, "error", err)
		writeJSON(w, status, email.Response{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, email.Response{Success: true})
}
