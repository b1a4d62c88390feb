package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/logger"
	"eventrent-backend/internal/security"
	"eventrent-backend/internal/service"
	"eventrent-backend/internal/storage"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrItemUnavailable),
		errors.Is(err, domain.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCartLineNotFound),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrInvalidKey):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotAdmin),
		errors.Is(err, security.ErrWrongTokenType):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, domain.ErrCheckoutInProgress),
		errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBookingNotSaved):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrEmailDelivery):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrMissingSession):
		return http.StatusBadRequest
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Error = "validation failed"
		resp.Fields = verr.Fields
	}

	switch {
	case status == http.StatusServiceUnavailable:
		// The cause may name hosts or credentials.
		resp.Error = domain.ErrBookingNotSaved.Error()
		w.Header().Set("Retry-After", "5")
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "status", status, "error", err)
	case status >= 500:
		resp.Error = http.StatusText(status)
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}

// errBodyTooLarge is returned by decodeJSON for a body over Options.MaxBodyBytes.
var errBodyTooLarge = errors.New("request body too large")

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := r.Body
	if h.opts.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	}
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		verr := domain.NewValidationError()
		verr.Add("body", "must be a valid JSON object: "+err.Error())
		return verr
	}
	return nil
}
