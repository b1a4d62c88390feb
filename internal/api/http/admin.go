package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/service"
)

func (h *handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Admin.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handler) adminListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Admin.ListItems(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

type itemRequest struct {
	Name              string              `json:"name"`
	Category          domain.ItemCategory `json:"category"`
	Description       string              `json:"description"`
	DailyPriceCents   int64               `json:"daily_price_cents"`
	ImageURL          string              `json:"image_url"`
	AvailableQuantity int                 `json:"available_quantity"`
	IsActive          *bool               `json:"is_active"`
}

// toItem builds the item. New items are active unless stated otherwise.
func (req itemRequest) toItem(id string) *domain.RentalItem {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return &domain.RentalItem{
		ID:                id,
		Name:              req.Name,
		Category:          req.Category,
		Description:       req.Description,
		DailyPriceCents:   req.DailyPriceCents,
		ImageURL:          req.ImageURL,
		AvailableQuantity: req.AvailableQuantity,
		IsActive:          active,
	}
}

func (h *handler) adminCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	item := req.toItem("")
	if err := h.svc.Admin.CreateItem(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *handler) adminUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	item := req.toItem(mux.Vars(r)["id"])
	if err := h.svc.Admin.UpdateItem(r.Context(), item); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) adminDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Admin.DeleteItem(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// adminSetItemImage takes the raw image as the request body.
func (h *handler) adminSetItemImage(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	body := r.Body
	if h.opts.MaxUploadBytes > 0 {
		// One byte over the limit lets the store report the file as too large.
		body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes+1)
	}

	item, err := h.svc.Admin.SetItemImage(r.Context(), mux.Vars(r)["id"], strings.TrimSpace(contentType), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handler) adminListBookings(w http.ResponseWriter, r *http.Request) {
	var status *domain.BookingStatus
	if s := r.URL.Query().Get("status"); s != "" && s != "all" {
		st := domain.BookingStatus(s)
		status = &st
	}
	bookings, err := h.svc.Admin.ListBookings(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *handler) adminGetBooking(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Admin.GetBooking(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type bookingTransition func(service.AdminService, context.Context, string) (*domain.Booking, error)

func (h *handler) bookingAction(fn bookingTransition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		booking, err := fn(h.svc.Admin, r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, bookingResponse{Booking: booking})
	}
}

type resendEmailRequest struct {
	Type domain.EmailType `json:"type"`
}

func (h *handler) adminResendEmail(w http.ResponseWriter, r *http.Request) {
	var req resendEmailRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Admin.ResendEmail(r.Context(), mux.Vars(r)["id"], req.Type); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"success": true})
}

type grantRoleRequest struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func (h *handler) adminGrantRole(w http.ResponseWriter, r *http.Request) {
	var req grantRoleRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleAdmin
	}
	if err := h.svc.Auth.GrantRole(r.Context(), req.Email, req.Role); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
