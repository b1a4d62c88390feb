package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/utils"
)

// parseOptionalDate records a field error for a malformed date. An empty
// value yields nil.
func parseOptionalDate(verr *domain.ValidationError, field, value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := utils.ParseDate(value)
	if err != nil {
		verr.Add(field, err.Error())
		return nil
	}
	return &t
}

func parseRequiredDate(verr *domain.ValidationError, field, value string) time.Time {
	t, err := utils.ParseDate(value)
	if err != nil {
		verr.Add(field, err.Error())
	}
	return t
}

func (h *handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	var category *domain.ItemCategory
	if c := r.URL.Query().Get("category"); c != "" && c != "all" {
		cat := domain.ItemCategory(c)
		category = &cat
	}

	items, err := h.svc.Catalog.ListItems(r.Context(), category)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *handler) getCatalogItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Catalog.GetItem(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type quoteRequest struct {
	Quantity   int    `json:"quantity"`
	PickupDate string `json:"pickup_date"`
	ReturnDate string `json:"return_date"`
}

func (h *handler) quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	verr := domain.NewValidationError()
	pickup := parseOptionalDate(verr, "pickup_date", req.PickupDate)
	ret := parseOptionalDate(verr, "return_date", req.ReturnDate)
	if verr.HasErrors() {
		writeError(w, r, verr)
		return
	}

	item, q, err := h.svc.Catalog.Quote(r.Context(), mux.Vars(r)["id"], req.Quantity, pickup, ret)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item, "quote": q})
}
