package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"eventrent-backend/internal/cart"
	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/utils"
)

type cartLineView struct {
	ItemID            string              `json:"item_id"`
	Name              string              `json:"name"`
	Category          domain.ItemCategory `json:"category"`
	ImageURL          string              `json:"image_url"`
	DailyPriceCents   int64               `json:"daily_price_cents"`
	AvailableQuantity int                 `json:"available_quantity"`
	Quantity          int                 `json:"quantity"`
	PickupDate        string              `json:"pickup_date"`
	ReturnDate        string              `json:"return_date"`
	RentalDays        int                 `json:"rental_days"`
	TotalPriceCents   int64               `json:"total_price_cents"`
}

type cartView struct {
	Lines          []cartLineView `json:"lines"`
	TotalItems     int            `json:"total_items"`
	TotalCostCents int64          `json:"total_cost_cents"`
}

func newCartView(c cart.Cart) cartView {
	lines := c.Lines()
	v := cartView{
		Lines:          make([]cartLineView, 0, len(lines)),
		TotalItems:     c.TotalItems(),
		TotalCostCents: c.TotalCostCents(),
	}
	for _, l := range lines {
		v.Lines = append(v.Lines, cartLineView{
			ItemID:            l.ItemID,
			Name:              l.Name,
			Category:          l.Category,
			ImageURL:          l.ImageURL,
			DailyPriceCents:   l.DailyPriceCents,
			AvailableQuantity: l.AvailableQuantity,
			Quantity:          l.Quantity,
			PickupDate:        utils.FormatDate(l.PickupDate),
			ReturnDate:        utils.FormatDate(l.ReturnDate),
			RentalDays:        l.RentalDays,
			TotalPriceCents:   l.TotalPriceCents,
		})
	}
	return v
}

func (h *handler) writeCart(w http.ResponseWriter, r *http.Request, c cart.Cart, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(c))
}

func (h *handler) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Cart.GetCart(r.Context(), SessionFromContext(r.Context()))
	h.writeCart(w, r, c, err)
}

type addCartItemRequest struct {
	ItemID     string `json:"item_id"`
	Quantity   int    `json:"quantity"`
	PickupDate string `json:"pickup_date"`
	ReturnDate string `json:"return_date"`
}

func (h *handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	verr := domain.NewValidationError()
	if req.ItemID == "" {
		verr.Add("item_id", "is required")
	}
	pickup := parseRequiredDate(verr, "pickup_date", req.PickupDate)
	ret := parseRequiredDate(verr, "return_date", req.ReturnDate)
	if verr.HasErrors() {
		writeError(w, r, verr)
		return
	}

	c, err := h.svc.Cart.AddItem(r.Context(), SessionFromContext(r.Context()), req.ItemID, req.Quantity, pickup, ret)
	h.writeCart(w, r, c, err)
}

type updateCartItemRequest struct {
	Quantity   *int    `json:"quantity"`
	PickupDate *string `json:"pickup_date"`
	ReturnDate *string `json:"return_date"`
}

func (h *handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	verr := domain.NewValidationError()
	update := cart.Update{Quantity: req.Quantity}
	if req.PickupDate != nil {
		t := parseRequiredDate(verr, "pickup_date", *req.PickupDate)
		update.PickupDate = &t
	}
	if req.ReturnDate != nil {
		t := parseRequiredDate(verr, "return_date", *req.ReturnDate)
		update.ReturnDate = &t
	}
	if verr.HasErrors() {
		writeError(w, r, verr)
		return
	}

	c, err := h.svc.Cart.UpdateItem(r.Context(), SessionFromContext(r.Context()), mux.Vars(r)["id"], update)
	h.writeCart(w, r, c, err)
}

// removeCartItem drops every line of the item, or only the line over the
// given dates when both are passed as query parameters.
func (h *handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	itemID := mux.Vars(r)["id"]
	q := r.URL.Query()

	if q.Get("pickup_date") == "" && q.Get("return_date") == "" {
		c, err := h.svc.Cart.RemoveItem(ctx, SessionFromContext(ctx), itemID)
		h.writeCart(w, r, c, err)
		return
	}

	verr := domain.NewValidationError()
	pickup := parseRequiredDate(verr, "pickup_date", q.Get("pickup_date"))
	ret := parseRequiredDate(verr, "return_date", q.Get("return_date"))
	if verr.HasErrors() {
		writeError(w, r, verr)
		return
	}
	c, err := h.svc.Cart.RemoveLine(ctx, SessionFromContext(ctx), itemID, pickup, ret)
	h.writeCart(w, r, c, err)
}

func (h *handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Cart.Clear(r.Context(), SessionFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(cart.Cart{}))
}
