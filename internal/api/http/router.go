// Package http exposes the storefront, the admin console and the booking
// email function as a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/email"
	"eventrent-backend/internal/security"
	"eventrent-backend/internal/service"
	"eventrent-backend/internal/storage"
)

// EmailFunction runs the booking email function for one request.
type EmailFunction interface {
	Handle(ctx context.Context, req email.Request) error
}

type Services struct {
	Catalog  service.CatalogService
	Cart     service.CartService
	Checkout service.CheckoutService
	Auth     service.AuthService
	Admin    service.AdminService
	Function EmailFunction
	Images   storage.ImageStore
	Tokens   security.TokenManager
}

// DefaultMaxBodyBytes caps JSON request bodies when Options.MaxBodyBytes is unset.
const DefaultMaxBodyBytes = 1 << 20

type Options struct {
	AllowedOrigins []string
	SessionTTL     time.Duration
	MaxUploadBytes int64
	MaxBodyBytes   int64
}

type handler struct {
	svc  Services
	opts Options
}

// NewRouter wires every route. Route names key the security levels in
// config.EndpointSecurityConfig.
func NewRouter(svc Services, opts Options) *mux.Router {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	h := &handler{svc: svc, opts: opts}
	auth := &authenticator{tokens: svc.Tokens, auth: svc.Auth}

	r := mux.NewRouter()
	r.Use(recovery, requestLogging, cors(opts.AllowedOrigins))
	// Preflight requests never match a method-restricted route.
	r.Methods(http.MethodOptions).HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet).Name("healthz")
	r.HandleFunc("/media/{key}", h.media).Methods(http.MethodGet).Name("media")

	fn := r.PathPrefix("/functions").Subrouter()
	fn.Use(auth.middleware)
	fn.HandleFunc("/send-booking-email", h.sendBookingEmail).Methods(http.MethodPost).Name("functions.send-booking-email")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/catalog", h.listCatalog).Methods(http.MethodGet).Name("catalog.list")
	api.HandleFunc("/catalog/{id}", h.getCatalogItem).Methods(http.MethodGet).Name("catalog.get")
	api.HandleFunc("/catalog/{id}/quote", h.quote).Methods(http.MethodPost).Name("catalog.quote")

	shop := api.NewRoute().Subrouter()
	shop.Use(withSession(opts.SessionTTL))
	shop.HandleFunc("/cart", h.getCart).Methods(http.MethodGet).Name("cart.get")
	shop.HandleFunc("/cart", h.clearCart).Methods(http.MethodDelete).Name("cart.clear")
	shop.HandleFunc("/cart/items", h.addCartItem).Methods(http.MethodPost).Name("cart.add")
	shop.HandleFunc("/cart/items/{id}", h.updateCartItem).Methods(http.MethodPatch).Name("cart.update")
	shop.HandleFunc("/cart/items/{id}", h.removeCartItem).Methods(http.MethodDelete).Name("cart.remove")
	shop.HandleFunc("/checkout", h.checkout).Methods(http.MethodPost).Name("checkout")
	shop.HandleFunc("/checkout/invoice", h.lastInvoice).Methods(http.MethodGet).Name("checkout.print")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(auth.middleware)
	admin.HandleFunc("/auth/signup", h.signUp).Methods(http.MethodPost).Name("admin.signup")
	admin.HandleFunc("/auth/signin", h.signIn).Methods(http.MethodPost).Name("admin.signin")
	admin.HandleFunc("/auth/signout", h.signOut).Methods(http.MethodPost).Name("admin.signout")
	admin.HandleFunc("/dashboard", h.dashboard).Methods(http.MethodGet).Name("admin.dashboard")
	admin.HandleFunc("/items", h.adminListItems).Methods(http.MethodGet).Name("admin.items.list")
	admin.HandleFunc("/items", h.adminCreateItem).Methods(http.MethodPost).Name("admin.items.create")
	admin.HandleFunc("/items/{id}", h.adminUpdateItem).Methods(http.MethodPut).Name("admin.items.update")
	admin.HandleFunc("/items/{id}", h.adminDeleteItem).Methods(http.MethodDelete).Name("admin.items.delete")
	admin.HandleFunc("/items/{id}/image", h.adminSetItemImage).Methods(http.MethodPut).Name("admin.items.image")
	admin.HandleFunc("/bookings", h.adminListBookings).Methods(http.MethodGet).Name("admin.bookings.list")
	admin.HandleFunc("/bookings/{id}", h.adminGetBooking).Methods(http.MethodGet).Name("admin.bookings.get")
	admin.HandleFunc("/bookings/{id}/approve", h.bookingAction((service.AdminService).ApproveBooking)).Methods(http.MethodPost).Name("admin.bookings.approve")
	admin.HandleFunc("/bookings/{id}/reject", h.bookingAction((service.AdminService).RejectBooking)).Methods(http.MethodPost).Name("admin.bookings.reject")
	admin.HandleFunc("/bookings/{id}/complete", h.bookingAction((service.AdminService).CompleteBooking)).Methods(http.MethodPost).Name("admin.bookings.done")
	admin.HandleFunc("/bookings/{id}/emails", h.adminResendEmail).Methods(http.MethodPost).Name("admin.bookings.emails")
	admin.HandleFunc("/roles", h.adminGrantRole).Methods(http.MethodPost).Name("admin.roles.grant")

	return r
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type bookingResponse struct {
	Booking *domain.Booking          `json:"booking"`
	Items   []domain.BookingLineItem `json:"items,omitempty"`
}
