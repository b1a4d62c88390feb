package service

import (
	"context"
	"io"
	"time"

	"eventrent-backend/internal/cart"
	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/utils"
)

type CatalogService interface {
	ListItems(ctx context.Context, category *domain.ItemCategory) ([]domain.RentalItem, error)
	GetItem(ctx context.Context, id string) (*domain.RentalItem, error)
	Quote(ctx context.Context, id string, quantity int, pickupDate, returnDate *time.Time) (*domain.RentalItem, utils.Quote, error)
}

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (cart.Cart, error)
	AddItem(ctx context.Context, sessionID, itemID string, quantity int, pickupDate, returnDate time.Time) (cart.Cart, error)
	UpdateItem(ctx context.Context, sessionID, itemID string, update cart.Update) (cart.Cart, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (cart.Cart, error)
	RemoveLine(ctx context.Context, sessionID, itemID string, pickupDate, returnDate time.Time) (cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type CheckoutService interface {
	Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*domain.Booking, []domain.BookingLineItem, error)
	// LastInvoice renders the invoice of the session's most recent booking.
	LastInvoice(ctx context.Context, sessionID string) (string, error)
}

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*domain.AdminUser, error)
	// SignIn authenticates, then authorizes. An identity without the admin
	// role is signed out again and gets domain.ErrNotAdmin.
	SignIn(ctx context.Context, creds Credentials) (*AdminSession, error)
	Authenticate(ctx context.Context, creds Credentials) (*domain.Identity, error)
	Authorize(ctx context.Context, identity *domain.Identity) (domain.Role, error)
	SignOut(ctx context.Context, userID string) error
	GrantRole(ctx context.Context, email string, role domain.Role) error
	BootstrapAdmins(ctx context.Context) error
}

type AdminService interface {
	Dashboard(ctx context.Context) (*domain.BookingStats, error)

	ListItems(ctx context.Context) ([]domain.RentalItem, error)
	CreateItem(ctx context.Context, item *domain.RentalItem) error
	UpdateItem(ctx context.Context, item *domain.RentalItem) error
	DeleteItem(ctx context.Context, id string) error
	SetItemImage(ctx context.Context, id, contentType string, r io.Reader) (*domain.RentalItem, error)

	ListBookings(ctx context.Context, status *domain.BookingStatus) ([]domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*BookingDetail, error)
	ApproveBooking(ctx context.Context, id string) (*domain.Booking, error)
	RejectBooking(ctx context.Context, id string) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, id string) (*domain.Booking, error)
	ResendEmail(ctx context.Context, id string, emailType domain.EmailType) error
}

// EmailDispatcher hands a booking email to the email function, in process
// or over the network.
type EmailDispatcher interface {
	SendBookingEmail(ctx context.Context, emailType domain.EmailType, booking *domain.Booking, items []domain.BookingLineItem) error
}

// EmailService sends booking emails without ever failing the caller's
// operation. Failed sends are queued for retry.
type EmailService interface {
	Send(ctx context.Context, emailType domain.EmailType, booking *domain.Booking, items []domain.BookingLineItem) error
	RetryDue(ctx context.Context, now time.Time, limit int) (sent, failed int, err error)
	PurgeSent(ctx context.Context, olderThan time.Time) (int64, error)
}

type BookingDetail struct {
	Booking *domain.Booking           `json:"booking"`
	Items   []domain.BookingLineItem  `json:"items"`
	Emails  []domain.EmailOutboxEntry `json:"emails"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IDToken  string `json:"id_token"`
}

type AdminSession struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	UserID    string      `json:"user_id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
}
