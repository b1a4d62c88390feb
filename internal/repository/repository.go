package repository

import (
	"context"
	"time"

	"eventrent-backend/internal/cart"
	"eventrent-backend/internal/domain"
)

type RentalItemRepository interface {
	// ListActive returns active items ordered by name, optionally filtered by category.
	ListActive(ctx context.Context, category *domain.ItemCategory) ([]domain.RentalItem, error)
	// ListAll returns every item, newest first, for the admin console.
	ListAll(ctx context.Context) ([]domain.RentalItem, error)
	GetByID(ctx context.Context, id string) (*domain.RentalItem, error)
	Create(ctx context.Context, item *domain.RentalItem) error
	Update(ctx context.Context, item *domain.RentalItem) error
	Delete(ctx context.Context, id string) error
}

type BookingRepository interface {
	// CreateWithItems writes the booking header and its line items atomically.
	CreateWithItems(ctx context.Context, booking *domain.Booking, items []domain.BookingLineItem) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetItems(ctx context.Context, bookingID string) ([]domain.BookingLineItem, error)
	List(ctx context.Context, status *domain.BookingStatus) ([]domain.Booking, error)
	// UpdateStatus moves a booking from one status to another. It fails with
	// domain.ErrInvalidStatusTransition when the booking is no longer in from.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error
	Stats(ctx context.Context) (*domain.BookingStats, error)
}

type AdminUserRepository interface {
	Create(ctx context.Context, user *domain.AdminUser) error
	GetByID(ctx context.Context, id string) (*domain.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	GetByExternalUID(ctx context.Context, uid string) (*domain.AdminUser, error)
}

type RoleRepository interface {
	HasRole(ctx context.Context, userID string, role domain.Role) (bool, error)
	// Grant is idempotent.
	Grant(ctx context.Context, grant *domain.RoleGrant) error
}

type EmailOutboxRepository interface {
	Enqueue(ctx context.Context, entry *domain.EmailOutboxEntry) error
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.EmailOutboxEntry, error)
	ListByBooking(ctx context.Context, bookingID string) ([]domain.EmailOutboxEntry, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, entry *domain.EmailOutboxEntry) error
	PurgeSent(ctx context.Context, before time.Time) (int64, error)
}

// CartRepository persists a cart per browser session.
// Loading an unknown session yields an empty cart.
type CartRepository interface {
	Load(ctx context.Context, sessionID string) (cart.Cart, error)
	Save(ctx context.Context, sessionID string, c cart.Cart) error
	Delete(ctx context.Context, sessionID string) error
	SetLastBooking(ctx context.Context, sessionID, bookingID string) error
	// LastBooking returns "" when the session has not submitted a booking.
	LastBooking(ctx context.Context, sessionID string) (string, error)
}
