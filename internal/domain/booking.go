package domain

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

type PickupMethod string

const (
	PickupMethodSelf     PickupMethod = "self-pickup"
	PickupMethodDelivery PickupMethod = "delivery"
)

// Booking is the header row of a customer's submitted cart.
// PickupDate and ReturnDate are the earliest and latest dates across its line items.
type Booking struct {
	ID              string        `json:"id"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	CustomerPhone   string        `json:"customer_phone"`
	PickupMethod    PickupMethod  `json:"pickup_method"`
	DeliveryAddress *string       `json:"delivery_address,omitempty"`
	PickupDate      time.Time     `json:"pickup_date"`
	ReturnDate      time.Time     `json:"return_date"`
	TotalCostCents  int64         `json:"total_cost_cents"`
	Status          BookingStatus `json:"status"`
	CreatedOn       time.Time     `json:"created_on"`
	UpdatedOn       time.Time     `json:"updated_on"`
}

// Reference is the short booking number shown to customers.
func (b *Booking) Reference() string {
	ref := b.ID
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return strings.ToUpper(ref)
}

// BookingLineItem snapshots the item name and price at write time so later
// catalog edits never change a historical invoice.
type BookingLineItem struct {
	ID              string  `json:"id"`
	BookingID       string  `json:"booking_id"`
	ItemID          *string `json:"item_id,omitempty"`
	ItemName        string  `json:"item_name"`
	Quantity        int     `json:"quantity"`
	DailyPriceCents int64   `json:"daily_price_cents"`
	RentalDays      int     `json:"rental_days"`
	SubtotalCents   int64   `json:"subtotal_cents"`
}

// BookingStats summarises bookings for the admin dashboard.
type BookingStats struct {
	TotalItems      int   `json:"total_items"`
	TotalBookings   int   `json:"total_bookings"`
	PendingBookings int   `json:"pending_bookings"`
	RevenueCents    int64 `json:"revenue_cents"`
}
