package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of every rental date.
const DateLayout = "2006-01-02"

// MaxRentalDays is the longest rental period that can be priced, counted inclusively.
const MaxRentalDays = 365

const secondsPerDay = 24 * 60 * 60

// Quote is the outcome of pricing one item over a date range.
type Quote struct {
	Quantity        int   `json:"quantity"`
	RentalDays      int   `json:"rental_days"`
	DailyPriceCents int64 `json:"daily_price_cents"`
	TotalPriceCents int64 `json:"total_price_cents"`
	Valid           bool  `json:"valid"`
}

// ParseDate converts a yyyy-mm-dd formatted string into a calendar date at UTC midnight
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}
	return t, nil
}

// FormatDate renders a calendar date as yyyy-mm-dd
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CalendarDate drops the clock part of t, keeping t's own year, month and day
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from one date to another; negative when to is earlier.
// Unix seconds are used because a time.Duration saturates at about 292 years.
func DaysBetween(from, to time.Time) int {
	return int((CalendarDate(to).Unix() - CalendarDate(from).Unix()) / secondsPerDay)
}

// RentalDays counts the rental period inclusively: both the pickup and the return day are charged
func RentalDays(pickupDate, returnDate time.Time) int {
	return DaysBetween(pickupDate, returnDate) + 1
}

// ValidDateRange reports whether the return date falls after the pickup date
// and the rental lasts at most MaxRentalDays.
func ValidDateRange(pickupDate, returnDate time.Time) bool {
	if !CalendarDate(returnDate).After(CalendarDate(pickupDate)) {
		return false
	}
	return RentalDays(pickupDate, returnDate) <= MaxRentalDays
}

// ClampQuantity keeps a requested quantity within [1, available].
// A zero request means the default of one; nothing can be clamped into an empty stock.
func ClampQuantity(quantity, available int) int {
	if available < 1 {
		return 0
	}
	if quantity < 1 {
		return 1
	}
	if quantity > available {
		return available
	}
	return quantity
}

// LineTotal is dailyPrice x quantity x rentalDays in minor units
func LineTotal(dailyPriceCents int64, quantity, rentalDays int) int64 {
	return dailyPriceCents * int64(quantity) * int64(rentalDays)
}

// CalculateQuote prices an item the way the booking dialog does.
// The quote is valid only when both dates are set, they form a valid date range
// and a positive quantity is left after clamping. An over-long range is never priced.
func CalculateQuote(dailyPriceCents int64, quantity, available int, pickupDate, returnDate *time.Time) Quote {
	q := Quote{
		Quantity:        ClampQuantity(quantity, available),
		DailyPriceCents: dailyPriceCents,
	}
	if pickupDate == nil || returnDate == nil {
		return q
	}

	if !ValidDateRange(*pickupDate, *returnDate) {
		return q
	}
	q.RentalDays = RentalDays(*pickupDate, *returnDate)
	q.TotalPriceCents = LineTotal(dailyPriceCents, q.Quantity, q.RentalDays)
	q.Valid = q.Quantity > 0
	return q
}

// FormatCents renders minor units as a two-decimal amount, e.g. 9000 -> "90.00"
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
