// Package cart holds the shopping cart as an immutable value.
//
// Every mutator returns a new Cart and leaves the receiver untouched, so a
// snapshot handed to a template, a test or a persistence layer never changes
// underneath it. Totals are derived on each read.
package cart

import (
	"encoding/json"
	"fmt"
	"time"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/utils"

	"github.com/google/uuid"
)

// Line binds a snapshot of a rental item to a quantity and a date range.
type Line struct {
	ItemID            string              `json:"item_id"`
	Name              string              `json:"name"`
	Category          domain.ItemCategory `json:"category"`
	DailyPriceCents   int64               `json:"daily_price_cents"`
	ImageURL          string              `json:"image_url"`
	AvailableQuantity int                 `json:"available_quantity"`
	Quantity          int                 `json:"quantity"`
	PickupDate        time.Time           `json:"pickup_date"`
	ReturnDate        time.Time           `json:"return_date"`
	RentalDays        int                 `json:"rental_days"`
	TotalPriceCents   int64               `json:"total_price_cents"`
}

// NewLine prices item over the given dates and returns the line the booking
// dialog would hand to the cart. The quantity is clamped to the stock on hand.
func NewLine(item *domain.RentalItem, quantity int, pickupDate, returnDate time.Time) (Line, error) {
	pickupDate = utils.CalendarDate(pickupDate)
	returnDate = utils.CalendarDate(returnDate)

	q := utils.CalculateQuote(item.DailyPriceCents, quantity, item.AvailableQuantity, &pickupDate, &returnDate)
	if !q.Valid {
		if q.Quantity < 1 {
			return Line{}, domain.ErrItemUnavailable
		}
		return Line{}, domain.ErrInvalidDateRange
	}

	return Line{
		ItemID:            item.ID,
		Name:              item.Name,
		Category:          item.Category,
		DailyPriceCents:   item.DailyPriceCents,
		ImageURL:          item.ImageURL,
		AvailableQuantity: item.AvailableQuantity,
		Quantity:          q.Quantity,
		PickupDate:        pickupDate,
		ReturnDate:        returnDate,
		RentalDays:        q.RentalDays,
		TotalPriceCents:   q.TotalPriceCents,
	}, nil
}

func (l Line) matches(itemID string, pickupDate, returnDate time.Time) bool {
	return l.ItemID == itemID &&
		l.PickupDate.Equal(utils.CalendarDate(pickupDate)) &&
		l.ReturnDate.Equal(utils.CalendarDate(returnDate))
}

// Update lists the line fields a caller may replace. Nil fields are kept.
type Update struct {
	Quantity   *int
	PickupDate *time.Time
	ReturnDate *time.Time
}

type Cart struct {
	lines []Line
}

func New(lines ...Line) Cart {
	return Cart{lines: append([]Line(nil), lines...)}
}

// Lines returns a copy of the cart's lines in insertion order.
func (c Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

func (c Cart) Len() int { return len(c.lines) }

func (c Cart) IsEmpty() bool { return len(c.lines) == 0 }

// AddItem merges line into an existing line with the same item and the same
// pickup and return dates, summing quantity and total. Otherwise it appends.
func (c Cart) AddItem(line Line) Cart {
	next := c.Lines()
	for i := range next {
		if next[i].matches(line.ItemID, line.PickupDate, line.ReturnDate) {
			next[i].Quantity += line.Quantity
			next[i].TotalPriceCents += line.TotalPriceCents
			return Cart{lines: next}
		}
	}
	return Cart{lines: append(next, line)}
}

// RemoveItem drops every line for itemID regardless of its dates.
func (c Cart) RemoveItem(itemID string) Cart {
	next := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		if l.ItemID != itemID {
			next = append(next, l)
		}
	}
	return Cart{lines: next}
}

// RemoveLine drops only the line for itemID over exactly these dates.
func (c Cart) RemoveLine(itemID string, pickupDate, returnDate time.Time) Cart {
	next := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		if !l.matches(itemID, pickupDate, returnDate) {
			next = append(next, l)
		}
	}
	return Cart{lines: next}
}

// UpdateItem merges u into every line for itemID and re-prices those lines.
// Lines that end up on the same dates collapse into one, and the collapsed
// quantity may not exceed the stock on hand.
func (c Cart) UpdateItem(itemID string, u Update) (Cart, error) {
	next := make([]Line, 0, len(c.lines))
	found := false
	for _, l := range c.lines {
		if l.ItemID != itemID {
			next = append(next, l)
			continue
		}
		found = true

		if u.Quantity != nil {
			l.Quantity = *u.Quantity
		}
		if u.PickupDate != nil {
			l.PickupDate = utils.CalendarDate(*u.PickupDate)
		}
		if u.ReturnDate != nil {
			l.ReturnDate = utils.CalendarDate(*u.ReturnDate)
		}
		if l.Quantity < 1 || l.Quantity > l.AvailableQuantity {
			return c, quantityError(l.AvailableQuantity)
		}
		if !utils.ValidDateRange(l.PickupDate, l.ReturnDate) {
			return c, domain.ErrInvalidDateRange
		}
		l.RentalDays = utils.RentalDays(l.PickupDate, l.ReturnDate)
		l.TotalPriceCents = utils.LineTotal(l.DailyPriceCents, l.Quantity, l.RentalDays)

		merged := false
		for i := range next {
			if next[i].matches(l.ItemID, l.PickupDate, l.ReturnDate) {
				next[i].Quantity += l.Quantity
				next[i].TotalPriceCents += l.TotalPriceCents
				if next[i].Quantity > next[i].AvailableQuantity {
					return c, quantityError(next[i].AvailableQuantity)
				}
				merged = true
				break
			}
		}
		if !merged {
			next = append(next, l)
		}
	}
	if !found {
		return c, domain.ErrCartLineNotFound
	}
	return Cart{lines: next}, nil
}

func quantityError(available int) error {
	verr := domain.NewValidationError()
	verr.Add("quantity", fmt.Sprintf("must be between 1 and %d", available))
	return verr
}

func (c Cart) Clear() Cart {
	return Cart{}
}

// TotalItems is the sum of all line quantities.
func (c Cart) TotalItems() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// TotalCostCents is the sum of all line totals.
func (c Cart) TotalCostCents() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.TotalPriceCents
	}
	return total
}

// DateRange returns the earliest pickup date and the latest return date over
// all lines. ok is false for an empty cart.
func (c Cart) DateRange() (pickupDate, returnDate time.Time, ok bool) {
	if len(c.lines) == 0 {
		return time.Time{}, time.Time{}, false
	}
	pickupDate, returnDate = c.lines[0].PickupDate, c.lines[0].ReturnDate
	for _, l := range c.lines[1:] {
		if l.PickupDate.Before(pickupDate) {
			pickupDate = l.PickupDate
		}
		if l.ReturnDate.After(returnDate) {
			returnDate = l.ReturnDate
		}
	}
	return pickupDate, returnDate, true
}

// WithValidIdentities drops lines whose item id is not a well-formed UUID and
// reports how many were dropped. Persisted carts pass through here before use.
func (c Cart) WithValidIdentities() (Cart, int) {
	next := make([]Line, 0, len(c.lines))
	for _, l := range c.lines {
		if _, err := uuid.Parse(l.ItemID); err != nil {
			continue
		}
		next = append(next, l)
	}
	return Cart{lines: next}, len(c.lines) - len(next)
}

type cartJSON struct {
	Lines []Line `json:"lines"`
}

func (c Cart) MarshalJSON() ([]byte, error) {
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(cartJSON{Lines: lines})
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var v cartJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	c.lines = v.Lines
	return nil
}
