package cart

import (
	"encoding/json"
	"testing"
	"time"

	"eventrent-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tableID = "6f1c1a52-7a43-4a55-9d8e-3f1a1c9b2e01"
	chairID = "0b7f3f3e-2b0c-4f7e-9d5e-7c4d8a1e6a02"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func table() *domain.RentalItem {
	return &domain.RentalItem{
		ID:                tableID,
		Name:              "Round Folding Table",
		Category:          domain.ItemCategoryTable,
		DailyPriceCents:   1500,
		AvailableQuantity: 100,
	}
}

func chair() *domain.RentalItem {
	return &domain.RentalItem{
		ID:                chairID,
		Name:              "Premium Plastic Chair",
		Category:          domain.ItemCategoryChair,
		DailyPriceCents:   300,
		AvailableQuantity: 500,
	}
}

func mustLine(t *testing.T, item *domain.RentalItem, qty int, pickup, ret string) Line {
	t.Helper()
	l, err := NewLine(item, qty, day(pickup), day(ret))
	require.NoError(t, err)
	return l
}

func TestNewLine(t *testing.T) {
	t.Run("Prices inclusively", func(t *testing.T) {
		l := mustLine(t, table(), 2, "2024-06-01", "2024-06-03")
		assert.Equal(t, 3, l.RentalDays)
		assert.Equal(t, int64(9000), l.TotalPriceCents)
		assert.Equal(t, "Round Folding Table", l.Name)
	})

	t.Run("Return not after pickup", func(t *testing.T) {
		_, err := NewLine(table(), 1, day("2024-06-03"), day("2024-06-03"))
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})

	t.Run("No stock", func(t *testing.T) {
		item := table()
		item.AvailableQuantity = 0
		_, err := NewLine(item, 1, day("2024-06-01"), day("2024-06-03"))
		assert.ErrorIs(t, err, domain.ErrItemUnavailable)
	})

	t.Run("Strips clock from dates", func(t *testing.T) {
		l, err := NewLine(table(), 1, time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC), time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, day("2024-06-01"), l.PickupDate)
		assert.Equal(t, 2, l.RentalDays)
	})
}

func TestCart_AddItem(t *testing.T) {
	t.Run("Same item and dates merge", func(t *testing.T) {
		a := mustLine(t, table(), 2, "2024-06-01", "2024-06-03")
		b := mustLine(t, table(), 3, "2024-06-01", "2024-06-03")

		c := New().AddItem(a).AddItem(b)
		require.Equal(t, 1, c.Len())
		merged := c.Lines()[0]
		assert.Equal(t, a.Quantity+b.Quantity, merged.Quantity)
		assert.Equal(t, a.TotalPriceCents+b.TotalPriceCents, merged.TotalPriceCents)
	})

	t.Run("Different pickup date stays separate", func(t *testing.T) {
		c := New().
			AddItem(mustLine(t, table(), 1, "2024-06-01", "2024-06-03")).
			AddItem(mustLine(t, table(), 1, "2024-06-02", "2024-06-03"))
		assert.Equal(t, 2, c.Len())
	})

	t.Run("Different return date stays separate", func(t *testing.T) {
		c := New().
			AddItem(mustLine(t, table(), 1, "2024-06-01", "2024-06-03")).
			AddItem(mustLine(t, table(), 1, "2024-06-01", "2024-06-04"))
		assert.Equal(t, 2, c.Len())
	})

	t.Run("Receiver is not mutated", func(t *testing.T) {
		base := New().AddItem(mustLine(t, table(), 1, "2024-06-01", "2024-06-03"))
		_ = base.AddItem(mustLine(t, table(), 4, "2024-06-01", "2024-06-03"))
		assert.Equal(t, 1, base.TotalItems())
	})
}

func TestCart_RemoveItem(t *testing.T) {
	c := New().
		AddItem(mustLine(t, table(), 1, "2024-06-01", "2024-06-03")).
		AddItem(mustLine(t, table(), 2, "2024-06-05", "2024-06-07")).
		AddItem(mustLine(t, chair(), 10, "2024-06-01", "2024-06-03"))

	t.Run("By id drops every date range", func(t *testing.T) {
		next := c.RemoveItem(tableID)
		require.Equal(t, 1, next.Len())
		assert.Equal(t, chairID, next.Lines()[0].ItemID)
		assert.Equal(t, 3, c.Len())
	})

	t.Run("By line keeps other ranges", func(t *testing.T) {
		next := c.RemoveLine(tableID, day("2024-06-05"), day("2024-06-07"))
		require.Equal(t, 2, next.Len())
		assert.Equal(t, 11, next.TotalItems())
	})
}

func TestCart_UpdateItem(t *testing.T) {
	c := New().AddItem(mustLine(t, table(), 1, "2024-06-01", "2024-06-03"))

	t.Run("Quantity re-prices", func(t *testing.T) {
		qty := 4
		next, err := c.UpdateItem(tableID, Update{Quantity: &qty})
		require.NoError(t, err)
		assert.Equal(t, 4, next.TotalItems())
		assert.Equal(t, int64(1500*4*3), next.TotalCostCents())
	})

	t.Run("Dates re-price", func(t *testing.T) {
		ret := day("2024-06-10")
		next, err := c.UpdateItem(tableID, Update{ReturnDate: &ret})
		require.NoError(t, err)
		assert.Equal(t, 10, next.Lines()[0].RentalDays)
		assert.Equal(t, int64(15000), next.TotalCostCents())
	})

	t.Run("Quantity over stock", func(t *testing.T) {
		qty := 101
		next, err := c.UpdateItem(tableID, Update{Quantity: &qty})
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, c.Lines(), next.Lines())
	})

	t.Run("Return before pickup", func(t *testing.T) {
		ret := day("2024-05-01")
		_, err := c.UpdateItem(tableID, Update{ReturnDate: &ret})
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})

	t.Run("Unknown item", func(t *testing.T) {
		qty := 2
		_, err := c.UpdateItem(chairID, Update{Quantity: &qty})
		assert.ErrorIs(t, err, domain.ErrCartLineNotFound)
	})

	t.Run("Rental past the maximum", func(t *testing.T) {
		ret := day("9999-12-31")
		next, err := c.UpdateItem(tableID, Update{ReturnDate: &ret})
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
		assert.Equal(t, c.Lines(), next.Lines())
	})
}

func TestCart_UpdateItem_CollapsesSameDates(t *testing.T) {
	pickup, ret := day("2024-07-01"), day("2024-07-02")

	t.Run("Lines moved onto the same dates merge", func(t *testing.T) {
		c := New().
			AddItem(mustLine(t, table(), 1, "2024-06-01", "2024-06-03")).
			AddItem(mustLine(t, chair(), 5, "2024-06-01", "2024-06-03")).
			AddItem(mustLine(t, table(), 2, "2024-06-02", "2024-06-05"))

		next, err := c.UpdateItem(tableID, Update{PickupDate: &pickup, ReturnDate: &ret})
		require.NoError(t, err)
		require.Equal(t, 2, next.Len())

		lines := next.Lines()
		assert.Equal(t, tableID, lines[0].ItemID)
		assert.Equal(t, 3, lines[0].Quantity)
		assert.Equal(t, 2, lines[0].RentalDays)
		assert.Equal(t, int64(1500*3*2), lines[0].TotalPriceCents)
		assert.Equal(t, chairID, lines[1].ItemID)
		assert.Equal(t, 3, c.Len())
	})

	t.Run("Merged quantity over stock", func(t *testing.T) {
		item := table()
		item.AvailableQuantity = 4
		c := New().
			AddItem(mustLine(t, item, 3, "2024-06-01", "2024-06-03")).
			AddItem(mustLine(t, item, 3, "2024-06-02", "2024-06-05"))

		next, err := c.UpdateItem(tableID, Update{PickupDate: &pickup, ReturnDate: &ret})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields["quantity"], "must be between 1 and 4")
		assert.Equal(t, c.Lines(), next.Lines())
	})
}

func TestCart_TotalsAfterOperations(t *testing.T) {
	check := func(t *testing.T, c Cart) {
		t.Helper()
		var items int
		var cost int64
		for _, l := range c.Lines() {
			items += l.Quantity
			cost += l.TotalPriceCents
		}
		assert.Equal(t, items, c.TotalItems())
		assert.Equal(t, cost, c.TotalCostCents())
	}

	c := New()
	check(t, c)
	c = c.AddItem(mustLine(t, table(), 2, "2024-06-01", "2024-06-03"))
	check(t, c)
	c = c.AddItem(mustLine(t, chair(), 40, "2024-06-02", "2024-06-05"))
	check(t, c)
	c = c.AddItem(mustLine(t, table(), 1, "2024-06-01", "2024-06-03"))
	check(t, c)
	qty := 7
	c, err := c.UpdateItem(chairID, Update{Quantity: &qty})
	require.NoError(t, err)
	check(t, c)
	c = c.RemoveItem(tableID)
	check(t, c)

	c = c.Clear()
	assert.Equal(t, 0, c.TotalItems())
	assert.Equal(t, int64(0), c.TotalCostCents())
	assert.True(t, c.IsEmpty())
}

func TestCart_DateRange(t *testing.T) {
	t.Run("Min pickup and max return", func(t *testing.T) {
		c := New().
			AddItem(mustLine(t, table(), 1, "2024-06-01", "2024-06-03")).
			AddItem(mustLine(t, chair(), 1, "2024-06-02", "2024-06-05"))
		pickup, ret, ok := c.DateRange()
		require.True(t, ok)
		assert.Equal(t, day("2024-06-01"), pickup)
		assert.Equal(t, day("2024-06-05"), ret)
	})

	t.Run("Empty cart", func(t *testing.T) {
		_, _, ok := New().DateRange()
		assert.False(t, ok)
	})
}

func TestCart_JSONAndIdentityCheck(t *testing.T) {
	valid := mustLine(t, table(), 2, "2024-06-01", "2024-06-03")
	legacy := valid
	legacy.ItemID = "table-001"

	data, err := json.Marshal(New(valid, legacy))
	require.NoError(t, err)

	var restored Cart
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, 2, restored.Len())

	clean, dropped := restored.WithValidIdentities()
	assert.Equal(t, 1, dropped)
	require.Equal(t, 1, clean.Len())
	assert.Equal(t, tableID, clean.Lines()[0].ItemID)
}
