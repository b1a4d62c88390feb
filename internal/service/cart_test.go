package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventrent-backend/internal/cart"
	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/repository/memory"
	"eventrent-backend/internal/service"
)

func newCartService(items *MockRentalItemRepo) service.CartService {
	catalog := service.NewCatalogService(items, defaultImages, fixedNow)
	return service.NewCartService(memory.NewCartRepository(time.Hour), catalog, fixedNow)
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		items := new(MockRentalItemRepo)
		items.On("GetByID", ctx, chairID).Return(chair(), nil)
		svc := newCartService(items)

		c, err := svc.AddItem(ctx, "s1", chairID, 50, date("2025-06-01"), date("2025-06-03"))
		require.NoError(t, err)
		require.Equal(t, 1, c.Len())
		line := c.Lines()[0]
		assert.Equal(t, 50, line.Quantity)
		assert.Equal(t, 2, line.RentalDays)
		assert.Equal(t, int64(500*50*2), line.TotalPriceCents)
		assert.Equal(t, "/static/chairs.jpg", line.ImageURL)

		stored, err := svc.GetCart(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 50, stored.TotalItems())
	})

	t.Run("Merges same item and dates", func(t *testing.T) {
		items := new(MockRentalItemRepo)
		items.On("GetByID", ctx, chairID).Return(chair(), nil)
		svc := newCartService(items)

		_, err := svc.AddItem(ctx, "s1", chairID, 50, date("2025-06-01"), date("2025-06-03"))
		require.NoError(t, err)
		c, err := svc.AddItem(ctx, "s1", chairID, 25, date("2025-06-01"), date("2025-06-03"))
		require.NoError(t, err)
		require.Equal(t, 1, c.Len())
		assert.Equal(t, 75, c.TotalItems())
		assert.Equal(t, int64(500*75*2), c.TotalCostCents())
	})

	t.Run("Merged quantity over stock", func(t *testing.T) {
		items := new(MockRentalItemRepo)
		items.On("GetByID", ctx, canopyID).Return(canopy(), nil)
		svc := newCartService(items)

		_, err := svc.AddItem(ctx, "s1", canopyID, 3, date("2025-06-01"), date("2025-06-03"))
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, "s1", canopyID, 3, date("2025-06-01"), date("2025-06-03"))
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)

		c, _ := svc.GetCart(ctx, "s1")
		assert.Equal(t, 3, c.TotalItems())
	})

	t.Run("Return before pickup", func(t *testing.T) {
		items := new(MockRentalItemRepo)
		items.On("GetByID", ctx, chairID).Return(chair(), nil)
		svc := newCartService(items)

		_, err := svc.AddItem(ctx, "s1", chairID, 1, date("2025-06-03"), date("2025-06-01"))
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})

	t.Run("Unknown item", func(t *testing.T) {
		items := new(MockRentalItemRepo)
		items.On("GetByID", ctx, "missing").Return(nil, domain.ErrItemNotFound)
		svc := newCartService(items)

		_, err := svc.AddItem(ctx, "s1", "missing", 1, date("2025-06-01"), date("2025-06-03"))
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("Pickup in the past", func(t *testing.T) {
		items := new(MockRentalItemRepo)
		svc := newCartService(items)

		_, err := svc.AddItem(ctx, "s1", chairID, 1, date("2025-05-19"), date("2025-05-21"))
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "must not be in the past", verr.Fields["pickup_date"])
		items.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Pickup today", func(t *testing.T) {
		items := new(MockRentalItemRepo)
		items.On("GetByID", ctx, chairID).Return(chair(), nil)
		svc := newCartService(items)

		_, err := svc.AddItem(ctx, "s1", chairID, 1, date("2025-05-20"), date("2025-05-21"))
		assert.NoError(t, err)
	})

	t.Run("Missing session", func(t *testing.T) {
		svc := newCartService(new(MockRentalItemRepo))
		_, err := svc.AddItem(ctx, "", chairID, 1, date("2025-06-01"), date("2025-06-03"))
		assert.ErrorIs(t, err, service.ErrMissingSession)
	})
}

func TestCartService_UpdateRemoveClear(t *testing.T) {
	ctx := context.Background()
	items := new(MockRentalItemRepo)
	items.On("GetByID", ctx, chairID).Return(chair(), nil)
	items.On("GetByID", ctx, canopyID).Return(canopy(), nil)
	svc := newCartService(items)

	_, err := svc.AddItem(ctx, "s1", chairID, 10, date("2025-06-01"), date("2025-06-02"))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "s1", canopyID, 1, date("2025-06-01"), date("2025-06-03"))
	require.NoError(t, err)

	t.Run("Update re-prices", func(t *testing.T) {
		qty := 20
		c, err := svc.UpdateItem(ctx, "s1", chairID, cart.Update{Quantity: &qty})
		require.NoError(t, err)
		assert.Equal(t, int64(500*20*1+15000*1*2), c.TotalCostCents())
	})

	t.Run("Update pickup into the past", func(t *testing.T) {
		past := date("2025-04-30")
		_, err := svc.UpdateItem(ctx, "s1", chairID, cart.Update{PickupDate: &past})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "pickup_date")

		c, err := svc.GetCart(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, date("2025-06-01"), c.Lines()[0].PickupDate)
	})

	t.Run("Update unknown line", func(t *testing.T) {
		qty := 1
		_, err := svc.UpdateItem(ctx, "s1", "not-in-cart", cart.Update{Quantity: &qty})
		assert.ErrorIs(t, err, domain.ErrCartLineNotFound)
	})

	t.Run("Remove line keeps other dates", func(t *testing.T) {
		c, err := svc.RemoveLine(ctx, "s1", canopyID, date("2025-06-05"), date("2025-06-06"))
		require.NoError(t, err)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("Update dates merges lines", func(t *testing.T) {
		_, err := svc.AddItem(ctx, "s2", chairID, 10, date("2025-06-01"), date("2025-06-03"))
		require.NoError(t, err)
		_, err = svc.AddItem(ctx, "s2", chairID, 20, date("2025-06-02"), date("2025-06-05"))
		require.NoError(t, err)

		pickup, ret := date("2025-07-01"), date("2025-07-02")
		c, err := svc.UpdateItem(ctx, "s2", chairID, cart.Update{PickupDate: &pickup, ReturnDate: &ret})
		require.NoError(t, err)
		require.Equal(t, 1, c.Len())
		assert.Equal(t, 30, c.TotalItems())
		assert.Equal(t, int64(500*30*2), c.TotalCostCents())
	})

	t.Run("Remove item", func(t *testing.T) {
		c, err := svc.RemoveItem(ctx, "s1", canopyID)
		require.NoError(t, err)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, svc.Clear(ctx, "s1"))
		c, err := svc.GetCart(ctx, "s1")
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())
	})
}
