package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventrent-backend/internal/cart"
	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/logger"
	"eventrent-backend/internal/repository"
)

// ErrMissingSession is returned when a cart operation has no session id.
var ErrMissingSession = errors.New("missing cart session")

type cartService struct {
	cartRepo repository.CartRepository
	catalog  CatalogService
	now      func() time.Time
}

func NewCartService(cartRepo repository.CartRepository, catalog CatalogService, now func() time.Time) CartService {
	if now == nil {
		now = time.Now
	}
	return &cartService{cartRepo: cartRepo, catalog: catalog, now: now}
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (cart.Cart, error) {
	if sessionID == "" {
		return cart.Cart{}, ErrMissingSession
	}
	return s.cartRepo.Load(ctx, sessionID)
}

// AddItem prices the item from its current catalog entry and merges the line
// into the session's cart.
func (s *cartService) AddItem(ctx context.Context, sessionID, itemID string, quantity int, pickupDate, returnDate time.Time) (cart.Cart, error) {
	logger.EnterMethod("cartService.AddItem", "itemID", itemID, "quantity", quantity)

	if err := validatePickupDate(pickupDate, s.now()); err != nil {
		logger.ExitMethodWithError("cartService.AddItem", err, "itemID", itemID)
		return cart.Cart{}, err
	}

	c, err := s.GetCart(ctx, sessionID)
	if err != nil {
		logger.ExitMethodWithError("cartService.AddItem", err, "itemID", itemID)
		return cart.Cart{}, err
	}

	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		logger.ExitMethodWithError("cartService.AddItem", err, "itemID", itemID)
		return cart.Cart{}, err
	}

	line, err := cart.NewLine(item, quantity, pickupDate, returnDate)
	if err != nil {
		logger.ExitMethodWithError("cartService.AddItem", err, "itemID", itemID)
		return cart.Cart{}, err
	}

	next := c.AddItem(line)
	for _, l := range next.Lines() {
		if l.ItemID == line.ItemID && l.PickupDate.Equal(line.PickupDate) && l.ReturnDate.Equal(line.ReturnDate) &&
			l.Quantity > item.AvailableQuantity {
			verr := domain.NewValidationError()
			verr.Add("quantity", fmt.Sprintf("only %d available for these dates", item.AvailableQuantity))
			logger.ExitMethodWithError("cartService.AddItem", verr, "itemID", itemID)
			return c, verr
		}
	}

	if err := s.cartRepo.Save(ctx, sessionID, next); err != nil {
		logger.ExitMethodWithError("cartService.AddItem", err, "itemID", itemID)
		return c, err
	}

	logger.ExitMethod("cartService.AddItem", "itemID", itemID, "lines", next.Len())
	return next, nil
}

func (s *cartService) UpdateItem(ctx context.Context, sessionID, itemID string, update cart.Update) (cart.Cart, error) {
	if update.PickupDate != nil {
		if err := validatePickupDate(*update.PickupDate, s.now()); err != nil {
			return cart.Cart{}, err
		}
	}
	c, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return cart.Cart{}, err
	}
	next, err := c.UpdateItem(itemID, update)
	if err != nil {
		return c, err
	}
	if err := s.cartRepo.Save(ctx, sessionID, next); err != nil {
		return c, err
	}
	return next, nil
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID, itemID string) (cart.Cart, error) {
	return s.mutate(ctx, sessionID, func(c cart.Cart) cart.Cart { return c.RemoveItem(itemID) })
}

func (s *cartService) RemoveLine(ctx context.Context, sessionID, itemID string, pickupDate, returnDate time.Time) (cart.Cart, error) {
	return s.mutate(ctx, sessionID, func(c cart.Cart) cart.Cart { return c.RemoveLine(itemID, pickupDate, returnDate) })
}

func (s *cartService) mutate(ctx context.Context, sessionID string, fn func(cart.Cart) cart.Cart) (cart.Cart, error) {
	c, err := s.GetCart(ctx, sessionID)
	if err != nil {
		return cart.Cart{}, err
	}
	next := fn(c)
	if err := s.cartRepo.Save(ctx, sessionID, next); err != nil {
		return c, err
	}
	return next, nil
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrMissingSession
	}
	return s.cartRepo.Delete(ctx, sessionID)
}
