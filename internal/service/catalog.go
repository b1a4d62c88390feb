package service

import (
	"context"
	"time"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/logger"
	"eventrent-backend/internal/repository"
	"eventrent-backend/internal/utils"
)

type catalogService struct {
	itemRepo      repository.RentalItemRepository
	defaultImages map[domain.ItemCategory]string
	now           func() time.Time
}

// NewCatalogService returns the storefront's read-only view of the inventory.
// Items without an image get the default image of their category.
// A nil now falls back to time.Now.
func NewCatalogService(itemRepo repository.RentalItemRepository, defaultImages map[string]string, now func() time.Time) CatalogService {
	images := make(map[domain.ItemCategory]string, len(defaultImages))
	for category, url := range defaultImages {
		images[domain.ItemCategory(category)] = url
	}
	if now == nil {
		now = time.Now
	}
	return &catalogService{itemRepo: itemRepo, defaultImages: images, now: now}
}

func (s *catalogService) withDefaultImage(item *domain.RentalItem) {
	if item.ImageURL == "" {
		item.ImageURL = s.defaultImages[item.Category]
	}
}

func (s *catalogService) ListItems(ctx context.Context, category *domain.ItemCategory) ([]domain.RentalItem, error) {
	logger.EnterMethod("catalogService.ListItems", "category", category)

	if category != nil && !category.Valid() {
		verr := domain.NewValidationError()
		verr.Add("category", "must be one of: chair, table, canopy, mat")
		logger.ExitMethodWithError("catalogService.ListItems", verr)
		return nil, verr
	}

	items, err := s.itemRepo.ListActive(ctx, category)
	if err != nil {
		logger.ExitMethodWithError("catalogService.ListItems", err)
		return nil, err
	}
	for i := range items {
		s.withDefaultImage(&items[i])
	}

	logger.ExitMethod("catalogService.ListItems", "count", len(items))
	return items, nil
}

// GetItem hides inactive items from the storefront.
func (s *catalogService) GetItem(ctx context.Context, id string) (*domain.RentalItem, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, domain.ErrItemNotFound
	}
	s.withDefaultImage(item)
	return item, nil
}

func (s *catalogService) Quote(ctx context.Context, id string, quantity int, pickupDate, returnDate *time.Time) (*domain.RentalItem, utils.Quote, error) {
	if pickupDate != nil {
		if err := validatePickupDate(*pickupDate, s.now()); err != nil {
			return nil, utils.Quote{}, err
		}
	}
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, utils.Quote{}, err
	}
	return item, utils.CalculateQuote(item.DailyPriceCents, quantity, item.AvailableQuantity, pickupDate, returnDate), nil
}
