package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/logger"
	"eventrent-backend/internal/repository"
	"eventrent-backend/internal/storage"
)

type adminService struct {
	itemRepo    repository.RentalItemRepository
	bookingRepo repository.BookingRepository
	outboxRepo  repository.EmailOutboxRepository
	images      storage.ImageStore
	emailSvc    EmailService
}

func NewAdminService(
	itemRepo repository.RentalItemRepository,
	bookingRepo repository.BookingRepository,
	outboxRepo repository.EmailOutboxRepository,
	images storage.ImageStore,
	emailSvc EmailService,
) AdminService {
	return &adminService{
		itemRepo:    itemRepo,
		bookingRepo: bookingRepo,
		outboxRepo:  outboxRepo,
		images:      images,
		emailSvc:    emailSvc,
	}
}

func (s *adminService) Dashboard(ctx context.Context) (*domain.BookingStats, error) {
	return s.bookingRepo.Stats(ctx)
}

func (s *adminService) ListItems(ctx context.Context) ([]domain.RentalItem, error) {
	return s.itemRepo.ListAll(ctx)
}

func validateItem(item *domain.RentalItem) error {
	item.Name = strings.TrimSpace(item.Name)
	item.Description = strings.TrimSpace(item.Description)
	item.ImageURL = strings.TrimSpace(item.ImageURL)
	return validateStruct(item)
}

func (s *adminService) CreateItem(ctx context.Context, item *domain.RentalItem) error {
	logger.EnterMethod("adminService.CreateItem", "name", item.Name)
	if err := validateItem(item); err != nil {
		logger.ExitMethodWithError("adminService.CreateItem", err)
		return err
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		logger.ExitMethodWithError("adminService.CreateItem", err)
		return err
	}
	logger.ExitMethod("adminService.CreateItem", "itemID", item.ID)
	return nil
}

func (s *adminService) UpdateItem(ctx context.Context, item *domain.RentalItem) error {
	logger.EnterMethod("adminService.UpdateItem", "itemID", item.ID)
	if err := validateItem(item); err != nil {
		logger.ExitMethodWithError("adminService.UpdateItem", err, "itemID", item.ID)
		return err
	}
	existing, err := s.itemRepo.GetByID(ctx, item.ID)
	if err != nil {
		logger.ExitMethodWithError("adminService.UpdateItem", err, "itemID", item.ID)
		return err
	}
	item.CreatedOn = existing.CreatedOn
	if err := s.itemRepo.Update(ctx, item); err != nil {
		logger.ExitMethodWithError("adminService.UpdateItem", err, "itemID", item.ID)
		return err
	}
	if existing.ImageURL != item.ImageURL {
		s.deleteImage(ctx, existing.ImageURL)
	}
	logger.ExitMethod("adminService.UpdateItem", "itemID", item.ID)
	return nil
}

// DeleteItem removes the item for good. Booked line items keep their name and
// price snapshot and lose only the link.
func (s *adminService) DeleteItem(ctx context.Context, id string) error {
	logger.EnterMethod("adminService.DeleteItem", "itemID", id)
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("adminService.DeleteItem", err, "itemID", id)
		return err
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		logger.ExitMethodWithError("adminService.DeleteItem", err, "itemID", id)
		return err
	}
	s.deleteImage(ctx, item.ImageURL)
	logger.ExitMethod("adminService.DeleteItem", "itemID", id)
	return nil
}

// deleteImage removes an uploaded image. URLs that point elsewhere are left alone.
func (s *adminService) deleteImage(ctx context.Context, url string) {
	key, ok := s.images.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.WarnContext(ctx, "Failed to delete item image", "key", key, "error", err)
	}
}

func (s *adminService) SetItemImage(ctx context.Context, id, contentType string, r io.Reader) (*domain.RentalItem, error) {
	logger.EnterMethod("adminService.SetItemImage", "itemID", id, "contentType", contentType)

	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("adminService.SetItemImage", err, "itemID", id)
		return nil, err
	}

	key, err := s.images.Save(ctx, contentType, r)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) || errors.Is(err, storage.ErrFileTooLarge) {
			verr := domain.NewValidationError()
			verr.Add("image", err.Error())
			err = verr
		}
		logger.ExitMethodWithError("adminService.SetItemImage", err, "itemID", id)
		return nil, err
	}

	oldURL := item.ImageURL
	item.ImageURL = s.images.URL(key)
	if err := s.itemRepo.Update(ctx, item); err != nil {
		if derr := s.images.Delete(ctx, key); derr != nil {
			logger.WarnContext(ctx, "Failed to delete orphaned image", "key", key, "error", derr)
		}
		logger.ExitMethodWithError("adminService.SetItemImage", err, "itemID", id)
		return nil, err
	}
	s.deleteImage(ctx, oldURL)

	logger.ExitMethod("adminService.SetItemImage", "itemID", id, "key", key)
	return item, nil
}

func (s *adminService) ListBookings(ctx context.Context, status *domain.BookingStatus) ([]domain.Booking, error) {
	if status != nil && !status.Valid() {
		verr := domain.NewValidationError()
		verr.Add("status", "must be one of: pending, confirmed, completed, cancelled")
		return nil, verr
	}
	return s.bookingRepo.List(ctx, status)
}

func (s *adminService) GetBooking(ctx context.Context, id string) (*BookingDetail, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.bookingRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	emails, err := s.outboxRepo.ListByBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookingDetail{Booking: booking, Items: items, Emails: emails}, nil
}

// ApproveBooking confirms a pending booking and sends the customer a receipt.
// A failed receipt is queued for retry and does not undo the approval.
func (s *adminService) ApproveBooking(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.transition(ctx, id, domain.BookingStatusPending, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}

	items, err := s.bookingRepo.GetItems(ctx, id)
	if err != nil {
		logger.WarnContext(ctx, "Receipt not sent, failed to load booking items", "bookingID", id, "error", err)
		return booking, nil
	}
	if err := s.emailSvc.Send(ctx, domain.EmailTypeReceipt, booking, items); err != nil {
		logger.WarnContext(ctx, "Receipt email not sent, queued for retry", "bookingID", id, "error", err)
	}
	return booking, nil
}

func (s *adminService) RejectBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingStatusPending, domain.BookingStatusCancelled)
}

func (s *adminService) CompleteBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingStatusConfirmed, domain.BookingStatusCompleted)
}

func (s *adminService) transition(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
	logger.EnterMethod("adminService.transition", "bookingID", id, "from", from, "to", to)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("adminService.transition", err, "bookingID", id)
		return nil, err
	}
	if booking.Status != from {
		err := fmt.Errorf("%w: %s to %s", domain.ErrInvalidStatusTransition, booking.Status, to)
		logger.ExitMethodWithError("adminService.transition", err, "bookingID", id)
		return nil, err
	}
	if err := s.bookingRepo.UpdateStatus(ctx, id, from, to); err != nil {
		logger.ExitMethodWithError("adminService.transition", err, "bookingID", id)
		return nil, err
	}
	booking.Status = to

	logger.ExitMethod("adminService.transition", "bookingID", id, "status", to)
	return booking, nil
}

// ResendEmail sends a booking email again on an admin's request.
func (s *adminService) ResendEmail(ctx context.Context, id string, emailType domain.EmailType) error {
	if !emailType.Valid() {
		verr := domain.NewValidationError()
		verr.Add("type", "must be one of: invoice, receipt")
		return verr
	}
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	items, err := s.bookingRepo.GetItems(ctx, id)
	if err != nil {
		return err
	}
	return s.emailSvc.Send(ctx, emailType, booking, items)
}
