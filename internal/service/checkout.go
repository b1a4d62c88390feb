package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventrent-backend/internal/cart"
	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/email"
	"eventrent-backend/internal/logger"
	"eventrent-backend/internal/repository"
)

// CheckoutRequest holds the customer details collected at checkout.
type CheckoutRequest struct {
	CustomerName    string              `json:"customer_name" validate:"required,max=200"`
	CustomerEmail   string              `json:"customer_email" validate:"required,contains=@,max=320"`
	CustomerPhone   string              `json:"customer_phone" validate:"required,max=50"`
	PickupMethod    domain.PickupMethod `json:"pickup_method" validate:"required,oneof=self-pickup delivery"`
	DeliveryAddress string              `json:"delivery_address" validate:"required_if=PickupMethod delivery,max=1000"`
}

func (r *CheckoutRequest) normalize() {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerEmail = strings.TrimSpace(r.CustomerEmail)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.DeliveryAddress = strings.TrimSpace(r.DeliveryAddress)
	if r.PickupMethod == "" {
		r.PickupMethod = domain.PickupMethodSelf
	}
}

type checkoutService struct {
	bookingRepo repository.BookingRepository
	cartRepo    repository.CartRepository
	emailSvc    EmailService
	renderer    *email.Renderer

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewCheckoutService(
	bookingRepo repository.BookingRepository,
	cartRepo repository.CartRepository,
	emailSvc EmailService,
	renderer *email.Renderer,
) CheckoutService {
	return &checkoutService{
		bookingRepo: bookingRepo,
		cartRepo:    cartRepo,
		emailSvc:    emailSvc,
		renderer:    renderer,
		inFlight:    make(map[string]struct{}),
	}
}

func (s *checkoutService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *checkoutService) end(sessionID string) {
	s.mu.Lock()
	delete(s.inFlight, sessionID)
	s.mu.Unlock()
}

// Checkout turns the session's cart into a pending booking. The invoice email
// is best effort: a failed send never fails the checkout.
func (s *checkoutService) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*domain.Booking, []domain.BookingLineItem, error) {
	logger.EnterMethod("checkoutService.Checkout")

	if sessionID == "" {
		return nil, nil, ErrMissingSession
	}

	req.normalize()
	if err := validateStruct(&req); err != nil {
		logger.ExitMethodWithError("checkoutService.Checkout", err)
		return nil, nil, err
	}

	if !s.begin(sessionID) {
		logger.ExitMethodWithError("checkoutService.Checkout", domain.ErrCheckoutInProgress)
		return nil, nil, domain.ErrCheckoutInProgress
	}
	defer s.end(sessionID)

	c, err := s.cartRepo.Load(ctx, sessionID)
	if err != nil {
		logger.ExitMethodWithError("checkoutService.Checkout", err)
		return nil, nil, err
	}
	if c.IsEmpty() {
		logger.ExitMethodWithError("checkoutService.Checkout", domain.ErrEmptyCart)
		return nil, nil, domain.ErrEmptyCart
	}

	booking, items := composeBooking(req, c)
	if err := s.bookingRepo.CreateWithItems(ctx, booking, items); err != nil {
		logger.ExitMethodWithError("checkoutService.Checkout", err)
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrBookingNotSaved, err)
	}

	if err := s.emailSvc.Send(ctx, domain.EmailTypeInvoice, booking, items); err != nil {
		logger.WarnContext(ctx, "Invoice email not sent, queued for retry", "bookingID", booking.ID, "error", err)
	}

	if err := s.cartRepo.Delete(ctx, sessionID); err != nil {
		logger.WarnContext(ctx, "Failed to clear cart after checkout", "bookingID", booking.ID, "error", err)
	}
	if err := s.cartRepo.SetLastBooking(ctx, sessionID, booking.ID); err != nil {
		logger.WarnContext(ctx, "Failed to remember last booking", "bookingID", booking.ID, "error", err)
	}

	logger.ExitMethod("checkoutService.Checkout", "bookingID", booking.ID, "items", len(items), "totalCents", booking.TotalCostCents)
	return booking, items, nil
}

// composeBooking builds the booking header and one line item per cart line.
// The header spans the earliest pickup and the latest return of all lines.
func composeBooking(req CheckoutRequest, c cart.Cart) (*domain.Booking, []domain.BookingLineItem) {
	pickupDate, returnDate, _ := c.DateRange()
	now := time.Now()

	booking := &domain.Booking{
		ID:             uuid.NewString(),
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerPhone:  req.CustomerPhone,
		PickupMethod:   req.PickupMethod,
		PickupDate:     pickupDate,
		ReturnDate:     returnDate,
		TotalCostCents: c.TotalCostCents(),
		Status:         domain.BookingStatusPending,
		CreatedOn:      now,
		UpdatedOn:      now,
	}
	if req.PickupMethod == domain.PickupMethodDelivery {
		address := req.DeliveryAddress
		booking.DeliveryAddress = &address
	}

	lines := c.Lines()
	items := make([]domain.BookingLineItem, 0, len(lines))
	for _, l := range lines {
		itemID := l.ItemID
		items = append(items, domain.BookingLineItem{
			BookingID:       booking.ID,
			ItemID:          &itemID,
			ItemName:        l.Name,
			Quantity:        l.Quantity,
			DailyPriceCents: l.DailyPriceCents,
			RentalDays:      l.RentalDays,
			SubtotalCents:   l.TotalPriceCents,
		})
	}
	return booking, items
}

func (s *checkoutService) LastInvoice(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrMissingSession
	}
	bookingID, err := s.cartRepo.LastBooking(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if bookingID == "" {
		return "", domain.ErrBookingNotFound
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return "", err
	}
	items, err := s.bookingRepo.GetItems(ctx, bookingID)
	if err != nil {
		return "", err
	}

	_, html, err := s.renderer.Render(domain.EmailTypeInvoice, booking, items)
	return html, err
}
