package http_test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/email"
	"eventrent-backend/internal/service"
	"eventrent-backend/internal/utils"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListItems(ctx context.Context, category *domain.ItemCategory) ([]domain.RentalItem, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalItem), args.Error(1)
}
func (m *MockCatalogService) GetItem(ctx context.Context, id string) (*domain.RentalItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalItem), args.Error(1)
}
func (m *MockCatalogService) Quote(ctx context.Context, id string, quantity int, pickupDate, returnDate *time.Time) (*domain.RentalItem, utils.Quote, error) {
	args := m.Called(ctx, id, quantity, pickupDate, returnDate)
	if args.Get(0) == nil {
		return nil, utils.Quote{}, args.Error(2)
	}
	return args.Get(0).(*domain.RentalItem), args.Get(1).(utils.Quote), args.Error(2)
}

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, sessionID string, req service.CheckoutRequest) (*domain.Booking, []domain.BookingLineItem, error) {
	args := m.Called(ctx, sessionID, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Booking), args.Get(1).([]domain.BookingLineItem), args.Error(2)
}
func (m *MockCheckoutService) LastInvoice(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, email, password string) (*domain.AdminUser, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}
func (m *MockAuthService) SignIn(ctx context.Context, creds service.Credentials) (*service.AdminSession, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdminSession), args.Error(1)
}
func (m *MockAuthService) Authenticate(ctx context.Context, creds service.Credentials) (*domain.Identity, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
func (m *MockAuthService) Authorize(ctx context.Context, identity *domain.Identity) (domain.Role, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(domain.Role), args.Error(1)
}
func (m *MockAuthService) SignOut(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *MockAuthService) GrantRole(ctx context.Context, email string, role domain.Role) error {
	return m.Called(ctx, email, role).Error(0)
}
func (m *MockAuthService) BootstrapAdmins(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Dashboard(ctx context.Context) (*domain.BookingStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingStats), args.Error(1)
}
func (m *MockAdminService) ListItems(ctx context.Context) ([]domain.RentalItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalItem), args.Error(1)
}
func (m *MockAdminService) CreateItem(ctx context.Context, item *domain.RentalItem) error {
	return m.Called(ctx, item).Error(0)
}
func (m *MockAdminService) UpdateItem(ctx context.Context, item *domain.RentalItem) error {
	return m.Called(ctx, item).Error(0)
}
func (m *MockAdminService) DeleteItem(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockAdminService) SetItemImage(ctx context.Context, id, contentType string, r io.Reader) (*domain.RentalItem, error) {
	args := m.Called(ctx, id, contentType, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalItem), args.Error(1)
}
func (m *MockAdminService) ListBookings(ctx context.Context, status *domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockAdminService) GetBooking(ctx context.Context, id string) (*service.BookingDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookingDetail), args.Error(1)
}
func (m *MockAdminService) ApproveBooking(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockAdminService) RejectBooking(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockAdminService) CompleteBooking(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockAdminService) ResendEmail(ctx context.Context, id string, emailType domain.EmailType) error {
	return m.Called(ctx, id, emailType).Error(0)
}

type MockEmailFunction struct {
	mock.Mock
}

func (m *MockEmailFunction) Handle(ctx context.Context, req email.Request) error {
	return m.Called(ctx, req).Error(0)
}
