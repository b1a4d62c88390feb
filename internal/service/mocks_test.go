package service_test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/service"
)

type MockRentalItemRepo struct {
	mock.Mock
}

func (m *MockRentalItemRepo) ListActive(ctx context.Context, category *domain.ItemCategory) ([]domain.RentalItem, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalItem), args.Error(1)
}
func (m *MockRentalItemRepo) ListAll(ctx context.Context) ([]domain.RentalItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalItem), args.Error(1)
}
func (m *MockRentalItemRepo) GetByID(ctx context.Context, id string) (*domain.RentalItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalItem), args.Error(1)
}
func (m *MockRentalItemRepo) Create(ctx context.Context, item *domain.RentalItem) error {
	return m.Called(ctx, item).Error(0)
}
func (m *MockRentalItemRepo) Update(ctx context.Context, item *domain.RentalItem) error {
	return m.Called(ctx, item).Error(0)
}
func (m *MockRentalItemRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) CreateWithItems(ctx context.Context, booking *domain.Booking, items []domain.BookingLineItem) error {
	return m.Called(ctx, booking, items).Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) GetItems(ctx context.Context, bookingID string) ([]domain.BookingLineItem, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingLineItem), args.Error(1)
}
func (m *MockBookingRepo) List(ctx context.Context, status *domain.BookingStatus) ([]domain.Booking, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}
func (m *MockBookingRepo) Stats(ctx context.Context) (*domain.BookingStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingStats), args.Error(1)
}

type MockAdminUserRepo struct {
	mock.Mock
}

func (m *MockAdminUserRepo) Create(ctx context.Context, user *domain.AdminUser) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockAdminUserRepo) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}
func (m *MockAdminUserRepo) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}
func (m *MockAdminUserRepo) GetByExternalUID(ctx context.Context, uid string) (*domain.AdminUser, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

type MockRoleRepo struct {
	mock.Mock
}

func (m *MockRoleRepo) HasRole(ctx context.Context, userID string, role domain.Role) (bool, error) {
	args := m.Called(ctx, userID, role)
	return args.Bool(0), args.Error(1)
}
func (m *MockRoleRepo) Grant(ctx context.Context, grant *domain.RoleGrant) error {
	return m.Called(ctx, grant).Error(0)
}

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Enqueue(ctx context.Context, entry *domain.EmailOutboxEntry) error {
	return m.Called(ctx, entry).Error(0)
}
func (m *MockOutboxRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.EmailOutboxEntry, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmailOutboxEntry), args.Error(1)
}
func (m *MockOutboxRepo) ListByBooking(ctx context.Context, bookingID string) ([]domain.EmailOutboxEntry, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmailOutboxEntry), args.Error(1)
}
func (m *MockOutboxRepo) MarkSent(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockOutboxRepo) MarkFailed(ctx context.Context, entry *domain.EmailOutboxEntry) error {
	return m.Called(ctx, entry).Error(0)
}
func (m *MockOutboxRepo) PurgeSent(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, emailType domain.EmailType, booking *domain.Booking, items []domain.BookingLineItem) error {
	return m.Called(ctx, emailType, booking, items).Error(0)
}
func (m *MockEmailService) RetryDue(ctx context.Context, now time.Time, limit int) (int, int, error) {
	args := m.Called(ctx, now, limit)
	return args.Int(0), args.Int(1), args.Error(2)
}
func (m *MockEmailService) PurgeSent(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) SendBookingEmail(ctx context.Context, emailType domain.EmailType, booking *domain.Booking, items []domain.BookingLineItem) error {
	return m.Called(ctx, emailType, booking, items).Error(0)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, contentType, r)
	return args.String(0), args.Error(1)
}
func (m *MockImageStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}
func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
func (m *MockImageStore) URL(key string) string {
	return m.Called(key).String(0)
}
func (m *MockImageStore) KeyFromURL(url string) (string, bool) {
	args := m.Called(url)
	return args.String(0), args.Bool(1)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) Name() string { return "mock" }
func (m *MockIdentityProvider) Register(ctx context.Context, email, password string) (*domain.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
func (m *MockIdentityProvider) Authenticate(ctx context.Context, creds service.Credentials) (*domain.Identity, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
func (m *MockIdentityProvider) SignOut(ctx context.Context, identity *domain.Identity) error {
	return m.Called(ctx, identity).Error(0)
}

type MockFirebaseClient struct {
	mock.Mock
}

func (m *MockFirebaseClient) VerifyIDToken(ctx context.Context, idToken string) (*domain.Identity, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
func (m *MockFirebaseClient) CreateUser(ctx context.Context, email, password string) (*domain.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
func (m *MockFirebaseClient) RevokeRefreshTokens(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}
