package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/service"
)

func sampleBooking() (*domain.Booking, []domain.BookingLineItem) {
	return &domain.Booking{
			ID:            "b7e2c1d0-aaaa-bbbb-cccc-000000000001",
			CustomerName:  "Ama Mensah",
			CustomerEmail: "ama@example.com",
			Status:        domain.BookingStatusPending,
		}, []domain.BookingLineItem{
			{ItemName: "Plastic Chair", Quantity: 50, DailyPriceCents: 500, RentalDays: 2, SubtotalCents: 50000},
		}
}

func TestEmailService_Send(t *testing.T) {
	ctx := context.Background()
	booking, items := sampleBooking()

	t.Run("Success", func(t *testing.T) {
		dispatcher := new(MockDispatcher)
		outbox := new(MockOutboxRepo)
		svc := service.NewEmailService(dispatcher, outbox, nil, 5)
		dispatcher.On("SendBookingEmail", ctx, domain.EmailTypeInvoice, booking, items).Return(nil).Once()

		require.NoError(t, svc.Send(ctx, domain.EmailTypeInvoice, booking, items))
		outbox.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	})

	t.Run("Failure is queued", func(t *testing.T) {
		dispatcher := new(MockDispatcher)
		outbox := new(MockOutboxRepo)
		svc := service.NewEmailService(dispatcher, outbox, nil, 5)
		dispatcher.On("SendBookingEmail", ctx, domain.EmailTypeReceipt, booking, items).Return(errors.New("smtp timeout")).Once()
		outbox.On("Enqueue", ctx, mock.MatchedBy(func(e *domain.EmailOutboxEntry) bool {
			return e.BookingID == booking.ID && e.Type == domain.EmailTypeReceipt && e.Attempts == 1 &&
				e.Status == domain.OutboxStatusPending && e.LastError == "smtp timeout" && e.NextAttemptOn.After(time.Now())
		})).Return(nil).Once()

		err := svc.Send(ctx, domain.EmailTypeReceipt, booking, items)
		assert.ErrorIs(t, err, domain.ErrEmailDelivery)
		outbox.AssertExpectations(t)
	})

	t.Run("Rejected payload is dead at once", func(t *testing.T) {
		dispatcher := new(MockDispatcher)
		outbox := new(MockOutboxRepo)
		svc := service.NewEmailService(dispatcher, outbox, nil, 5)
		verr := domain.NewValidationError()
		verr.Add("booking.customer_email", "must be a valid email address")
		dispatcher.On("SendBookingEmail", ctx, domain.EmailTypeInvoice, booking, items).Return(verr).Once()
		outbox.On("Enqueue", ctx, mock.MatchedBy(func(e *domain.EmailOutboxEntry) bool {
			return e.Status == domain.OutboxStatusDead
		})).Return(nil).Once()

		assert.Error(t, svc.Send(ctx, domain.EmailTypeInvoice, booking, items))
		outbox.AssertExpectations(t)
	})
}

func TestEmailService_RetryDue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	booking, items := sampleBooking()

	dispatcher := new(MockDispatcher)
	outbox := new(MockOutboxRepo)
	bookings := new(MockBookingRepo)
	svc := service.NewEmailService(dispatcher, outbox, bookings, 3)

	due := []domain.EmailOutboxEntry{
		{ID: 1, BookingID: booking.ID, Type: domain.EmailTypeInvoice, Attempts: 1, Status: domain.OutboxStatusPending},
		{ID: 2, BookingID: booking.ID, Type: domain.EmailTypeReceipt, Attempts: 1, Status: domain.OutboxStatusPending},
		{ID: 3, BookingID: booking.ID, Type: domain.EmailTypeReceipt, Attempts: 2, Status: domain.OutboxStatusPending},
		{ID: 4, BookingID: "gone", Type: domain.EmailTypeInvoice, Attempts: 1, Status: domain.OutboxStatusPending},
	}
	outbox.On("ListDue", ctx, now, 50).Return(due, nil).Once()
	bookings.On("GetByID", ctx, booking.ID).Return(booking, nil)
	bookings.On("GetItems", ctx, booking.ID).Return(items, nil)
	bookings.On("GetByID", ctx, "gone").Return(nil, domain.ErrBookingNotFound)

	dispatcher.On("SendBookingEmail", ctx, domain.EmailTypeInvoice, booking, items).Return(nil).Once()
	dispatcher.On("SendBookingEmail", ctx, domain.EmailTypeReceipt, booking, items).Return(errors.New("rate limited")).Twice()

	outbox.On("MarkSent", ctx, int64(1)).Return(nil).Once()
	outbox.On("MarkFailed", ctx, mock.MatchedBy(func(e *domain.EmailOutboxEntry) bool {
		return e.ID == 2 && e.Attempts == 2 && e.Status == domain.OutboxStatusPending &&
			e.NextAttemptOn.Equal(now.Add(4*time.Minute)) && e.LastError == "rate limited"
	})).Return(nil).Once()
	outbox.On("MarkFailed", ctx, mock.MatchedBy(func(e *domain.EmailOutboxEntry) bool {
		return e.ID == 3 && e.Attempts == 3 && e.Status == domain.OutboxStatusDead
	})).Return(nil).Once()
	outbox.On("MarkFailed", ctx, mock.MatchedBy(func(e *domain.EmailOutboxEntry) bool {
		return e.ID == 4 && e.Status == domain.OutboxStatusDead
	})).Return(nil).Once()

	sent, failed, err := svc.RetryDue(ctx, now, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 3, failed)
	outbox.AssertExpectations(t)
	dispatcher.AssertExpectations(t)
}

func TestEmailService_PurgeSent(t *testing.T) {
	ctx := context.Background()
	outbox := new(MockOutboxRepo)
	svc := service.NewEmailService(nil, outbox, nil, 5)
	cutoff := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	outbox.On("PurgeSent", ctx, cutoff).Return(int64(7), nil).Once()

	n, err := svc.PurgeSent(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}
