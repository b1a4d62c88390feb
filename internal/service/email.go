package service

import (
	"context"
	"errors"
	"time"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/logger"
	"eventrent-backend/internal/repository"
)

// retryBaseDelay is the wait before the first retry. Attempt n waits n² times
// as long.
const retryBaseDelay = time.Minute

type emailService struct {
	dispatcher  EmailDispatcher
	outboxRepo  repository.EmailOutboxRepository
	bookingRepo repository.BookingRepository
	maxAttempts int
	now         func() time.Time
}

func NewEmailService(
	dispatcher EmailDispatcher,
	outboxRepo repository.EmailOutboxRepository,
	bookingRepo repository.BookingRepository,
	maxAttempts int,
) EmailService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &emailService{
		dispatcher:  dispatcher,
		outboxRepo:  outboxRepo,
		bookingRepo: bookingRepo,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

func backoff(attempts int) time.Duration {
	return retryBaseDelay * time.Duration(attempts*attempts)
}

// Send dispatches the email once. On failure the email is queued in the
// outbox and the dispatch error is returned for the caller to log.
func (s *emailService) Send(ctx context.Context, emailType domain.EmailType, booking *domain.Booking, items []domain.BookingLineItem) error {
	logger.ExternalServiceCall("email", "SendBookingEmail", "type", emailType, "bookingID", booking.ID)
	err := s.dispatcher.SendBookingEmail(ctx, emailType, booking, items)
	logger.ExternalServiceResult("email", "SendBookingEmail", err, "type", emailType, "bookingID", booking.ID)
	if err == nil {
		return nil
	}

	entry := &domain.EmailOutboxEntry{
		BookingID: booking.ID,
		Type:      emailType,
		Attempts:  1,
		LastError: err.Error(),
		Status:    domain.OutboxStatusPending,
	}
	s.schedule(entry, s.now(), permanent(err))
	if qerr := s.outboxRepo.Enqueue(ctx, entry); qerr != nil {
		logger.ErrorContext(ctx, "Failed to queue email for retry", "bookingID", booking.ID, "type", emailType, "error", qerr)
	}
	return errors.Join(domain.ErrEmailDelivery, err)
}

// permanent reports failures a retry cannot fix.
func permanent(err error) bool {
	var verr *domain.ValidationError
	return errors.As(err, &verr) || errors.Is(err, domain.ErrBookingNotFound)
}

// schedule sets the next attempt time, or marks the entry dead once it has
// used all attempts or failed permanently.
func (s *emailService) schedule(entry *domain.EmailOutboxEntry, now time.Time, dead bool) {
	if dead || entry.Attempts >= s.maxAttempts {
		entry.Status = domain.OutboxStatusDead
	}
	entry.NextAttemptOn = now.Add(backoff(entry.Attempts))
}

// RetryDue re-sends up to limit due outbox entries. Booking data is read
// fresh so a retried receipt reflects the current booking.
func (s *emailService) RetryDue(ctx context.Context, now time.Time, limit int) (int, int, error) {
	logger.EnterMethod("emailService.RetryDue", "limit", limit)

	entries, err := s.outboxRepo.ListDue(ctx, now, limit)
	if err != nil {
		logger.ExitMethodWithError("emailService.RetryDue", err)
		return 0, 0, err
	}

	sent, failed := 0, 0
	for i := range entries {
		entry := &entries[i]

		sendErr := s.resend(ctx, entry)
		if sendErr == nil {
			if err := s.outboxRepo.MarkSent(ctx, entry.ID); err != nil {
				logger.ErrorContext(ctx, "Failed to mark email sent", "outboxID", entry.ID, "error", err)
			}
			sent++
			continue
		}

		failed++
		entry.Attempts++
		entry.LastError = sendErr.Error()
		s.schedule(entry, now, permanent(sendErr))
		if err := s.outboxRepo.MarkFailed(ctx, entry); err != nil {
			logger.ErrorContext(ctx, "Failed to record email failure", "outboxID", entry.ID, "error", err)
		}
	}

	logger.ExitMethod("emailService.RetryDue", "due", len(entries), "sent", sent, "failed", failed)
	return sent, failed, nil
}

func (s *emailService) resend(ctx context.Context, entry *domain.EmailOutboxEntry) error {
	booking, err := s.bookingRepo.GetByID(ctx, entry.BookingID)
	if err != nil {
		return err
	}
	items, err := s.bookingRepo.GetItems(ctx, entry.BookingID)
	if err != nil {
		return err
	}
	return s.dispatcher.SendBookingEmail(ctx, entry.Type, booking, items)
}

func (s *emailService) PurgeSent(ctx context.Context, olderThan time.Time) (int64, error) {
	return s.outboxRepo.PurgeSent(ctx, olderThan)
}
