package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/logger"
	"eventrent-backend/internal/repository"
)

const outboxColumns = `id, booking_id, type, attempts, last_error, status, next_attempt_on, created_on, updated_on`

type emailOutboxRepository struct {
	db *sql.DB
}

func NewEmailOutboxRepository(db *sql.DB) repository.EmailOutboxRepository {
	return &emailOutboxRepository{db: db}
}

func (r *emailOutboxRepository) Enqueue(ctx context.Context, e *domain.EmailOutboxEntry) error {
	now := time.Now().UTC()
	if e.Status == "" {
		e.Status = domain.OutboxStatusPending
	}
	if e.NextAttemptOn.IsZero() {
		e.NextAttemptOn = now
	}
	e.CreatedOn = now
	e.UpdatedOn = now

	query := `
		INSERT INTO email_outbox (booking_id, type, attempts, last_error, status, next_attempt_on, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		e.BookingID, e.Type, e.Attempts, e.LastError, e.Status, e.NextAttemptOn, e.CreatedOn, e.UpdatedOn,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	return nil
}

func (r *emailOutboxRepository) list(ctx context.Context, query string, args ...any) ([]domain.EmailOutboxEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.EmailOutboxEntry
	for rows.Next() {
		var e domain.EmailOutboxEntry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.Type, &e.Attempts, &e.LastError, &e.Status,
			&e.NextAttemptOn, &e.CreatedOn, &e.UpdatedOn); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *emailOutboxRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.EmailOutboxEntry, error) {
	query := `SELECT ` + outboxColumns + ` FROM email_outbox
		WHERE status = 'pending' AND next_attempt_on <= $1
		ORDER BY next_attempt_on
		LIMIT $2`
	logger.DatabaseCall("SELECT", "email_outbox.due", "limit", limit)
	entries, err := r.list(ctx, query, now, limit)
	logger.DatabaseResult("SELECT", int64(len(entries)), err)
	if err != nil {
		return nil, fmt.Errorf("list due emails: %w", err)
	}
	return entries, nil
}

func (r *emailOutboxRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.EmailOutboxEntry, error) {
	query := `SELECT ` + outboxColumns + ` FROM email_outbox WHERE booking_id = $1 ORDER BY created_on DESC`
	entries, err := r.list(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list booking emails: %w", err)
	}
	return entries, nil
}

func (r *emailOutboxRepository) MarkSent(ctx context.Context, id int64) error {
	query := `UPDATE email_outbox SET status = 'sent', last_error = '', updated_on = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark email sent: %w", err)
	}
	return nil
}

func (r *emailOutboxRepository) MarkFailed(ctx context.Context, e *domain.EmailOutboxEntry) error {
	e.UpdatedOn = time.Now().UTC()
	query := `UPDATE email_outbox SET attempts = $1, last_error = $2, status = $3, next_attempt_on = $4, updated_on = $5 WHERE id = $6`
	if _, err := r.db.ExecContext(ctx, query, e.Attempts, e.LastError, e.Status, e.NextAttemptOn, e.UpdatedOn, e.ID); err != nil {
		return fmt.Errorf("mark email failed: %w", err)
	}
	return nil
}

func (r *emailOutboxRepository) PurgeSent(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM email_outbox WHERE status = 'sent' AND updated_on < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("purge sent emails: %w", err)
	}
	return res.RowsAffected()
}
