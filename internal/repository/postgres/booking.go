package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/logger"
	"eventrent-backend/internal/repository"
	"eventrent-backend/internal/utils"

	"github.com/google/uuid"
)

const bookingColumns = `id, customer_name, customer_email, customer_phone, pickup_method, delivery_address,
	pickup_date, return_date, total_cost_cents, status, created_on, updated_on`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	var address sql.NullString
	err := row.Scan(&b.ID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.PickupMethod, &address,
		&b.PickupDate, &b.ReturnDate, &b.TotalCostCents, &b.Status, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if address.Valid {
		b.DeliveryAddress = &address.String
	}
	b.PickupDate = utils.CalendarDate(b.PickupDate)
	b.ReturnDate = utils.CalendarDate(b.ReturnDate)
	return b, nil
}

func (r *bookingRepository) CreateWithItems(ctx context.Context, b *domain.Booking, items []domain.BookingLineItem) error {
	logger.EnterMethod("bookingRepository.CreateWithItems", "email", b.CustomerEmail, "items", len(items))

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedOn = now
	b.UpdatedOn = now

	err := WithTx(ctx, r.db, func(tx *sql.Tx) error {
		header := `
			INSERT INTO bookings (
				id, customer_name, customer_email, customer_phone, pickup_method, delivery_address,
				pickup_date, return_date, total_cost_cents, status, created_on, updated_on
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		logger.DatabaseCall("INSERT", "bookings", "bookingID", b.ID)
		if _, err := tx.ExecContext(ctx, header,
			b.ID, b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.PickupMethod, b.DeliveryAddress,
			utils.FormatDate(b.PickupDate), utils.FormatDate(b.ReturnDate), b.TotalCostCents, b.Status, now, now,
		); err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		line := `
			INSERT INTO booking_items (
				id, booking_id, item_id, item_name, quantity, daily_price_cents, rental_days, subtotal_cents
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		for i := range items {
			it := &items[i]
			if it.ID == "" {
				it.ID = uuid.NewString()
			}
			it.BookingID = b.ID
			if _, err := tx.ExecContext(ctx, line,
				it.ID, it.BookingID, it.ItemID, it.ItemName, it.Quantity, it.DailyPriceCents, it.RentalDays, it.SubtotalCents,
			); err != nil {
				return fmt.Errorf("insert booking item %q: %w", it.ItemName, err)
			}
		}
		logger.DatabaseResult("INSERT", int64(len(items)+1), nil, "bookingID", b.ID)
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.CreateWithItems", err, "bookingID", b.ID)
		return err
	}

	logger.ExitMethod("bookingRepository.CreateWithItems", "bookingID", b.ID)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *bookingRepository) GetItems(ctx context.Context, bookingID string) ([]domain.BookingLineItem, error) {
	query := `
		SELECT id, booking_id, item_id, item_name, quantity, daily_price_cents, rental_days, subtotal_cents
		FROM booking_items WHERE booking_id = $1 ORDER BY item_name
	`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list booking items: %w", err)
	}
	defer rows.Close()

	var items []domain.BookingLineItem
	for rows.Next() {
		var it domain.BookingLineItem
		var itemID sql.NullString
		if err := rows.Scan(&it.ID, &it.BookingID, &itemID, &it.ItemName, &it.Quantity,
			&it.DailyPriceCents, &it.RentalDays, &it.SubtotalCents); err != nil {
			return nil, fmt.Errorf("scan booking item: %w", err)
		}
		if itemID.Valid {
			it.ItemID = &itemID.String
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *bookingRepository) List(ctx context.Context, status *domain.BookingStatus) ([]domain.Booking, error) {
	logger.EnterMethod("bookingRepository.List", "status", status)

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	var args []any
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_on DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.List", err)
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.ExitMethod("bookingRepository.List", "count", len(bookings))
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	logger.EnterMethod("bookingRepository.UpdateStatus", "bookingID", id, "from", from, "to", to)

	query := `UPDATE bookings SET status = $1, updated_on = $2 WHERE id = $3 AND status = $4`
	logger.DatabaseCall("UPDATE", "bookings.status", "bookingID", id)
	res, err := r.db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "bookingID", id)
		return fmt.Errorf("update booking status: %w", err)
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "bookingID", id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if n == 0 {
		// Lost a race with another admin or the booking vanished.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInvalidStatusTransition
	}

	logger.ExitMethod("bookingRepository.UpdateStatus", "bookingID", id, "status", to)
	return nil
}

func (r *bookingRepository) Stats(ctx context.Context) (*domain.BookingStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM rental_items),
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COALESCE(SUM(total_cost_cents) FILTER (WHERE status IN ('confirmed', 'completed')), 0)
		FROM bookings
	`
	s := &domain.BookingStats{}
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.TotalItems, &s.TotalBookings, &s.PendingBookings, &s.RevenueCents); err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	return s, nil
}
