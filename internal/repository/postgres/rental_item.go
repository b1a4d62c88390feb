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

	"github.com/google/uuid"
)

const rentalItemColumns = `id, name, category, description, daily_price_cents, image_url,
	available_quantity, is_active, created_on, updated_on`

type rentalItemRepository struct {
	db *sql.DB
}

func NewRentalItemRepository(db *sql.DB) repository.RentalItemRepository {
	return &rentalItemRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRentalItem(row rowScanner) (*domain.RentalItem, error) {
	item := &domain.RentalItem{}
	err := row.Scan(&item.ID, &item.Name, &item.Category, &item.Description, &item.DailyPriceCents,
		&item.ImageURL, &item.AvailableQuantity, &item.IsActive, &item.CreatedOn, &item.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *rentalItemRepository) queryItems(ctx context.Context, query string, args ...any) ([]domain.RentalItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.RentalItem
	for rows.Next() {
		item, err := scanRentalItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *rentalItemRepository) ListActive(ctx context.Context, category *domain.ItemCategory) ([]domain.RentalItem, error) {
	logger.EnterMethod("rentalItemRepository.ListActive", "category", category)

	query := `SELECT ` + rentalItemColumns + ` FROM rental_items WHERE is_active = TRUE`
	var args []any
	if category != nil {
		query += ` AND category = $1`
		args = append(args, *category)
	}
	query += ` ORDER BY name`

	logger.DatabaseCall("SELECT", "rental_items.list_active")
	items, err := r.queryItems(ctx, query, args...)
	logger.DatabaseResult("SELECT", int64(len(items)), err)
	if err != nil {
		logger.ExitMethodWithError("rentalItemRepository.ListActive", err)
		return nil, fmt.Errorf("list active items: %w", err)
	}

	logger.ExitMethod("rentalItemRepository.ListActive", "count", len(items))
	return items, nil
}

func (r *rentalItemRepository) ListAll(ctx context.Context) ([]domain.RentalItem, error) {
	query := `SELECT ` + rentalItemColumns + ` FROM rental_items ORDER BY created_on DESC`
	items, err := r.queryItems(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (r *rentalItemRepository) GetByID(ctx context.Context, id string) (*domain.RentalItem, error) {
	query := `SELECT ` + rentalItemColumns + ` FROM rental_items WHERE id = $1`
	item, err := scanRentalItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

func (r *rentalItemRepository) Create(ctx context.Context, item *domain.RentalItem) error {
	logger.EnterMethod("rentalItemRepository.Create", "name", item.Name)

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	item.CreatedOn = now
	item.UpdatedOn = now

	query := `
		INSERT INTO rental_items (
			id, name, category, description, daily_price_cents, image_url,
			available_quantity, is_active, created_on, updated_on
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Name, item.Category, item.Description, item.DailyPriceCents, item.ImageURL,
		item.AvailableQuantity, item.IsActive, item.CreatedOn, item.UpdatedOn,
	)
	if err != nil {
		logger.ExitMethodWithError("rentalItemRepository.Create", err, "name", item.Name)
		return fmt.Errorf("insert item: %w", err)
	}

	logger.ExitMethod("rentalItemRepository.Create", "itemID", item.ID)
	return nil
}

func (r *rentalItemRepository) Update(ctx context.Context, item *domain.RentalItem) error {
	logger.EnterMethod("rentalItemRepository.Update", "itemID", item.ID)

	item.UpdatedOn = time.Now().UTC()
	query := `
		UPDATE rental_items SET
			name = $1,
			category = $2,
			description = $3,
			daily_price_cents = $4,
			image_url = $5,
			available_quantity = $6,
			is_active = $7,
			updated_on = $8
		WHERE id = $9
	`
	res, err := r.db.ExecContext(ctx, query,
		item.Name, item.Category, item.Description, item.DailyPriceCents, item.ImageURL,
		item.AvailableQuantity, item.IsActive, item.UpdatedOn, item.ID,
	)
	if err != nil {
		logger.ExitMethodWithError("rentalItemRepository.Update", err, "itemID", item.ID)
		return fmt.Errorf("update item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrItemNotFound
	}

	logger.ExitMethod("rentalItemRepository.Update", "itemID", item.ID)
	return nil
}

func (r *rentalItemRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rental_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrItemNotFound
	}
	logger.Info("Rental item deleted", "itemID", id)
	return nil
}
