package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/repository"

	"github.com/google/uuid"
)

type adminUserRepository struct {
	db *sql.DB
}

func NewAdminUserRepository(db *sql.DB) repository.AdminUserRepository {
	return &adminUserRepository{db: db}
}

func (r *adminUserRepository) Create(ctx context.Context, u *domain.AdminUser) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedOn = time.Now().UTC()

	query := `INSERT INTO admin_users (id, email, password_hash, external_uid, created_on) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.ExternalUID, u.CreatedOn)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert admin user: %w", err)
	}
	return nil
}

func (r *adminUserRepository) get(ctx context.Context, where string, arg any) (*domain.AdminUser, error) {
	query := `SELECT id, email, password_hash, external_uid, created_on FROM admin_users WHERE ` + where
	u := &domain.AdminUser{}
	var externalUID sql.NullString
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &externalUID, &u.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get admin user: %w", err)
	}
	if externalUID.Valid {
		u.ExternalUID = &externalUID.String
	}
	return u, nil
}

func (r *adminUserRepository) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	return r.get(ctx, "id = $1", id)
}

func (r *adminUserRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	return r.get(ctx, "LOWER(email) = LOWER($1)", email)
}

func (r *adminUserRepository) GetByExternalUID(ctx context.Context, uid string) (*domain.AdminUser, error) {
	return r.get(ctx, "external_uid = $1", uid)
}
