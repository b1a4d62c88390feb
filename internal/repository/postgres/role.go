package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventrent-backend/internal/domain"
	"eventrent-backend/internal/repository"
)

type roleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) repository.RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) HasRole(ctx context.Context, userID string, role domain.Role) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, userID, role).Scan(&ok); err != nil {
		return false, fmt.Errorf("check role: %w", err)
	}
	return ok, nil
}

func (r *roleRepository) Grant(ctx context.Context, g *domain.RoleGrant) error {
	if g.GrantedOn.IsZero() {
		g.GrantedOn = time.Now().UTC()
	}
	query := `INSERT INTO user_roles (user_id, role, granted_on) VALUES ($1, $2, $3) ON CONFLICT (user_id, role) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, g.UserID, g.Role, g.GrantedOn); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}
