package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/smarttransit/schedule-admin/internal/models"
)

// AdminUserRepository handles database operations for admin_users
type AdminUserRepository struct {
	db DB
}

// NewAdminUserRepository creates a new AdminUserRepository
func NewAdminUserRepository(db DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// GetByEmail retrieves an admin user by email; (nil, nil) when none exists
func (r *AdminUserRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var user models.AdminUser

	query := `
		SELECT id, email, password_hash, full_name, is_active,
		       last_login_at, created_at, updated_at
		FROM admin_users
		WHERE LOWER(email) = $1
	`

	err := r.db.GetContext(ctx, &user, query, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin user by email: %w", err)
	}

	return &user, nil
}

// GetByID retrieves an admin user by ID; (nil, nil) when none exists
func (r *AdminUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	var user models.AdminUser

	query := `
		SELECT id, email, password_hash, full_name, is_active,
		       last_login_at, created_at, updated_at
		FROM admin_users
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin user by id: %w", err)
	}

	return &user, nil
}

// UpdateLastLogin stamps last_login_at with the current time
func (r *AdminUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE admin_users
		SET last_login_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("admin user not found")
	}

	return nil
}
