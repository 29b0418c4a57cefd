package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-service/internal/models"
)

const adminColumns = "id, email, hashed_password, full_name, is_active, created_at"

// GetAdminByEmail retrieves an admin credential record by its unique email.
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := s.db.GetContext(ctx, &admin,
		"SELECT "+adminColumns+" FROM admins WHERE email = $1", email)
	if err == sql.ErrNoRows {
		return nil, notFound("Admin", email)
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// CreateAdmin inserts a new admin record. Duplicate emails surface as a
// generic write failure from the unique index; there is no pre-check.
func (s *Store) CreateAdmin(ctx context.Context, a *models.Admin) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, hashed_password, full_name, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.Email, a.HashedPassword, a.FullName, a.IsActive, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}
