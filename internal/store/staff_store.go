package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/engineers-ent/backend-nirman/internal/auth"
)

// GetStaffByEmail fetches a staff account for login.
func (s *Store) GetStaffByEmail(ctx context.Context, email string) (auth.Staff, error) {
	return s.staffBy(ctx, "lower(email) = lower($1)", strings.TrimSpace(email))
}

// GetStaffByID fetches a staff account by id.
func (s *Store) GetStaffByID(ctx context.Context, id string) (auth.Staff, error) {
	return s.staffBy(ctx, "id = $1", id)
}

func (s *Store) staffBy(ctx context.Context, cond string, arg any) (auth.Staff, error) {
	var staff auth.Staff
	err := s.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT id, email, name, role, password_hash, created_at
		FROM staff_users WHERE %s`, cond), arg).
		Scan(&staff.ID, &staff.Email, &staff.Name, &staff.Role, &staff.PasswordHash, &staff.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Staff{}, auth.ErrStaffNotFound
		}
		return auth.Staff{}, fmt.Errorf("get staff: %w", err)
	}
	return staff, nil
}

// CreateStaff inserts a staff account, assigning its id.
func (s *Store) CreateStaff(ctx context.Context, staff auth.Staff) (auth.Staff, error) {
	staff.ID = uuid.NewString()
	staff.CreatedAt = time.Now().UTC()
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO staff_users (id, email, name, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		staff.ID, strings.ToLower(strings.TrimSpace(staff.Email)), staff.Name,
		staff.Role, staff.PasswordHash, staff.CreatedAt)
	if err != nil {
		return auth.Staff{}, fmt.Errorf("insert staff: %w", err)
	}
	return staff, nil
}
