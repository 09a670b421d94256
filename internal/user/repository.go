package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Repository handles profile persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new profile repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const profileColumns = `id, display_name, phone_number, notifications_muted, created_at`

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	p := &Profile{}
	err := row.Scan(
		&p.ID,
		&p.DisplayName,
		&p.PhoneNumber,
		&p.NotificationsMuted,
		&p.CreatedAt,
	)
	return p, err
}

// GetByID retrieves a profile by ID, returning nil when none exists
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// Upsert creates the profile or applies the non-nil fields of req to it
func (r *Repository) Upsert(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	query := `
		INSERT INTO profiles (id, display_name, phone_number)
		VALUES ($1, COALESCE($2, ''), $3)
		ON CONFLICT (id) DO UPDATE
		SET display_name = COALESCE($2, profiles.display_name),
		    phone_number = COALESCE($3, profiles.phone_number)
		RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id, req.DisplayName, req.PhoneNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return p, nil
}

// SetMuted updates the global mute flag, returning nil when the profile does not exist
func (r *Repository) SetMuted(ctx context.Context, id uuid.UUID, muted bool) (*Profile, error) {
	query := `
		UPDATE profiles SET notifications_muted = $2
		WHERE id = $1
		RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id, muted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to set muted: %w", err)
	}
	return p, nil
}

// Delete removes a profile; memberships and settings cascade
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
