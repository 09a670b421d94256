package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Repository handles notification setting persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settings repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get retrieves the stored setting, returning nil when the member has none
func (r *Repository) Get(ctx context.Context, userID, groupID uuid.UUID) (*NotificationSetting, error) {
	query := `
		SELECT user_id, group_id, daily_question_sms, message_sms, updated_at
		FROM notification_settings
		WHERE user_id = $1 AND group_id = $2
	`

	s := &NotificationSetting{}
	err := r.db.QueryRowContext(ctx, query, userID, groupID).Scan(
		&s.UserID,
		&s.GroupID,
		&s.DailyQuestionSMS,
		&s.MessageSMS,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification settings: %w", err)
	}
	return s, nil
}

// Upsert applies the non-nil flags, creating the row with defaults when absent
func (r *Repository) Upsert(ctx context.Context, userID, groupID uuid.UUID, req *UpdateSettingsRequest) (*NotificationSetting, error) {
	query := `
		INSERT INTO notification_settings (user_id, group_id, daily_question_sms, message_sms)
		VALUES ($1, $2, COALESCE($3, TRUE), COALESCE($4, TRUE))
		ON CONFLICT (user_id, group_id) DO UPDATE
		SET daily_question_sms = COALESCE($3, notification_settings.daily_question_sms),
		    message_sms = COALESCE($4, notification_settings.message_sms),
		    updated_at = NOW()
		RETURNING user_id, group_id, daily_question_sms, message_sms, updated_at
	`

	s := &NotificationSetting{}
	err := r.db.QueryRowContext(ctx, query, userID, groupID, req.DailyQuestionSMS, req.MessageSMS).Scan(
		&s.UserID,
		&s.GroupID,
		&s.DailyQuestionSMS,
		&s.MessageSMS,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert notification settings: %w", err)
	}
	return s, nil
}
