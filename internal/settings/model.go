package settings

import (
	"time"

	"github.com/google/uuid"
)

// NotificationSetting holds a member's per-group SMS preferences.
// A missing row means both flags are on.
type NotificationSetting struct {
	UserID           uuid.UUID `json:"user_id"`
	GroupID          uuid.UUID `json:"group_id"`
	DailyQuestionSMS bool      `json:"daily_question_sms"`
	MessageSMS       bool      `json:"message_sms"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Default returns the implicit setting for a member without a stored row
func Default(userID, groupID uuid.UUID) *NotificationSetting {
	return &NotificationSetting{
		UserID:           userID,
		GroupID:          groupID,
		DailyQuestionSMS: true,
		MessageSMS:       true,
	}
}

// UpdateSettingsRequest changes one or both flags
type UpdateSettingsRequest struct {
	DailyQuestionSMS *bool `json:"daily_question_sms,omitempty"`
	MessageSMS       *bool `json:"message_sms,omitempty" validate:"required_without=DailyQuestionSMS"`
}
