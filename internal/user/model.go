package user

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the app-side record for an identity-provider user
type Profile struct {
	ID                 uuid.UUID `json:"id"`
	DisplayName        string    `json:"display_name"`
	PhoneNumber        *string   `json:"phone_number,omitempty"` // E.164
	NotificationsMuted bool      `json:"notifications_muted"`    // global kill switch for SMS
	CreatedAt          time.Time `json:"created_at"`
}

// Phone returns the stored phone number or ""
func (p *Profile) Phone() string {
	if p == nil || p.PhoneNumber == nil {
		return ""
	}
	return *p.PhoneNumber
}
