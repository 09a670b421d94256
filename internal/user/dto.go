package user

import "github.com/google/uuid"

// UpdateProfileRequest represents the request body for creating or updating the caller's profile
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=50"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,e164"`
}

// SetMutedRequest toggles the global SMS kill switch
type SetMutedRequest struct {
	Muted *bool `json:"muted" validate:"required"`
}

// ProfileResponse represents the response for a single profile
type ProfileResponse struct {
	ID                 uuid.UUID `json:"id"`
	DisplayName        string    `json:"display_name"`
	PhoneNumber        *string   `json:"phone_number,omitempty"`
	NotificationsMuted bool      `json:"notifications_muted"`
	CreatedAt          string    `json:"created_at"`
}

// ToResponse converts a Profile model to a ProfileResponse DTO
func (p *Profile) ToResponse() *ProfileResponse {
	return &ProfileResponse{
		ID:                 p.ID,
		DisplayName:        p.DisplayName,
		PhoneNumber:        p.PhoneNumber,
		NotificationsMuted: p.NotificationsMuted,
		CreatedAt:          p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
