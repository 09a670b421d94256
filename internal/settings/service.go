package settings

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence the service needs
type Store interface {
	Get(ctx context.Context, userID, groupID uuid.UUID) (*NotificationSetting, error)
	Upsert(ctx context.Context, userID, groupID uuid.UUID, req *UpdateSettingsRequest) (*NotificationSetting, error)
}

// MembershipChecker guards settings to members of the group
type MembershipChecker interface {
	RequireMember(ctx context.Context, groupID, userID uuid.UUID) error
}

// Service handles notification setting business logic
type Service struct {
	repo    Store
	members MembershipChecker
}

// NewService creates a new settings service
func NewService(repo Store, members MembershipChecker) *Service {
	return &Service{repo: repo, members: members}
}

// Get returns the member's settings for the group, defaulting both flags on
func (s *Service) Get(ctx context.Context, userID, groupID uuid.UUID) (*NotificationSetting, error) {
	if err := s.members.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	setting, err := s.repo.Get(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return Default(userID, groupID), nil
	}
	return setting, nil
}

// Update changes the member's settings for the group
func (s *Service) Update(ctx context.Context, userID, groupID uuid.UUID, req *UpdateSettingsRequest) (*NotificationSetting, error) {
	if err := s.members.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.repo.Upsert(ctx, userID, groupID, req)
}
