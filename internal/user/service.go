package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// Store is the persistence the service needs
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	Upsert(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*Profile, error)
	SetMuted(ctx context.Context, id uuid.UUID, muted bool) (*Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// IdentityDeleter removes the account at the identity provider
type IdentityDeleter interface {
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// Service handles profile business logic
type Service struct {
	repo       Store
	identities IdentityDeleter
}

// NewService creates a new user service
func NewService(repo Store, identities IdentityDeleter) *Service {
	return &Service{repo: repo, identities: identities}
}

// GetByID retrieves a profile
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrUserNotFound
	}
	return p, nil
}

// Update creates or updates the profile
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	return s.repo.Upsert(ctx, id, req)
}

// SetMuted flips the global notification kill switch
func (s *Service) SetMuted(ctx context.Context, id uuid.UUID, muted bool) (*Profile, error) {
	p, err := s.repo.SetMuted(ctx, id, muted)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrUserNotFound
	}
	return p, nil
}

// Delete removes the account at the identity provider first, then the profile
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if s.identities != nil {
		if err := s.identities.DeleteUser(ctx, id); err != nil {
			return fmt.Errorf("failed to delete identity: %w", err)
		}
	}
	return s.repo.Delete(ctx, id)
}
