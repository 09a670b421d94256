package group

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrNotMember      = errors.New("not a member of this group")
	ErrMemberNotFound = errors.New("member not found")
)

// Store is the persistence the service needs
type Store interface {
	Create(ctx context.Context, ownerID uuid.UUID, req *CreateGroupRequest) (*Group, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Group, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Group, int, error)
	AddMember(ctx context.Context, groupID, userID uuid.UUID) error
	GetMembers(ctx context.Context, groupID uuid.UUID) ([]*Member, error)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error
}

// Service handles group business logic
type Service struct {
	repo Store
}

// NewService creates a new group service
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Create creates a new group with the creator as admin
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, req *CreateGroupRequest) (*Group, error) {
	return s.repo.Create(ctx, creatorID, req)
}

// GetByIDWithMembers retrieves a group and its members; the caller must be a member
func (s *Service) GetByIDWithMembers(ctx context.Context, id, callerID uuid.UUID) (*Group, []*Member, error) {
	group, err := s.requireMember(ctx, id, callerID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// ListByUserID retrieves the user's groups with pagination
func (s *Service) ListByUserID(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*Group, int, error) {
	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// Join adds the user to an existing group
func (s *Service) Join(ctx context.Context, groupID, userID uuid.UUID) (*Group, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	if err := s.repo.AddMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return group, nil
}

// Leave removes the user's membership and per-group notification settings
func (s *Service) Leave(ctx context.Context, groupID, userID uuid.UUID) error {
	err := s.repo.RemoveMember(ctx, groupID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMemberNotFound
	}
	return err
}

// GetMembers retrieves all members of a group; the caller must be a member
func (s *Service) GetMembers(ctx context.Context, groupID, callerID uuid.UUID) ([]*Member, error) {
	if _, err := s.requireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	return s.repo.GetMembers(ctx, groupID)
}

// RequireMember returns ErrNotMember unless the user belongs to the group
func (s *Service) RequireMember(ctx context.Context, groupID, userID uuid.UUID) error {
	_, err := s.requireMember(ctx, groupID, userID)
	return err
}

func (s *Service) requireMember(ctx context.Context, groupID, userID uuid.UUID) (*Group, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	ok, err := s.repo.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotMember
	}
	return group, nil
}
