package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	profiles map[uuid.UUID]*Profile
	calls    *[]string
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*Profile, error) {
	return f.profiles[id], nil
}

func (f *fakeStore) Upsert(_ context.Context, id uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		p = &Profile{ID: id}
		f.profiles[id] = p
	}
	if req.DisplayName != nil {
		p.DisplayName = *req.DisplayName
	}
	if req.PhoneNumber != nil {
		p.PhoneNumber = req.PhoneNumber
	}
	return p, nil
}

func (f *fakeStore) SetMuted(_ context.Context, id uuid.UUID, muted bool) (*Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, nil
	}
	p.NotificationsMuted = muted
	return p, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	*f.calls = append(*f.calls, "profile")
	delete(f.profiles, id)
	return nil
}

type fakeIdentity struct {
	calls *[]string
	err   error
}

func (f *fakeIdentity) DeleteUser(context.Context, uuid.UUID) error {
	*f.calls = append(*f.calls, "identity")
	return f.err
}

func TestService_UpdateAndMute(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&fakeStore{profiles: map[uuid.UUID]*Profile{}}, nil)
	id := uuid.New()

	_, err := svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.SetMuted(ctx, id, true)
	assert.ErrorIs(t, err, ErrUserNotFound)

	name, phone := "Ana", "+15550000001"
	p, err := svc.Update(ctx, id, &UpdateProfileRequest{DisplayName: &name, PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, p.Phone())

	p, err = svc.SetMuted(ctx, id, true)
	require.NoError(t, err)
	assert.True(t, p.NotificationsMuted)
}

func TestService_DeleteRemovesIdentityFirst(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	var calls []string
	store := &fakeStore{profiles: map[uuid.UUID]*Profile{id: {ID: id}}, calls: &calls}
	require.NoError(t, NewService(store, &fakeIdentity{calls: &calls}).Delete(ctx, id))
	assert.Equal(t, []string{"identity", "profile"}, calls)

	calls = nil
	store.profiles[id] = &Profile{ID: id}
	err := NewService(store, &fakeIdentity{calls: &calls, err: errors.New("HTTP 500")}).Delete(ctx, id)
	assert.Error(t, err)
	assert.Equal(t, []string{"identity"}, calls)
	assert.Contains(t, store.profiles, id)
}
