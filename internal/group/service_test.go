package group

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/checkin/pkg/middleware"
	"github.com/fkhayef/checkin/pkg/validation"
)

type fakeStore struct {
	groups  map[uuid.UUID]*Group
	members map[uuid.UUID]map[uuid.UUID]MemberRole
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		groups:  map[uuid.UUID]*Group{},
		members: map[uuid.UUID]map[uuid.UUID]MemberRole{},
	}
}

func (f *fakeStore) Create(_ context.Context, ownerID uuid.UUID, req *CreateGroupRequest) (*Group, error) {
	g := &Group{ID: uuid.New(), Name: req.Name, OwnerID: ownerID, DailyPrompt: req.DailyPrompt, CreatedAt: time.Now()}
	f.groups[g.ID] = g
	f.members[g.ID] = map[uuid.UUID]MemberRole{ownerID: MemberRoleAdmin}
	return g, nil
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*Group, error) {
	return f.groups[id], nil
}

func (f *fakeStore) ListByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*Group, int, error) {
	var out []*Group
	for id, m := range f.members {
		if _, ok := m[userID]; ok {
			out = append(out, f.groups[id])
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) AddMember(_ context.Context, groupID, userID uuid.UUID) error {
	if _, ok := f.members[groupID][userID]; !ok {
		f.members[groupID][userID] = MemberRoleMember
	}
	return nil
}

func (f *fakeStore) GetMembers(_ context.Context, groupID uuid.UUID) ([]*Member, error) {
	var out []*Member
	for uid, role := range f.members[groupID] {
		out = append(out, &Member{GroupID: groupID, UserID: uid, Role: role})
	}
	return out, nil
}

func (f *fakeStore) IsMember(_ context.Context, groupID, userID uuid.UUID) (bool, error) {
	_, ok := f.members[groupID][userID]
	return ok, nil
}

func (f *fakeStore) RemoveMember(_ context.Context, groupID, userID uuid.UUID) error {
	if _, ok := f.members[groupID][userID]; !ok {
		return sql.ErrNoRows
	}
	delete(f.members[groupID], userID)
	return nil
}

func TestService_MembershipLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)

	owner, joiner, stranger := uuid.New(), uuid.New(), uuid.New()

	g, err := svc.Create(ctx, owner, &CreateGroupRequest{Name: "Roommates"})
	require.NoError(t, err)

	_, err = svc.Join(ctx, g.ID, joiner)
	require.NoError(t, err)

	members, err := svc.GetMembers(ctx, g.ID, joiner)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, err = svc.GetMembers(ctx, g.ID, stranger)
	assert.ErrorIs(t, err, ErrNotMember)

	require.NoError(t, svc.Leave(ctx, g.ID, joiner))
	assert.ErrorIs(t, svc.Leave(ctx, g.ID, joiner), ErrMemberNotFound)

	_, err = svc.Join(ctx, uuid.New(), joiner)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestHandler_CreateValidation(t *testing.T) {
	h := NewHandler(NewService(newFakeStore()), validation.New())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), uuid.New())))
		})
	})
	r.Mount("/groups", h.Routes())

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "valid", body: `{"name":"Book club"}`, want: http.StatusCreated},
		{name: "missing name", body: `{}`, want: http.StatusUnprocessableEntity},
		{name: "malformed", body: `{`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/groups/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandler_InvalidGroupID(t *testing.T) {
	h := NewHandler(NewService(newFakeStore()), validation.New())

	req := httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
