package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_ListUsers_Pages(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	var pages []int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/admin/users", r.URL.Path)
		assert.Equal(t, "svc-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer svc-key", r.Header.Get("Authorization"))

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pages = append(pages, page)

		var users []map[string]string
		switch page {
		case 1:
			users = []map[string]string{
				{"id": ids[0].String(), "phone": "15551230001"},
				{"id": ids[1].String(), "phone": ""},
			}
		case 2:
			users = []map[string]string{{"id": ids[2].String(), "phone": "+15551230003"}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"users": users})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "svc-key", zap.NewNop())
	c.pageSize = 2

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, pages)
	require.Len(t, users, 3)
	assert.Equal(t, "+15551230001", users[0].Phone)
	assert.Equal(t, "", users[1].Phone)
	assert.Equal(t, ids[2], users[2].ID)
}

func TestClient_ListUsers_StopsOnRepeatedPage(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	calls := 0

	// Ignores page and per_page and always returns the same full page.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		users := []map[string]string{
			{"id": ids[0].String(), "phone": "+15551230001"},
			{"id": ids[1].String(), "phone": "+15551230002"},
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"users": users})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "svc-key", zap.NewNop())
	c.pageSize = 2

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	require.Len(t, users, 2)
	assert.Equal(t, ids[0], users[0].ID)
	assert.Equal(t, ids[1], users[1].ID)
}

func TestClient_ListUsers_PageLimit(t *testing.T) {
	calls := 0

	// Every page is full and distinct, so only the cap ends the walk.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		users := []map[string]string{{"id": uuid.NewString(), "phone": ""}}
		_ = json.NewEncoder(w).Encode(map[string]any{"users": users})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "svc-key", zap.NewNop())
	c.pageSize = 1
	c.maxPages = 3

	_, err := c.ListUsers(context.Background())
	require.ErrorIs(t, err, ErrPageLimit)
	assert.Equal(t, 3, calls)
}

func TestClient_ListUsers_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "svc-key", zap.NewNop())
	_, err := c.ListUsers(context.Background())

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient("", "", zap.NewNop())

	_, err := c.ListUsers(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.ErrorIs(t, c.DeleteUser(context.Background(), uuid.New()), ErrNotConfigured)
}

func TestClient_DeleteUser(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Path == fmt.Sprintf("/auth/v1/admin/users/%s", id) {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "svc-key", zap.NewNop())
	assert.NoError(t, c.DeleteUser(context.Background(), id))
	assert.Error(t, c.DeleteUser(context.Background(), uuid.New()))
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  ", ""},
		{"15551234567", "+15551234567"},
		{"+15551234567", "+15551234567"},
		{" +44 20 7946 0958 ", "+44 20 7946 0958"},
		{"(555) 123", "(555) 123"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), "input %q", tt.in)
	}
}
