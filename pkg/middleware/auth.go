package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/checkin/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey ContextKey = "user_id"

	// TestUserHeader carries a user ID when dev auth is enabled
	TestUserHeader = "X-Test-User-ID"
)

var (
	errMissingToken  = errors.New("missing bearer token")
	errInvalidToken  = errors.New("invalid or expired token")
	errInvalidClaims = errors.New("invalid token subject")
)

// Claims are the identity provider's access token claims. The subject is the user ID.
type Claims struct {
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates HS256 access tokens signed with secret and stores the subject as the user ID
func AuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := validateToken(r.Header.Get("Authorization"), secret)
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			ctx := WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateToken(header string, secret []byte) (uuid.UUID, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return uuid.Nil, errMissingToken
	}
	if len(secret) == 0 {
		return uuid.Nil, errInvalidToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, errInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, errInvalidClaims
	}
	return userID, nil
}

// TestUserMiddleware takes the user ID from the X-Test-User-ID header (DEV ONLY).
// Requests without the header fall through to the real token check.
func TestUserMiddleware(secret []byte) func(http.Handler) http.Handler {
	auth := AuthMiddleware(secret)
	return func(next http.Handler) http.Handler {
		withToken := auth(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := uuid.Parse(r.Header.Get(TestUserHeader)); err == nil && userID != uuid.Nil {
				next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
				return
			}
			withToken.ServeHTTP(w, r)
		})
	}
}

// WithUserID returns a context carrying the user ID
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID extracts the user ID from the request context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}
