package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/fkhayef/checkin/pkg/response"
)

// RequireSharedSecret admits requests that present "Authorization: Bearer <secret>".
// An empty secret rejects everything, so scheduled routes are never left open.
func RequireSharedSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				response.Unauthorized(w, "Scheduled endpoints are disabled: no secret configured")
				return
			}

			presented, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
				response.Unauthorized(w, "Invalid scheduler credentials")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
