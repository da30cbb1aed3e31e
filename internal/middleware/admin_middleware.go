package middleware

import (
	"net/http"

	"trainvoc-updates/pkg/hash"
	"trainvoc-updates/pkg/response"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminMiddleware guards operator endpoints with a bcrypt-hashed shared key.
// An empty hash disables the endpoints entirely.
func AdminMiddleware(keyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if keyHash == "" {
				response.Forbidden(w, "Admin endpoints are disabled")
				return
			}

			if err := hash.Compare(keyHash, r.Header.Get(AdminKeyHeader)); err != nil {
				response.Unauthorized(w, "Invalid admin key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
