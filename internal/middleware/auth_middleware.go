package middleware

import (
	"context"
	"net/http"
	"strings"

	"trainvoc-updates/pkg/jwt"
	"trainvoc-updates/pkg/response"
)

type contextKey string

const DeviceIDKey contextKey = "deviceID"

func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := BearerToken(r)
			if !ok {
				response.Unauthorized(w, "Missing or malformed authorization header")
				return
			}

			claims, err := jwt.ValidateToken(token, jwtSecret)
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), DeviceIDKey, claims.DeviceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func GetDeviceID(r *http.Request) string {
	deviceID, ok := r.Context().Value(DeviceIDKey).(string)
	if !ok {
		return ""
	}
	return deviceID
}
