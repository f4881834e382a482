package auth

import (
	"net/http"
	"strings"
)

// Middleware provides HTTP middleware for authentication
type Middleware struct {
	service *Service
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// RequireAuth requires a valid session token. The user is extracted from the
// token and added to the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"reply": "You must be signed in to use this feature."}`, http.StatusUnauthorized)
			return
		}

		user, err := m.service.ValidateSession(token)
		if err != nil {
			http.Error(w, `{"reply": "Your session has expired. Please sign in again."}`, http.StatusUnauthorized)
			return
		}

		ctx := SetUserInContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractBearerToken extracts the token from the Authorization header.
// Expects format: "Bearer <token>"
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
