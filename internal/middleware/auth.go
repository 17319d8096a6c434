package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/service"
)

type contextKey string

const userContextKey = contextKey("user")

// Auth guards protected routes. It parses the bearer token, loads the
// session user through the auth service and injects it into the request
// context. Requests without a token never reach the wrapped handler.
type Auth struct {
	auth *service.AuthService
}

// NewAuth returns the auth middleware bound to the given service.
func NewAuth(auth *service.AuthService) *Auth {
	return &Auth{auth: auth}
}

// Require rejects unauthenticated requests with 401.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeAuthError(w, http.StatusUnauthorized, service.CodeUnauthorized, "missing authorization token")
			return
		}

		user, err := a.auth.ValidateToken(token)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, service.CodeUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// ContextWithUser injects a session user the way Require does. Handler
// tests use it to exercise authenticated endpoints directly.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// RequireRole layers a minimum-role check on top of Require.
func (a *Auth) RequireRole(minRole string, next http.Handler) http.Handler {
	return a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r)
		if !ok || !roleAtLeast(user.Role, minRole) {
			writeAuthError(w, http.StatusForbidden, service.CodeForbidden, "insufficient role")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// UserFromContext returns the authenticated user injected by Require.
func UserFromContext(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	return user, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

func roleAtLeast(role, minRole string) bool {
	rank := map[string]int{
		models.RoleContributor: 1,
		models.RoleMentor:      2,
		models.RoleAdmin:       3,
	}
	return rank[role] >= rank[minRole] && rank[role] > 0
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}
