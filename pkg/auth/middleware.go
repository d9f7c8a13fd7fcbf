package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/GlebRadaev/ledger/pkg/utils"
)

//go:generate mockgen -source=middleware.go -destination=mock_middleware.go -package=auth

type ContextKey string

const UserIDKey ContextKey = "userID"

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID int) (bool, error)
}

type Middleware struct {
	tokens JWTServiceInterface
	admins AdminChecker
}

func NewMiddleware(tokens JWTServiceInterface, admins AdminChecker) *Middleware {
	return &Middleware{
		tokens: tokens,
		admins: admins,
	}
}

// Authenticate puts the user id from a valid bearer token into the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		claims, err := m.tokens.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must run after Authenticate.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserIDFromContext(r.Context())
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		isAdmin, err := m.admins.IsAdmin(r.Context(), userID)
		if err != nil {
			zap.L().Error("can't check admin rights", zap.Int("userID", userID), zap.Error(err))
			utils.RespondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		if !isAdmin {
			utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}
