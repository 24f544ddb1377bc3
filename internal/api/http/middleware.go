package http

import (
	"context"
	"net/http"
	"strings"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/security"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware validates the bearer token and injects the authenticated
// identity into the request context. Everything behind it receives the
// identity as ground truth, mirroring the execution substrate the core
// was designed for.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization token is not provided"})
			return
		}
		token := header
		if len(token) > 7 && strings.EqualFold(token[0:7], "Bearer ") {
			token = token[7:]
		}

		claims, err := m.tokenManager.Validate(token)
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token: " + err.Error()})
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, claims.Identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerIdentity extracts the authenticated identity injected by the
// middleware.
func CallerIdentity(ctx context.Context) (string, error) {
	identity, ok := ctx.Value(identityKey).(string)
	if !ok || identity == "" {
		return "", domain.ErrUnauthorized
	}
	return identity, nil
}
