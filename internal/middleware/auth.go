package middleware

import (
	"context"
	"net/http"
	"strings"

	"school-admin/internal/model"
	"school-admin/pkg/apierror"
)

type tokenValidator interface {
	ValidateToken(tokenString string) (*model.AuthClaims, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

type AuthMiddleware struct {
	validator tokenValidator
}

func NewAuthMiddleware(validator tokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
			apierror.Write(w, apierror.New("UNAUTHORIZED", "missing or invalid authorization header", "", http.StatusUnauthorized))
			return
		}

		token := strings.TrimSpace(header[7:])
		if token == "" {
			apierror.Write(w, apierror.New("UNAUTHORIZED", "missing or invalid authorization header", "", http.StatusUnauthorized))
			return
		}

		claims, err := m.validator.ValidateToken(token)
		if err != nil {
			apierror.Write(w, apierror.New("UNAUTHORIZED", "invalid or expired token", "", http.StatusUnauthorized))
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) RequireRoles(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := map[string]struct{}{}
	for _, role := range allowedRoles {
		roleSet[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				apierror.Write(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
				return
			}

			if _, exists := roleSet[strings.ToLower(claims.Role)]; !exists {
				apierror.Write(w, apierror.New("FORBIDDEN", "insufficient permissions", "", http.StatusForbidden))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*model.AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*model.AuthClaims)
	return claims, ok
}
