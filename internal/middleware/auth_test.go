package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-admin/internal/model"
	"school-admin/pkg/apierror"
)

type staticValidator map[string]*model.AuthClaims

func (v staticValidator) ValidateToken(token string) (*model.AuthClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierror.Envelope {
	t.Helper()

	var env apierror.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	auth := NewAuthMiddleware(staticValidator{
		"good": {UserID: "op-1", Username: "admin", Role: "admin"},
	})
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(claims.Username))
	}))

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{name: "valid", header: "Bearer good", status: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", status: http.StatusOK},
		{name: "missing", header: "", status: http.StatusUnauthorized, message: "missing or invalid authorization header"},
		{name: "empty bearer", header: "Bearer ", status: http.StatusUnauthorized, message: "missing or invalid authorization header"},
		{name: "other scheme", header: "Basic abc", status: http.StatusUnauthorized, message: "missing or invalid authorization header"},
		{name: "bad token", header: "Bearer bad", status: http.StatusUnauthorized, message: "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/classroom/list", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "admin", rec.Body.String())
				return
			}
			env := decodeError(t, rec)
			assert.False(t, env.Status)
			assert.Equal(t, tt.message, env.Message)
		})
	}
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	auth := NewAuthMiddleware(staticValidator{
		"admin": {UserID: "op-1", Role: "admin"},
		"clerk": {UserID: "op-2", Role: "clerk"},
	})
	handler := auth.RequireAuth(auth.RequireRoles("ADMIN")(okHandler()))

	for token, want := range map[string]int{"admin": http.StatusOK, "clerk": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodDelete, "/api/students/delete/S0001", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, token)
	}

	rec := httptest.NewRecorder()
	auth.RequireRoles("admin")(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	handler := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/classroom/list", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeError(t, rec)
	assert.False(t, env.Status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
}
