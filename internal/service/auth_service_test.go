package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"school-admin/internal/model"
)

type mockOperatorStore struct {
	mock.Mock
}

func (m *mockOperatorStore) FindByUsername(ctx context.Context, username string) (model.Operator, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.Operator), args.Error(1)
}

func (m *mockOperatorStore) FindByID(ctx context.Context, id string) (model.Operator, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Operator), args.Error(1)
}

func (m *mockOperatorStore) CreateOperator(ctx context.Context, op model.Operator) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *mockOperatorStore) CountOperators(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestNewAuthServiceValidates(t *testing.T) {
	t.Parallel()

	_, err := NewAuthService(" ", time.Hour, &mockOperatorStore{})
	assert.Error(t, err)

	_, err = NewAuthService("secret", 0, &mockOperatorStore{})
	assert.Error(t, err)
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	op := model.Operator{ID: "op-1", Username: "admin", PasswordHash: hashed(t, "correct horse"), Role: RoleAdmin}

	t.Run("issues a verifiable token", func(t *testing.T) {
		t.Parallel()

		store := new(mockOperatorStore)
		store.On("FindByUsername", ctx, "admin").Return(op, nil)
		svc, err := NewAuthService("secret", time.Hour, store)
		require.NoError(t, err)

		pair, err := svc.Login(ctx, "admin", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "Bearer", pair.TokenType)
		assert.Equal(t, int64(3600), pair.ExpiresIn)
		assert.Equal(t, "op-1", pair.User.ID)

		claims, err := svc.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "op-1", claims.UserID)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, RoleAdmin, claims.Role)
		assert.NotEmpty(t, claims.TokenID)

		store.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		store := new(mockOperatorStore)
		store.On("FindByUsername", ctx, "admin").Return(op, nil)
		svc, err := NewAuthService("secret", time.Hour, store)
		require.NoError(t, err)

		_, err = svc.Login(ctx, "admin", "wrong")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		store := new(mockOperatorStore)
		store.On("FindByUsername", ctx, "ghost").Return(model.Operator{}, model.ErrUserNotFound)
		svc, err := NewAuthService("secret", time.Hour, store)
		require.NoError(t, err)

		_, err = svc.Login(ctx, "ghost", "whatever")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})
}

func TestAuthService_ValidateTokenRejects(t *testing.T) {
	t.Parallel()

	svc, err := NewAuthService("secret", time.Hour, new(mockOperatorStore))
	require.NoError(t, err)

	sign := func(secret string, claims jwt.MapClaims) string {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return signed
	}
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "other secret", token: sign("other", jwt.MapClaims{"sub": "u", "typ": "access", "exp": exp})},
		{name: "expired", token: sign("secret", jwt.MapClaims{"sub": "u", "typ": "access", "exp": time.Now().Add(-time.Hour).Unix()})},
		{name: "no expiry", token: sign("secret", jwt.MapClaims{"sub": "u", "typ": "access"})},
		{name: "wrong type", token: sign("secret", jwt.MapClaims{"sub": "u", "typ": "refresh", "exp": exp})},
		{name: "no subject", token: sign("secret", jwt.MapClaims{"typ": "access", "exp": exp})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.ValidateToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("skips when operators exist", func(t *testing.T) {
		t.Parallel()

		store := new(mockOperatorStore)
		store.On("CountOperators", ctx).Return(1, nil)
		svc, err := NewAuthService("secret", time.Hour, store)
		require.NoError(t, err)

		generated, err := svc.EnsureAdmin(ctx, "admin", "")
		require.NoError(t, err)
		assert.Empty(t, generated)
		store.AssertNotCalled(t, "CreateOperator", mock.Anything, mock.Anything)
	})

	t.Run("generates a password", func(t *testing.T) {
		t.Parallel()

		store := new(mockOperatorStore)
		store.On("CountOperators", ctx).Return(0, nil)
		store.On("CreateOperator", ctx, mock.MatchedBy(func(op model.Operator) bool {
			return op.Username == "admin" && op.Role == RoleAdmin && op.ID != ""
		})).Return(nil)
		svc, err := NewAuthService("secret", time.Hour, store)
		require.NoError(t, err)

		generated, err := svc.EnsureAdmin(ctx, " admin ", "")
		require.NoError(t, err)
		assert.Len(t, generated, 16)
		store.AssertExpectations(t)
	})
}
