package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"school-admin/internal/model"
	"school-admin/internal/repository"
	"school-admin/pkg/apierror"
)

const (
	passwordCost = 12
	RoleAdmin    = "admin"
)

type AuthService struct {
	operators repository.OperatorStore
	jwtSecret []byte
	accessTTL time.Duration
}

func NewAuthService(jwtSecret string, accessTTL time.Duration, operators repository.OperatorStore) (*AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if accessTTL <= 0 {
		return nil, errors.New("access token ttl must be positive")
	}

	return &AuthService{
		operators: operators,
		jwtSecret: []byte(jwtSecret),
		accessTTL: accessTTL,
	}, nil
}

// EnsureAdmin creates the first operator account when none exists. With an
// empty password a random one is generated and returned.
func (s *AuthService) EnsureAdmin(ctx context.Context, username string, password string) (string, error) {
	count, err := s.operators.CountOperators(ctx)
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", nil
	}

	generated := ""
	if password == "" {
		generated = strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		password = generated
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}

	op := model.Operator{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		PasswordHash: string(hash),
		Role:         RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.operators.CreateOperator(ctx, op); err != nil {
		return "", err
	}

	slog.Info("admin operator created", "username", op.Username)
	return generated, nil
}

func (s *AuthService) Login(ctx context.Context, username string, password string) (model.TokenPair, error) {
	op, err := s.operators.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.TokenPair{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return model.TokenPair{}, model.ErrInvalidCredentials
	}

	return s.issueToken(op)
}

func (s *AuthService) ValidateToken(tokenString string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.New("UNAUTHORIZED", "invalid token signing method", "", http.StatusUnauthorized)
		}
		return s.jwtSecret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, apierror.New("UNAUTHORIZED", "invalid token", "", http.StatusUnauthorized)
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.New("UNAUTHORIZED", "invalid token claims", "", http.StatusUnauthorized)
	}

	if typ, _ := claimsMap["typ"].(string); typ != "access" {
		return nil, apierror.New("UNAUTHORIZED", "invalid token type", "", http.StatusUnauthorized)
	}

	claims := &model.AuthClaims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Username, _ = claimsMap["username"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, apierror.New("UNAUTHORIZED", "invalid token subject", "", http.StatusUnauthorized)
	}

	return claims, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (model.AuthUser, error) {
	op, err := s.operators.FindByID(ctx, userID)
	if err != nil {
		return model.AuthUser{}, err
	}
	return model.AuthUser{ID: op.ID, Username: op.Username, Role: op.Role}, nil
}

func (s *AuthService) issueToken(op model.Operator) (model.TokenPair, error) {
	now := time.Now().UTC()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      op.ID,
		"username": op.Username,
		"role":     op.Role,
		"typ":      "access",
		"jti":      uuid.NewString(),
		"iat":      now.Unix(),
		"exp":      now.Add(s.accessTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("sign token: %w", err)
	}

	return model.TokenPair{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.accessTTL.Seconds()),
		User:        model.AuthUser{ID: op.ID, Username: op.Username, Role: op.Role},
	}, nil
}
