package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"school-admin/internal/gateway"
	"school-admin/internal/model"
)

type AuthClient struct {
	gateway *gateway.Gateway
}

func NewAuthClient(g *gateway.Gateway) *AuthClient {
	return &AuthClient{gateway: g}
}

// Login exchanges operator credentials for a bearer token. Storing the token
// is left to the caller.
func (c *AuthClient) Login(ctx context.Context, username string, password string) (*model.Envelope[model.TokenPair], error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", model.ErrInvalidInput)
	}
	body := model.LoginRequest{Username: username, Password: password}
	return gateway.Call[model.TokenPair](ctx, c.gateway, http.MethodPost, "/api/auth/login", nil, body)
}

// Me returns the operator the current token belongs to.
func (c *AuthClient) Me(ctx context.Context) (*model.Envelope[model.AuthUser], error) {
	return gateway.Call[model.AuthUser](ctx, c.gateway, http.MethodGet, "/api/auth/me", nil, nil)
}
