// Package credential supplies the bearer token attached to API requests.
// Tokens are opaque: nothing here validates or refreshes them.
package credential

import (
	"context"
	"os"
	"strings"
)

// Provider returns the current token, or "" when none is stored.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Static always returns the same token.
type Static string

func (s Static) Token(context.Context) (string, error) {
	return string(s), nil
}

// Env reads the token from an environment variable at call time.
type Env string

const DefaultEnvVar = "SCHOOL_TOKEN"

func (e Env) Token(context.Context) (string, error) {
	name := string(e)
	if name == "" {
		name = DefaultEnvVar
	}
	return strings.TrimSpace(os.Getenv(name)), nil
}

// Chain returns the first non-empty token. Errors stop the search.
type Chain []Provider

func (c Chain) Token(ctx context.Context) (string, error) {
	for _, p := range c {
		if p == nil {
			continue
		}
		token, err := p.Token(ctx)
		if err != nil {
			return "", err
		}
		if token != "" {
			return token, nil
		}
	}
	return "", nil
}
