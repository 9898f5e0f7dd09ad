package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadClientDefaults(t *testing.T) {
	t.Setenv("SCHOOL_API_URL", "")
	t.Setenv("SCHOOL_TOKEN_FILE", "/tmp/token.json")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLIENT_RATE_LIMIT_RPS", "")

	cfg, err := LoadClient()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.APIURL)
	require.Equal(t, "/tmp/token.json", cfg.TokenFile)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, 5, cfg.PageSize)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel)
	require.False(t, cfg.NoColor)
	require.Zero(t, cfg.RateLimitRPS)
}

func TestLoadClientOverrides(t *testing.T) {
	t.Setenv("SCHOOL_API_URL", "https://school.example.com/")
	t.Setenv("SCHOOL_TOKEN_FILE", "/tmp/token.json")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("PAGE_SIZE", "20")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("NO_COLOR", "1")
	t.Setenv("CLIENT_RATE_LIMIT_RPS", "2.5")
	t.Setenv("CLIENT_RATE_LIMIT_BURST", "3")

	cfg, err := LoadClient()
	require.NoError(t, err)
	require.Equal(t, "https://school.example.com", cfg.APIURL)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.Equal(t, 20, cfg.PageSize)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel)
	require.True(t, cfg.NoColor)
	require.Equal(t, 2.5, cfg.RateLimitRPS)
	require.Equal(t, 3, cfg.RateLimitBurst)
}

func TestClientValidate(t *testing.T) {
	t.Parallel()

	valid := Client{APIURL: "http://localhost:8080", TokenFile: "t.json", RequestTimeout: time.Second, PageSize: 5, RateLimitBurst: 1}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Client)
	}{
		{name: "relative url", mutate: func(c *Client) { c.APIURL = "/api" }},
		{name: "ftp url", mutate: func(c *Client) { c.APIURL = "ftp://host" }},
		{name: "empty token file", mutate: func(c *Client) { c.TokenFile = " " }},
		{name: "zero timeout", mutate: func(c *Client) { c.RequestTimeout = 0 }},
		{name: "negative rate", mutate: func(c *Client) { c.RateLimitRPS = -1 }},
		{name: "rate without burst", mutate: func(c *Client) { c.RateLimitRPS = 1; c.RateLimitBurst = 0 }},
		{name: "page size", mutate: func(c *Client) { c.PageSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoadServer(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("RATE_LIMIT_RPM", "")
	t.Setenv("AUTH_RATE_LIMIT_RPM", "")

	cfg, err := LoadServer()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.ServerPort)
	require.Empty(t, cfg.DatabaseURL)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	require.True(t, cfg.SeedDemoData)
	require.Equal(t, 300, cfg.RateLimitRPM)
	require.Equal(t, 10, cfg.AuthRateLimitRPM)
}

func TestLoadServerRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadServer()
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadServerRejectsShortAdminPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_PASSWORD", "short")

	_, err := LoadServer()
	require.ErrorContains(t, err, "ADMIN_PASSWORD")
}
