//go:build integration

package integration

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"school-admin/internal/app"
	"school-admin/internal/client"
	"school-admin/internal/config"
	"school-admin/internal/credential"
	"school-admin/internal/database"
	"school-admin/internal/gateway"
	"school-admin/internal/repository"
)

const (
	adminUsername = "admin"
	adminPassword = "admin-password"
)

func serverConfig() *config.Server {
	return &config.Server{
		ServerPort:         "8080",
		ServerReadTimeout:  15 * time.Second,
		ServerWriteTimeout: 30 * time.Second,
		ServerIdleTimeout:  120 * time.Second,
		RequestTimeout:     10 * time.Second,
		JWTSecret:          "test-secret",
		JWTAccessTTL:       15 * time.Minute,
		CORSOrigins:        []string{"*"},
		RateLimitRPM:       1000,
		AuthRateLimitRPM:   1000,
		AdminUsername:      adminUsername,
		AdminPassword:      adminPassword,
		SeedDemoData:       true,
	}
}

func newServer(t *testing.T, cfg *config.Server, stores app.Stores) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h, err := app.Handler(ctx, cfg, stores)
	require.NoError(t, err)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server
}

// postgresStores connects to TEST_DATABASE_URL and empties the school
// tables. Tests using it are skipped when the variable is unset.
func postgresStores(t *testing.T) app.Stores {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, url, 4)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	_, err = db.Pool.Exec(ctx, `TRUNCATE classroom_students, students, classrooms, operators, audit_entries`)
	require.NoError(t, err)

	return app.Stores{
		School:    repository.NewSchoolRepository(db.Pool),
		Operators: repository.NewOperatorRepository(db.Pool),
		Audit:     repository.NewAuditRepository(db.Pool),
		Health:    db.Health,
	}
}

func newClient(t *testing.T, baseURL string, creds credential.Provider) *client.Client {
	t.Helper()

	g, err := gateway.New(baseURL, creds, gateway.WithTimeout(10*time.Second))
	require.NoError(t, err)
	return client.New(g)
}

func login(t *testing.T, baseURL string) (*client.Client, string) {
	t.Helper()

	env, err := newClient(t, baseURL, nil).Auth.Login(context.Background(), adminUsername, adminPassword)
	require.NoError(t, err)
	require.True(t, env.Status)
	require.NotEmpty(t, env.Data.AccessToken)

	return newClient(t, baseURL, credential.Static(env.Data.AccessToken)), env.Data.AccessToken
}
