package cli

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-admin/internal/app"
	"school-admin/internal/config"
	"school-admin/internal/logger"
)

const (
	adminUser = "admin"
	adminPass = "admin-password"
)

func newTestConfig(t *testing.T) *config.Client {
	t.Helper()

	srvCfg := &config.Server{
		RequestTimeout: 5 * time.Second,
		JWTSecret:      "cli-test-secret",
		JWTAccessTTL:   time.Hour,
		AdminUsername:  adminUser,
		AdminPassword:  adminPass,
		SeedDemoData:   true,
	}
	h, err := app.Handler(context.Background(), srvCfg, app.MemoryStores())
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &config.Client{
		APIURL:         srv.URL,
		TokenFile:      filepath.Join(t.TempDir(), "token.json"),
		RequestTimeout: 5 * time.Second,
		PageSize:       5,
		LogLevel:       slog.LevelInfo,
		NoColor:        true,
	}
}

func run(t *testing.T, cfg *config.Client, args ...string) (string, string, error) {
	t.Helper()

	var out, logs bytes.Buffer
	cmd := NewRootCommand(Options{
		Config: cfg,
		Out:    &out,
		Logger: slog.New(logger.NewPrettyHandler(&logs, &logger.Options{NoColor: true})),
	})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), logs.String(), err
}

func login(t *testing.T, cfg *config.Client) {
	t.Helper()

	out, _, err := run(t, cfg, "login", "-u", adminUser, "-p", adminPass)
	require.NoError(t, err)
	require.Contains(t, out, "logged in as admin")
}

func TestLoginLogout(t *testing.T) {
	t.Setenv("SCHOOL_TOKEN", "")
	cfg := newTestConfig(t)

	_, logs, err := run(t, cfg, "login", "-u", adminUser, "-p", "wrong-password")
	require.ErrorIs(t, err, ErrReported)
	assert.Contains(t, logs, "Invalid username or password")

	login(t, cfg)

	out, _, err := run(t, cfg, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "admin (admin)")

	out, _, err = run(t, cfg, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "logged out")

	_, _, err = run(t, cfg, "whoami")
	assert.ErrorIs(t, err, ErrReported)
}

func TestClassroomCommands(t *testing.T) {
	t.Setenv("SCHOOL_TOKEN", "")
	cfg := newTestConfig(t)

	t.Run("list requires a login", func(t *testing.T) {
		_, logs, err := run(t, cfg, "classrooms", "list")
		require.ErrorIs(t, err, ErrReported)
		assert.Contains(t, logs, "missing or invalid authorization header")
	})

	login(t, cfg)

	t.Run("list", func(t *testing.T) {
		out, _, err := run(t, cfg, "classrooms", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "C101")
		assert.Contains(t, out, "C801")
		assert.Contains(t, out, "page 1/1, 3 total")
	})

	t.Run("list filters", func(t *testing.T) {
		out, _, err := run(t, cfg, "classrooms", "list", "--classroom-id", "C7")
		require.NoError(t, err)
		assert.Contains(t, out, "C701")
		assert.NotContains(t, out, "C101")
	})

	t.Run("list rejects page sizes that are not offered", func(t *testing.T) {
		_, logs, err := run(t, cfg, "classrooms", "list", "--limit", "7")
		require.ErrorIs(t, err, ErrReported)
		assert.Contains(t, logs, "page size 7 is not offered")
	})

	t.Run("create and duplicate", func(t *testing.T) {
		out, _, err := run(t, cfg, "classrooms", "create", "--classroom-id", "C901", "--class-name", "ม.3/1", "--year", "2567", "--teacher", "ครูสมร")
		require.NoError(t, err)
		assert.Contains(t, out, "C901")

		_, logs, err := run(t, cfg, "classrooms", "create", "--classroom-id", "C901", "--class-name", "ม.3/1", "--year", "2567")
		require.ErrorIs(t, err, ErrReported)
		assert.Contains(t, logs, "Classroom id is already in use")
	})

	t.Run("update changes only given flags", func(t *testing.T) {
		out, _, err := run(t, cfg, "classrooms", "update", "C901", "--class-name", "ม.3/2")
		require.NoError(t, err)
		assert.Contains(t, out, "ม.3/2")
		assert.Contains(t, out, "ครูสมร")
	})

	t.Run("roster", func(t *testing.T) {
		out, _, err := run(t, cfg, "classrooms", "add-member", "C901", "S0002")
		require.NoError(t, err)
		assert.Contains(t, out, "S0002")

		out, _, err = run(t, cfg, "classrooms", "non-members", "C901", "--limit", "10")
		require.NoError(t, err)
		assert.NotContains(t, out, "S0002")
		assert.Contains(t, out, "4 total")

		_, logs, err := run(t, cfg, "classrooms", "delete", "C901")
		require.ErrorIs(t, err, ErrReported)
		assert.Contains(t, logs, "Classroom still has students")

		out, _, err = run(t, cfg, "classrooms", "remove-member", "C901", "S0002")
		require.NoError(t, err)
		assert.Contains(t, out, "no records")
	})

	t.Run("delete shows the remaining classrooms", func(t *testing.T) {
		out, _, err := run(t, cfg, "classrooms", "delete", "C901")
		require.NoError(t, err)
		assert.NotContains(t, out, "C901")
		assert.Contains(t, out, "3 total")
	})

	t.Run("audit shows the classroom history", func(t *testing.T) {
		require.Eventually(t, func() bool {
			out, _, err := run(t, cfg, "audit", "--resource", "classroom/C901", "--limit", "10")
			return err == nil && strings.Contains(out, "classroom.deleted") && strings.Contains(out, "5 total")
		}, 2*time.Second, 20*time.Millisecond)
	})

	t.Run("get unknown", func(t *testing.T) {
		_, logs, err := run(t, cfg, "classrooms", "get", "C999")
		require.ErrorIs(t, err, ErrReported)
		assert.Contains(t, logs, "Classroom not found")
	})

	t.Run("male students", func(t *testing.T) {
		out, _, err := run(t, cfg, "classrooms", "male-students")
		require.NoError(t, err)
		assert.Contains(t, out, "S0001")
		assert.Contains(t, out, "S0005")
		assert.NotContains(t, out, "S0002")
	})
}

func TestStudentCommands(t *testing.T) {
	t.Setenv("SCHOOL_TOKEN", "")
	cfg := newTestConfig(t)
	login(t, cfg)

	out, _, err := run(t, cfg, "students", "create", "--student-id", "S0100", "--prefix", "4", "--first-name", "มณี", "--last-name", "แก้วใส", "--grade-level", "9", "--gender", "2", "--birth-date", "2010-02-28")
	require.NoError(t, err)
	assert.Contains(t, out, "นางสาว")

	_, logs, err := run(t, cfg, "students", "create", "--student-id", "S0101", "--prefix", "4", "--first-name", "x", "--last-name", "y", "--grade-level", "9", "--gender", "2", "--birth-date", "28/02/2010")
	require.ErrorIs(t, err, ErrReported)
	assert.Contains(t, logs, "birthDate must be YYYY-MM-DD")

	out, _, err = run(t, cfg, "students", "list", "--grade-level", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "S0100")
	assert.Contains(t, out, "page 1/1, 1 total")

	out, _, err = run(t, cfg, "students", "update", "S0100", "--last-name", "ทองคำ")
	require.NoError(t, err)
	assert.Contains(t, out, "ทองคำ")
	assert.Contains(t, out, "มณี")

	out, _, err = run(t, cfg, "students", "delete", "S0100")
	require.NoError(t, err)
	assert.NotContains(t, out, "S0100")
	assert.Contains(t, out, "5 total")

	out, _, err = run(t, cfg, "students", "options")
	require.NoError(t, err)
	assert.Contains(t, out, "ม.3")
}
