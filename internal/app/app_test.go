package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-admin/internal/client"
	"school-admin/internal/config"
	"school-admin/internal/credential"
	"school-admin/internal/gateway"
	"school-admin/internal/model"
	"school-admin/internal/view"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Server{
		RequestTimeout:   5 * time.Second,
		JWTSecret:        "app-test-secret",
		JWTAccessTTL:     time.Hour,
		AuthRateLimitRPM: 100,
		AdminUsername:    "admin",
		AdminPassword:    "admin-password",
		SeedDemoData:     true,
	}
	h, err := Handler(context.Background(), cfg, MemoryStores())
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, baseURL string, creds credential.Provider) *client.Client {
	t.Helper()

	g, err := gateway.New(baseURL, creds, gateway.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return client.New(g)
}

// loggedIn returns a client carrying a fresh admin token.
func loggedIn(t *testing.T, baseURL string) *client.Client {
	t.Helper()

	env, err := newClient(t, baseURL, nil).Auth.Login(context.Background(), "admin", "admin-password")
	require.NoError(t, err)
	require.True(t, env.Status)
	require.NotEmpty(t, env.Data.AccessToken)

	return newClient(t, baseURL, credential.Static(env.Data.AccessToken))
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnauthenticatedIsStatusError(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	api := newClient(t, srv.URL, nil)

	env, err := api.Classrooms.List(context.Background(), model.FirstPage(5), model.ClassroomFilter{})
	assert.Nil(t, env)

	var statusErr *gateway.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.NotEmpty(t, statusErr.Message())
}

func TestWrongPasswordIsStatusError(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	_, err := newClient(t, srv.URL, nil).Auth.Login(context.Background(), "admin", "nope")

	var statusErr *gateway.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "Invalid username or password", statusErr.Message())
}

func TestClassroomLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv := newTestServer(t)
	api := loggedIn(t, srv.URL)

	created, err := api.Classrooms.Create(ctx, model.Classroom{ClassroomID: "C901", ClassName: "ม.3/1", AcademicYear: 2567, HomeroomTeacher: "ครูสมร"})
	require.NoError(t, err)
	require.True(t, created.Status)
	assert.Equal(t, "Classroom created", created.Message)

	dup, err := api.Classrooms.Create(ctx, model.Classroom{ClassroomID: "C901", ClassName: "ม.3/1", AcademicYear: 2567})
	require.NoError(t, err)
	assert.False(t, dup.Status)
	assert.Equal(t, "Classroom id is already in use", dup.Message)
	var business *model.BusinessError
	require.True(t, errors.As(dup.Err(), &business))

	updated, err := api.Classrooms.Update(ctx, "C901", model.Classroom{ClassName: "ม.3/2", AcademicYear: 2568})
	require.NoError(t, err)
	require.True(t, updated.Status)

	got, err := api.Classrooms.Get(ctx, "C901")
	require.NoError(t, err)
	assert.Equal(t, "ม.3/2", got.Data.ClassName)
	assert.Equal(t, 2568, got.Data.AcademicYear)

	_, err = api.Classrooms.Get(ctx, "C999")
	var statusErr *gateway.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	deleted, err := api.Classrooms.Delete(ctx, "C901")
	require.NoError(t, err)
	assert.True(t, deleted.Status)
}

func TestRosterThroughControllers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv := newTestServer(t)
	api := loggedIn(t, srv.URL)

	notes := &view.Recorder{}
	roster, err := view.NewRoster(api.Classrooms, "C801", notes, view.ListOptions{PageSize: 10})
	require.NoError(t, err)

	roster.Mount(ctx)
	require.Equal(t, view.PhaseEmpty, roster.Members.State().Phase)
	require.Equal(t, 5, roster.NonMembers.State().Total)

	require.NoError(t, roster.Add(ctx, "S0004"))
	members := roster.Members.State()
	require.Equal(t, view.PhaseSuccess, members.Phase)
	require.Len(t, members.Items, 1)
	assert.Equal(t, "S0004", members.Items[0].Key)
	assert.Equal(t, 4, roster.NonMembers.State().Total)

	err = roster.Add(ctx, "S0004")
	require.Error(t, err)
	last, ok := notes.Last()
	require.True(t, ok)
	assert.Equal(t, view.NoteError, last.Kind)
	assert.Equal(t, "Student is already in this classroom", last.Message)

	require.NoError(t, roster.Remove(ctx, "S0004"))
	assert.Equal(t, view.PhaseEmpty, roster.Members.State().Phase)
	for _, row := range roster.NonMembers.State().Items {
		if row.Key == "S0004" {
			return
		}
	}
	t.Fatal("removed student is missing from non-members")
}

func TestStudentListFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv := newTestServer(t)
	api := loggedIn(t, srv.URL)

	list := view.NewList(api.Students.List, &view.Recorder{}, view.ListOptions{})
	state := list.Mount(ctx)
	require.Equal(t, view.PhaseSuccess, state.Phase)
	assert.Equal(t, 5, state.Total)

	state = list.SubmitFilter(ctx, model.StudentFilter{Fullname: "ใจดี"})
	require.Equal(t, 1, state.Total)
	assert.Equal(t, "S0001", state.Items[0].Key)

	state = list.SubmitFilter(ctx, model.StudentFilter{GradeLevel: 7})
	assert.Equal(t, 2, state.Total)

	state = list.SubmitFilter(ctx, model.StudentFilter{StudentID: "S9"})
	assert.Equal(t, view.PhaseEmpty, state.Phase)

	list.SubmitFilter(ctx, model.StudentFilter{})
	state, err := list.Paginate(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, state.Items, 5)
	assert.Equal(t, "S0005", state.Items[4].Key)

	state, err = list.Paginate(ctx, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, view.PhaseEmpty, state.Phase)

	_, err = list.Paginate(ctx, 1, 2)
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestMaleStudentsReport(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	env, err := loggedIn(t, srv.URL).Classrooms.MaleStudents(context.Background())
	require.NoError(t, err)
	require.True(t, env.Status)

	keys := make([]string, 0, len(env.Data))
	for _, row := range env.Data {
		keys = append(keys, row.Key)
	}
	assert.Equal(t, []string{"S0001", "S0003", "S0005"}, keys)
}

func TestAuditTrail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	srv := newTestServer(t)
	api := loggedIn(t, srv.URL)

	created, err := api.Students.Create(ctx, model.Student{StudentID: "S0100", PrefixID: 3, FirstName: "ก้อง", LastName: "ใจกล้า", GradeLevelID: 9, GenderID: model.GenderMale, BirthDate: "2010-04-01"})
	require.NoError(t, err)
	require.True(t, created.Status)

	var entries []model.AuditEntry
	require.Eventually(t, func() bool {
		env, err := api.Audit.List(ctx, model.FirstPage(5), model.AuditFilter{Action: "student.created"})
		if err != nil || !env.Status {
			return false
		}
		entries = env.Data.List
		return len(entries) == 1
	}, 2*time.Second, 20*time.Millisecond)

	assert.Equal(t, "student/S0100", entries[0].Resource)
	assert.Equal(t, "admin", entries[0].ActorName)
}
