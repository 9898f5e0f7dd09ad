package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"school-admin/internal/credential"
	"school-admin/internal/model"
	"school-admin/pkg/querystring"
)

type seenRequest struct {
	method string
	path   string
	query  string
	header http.Header
	body   []byte
}

type captured struct {
	mu   sync.Mutex
	last seenRequest
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *captured) {
	t.Helper()

	got := &captured{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got.mu.Lock()
		got.last = seenRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			header: r.Header.Clone(),
			body:   body,
		}
		got.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, got
}

func (c *captured) snapshot() seenRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func TestSendHeadersAndQuery(t *testing.T) {
	t.Parallel()

	server, got := newTestServer(t, http.StatusOK, `{"status":true,"data":{"list":[],"total":0}}`)

	g, err := New(server.URL+"/", credential.Static("tok-123"))
	require.NoError(t, err)

	resp, err := g.Send(context.Background(), http.MethodGet, "/api/students/list", querystring.Of("page", 1, "limit", 5), map[string]string{"ignored": "yes"})
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.NotNil(t, resp.Envelope)
	require.True(t, resp.Envelope.Status)

	snap := got.snapshot()
	require.Equal(t, http.MethodGet, snap.method)
	require.Equal(t, "/api/students/list", snap.path)
	require.Equal(t, "page=1&limit=5", snap.query)
	require.Equal(t, "application/json", snap.header.Get("Content-Type"))
	require.Equal(t, "Bearer tok-123", snap.header.Get("Authorization"))
	require.NotEmpty(t, snap.header.Get("X-Request-ID"))
	require.Empty(t, snap.body)
}

func TestSendBodyForMutations(t *testing.T) {
	t.Parallel()

	server, got := newTestServer(t, http.StatusOK, `{"status":true,"message":"created","data":{"classroomId":"C1"}}`)

	g, err := New(server.URL, credential.Static("tok"))
	require.NoError(t, err)

	env, err := Call[model.Classroom](context.Background(), g, http.MethodPost, "/api/classroom/create", nil, model.Classroom{ClassroomID: "C1", ClassName: "ม.1/1"})
	require.NoError(t, err)
	require.True(t, env.Status)
	require.Equal(t, "created", env.Message)
	require.Equal(t, "C1", env.Data.ClassroomID)

	snap := got.snapshot()
	require.Equal(t, http.MethodPost, snap.method)
	require.Empty(t, snap.query)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(snap.body, &sent))
	require.Equal(t, "C1", sent["classroomId"])
	require.Equal(t, "ม.1/1", sent["className"])
}

func TestAuthorizationHeaderWithoutToken(t *testing.T) {
	t.Parallel()

	t.Run("omitted by default", func(t *testing.T) {
		server, got := newTestServer(t, http.StatusOK, `{"status":true}`)
		g, err := New(server.URL, credential.Static(""))
		require.NoError(t, err)

		_, err = g.Send(context.Background(), http.MethodGet, "/api/classroom/list", nil, nil)
		require.NoError(t, err)
		_, present := got.snapshot().header["Authorization"]
		require.False(t, present)
	})

	t.Run("legacy mode sends bare bearer", func(t *testing.T) {
		server, got := newTestServer(t, http.StatusOK, `{"status":true}`)
		g, err := New(server.URL, nil, WithLegacyBearer())
		require.NoError(t, err)

		_, err = g.Send(context.Background(), http.MethodGet, "/api/classroom/list", nil, nil)
		require.NoError(t, err)
		require.Equal(t, []string{"Bearer "}, got.snapshot().header.Values("Authorization"))
	})

	t.Run("credential read at call time", func(t *testing.T) {
		server, got := newTestServer(t, http.StatusOK, `{"status":true}`)
		token := "one"
		g, err := New(server.URL, credential.ProviderFunc(func(context.Context) (string, error) { return token, nil }))
		require.NoError(t, err)

		_, err = g.Send(context.Background(), http.MethodGet, "/x", nil, nil)
		require.NoError(t, err)
		require.Equal(t, "Bearer one", got.snapshot().header.Get("Authorization"))

		token = "two"
		_, err = g.Send(context.Background(), http.MethodGet, "/x", nil, nil)
		require.NoError(t, err)
		require.Equal(t, "Bearer two", got.snapshot().header.Get("Authorization"))
	})
}

func TestNonSuccessStatusYieldsNullEnvelope(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, http.StatusInternalServerError, `{"status":false,"message":"database down"}`)
	g, err := New(server.URL, credential.Static("tok"))
	require.NoError(t, err)

	resp, err := g.Send(context.Background(), http.MethodGet, "/api/students/list", nil, nil)
	require.NoError(t, err)
	require.False(t, resp.OK())
	require.Nil(t, resp.Envelope)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.JSONEq(t, `{"status":false,"message":"database down"}`, string(resp.Body))

	_, err = Decode[model.Page[model.StudentRow]](resp)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	require.Equal(t, "database down", statusErr.Message())
	require.True(t, statusErr.Temporary())
}

func TestBusinessFailurePassesThrough(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, http.StatusOK, `{"status":false,"message":"duplicate id"}`)
	g, err := New(server.URL, credential.Static("tok"))
	require.NoError(t, err)

	env, err := Call[model.Student](context.Background(), g, http.MethodPost, "/api/students/create", nil, model.Student{StudentID: "S1"})
	require.NoError(t, err)
	require.False(t, env.Status)
	require.Equal(t, "duplicate id", env.Message)
	require.EqualError(t, env.Err(), "duplicate id")
}

func TestMalformedSuccessBody(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, http.StatusOK, `<html>oops</html>`)
	g, err := New(server.URL, credential.Static("tok"))
	require.NoError(t, err)

	_, err = g.Send(context.Background(), http.MethodGet, "/api/students/list", nil, nil)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	require.Equal(t, http.StatusOK, decodeErr.StatusCode)
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	g, err := New("http://"+addr, credential.Static("tok"), WithTimeout(2*time.Second))
	require.NoError(t, err)

	_, err = g.Send(context.Background(), http.MethodGet, "/api/students/list", nil, nil)
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	require.Equal(t, http.MethodGet, transportErr.Method)
}

func TestContextCancellationIsTransportFailure(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	g, err := New(server.URL, credential.Static("tok"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = g.Send(ctx, http.MethodGet, "/slow", nil, nil)
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewValidatesBaseURL(t *testing.T) {
	t.Parallel()

	_, err := New("localhost:3000", nil)
	require.Error(t, err)
	_, err = New("ftp://example.com", nil)
	require.Error(t, err)
	g, err := New(" http://example.com/ ", nil)
	require.NoError(t, err)
	require.Equal(t, "http://example.com", g.BaseURL())
}

func TestRateLimitOption(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t, http.StatusOK, `{"status":true}`)
	g, err := New(server.URL, nil, WithRateLimit(1000, 2))
	require.NoError(t, err)
	require.NotNil(t, g.limiter)

	for i := 0; i < 3; i++ {
		_, err := g.Send(context.Background(), http.MethodGet, "/x", nil, nil)
		require.NoError(t, err)
	}

	g, err = New(server.URL, nil, WithRateLimit(0, 0))
	require.NoError(t, err)
	require.Nil(t, g.limiter)
}

func TestTimeoutKeepsCustomClientSettings(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":true}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	custom := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	g, err := New(server.URL, nil, WithHTTPClient(custom), WithTimeout(3*time.Second))
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, g.httpClient.Timeout)
	require.Zero(t, custom.Timeout)

	resp, err := g.Send(context.Background(), http.MethodGet, "/old", nil, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, resp.StatusCode)
}
