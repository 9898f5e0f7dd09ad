// Package gateway builds requests against the school API and normalizes the
// responses into envelopes.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"school-admin/internal/credential"
	"school-admin/internal/model"
	"school-admin/pkg/querystring"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 8 << 20
	defaultTimeout  = 30 * time.Second
)

type Gateway struct {
	baseURL      string
	creds        credential.Provider
	httpClient   *http.Client
	limiter      *rate.Limiter
	userAgent    string
	legacyBearer bool
	logger       *slog.Logger
}

type Option func(*Gateway)

func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		if client != nil {
			g.httpClient = client
		}
	}
}

// WithTimeout bounds each round trip. Zero keeps the default. The client set
// by WithHTTPClient is copied, not modified.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		if timeout > 0 {
			client := *g.httpClient
			client.Timeout = timeout
			g.httpClient = &client
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(g *Gateway) {
		g.userAgent = strings.TrimSpace(userAgent)
	}
}

// WithRateLimit paces outgoing requests. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(g *Gateway) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLegacyBearer sends "Authorization: Bearer " even when no token is
// stored, matching the behavior of the first web front end. By default the
// header is omitted when there is no token.
func WithLegacyBearer() Option {
	return func(g *Gateway) {
		g.legacyBearer = true
	}
}

func New(baseURL string, creds credential.Provider, opts ...Option) (*Gateway, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api url must be http or https: %q", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("api url has no host: %q", baseURL)
	}
	if creds == nil {
		creds = credential.Static("")
	}

	g := &Gateway{
		baseURL:    baseURL,
		creds:      creds,
		httpClient: &http.Client{Timeout: defaultTimeout},
		userAgent:  "school-admin",
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Response is the normalized outcome of one round trip. Envelope is nil when
// the HTTP status is outside 2xx.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
	Envelope   *model.Envelope[json.RawMessage]
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) statusError() *StatusError {
	return &StatusError{Method: r.Method, URL: r.URL, StatusCode: r.StatusCode, Body: r.Body}
}

// Send performs one request. Transport failures come back as
// *TransportError; HTTP failures are not errors here and yield a Response
// with a nil Envelope.
func (g *Gateway) Send(ctx context.Context, method string, path string, params *querystring.Params, body any) (*Response, error) {
	method = strings.ToUpper(method)
	target := g.baseURL + "/" + strings.TrimLeft(path, "/")
	if query := querystring.Encode(params); query != "" {
		target += "?" + query
	}

	var payload io.Reader
	if body != nil && hasBody(method) {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if err := g.setHeaders(ctx, req); err != nil {
		return nil, err
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Method: method, URL: target, Err: err}
		}
	}

	started := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("api request failed",
			"request_id", req.Header.Get(requestIDHeader),
			"method", method,
			"path", req.URL.Path,
			"duration_ms", time.Since(started).Milliseconds(),
			"error", err,
		)
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: fmt.Errorf("read response body: %w", err)}
	}

	out := &Response{
		Method:     method,
		URL:        target,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}

	attrs := []any{
		"request_id", req.Header.Get(requestIDHeader),
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	}
	if !out.OK() {
		g.logger.Debug("api request rejected", attrs...)
		return out, nil
	}
	g.logger.Debug("api request", attrs...)

	var env model.Envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &DecodeError{StatusCode: resp.StatusCode, Body: raw, Err: err}
	}
	out.Envelope = &env

	return out, nil
}

func (g *Gateway) setHeaders(ctx context.Context, req *http.Request) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	token, err := g.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("read credential: %w", err)
	}
	token = strings.TrimSpace(token)
	switch {
	case token != "":
		req.Header.Set("Authorization", "Bearer "+token)
	case g.legacyBearer:
		req.Header.Set("Authorization", "Bearer ")
	}

	return nil
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// Decode converts a Response into a typed envelope. A nil Envelope becomes
// a *StatusError.
func Decode[T any](resp *Response) (*model.Envelope[T], error) {
	if resp == nil {
		return nil, errors.New("nil response")
	}
	if resp.Envelope == nil {
		return nil, resp.statusError()
	}

	out := &model.Envelope[T]{Status: resp.Envelope.Status, Message: resp.Envelope.Message}
	data := bytes.TrimSpace(resp.Envelope.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(data, &out.Data); err != nil {
		if !out.Status {
			return out, nil
		}
		return nil, &DecodeError{StatusCode: resp.StatusCode, Body: resp.Body, Err: err}
	}

	return out, nil
}

// Call is Send followed by Decode.
func Call[T any](ctx context.Context, g *Gateway, method string, path string, params *querystring.Params, body any) (*model.Envelope[T], error) {
	resp, err := g.Send(ctx, method, path, params, body)
	if err != nil {
		return nil, err
	}
	return Decode[T](resp)
}
