// Package api is the client for the Wrk REST backend.
// Client.Request centralises token attachment and error normalisation; the
// resource accessors built on it map each backend resource to typed calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	wrklog "github.com/wrk-dev/wrk/internal/log"
	"github.com/wrk-dev/wrk/internal/session"
)

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://localhost:5000/api"

const contentTypeJSON = "application/json"

// RequestOptions configures a JSON request. Method defaults to GET; a
// non-nil Body is JSON-encoded.
type RequestOptions struct {
	Method  string
	Body    any
	Headers map[string]string
}

// RawOptions configures a request whose body is not JSON.
// ContentType defaults to application/json.
type RawOptions struct {
	Method      string
	Body        io.Reader
	ContentType string
	Headers     map[string]string
}

// Client sends requests to the backend on behalf of a Session.
type Client struct {
	baseURL  string
	http     *http.Client
	session  *session.Session
	log      *zap.SugaredLogger
	activity *wrklog.Logger

	Auth           *AuthAPI
	Users          *UsersAPI
	Projects       *ProjectsAPI
	Sprints        *SprintsAPI
	Tasks          *TasksAPI
	UserStories    *UserStoriesAPI
	Rubrics        *RubricsAPI
	Evaluations    *EvaluationsAPI
	Retrospectives *RetrospectivesAPI
	Notifications  *NotificationsAPI
	Documents      *DocumentsAPI
	Metrics        *MetricsAPI
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = l }
}

// WithActivityLog records logins, logouts, mutations and failures.
func WithActivityLog(l *wrklog.Logger) Option {
	return func(c *Client) { c.activity = l }
}

// New creates a Client for baseURL that authenticates with sess.
func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		session: sess,
		log:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthAPI{c: c}
	c.Users = &UsersAPI{c: c}
	c.Projects = &ProjectsAPI{c: c}
	c.Sprints = &SprintsAPI{c: c}
	c.Tasks = &TasksAPI{c: c}
	c.UserStories = &UserStoriesAPI{c: c}
	c.Rubrics = &RubricsAPI{c: c}
	c.Evaluations = &EvaluationsAPI{c: c}
	c.Retrospectives = &RetrospectivesAPI{c: c}
	c.Notifications = &NotificationsAPI{c: c}
	c.Documents = &DocumentsAPI{c: c}
	c.Metrics = &MetricsAPI{c: c}
	return c
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *session.Session {
	return c.session
}

// BaseURL returns the backend prefix every path is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request sends a JSON request to path (relative to the base URL).
//
// A 204 response yields (nil, nil) without reading the body. Any other 2xx
// yields the body unchanged. A non-2xx status yields a *RequestError whose
// message is the body's `error` field, or FallbackMessage.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, error) {
	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("api: marshalling request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	data, err := c.send(ctx, path, opts.Method, body, contentTypeJSON, opts.Headers)
	if err != nil || data == nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("api: %s: %w", path, ErrMalformedResponse)
	}
	return json.RawMessage(data), nil
}

// RequestRaw is Request for non-JSON bodies and responses.
func (c *Client) RequestRaw(ctx context.Context, path string, opts RawOptions) ([]byte, error) {
	contentType := opts.ContentType
	if contentType == "" {
		contentType = contentTypeJSON
	}
	return c.send(ctx, path, opts.Method, opts.Body, contentType, opts.Headers)
}

func (c *Client) send(ctx context.Context, path, method string, body io.Reader, contentType string, extra map[string]string) ([]byte, error) {
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("api: building request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	for k, v := range extra {
		req.Header.Set(k, v)
	}
	// The auth header is applied after the merge so it always reflects the
	// current session.
	req.Header.Del("Authorization")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warnw("api transport failure",
			"method", method,
			"path", path,
			"request_id", requestID,
			"error", err,
		)
		c.record(wrklog.LogEvent{
			Event:     wrklog.EventRequestFailed,
			Method:    method,
			Path:      path,
			RequestID: requestID,
			Error:     err.Error(),
		})
		return nil, &RequestError{Message: FallbackMessage, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	dur := time.Since(start)
	c.log.Debugw("api",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", float64(dur.Microseconds())/1000.0,
		"request_id", requestID,
	)

	event := wrklog.LogEvent{
		Method:     method,
		Path:       path,
		Status:     resp.StatusCode,
		RequestID:  requestID,
		DurationMs: dur.Milliseconds(),
	}

	if resp.StatusCode == http.StatusNoContent {
		c.recordMutation(event)
		return nil, nil
	}

	data, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{Status: resp.StatusCode, Message: errorMessage(data)}
		event.Event = wrklog.EventRequestFailed
		event.Error = reqErr.Message
		c.record(event)
		return nil, reqErr
	}
	if readErr != nil {
		return nil, &RequestError{Status: resp.StatusCode, Message: FallbackMessage, Err: readErr}
	}

	c.recordMutation(event)
	return data, nil
}

func (c *Client) token() string {
	if c.session == nil {
		return ""
	}
	return c.session.CurrentToken()
}

func (c *Client) recordMutation(event wrklog.LogEvent) {
	if event.Method == http.MethodGet {
		return
	}
	event.Event = wrklog.EventMutation
	c.record(event)
}

func (c *Client) record(event wrklog.LogEvent) {
	if c.activity == nil {
		return
	}
	if u := c.currentUser(); u != nil && event.UserID == "" {
		event.UserID = u.ID
	}
	if err := c.activity.Append(event); err != nil {
		c.log.Warnw("activity log append failed", "error", err)
	}
}
