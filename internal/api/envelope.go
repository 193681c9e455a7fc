package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/wrk-dev/wrk/internal/models"
)

// Envelope is the `{data, message?}` wrapper most endpoints respond with.
type Envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// MessageResponse is the body of endpoints that only acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}

// Do sends a request to an endpoint that answers with a bare payload.
// A 204 yields the zero T.
func Do[T any](ctx context.Context, c *Client, path string, opts RequestOptions) (T, error) {
	var out T
	raw, err := c.Request(ctx, path, opts)
	if err != nil || raw == nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("api: decoding %s: %w", path, err)
	}
	return out, nil
}

// DoData sends a request to an enveloped endpoint and returns the inner data.
func DoData[T any](ctx context.Context, c *Client, path string, opts RequestOptions) (T, error) {
	env, err := Do[Envelope[T]](ctx, c, path, opts)
	return env.Data, err
}

// doMessage sends a request to an acknowledgement-only endpoint.
func doMessage(ctx context.Context, c *Client, path string, opts RequestOptions) (string, error) {
	resp, err := Do[MessageResponse](ctx, c, path, opts)
	return resp.Message, err
}

func (c *Client) currentUser() *models.User {
	if c.session == nil {
		return nil
	}
	return c.session.CurrentUser()
}

// requireUser returns the session user or ErrUnauthenticated.
func (c *Client) requireUser() (*models.User, error) {
	u := c.currentUser()
	if u == nil || c.token() == "" {
		return nil, ErrUnauthenticated
	}
	return u, nil
}

// withQuery appends the non-empty values in q to path.
func withQuery(path string, q url.Values) string {
	for k, vs := range q {
		if len(vs) == 0 || vs[0] == "" {
			q.Del(k)
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
