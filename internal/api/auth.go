package api

import (
	"context"
	"fmt"
	"net/http"

	wrklog "github.com/wrk-dev/wrk/internal/log"
	"github.com/wrk-dev/wrk/internal/models"
)

// Credentials are the login form fields.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the unwrapped body of POST /auth/login.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

// RegisterRequest is the body of POST /auth/register. The backend assigns
// TEAM_DEVELOPER when Role is empty.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// RegisterResponse is the unwrapped body of POST /auth/register.
type RegisterResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

// AuthAPI covers /auth and the local session lifecycle.
type AuthAPI struct{ c *Client }

// Login authenticates and persists the returned token and user.
func (a *AuthAPI) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	resp, err := Do[AuthResponse](ctx, a.c, "/auth/login", RequestOptions{
		Method: http.MethodPost,
		Body:   creds,
	})
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("api: login response has no token: %w", ErrMalformedResponse)
	}

	if a.c.session == nil {
		return nil, fmt.Errorf("api: no session to store login")
	}
	if err := a.c.session.Login(resp.Token, resp.User); err != nil {
		return nil, err
	}
	a.c.record(wrklog.LogEvent{Event: wrklog.EventLogin, UserID: resp.User.ID, Email: resp.User.Email})

	return &resp, nil
}

// Register creates an account. It does not log in.
func (a *AuthAPI) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	resp, err := Do[RegisterResponse](ctx, a.c, "/auth/register", RequestOptions{
		Method: http.MethodPost,
		Body:   req,
	})
	if err != nil {
		return nil, err
	}
	a.c.record(wrklog.LogEvent{Event: wrklog.EventRegister, UserID: resp.User.ID, Email: resp.User.Email})
	return &resp, nil
}

// Logout clears the session. It never contacts the backend.
func (a *AuthAPI) Logout() error {
	if a.c.session == nil {
		return nil
	}
	user := a.c.session.CurrentUser()
	if err := a.c.session.Logout(); err != nil {
		return err
	}
	event := wrklog.LogEvent{Event: wrklog.EventLogout}
	if user != nil {
		event.UserID, event.Email = user.ID, user.Email
	}
	a.c.record(event)
	return nil
}

// CurrentUser returns the cached session user, or nil.
func (a *AuthAPI) CurrentUser() *models.User {
	return a.c.currentUser()
}
