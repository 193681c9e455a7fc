package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wrk-dev/wrk/internal/models"
)

// CreateUserRequest is the admin form for creating an account.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// UpdateUserRequest carries the editable profile fields; empty fields are
// left unchanged by the backend.
type UpdateUserRequest struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

// UsersAPI covers /users.
type UsersAPI struct{ c *Client }

// GetAll lists users. Envelope: {data: []User}.
func (u *UsersAPI) GetAll(ctx context.Context) ([]models.User, error) {
	return DoData[[]models.User](ctx, u.c, "/users", RequestOptions{})
}

// GetByID fetches one user. Envelope: {data: User}.
func (u *UsersAPI) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := DoData[models.User](ctx, u.c, "/users/"+url.PathEscape(id), RequestOptions{})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create adds a user. Envelope: {data: User}.
func (u *UsersAPI) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	user, err := DoData[models.User](ctx, u.c, "/users", RequestOptions{Method: http.MethodPost, Body: req})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update edits a user. Envelope: {data: User}.
func (u *UsersAPI) Update(ctx context.Context, id string, req UpdateUserRequest) (*models.User, error) {
	user, err := DoData[models.User](ctx, u.c, "/users/"+url.PathEscape(id), RequestOptions{Method: http.MethodPut, Body: req})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user. Envelope: {data: {message}}.
func (u *UsersAPI) Delete(ctx context.Context, id string) error {
	_, err := u.c.Request(ctx, "/users/"+url.PathEscape(id), RequestOptions{Method: http.MethodDelete})
	return err
}
