package views

import (
	"context"
	"encoding/json"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
)

// Dashboard is the signed-in landing view: the current user plus the user
// directory.
type Dashboard struct {
	Status
	User  *models.User
	Users []models.User

	client *api.Client
}

func NewDashboard(c *api.Client) *Dashboard {
	return &Dashboard{client: c}
}

// Load fails with api.ErrUnauthenticated, without a request, when there is
// no session; the caller redirects to login.
func (d *Dashboard) Load(ctx context.Context) error {
	if err := d.begin(); err != nil {
		return err
	}

	d.User = d.client.Auth.CurrentUser()
	if d.User == nil {
		return d.end("", api.ErrUnauthenticated)
	}

	raw, err := d.client.Request(ctx, "/users", api.RequestOptions{})
	if err != nil {
		return d.end("", err)
	}
	d.Users = decodeUsers(raw)
	return d.end("", nil)
}

// decodeUsers accepts both {data: [...]} and a bare array. Any other shape
// yields no users.
func decodeUsers(raw json.RawMessage) []models.User {
	var env struct {
		Data []models.User `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && env.Data != nil {
		return env.Data
	}
	var bare []models.User
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare
	}
	return nil
}
