package views

import (
	"context"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
)

// AuthMode selects which form AuthForm shows.
type AuthMode string

const (
	ModeLogin    AuthMode = "login"
	ModeRegister AuthMode = "register"
)

// MsgRegistered is the notice shown after a successful registration.
const MsgRegistered = "¡Registro exitoso! Por favor inicia sesión."

// AuthForm is the combined login and registration form.
type AuthForm struct {
	Status
	Mode   AuthMode
	Notice string

	client *api.Client
}

func NewAuthForm(c *api.Client, mode AuthMode) *AuthForm {
	if mode == "" {
		mode = ModeLogin
	}
	return &AuthForm{client: c, Mode: mode}
}

// SubmitLogin signs in and stores the session. The caller navigates to the
// dashboard on success.
func (f *AuthForm) SubmitLogin(ctx context.Context, email, password string) (*models.User, error) {
	if err := f.begin(); err != nil {
		return nil, err
	}
	f.Notice = ""
	if err := required("email", email, "password", password); err != nil {
		return nil, f.end("", err)
	}

	resp, err := f.client.Auth.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, f.end("", err)
	}
	return &resp.User, f.end("", nil)
}

// SubmitRegister creates an account and switches the form to login mode.
// It does not sign in.
func (f *AuthForm) SubmitRegister(ctx context.Context, name, email, password string) error {
	if err := f.begin(); err != nil {
		return err
	}
	f.Notice = ""
	if err := required("name", name, "email", email, "password", password); err != nil {
		return f.end("", err)
	}

	if _, err := f.client.Auth.Register(ctx, api.RegisterRequest{Name: name, Email: email, Password: password}); err != nil {
		return f.end("", err)
	}
	f.Notice = MsgRegistered
	f.Mode = ModeLogin
	return f.end("", nil)
}
