package session

import (
	"encoding/json"
	"fmt"

	"github.com/wrk-dev/wrk/internal/models"
)

// Session is the authenticated/unauthenticated state of the client. It is
// either absent (no token) or present (token and user both stored).
// There is no refresh or expiry handling: an expired token surfaces as a
// failed request.
type Session struct {
	storage Storage
}

// New wraps storage in a Session. A nil storage behaves as unavailable:
// reads report absent and writes fail.
func New(storage Storage) *Session {
	return &Session{storage: storage}
}

// Login persists token and user, overwriting any prior session.
func (s *Session) Login(token string, user models.User) error {
	if s.storage == nil {
		return fmt.Errorf("session: storage unavailable")
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: marshalling user: %w", err)
	}

	if err := s.storage.Set(KeyToken, token); err != nil {
		return fmt.Errorf("session: saving token: %w", err)
	}
	if err := s.storage.Set(KeyUser, string(data)); err != nil {
		_ = s.storage.Delete(KeyToken)
		return fmt.Errorf("session: saving user: %w", err)
	}

	return nil
}

// Logout removes both values. It is idempotent.
func (s *Session) Logout() error {
	if s.storage == nil {
		return nil
	}
	tokenErr := s.storage.Delete(KeyToken)
	userErr := s.storage.Delete(KeyUser)
	if tokenErr != nil {
		return fmt.Errorf("session: clearing token: %w", tokenErr)
	}
	if userErr != nil {
		return fmt.Errorf("session: clearing user: %w", userErr)
	}
	return nil
}

// CurrentUser returns the cached profile, or nil when there is none, the
// storage fails, or the stored value does not parse.
func (s *Session) CurrentUser() *models.User {
	if s.storage == nil {
		return nil
	}

	raw, ok, err := s.storage.Get(KeyUser)
	if err != nil || !ok || raw == "" {
		return nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	return &user
}

// CurrentToken returns the stored bearer token, or "" when absent.
func (s *Session) CurrentToken() string {
	if s.storage == nil {
		return ""
	}

	token, ok, err := s.storage.Get(KeyToken)
	if err != nil || !ok {
		return ""
	}
	return token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.CurrentToken() != ""
}
