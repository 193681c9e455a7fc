// Package views holds the headless view models behind the wrk commands and
// the task board. Each model owns only ephemeral UI state: a loading flag,
// an inline error message and its inputs. Reloading re-fetches and replaces
// local state; nothing is cached between instances.
package views

import (
	"errors"
	"fmt"
	"sync"

	"github.com/wrk-dev/wrk/internal/api"
)

var (
	// ErrBusy is returned when an action is started while the same view
	// still has a request in flight. No request is sent.
	ErrBusy = errors.New("views: request already in flight")
	// ErrRequired wraps the name of a missing form field.
	ErrRequired = errors.New("required")
	// ErrForbidden is returned for actions hidden from the user's role.
	ErrForbidden = errors.New("views: not allowed for this role")
)

// MsgUnauthenticated is shown when an action needs a session and there is none.
const MsgUnauthenticated = "Usuario no autenticado"

// Status is the loading flag and inline error shared by every view.
type Status struct {
	mu      sync.Mutex
	loading bool
	err     string
}

// Loading reports whether a request is in flight.
func (s *Status) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Message returns the inline error text of the last failure, or "".
func (s *Status) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Status) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return ErrBusy
	}
	s.loading = true
	s.err = ""
	return nil
}

// end clears the loading flag and records err, prefixed when prefix is set.
func (s *Status) end(prefix string, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = message(err)
		if prefix != "" {
			s.err = prefix + ": " + s.err
		}
	}
	return err
}

// fail records err without touching the loading flag.
func (s *Status) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = message(err)
	return err
}

func message(err error) string {
	var reqErr *api.RequestError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.Message
	case errors.Is(err, api.ErrUnauthenticated):
		return MsgUnauthenticated
	case err.Error() == "":
		return api.FallbackMessage
	}
	return err.Error()
}

// required takes name, value pairs and reports the first empty value.
func required(fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if fields[i+1] == "" {
			return fmt.Errorf("%s: %w", fields[i], ErrRequired)
		}
	}
	return nil
}
