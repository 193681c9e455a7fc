package session

import (
	"errors"
	"testing"

	"github.com/wrk-dev/wrk/internal/models"
)

func testUser() models.User {
	return models.User{ID: "u1", Name: "A", Email: "a@x.com", Role: models.RoleStudent}
}

func TestLoginThenRead(t *testing.T) {
	s := New(NewMemoryStorage())

	if err := s.Login("t1", testUser()); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if got := s.CurrentToken(); got != "t1" {
		t.Errorf("CurrentToken() = %q, want %q", got, "t1")
	}
	u := s.CurrentUser()
	if u == nil {
		t.Fatal("CurrentUser() = nil, want user")
	}
	if *u != testUser() {
		t.Errorf("CurrentUser() = %+v, want %+v", *u, testUser())
	}
	if !s.Authenticated() {
		t.Error("Authenticated() = false after login")
	}
}

func TestLoginOverwritesPriorSession(t *testing.T) {
	s := New(NewMemoryStorage())
	_ = s.Login("old", models.User{ID: "u0"})

	if err := s.Login("new", testUser()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := s.CurrentToken(); got != "new" {
		t.Errorf("CurrentToken() = %q, want %q", got, "new")
	}
	if got := s.CurrentUser().ID; got != "u1" {
		t.Errorf("CurrentUser().ID = %q, want u1", got)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	s := New(NewMemoryStorage())
	_ = s.Login("t1", testUser())

	for i := 0; i < 2; i++ {
		if err := s.Logout(); err != nil {
			t.Fatalf("Logout #%d: %v", i+1, err)
		}
		if s.CurrentToken() != "" {
			t.Errorf("token still present after logout #%d", i+1)
		}
		if s.CurrentUser() != nil {
			t.Errorf("user still present after logout #%d", i+1)
		}
	}
}

func TestAbsentSession(t *testing.T) {
	s := New(NewMemoryStorage())
	if s.CurrentUser() != nil || s.CurrentToken() != "" || s.Authenticated() {
		t.Error("fresh session should be absent")
	}
}

func TestMalformedUserReadsAsAbsent(t *testing.T) {
	store := NewMemoryStorage()
	_ = store.Set(KeyUser, "{not json")
	s := New(store)

	if u := s.CurrentUser(); u != nil {
		t.Errorf("CurrentUser() = %+v, want nil", u)
	}
}

type failingStorage struct{}

var errBroken = errors.New("broken")

func (failingStorage) Get(string) (string, bool, error) { return "", false, errBroken }
func (failingStorage) Set(string, string) error         { return errBroken }
func (failingStorage) Delete(string) error              { return errBroken }
func (failingStorage) Close() error                     { return nil }

func TestUnavailableStorage(t *testing.T) {
	tests := []struct {
		name    string
		storage Storage
	}{
		{name: "nil storage", storage: nil},
		{name: "failing storage", storage: failingStorage{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.storage)
			if s.CurrentUser() != nil {
				t.Error("CurrentUser() should be nil")
			}
			if s.CurrentToken() != "" {
				t.Error("CurrentToken() should be empty")
			}
			if err := s.Login("t", testUser()); err == nil {
				t.Error("Login should fail without storage")
			}
		})
	}
}

// userFailingStorage accepts everything except writes of the user key.
type userFailingStorage struct {
	*MemoryStorage
}

func (s userFailingStorage) Set(key, value string) error {
	if key == KeyUser {
		return errBroken
	}
	return s.MemoryStorage.Set(key, value)
}

func TestLoginRollsBackTokenOnUserWriteFailure(t *testing.T) {
	storage := userFailingStorage{NewMemoryStorage()}
	s := New(storage)

	if err := s.Login("t", testUser()); !errors.Is(err, errBroken) {
		t.Fatalf("Login() error = %v, want errBroken", err)
	}
	if _, ok, _ := storage.Get(KeyToken); ok {
		t.Error("token left behind after failed login")
	}
	if s.Authenticated() {
		t.Error("Authenticated() = true after failed login")
	}
}
