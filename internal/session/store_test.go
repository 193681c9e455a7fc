package session

import (
	"errors"
	"testing"
)

func TestStorageBackends(t *testing.T) {
	backends := []string{BackendSQLite, BackendBolt, BackendMemory}

	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			store, err := Open(backend, t.TempDir())
			if err != nil {
				t.Fatalf("Open(%q): %v", backend, err)
			}
			defer func() { _ = store.Close() }()

			if _, ok, err := store.Get(KeyToken); err != nil || ok {
				t.Fatalf("Get on empty store: ok=%v err=%v", ok, err)
			}

			if err := store.Set(KeyToken, "abc"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := store.Set(KeyToken, "def"); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}

			got, ok, err := store.Get(KeyToken)
			if err != nil || !ok || got != "def" {
				t.Fatalf("Get = (%q, %v, %v), want (def, true, nil)", got, ok, err)
			}

			if err := store.Delete(KeyToken); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := store.Delete(KeyToken); err != nil {
				t.Fatalf("Delete missing key: %v", err)
			}
			if _, ok, _ := store.Get(KeyToken); ok {
				t.Error("key still present after Delete")
			}
		})
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(BackendSQLite, dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := New(store).Login("t1", testUser()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	_ = store.Close()

	reopened, err := Open(BackendSQLite, dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	s := New(reopened)
	if s.CurrentToken() != "t1" {
		t.Errorf("token = %q after reopen, want t1", s.CurrentToken())
	}
	if u := s.CurrentUser(); u == nil || u.ID != "u1" {
		t.Errorf("user = %+v after reopen, want id u1", u)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(redis) error = %v, want ErrUnknownBackend", err)
	}
}
