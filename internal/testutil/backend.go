// Package testutil provides an in-process fake of the Wrk backend for tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wrk-dev/wrk/internal/models"
)

// Request is one call received by the Backend. Path is relative to the
// /api prefix.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into v.
func (r Request) JSON(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decoding %s %s body %q: %v", r.Method, r.Path, r.Body, err)
	}
}

type account struct {
	user models.User
	hash []byte
}

type ctxKey struct{}

var errEmailTaken = errors.New("email already registered")

// Backend serves the Wrk REST API from memory. Every route answers with the
// same envelope shape as the real server.
type Backend struct {
	Server *httptest.Server
	secret []byte

	mu        sync.Mutex
	requests  []Request
	overrides map[string]http.HandlerFunc

	accounts      map[string]*account // keyed by email
	users         *table[models.User]
	projects      *table[models.Project]
	sprints       *table[models.Sprint]
	stories       *table[models.UserStory]
	tasks         *table[models.Task]
	rubrics       *table[models.Rubric]
	evaluations   *table[models.Evaluation]
	retros        *table[models.RetrospectiveItem]
	notifications *table[models.Notification]
	documents     *table[models.Document]
}

// NewBackend starts a Backend that is shut down when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		secret:        []byte("test-secret"),
		overrides:     make(map[string]http.HandlerFunc),
		accounts:      make(map[string]*account),
		users:         newTable[models.User](),
		projects:      newTable[models.Project](),
		sprints:       newTable[models.Sprint](),
		stories:       newTable[models.UserStory](),
		tasks:         newTable[models.Task](),
		rubrics:       newTable[models.Rubric](),
		evaluations:   newTable[models.Evaluation](),
		retros:        newTable[models.RetrospectiveItem](),
		notifications: newTable[models.Notification](),
		documents:     newTable[models.Document](),
	}
	b.Server = httptest.NewServer(b.router())
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the API base URL, including the /api prefix.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

// Requests returns every request received so far, oldest first.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// LastRequest returns the most recent request.
func (b *Backend) LastRequest(t *testing.T) Request {
	t.Helper()
	reqs := b.Requests()
	if len(reqs) == 0 {
		t.Fatal("backend received no requests")
	}
	return reqs[len(reqs)-1]
}

// Reset forgets the recorded requests. Stored entities are kept.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

// Handle replaces the route for method and path (relative to /api, no
// query) with h.
func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[method+" "+path] = h
}

// Reply makes method and path answer with status and the raw body.
func (b *Backend) Reply(method, path string, status int, body string) {
	b.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		if body != "" {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// AddUser registers an account directly and returns its profile.
func (b *Backend) AddUser(name, email, password, role string) models.User {
	u, err := b.addAccount(name, email, password, role)
	if err != nil {
		panic(err)
	}
	return u
}

func (b *Backend) addAccount(name, email, password, role string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hashing password: %w", err)
	}
	if role == "" {
		role = models.RoleTeamDeveloper
	}
	active := true
	now := time.Now().UTC()
	u := models.User{ID: uuid.NewString(), Name: name, Email: email, Role: role, Active: &active, CreatedAt: &now}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.accounts[email]; exists {
		return models.User{}, errEmailTaken
	}
	b.accounts[email] = &account{user: u, hash: hash}
	b.users.put(u.ID, u)
	return u, nil
}

// Token signs a session token for u the way the login endpoint does.
func (b *Backend) Token(u models.User) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": u.ID,
		"email":  u.Email,
		"role":   u.Role,
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(b.secret)
	if err != nil {
		panic(fmt.Sprintf("signing token: %v", err))
	}
	return signed
}

func (b *Backend) router() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", b.register)
		r.Post("/auth/login", b.login)

		r.Group(func(r chi.Router) {
			r.Use(b.authenticate)
			b.mountResources(r)
		})
	})
	return r
}

// record stores the request and dispatches to an override when one is set.
func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		path := strings.TrimPrefix(r.URL.Path, "/api")
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method: r.Method,
			Path:   path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		override := b.overrides[r.Method+" "+path]
		b.mu.Unlock()

		if override != nil {
			override(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "Token requerido")
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
			return b.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token inválido")
			return
		}

		userID, _ := claims["userId"].(string)
		ctx := context.WithValue(r.Context(), ctxKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, map[string]any{"data": v})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// table is an insertion-ordered in-memory collection.
type table[T any] struct {
	ids  []string
	rows map[string]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.ids = append(t.ids, id)
	}
	t.rows[id] = v
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) del(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, v := range t.ids {
		if v == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) all(keep func(T) bool) []T {
	out := make([]T, 0, len(t.ids))
	for _, id := range t.ids {
		v := t.rows[id]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}
