// Package session holds the client-side authentication state: the bearer
// token issued at login and a cached copy of the user profile.
package session

import "errors"

// Keys under which the session is persisted.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Storage backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Storage is a persisted string key/value store.
// Get reports ok=false for a missing key; Delete of a missing key is not an error.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}
