package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FallbackMessage is reported when the backend gives no usable error text.
const FallbackMessage = "Something went wrong"

var (
	// ErrUnauthenticated is returned, without contacting the backend, by
	// calls that need a session when none exists.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrMalformedResponse signals a 2xx response whose body is not JSON.
	ErrMalformedResponse = errors.New("malformed response body")
)

// RequestError is a failed request: a non-2xx status (Status set) or a
// transport failure (Status 0, Err set). Message is always human-readable.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Detail returns a diagnostic form including status and cause.
func (e *RequestError) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (status %d: %v)", e.Message, e.Status, e.Err)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}

// errorMessage extracts the backend's `error` string from a failure body.
// Anything else, including an unparseable body, yields FallbackMessage.
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		return FallbackMessage
	}
	return payload.Error
}
