package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionExpired is returned when the server rejects the stored token.
// The session has already been cleared when it is returned.
var ErrSessionExpired = errors.New("session expired")

// ValidationError carries the server's field messages (HTTP 400).
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// AuthError is a rejected login (HTTP 401 on an unauthenticated call).
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Message
}

// ConflictError is a uniqueness violation (HTTP 409).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Message
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.Message
}

// TooManyRequestsError is a throttled or locked-out request (HTTP 429).
type TooManyRequestsError struct {
	Message string
}

func (e *TooManyRequestsError) Error() string {
	return "too many requests: " + e.Message
}

// NetworkError wraps a transport failure; no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError is any other non-2xx response.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// IsRetryable reports whether repeating the same request may succeed.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	var srvErr *ServerError
	return errors.As(err, &netErr) || errors.As(err, &srvErr)
}
