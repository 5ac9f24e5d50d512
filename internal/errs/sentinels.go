// Package errs contains sentinel and typed errors shared by the client layers.
package errs

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Common sentinels across api/archive/ui layers.
var (
	// ErrNotFound indicates the requested document is absent from an otherwise
	// well-formed response. Callers treat it as "content unavailable".
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the session credential was rejected even after a refresh.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates a response or file does not match the expected shape.
	ErrValidation = errors.New("validation")

	// ErrInvalidArchive indicates a local archive file cannot be used.
	ErrInvalidArchive = errors.New("invalid archive")
)

// StatusError reports a non-200 HTTP response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("STATUS: %d", e.Code)
}

// Is lets a 401 StatusError match ErrUnauthorized.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// UnreachableCaseError reports an enumerated value outside the known set.
// It signals a defect to triage (a new server value), never a transient failure.
type UnreachableCaseError struct {
	Value any
}

func (e *UnreachableCaseError) Error() string {
	b, err := json.Marshal(e.Value)
	if err != nil {
		return fmt.Sprintf("Unreachable case: %v", e.Value)
	}
	return "Unreachable case: " + string(b)
}

// Unreachable builds an UnreachableCaseError for v.
func Unreachable(v any) error {
	return &UnreachableCaseError{Value: v}
}

// IsUnreachable reports whether err carries an UnreachableCaseError.
func IsUnreachable(err error) bool {
	var u *UnreachableCaseError
	return errors.As(err, &u)
}
