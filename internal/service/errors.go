package service

import (
	"errors"
	"strings"

	"estate/internal/repository"
)

var (
	ErrEmptyQuery         = errors.New("query must not be empty")
	ErrEmptyMessage       = errors.New("message must not be empty")
	ErrSessionNotFound    = errors.New("chat session not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// ErrPropertyNotFound is shared with the repository layer
	ErrPropertyNotFound = repository.ErrPropertyNotFound
)

// ValidationError lists the form fields that were rejected
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "missing required fields"
	}
	if len(e.Fields) == 0 {
		return reason
	}
	return reason + ": " + strings.Join(e.Fields, ", ")
}

// requireFields returns a ValidationError naming every blank field, in the
// order given, or nil when all are present
func requireFields(fields ...[2]string) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
