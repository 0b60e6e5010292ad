package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/crucial707/hrms/internal/repo"
)

var (
	// ErrNotFound is returned for missing rows and for rows of another organisation alike.
	ErrNotFound = repo.ErrNotFound
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = repo.ErrDuplicateEmail
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports caller input the service refused before writing anything.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

func invalidField(field, problem string) error {
	return &ValidationError{Message: "validation failed", Fields: map[string]string{field: problem}}
}
