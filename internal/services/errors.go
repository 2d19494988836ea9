package services

import (
	"errors"
	"sort"
	"strings"

	"clubhouse/internal/db/repositories"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrNotFound           = repositories.ErrNotFound
	ErrDuplicate          = repositories.ErrDuplicate
	ErrInvalidState       = errors.New("invalid state")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
)

// ValidationError carries one message per offending form field.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Summary joins the field messages in a stable order for inline display
func (e *ValidationError) Summary() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, " ")
}

// Field returns the message for a field, or ""
func (e *ValidationError) Field(name string) string {
	return e.Fields[name]
}

func fieldError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// ConflictError is a conflict with a message safe to show the user
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string      { return "conflict: " + e.Message }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func conflict(msg string) error {
	return &ConflictError{Message: msg}
}

// UserMessage extracts the display text of a validation or conflict error.
// ok is false for errors that must not be shown to users.
func UserMessage(err error) (msg string, ok bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Summary(), true
	}
	var cerr *ConflictError
	if errors.As(err, &cerr) {
		return cerr.Message, true
	}
	return "", false
}
