// Package domain defines typed identifiers shared across the codebase.
// Typed UUIDs keep user and todo ids from being swapped at compile time and
// let trust boundaries enforce "valid, non-empty, non-nil" in one place.
package domain

import (
	"github.com/google/uuid"

	dErrors "taskbox/pkg/domain-errors"
)

// UserID identifies a registered identity.
type UserID uuid.UUID

// TodoID identifies a todo record.
type TodoID uuid.UUID

// NewUserID allocates a fresh random user id.
func NewUserID() UserID {
	return UserID(uuid.New())
}

// NewTodoID allocates a fresh random todo id.
func NewTodoID() TodoID {
	return TodoID(uuid.New())
}

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id TodoID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id TodoID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// ParseUserID parses and validates a user id from its string form.
// Rejects empty, malformed, and nil UUIDs.
func ParseUserID(s string) (UserID, error) {
	parsed, err := parseID(s, "user id")
	return UserID(parsed), err
}

// ParseTodoID parses and validates a todo id from its string form.
// Rejects empty, malformed, and nil UUIDs.
func ParseTodoID(s string) (TodoID, error) {
	parsed, err := parseID(s, "todo id")
	return TodoID(parsed), err
}

func parseID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return parsed, nil
}
