// Package models defines the todo record and its request/response shapes.
package models

import (
	"time"

	id "taskbox/pkg/domain"
)

// Todo is a single todo record. Every todo belongs to exactly one owner; the
// owner id participates in every lookup so records from other users behave as
// if they do not exist.
type Todo struct {
	ID          id.TodoID
	OwnerID     id.UserID
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateTodoRequest is the payload accepted by POST /todos.
type CreateTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTodoRequest is the payload accepted by PATCH /todos/{todoID}.
// Pointer fields distinguish "not provided" from zero values so a partial
// update never clobbers fields the caller did not mention.
type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// ListFilter narrows and paginates a todo listing.
type ListFilter struct {
	Completed *bool
	Search    string
	Page      int
	PerPage   int
}

// TodoList is a single page of a listing plus the unpaginated total.
type TodoList struct {
	Todos   []TodoResponse `json:"todos"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// TodoResponse is the public view of a todo.
type TodoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResponse strips the owner id from a todo record. Ownership is implied by
// the authenticated request, never echoed on the wire.
func (t *Todo) ToResponse() TodoResponse {
	return TodoResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
