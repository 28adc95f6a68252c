// Package todo defines the persistence contract for todo records.
//
// Every operation takes the owner id alongside the todo id. A todo that
// exists but belongs to someone else is reported exactly like one that does
// not exist; stores never distinguish the two.
package todo

import (
	"context"

	"taskbox/internal/todo/models"
	id "taskbox/pkg/domain"
)

// Store persists todo records scoped by owner.
//
// Update applies mutate to the current record and persists the result as one
// atomic step: implementations hold a lock (or a row lock) across the
// read-modify-write so concurrent updates to the same todo serialize instead
// of clobbering each other. Misses return sentinel.ErrNotFound.
type Store interface {
	Create(ctx context.Context, todo *models.Todo) error
	ListByOwner(ctx context.Context, ownerID id.UserID, filter models.ListFilter) ([]models.Todo, int, error)
	FindByOwnerAndID(ctx context.Context, ownerID id.UserID, todoID id.TodoID) (*models.Todo, error)
	Update(ctx context.Context, ownerID id.UserID, todoID id.TodoID, mutate func(*models.Todo)) (*models.Todo, error)
	Delete(ctx context.Context, ownerID id.UserID, todoID id.TodoID) error
}
