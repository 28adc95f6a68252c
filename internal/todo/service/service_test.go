package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbox/internal/audit"
	"taskbox/internal/todo/models"
	"taskbox/internal/todo/store/todo"
	id "taskbox/pkg/domain"
	dErrors "taskbox/pkg/domain-errors"
)

func newTestService(t *testing.T) (*Service, *audit.InMemoryStore) {
	t.Helper()
	events := audit.NewInMemoryStore()
	svc := NewService(todo.NewInMemoryStore(), WithAudit(audit.NewPublisher(events)))
	return svc, events
}

func create(t *testing.T, svc *Service, owner id.UserID, title string) *models.Todo {
	t.Helper()
	created, err := svc.Create(context.Background(), owner, models.CreateTodoRequest{Title: title})
	require.NoError(t, err)
	return created
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreate(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()
	owner := id.NewUserID()

	created, err := svc.Create(ctx, owner, models.CreateTodoRequest{
		Title:       "  Buy groceries  ",
		Description: "milk and eggs",
	})
	require.NoError(t, err)

	assert.Equal(t, "Buy groceries", created.Title, "title is trimmed")
	assert.Equal(t, "milk and eggs", created.Description)
	assert.False(t, created.Completed)
	assert.Equal(t, owner, created.OwnerID)
	assert.False(t, created.ID.IsNil())

	recorded, err := events.ListByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, audit.ActionTodoCreated, recorded[0].Action)
}

func TestCreate_TitleRequired(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), id.NewUserID(), models.CreateTodoRequest{Title: "   "})
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeInvalidInput, "title is required"))
}

func TestList_Defaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := id.NewUserID()

	for i := 0; i < 15; i++ {
		create(t, svc, owner, "task")
	}

	list, err := svc.List(ctx, owner, models.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 15, list.Total)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 10, list.PerPage)
	assert.Len(t, list.Todos, 10)
}

func TestList_PerPageCap(t *testing.T) {
	svc, _ := newTestService(t)

	list, err := svc.List(context.Background(), id.NewUserID(), models.ListFilter{PerPage: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, list.PerPage)
}

func TestUpdate_Partial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := id.NewUserID()

	created, err := svc.Create(ctx, owner, models.CreateTodoRequest{
		Title:       "original title",
		Description: "original description",
	})
	require.NoError(t, err)

	t.Run("only completed", func(t *testing.T) {
		updated, err := svc.Update(ctx, owner, created.ID, models.UpdateTodoRequest{
			Completed: boolPtr(true),
		})
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, "original title", updated.Title)
		assert.Equal(t, "original description", updated.Description)
	})

	t.Run("only title", func(t *testing.T) {
		updated, err := svc.Update(ctx, owner, created.ID, models.UpdateTodoRequest{
			Title: strPtr("new title"),
		})
		require.NoError(t, err)
		assert.Equal(t, "new title", updated.Title)
		assert.True(t, updated.Completed, "earlier update sticks")
	})

	t.Run("description can be cleared", func(t *testing.T) {
		updated, err := svc.Update(ctx, owner, created.ID, models.UpdateTodoRequest{
			Description: strPtr(""),
		})
		require.NoError(t, err)
		assert.Empty(t, updated.Description)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, owner, created.ID, models.UpdateTodoRequest{
			Title: strPtr("  "),
		})
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestToggle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := id.NewUserID()

	created := create(t, svc, owner, "flip me")

	toggled, err := svc.Toggle(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = svc.Toggle(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
}

func TestOwnershipConflation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	alice := id.NewUserID()
	bob := id.NewUserID()

	aliceTodo := create(t, svc, alice, "alice's todo")
	notFound := dErrors.New(dErrors.CodeNotFound, "todo not found")

	t.Run("get", func(t *testing.T) {
		_, err := svc.Get(ctx, bob, aliceTodo.ID)
		require.ErrorIs(t, err, notFound)
	})

	t.Run("update", func(t *testing.T) {
		_, err := svc.Update(ctx, bob, aliceTodo.ID, models.UpdateTodoRequest{Completed: boolPtr(true)})
		require.ErrorIs(t, err, notFound)
	})

	t.Run("toggle", func(t *testing.T) {
		_, err := svc.Toggle(ctx, bob, aliceTodo.ID)
		require.ErrorIs(t, err, notFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(ctx, bob, aliceTodo.ID), notFound)
	})

	t.Run("a genuinely missing todo reads the same", func(t *testing.T) {
		_, err := svc.Get(ctx, alice, id.NewTodoID())
		require.ErrorIs(t, err, notFound)
	})
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := id.NewUserID()

	created := create(t, svc, owner, "short lived")
	require.NoError(t, svc.Delete(ctx, owner, created.ID))

	_, err := svc.Get(ctx, owner, created.ID)
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
