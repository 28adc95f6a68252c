package todo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbox/internal/todo/models"
	id "taskbox/pkg/domain"
	"taskbox/pkg/platform/sentinel"
)

func newTodo(ownerID id.UserID, title string) *models.Todo {
	now := time.Now()
	return &models.Todo{
		ID:        id.NewTodoID(),
		OwnerID:   ownerID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func listAll(t *testing.T, store *InMemoryStore, ownerID id.UserID) []models.Todo {
	t.Helper()
	todos, _, err := store.ListByOwner(context.Background(), ownerID, models.ListFilter{Page: 1, PerPage: 100})
	require.NoError(t, err)
	return todos
}

func TestInMemoryStore_InsertionOrder(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	owner := id.NewUserID()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Create(ctx, newTodo(owner, fmt.Sprintf("todo %d", i))))
	}

	todos := listAll(t, store, owner)
	require.Len(t, todos, 5)
	for i, todo := range todos {
		assert.Equal(t, fmt.Sprintf("todo %d", i), todo.Title)
	}
}

func TestInMemoryStore_OwnershipScoping(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	alice := id.NewUserID()
	bob := id.NewUserID()

	aliceTodo := newTodo(alice, "alice's secret")
	require.NoError(t, store.Create(ctx, aliceTodo))

	t.Run("other owner cannot read", func(t *testing.T) {
		_, err := store.FindByOwnerAndID(ctx, bob, aliceTodo.ID)
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("other owner cannot update", func(t *testing.T) {
		_, err := store.Update(ctx, bob, aliceTodo.ID, func(todo *models.Todo) {
			todo.Title = "hijacked"
		})
		require.ErrorIs(t, err, sentinel.ErrNotFound)

		got, err := store.FindByOwnerAndID(ctx, alice, aliceTodo.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice's secret", got.Title)
	})

	t.Run("other owner cannot delete", func(t *testing.T) {
		require.ErrorIs(t, store.Delete(ctx, bob, aliceTodo.ID), sentinel.ErrNotFound)
	})

	t.Run("other owner sees empty listing", func(t *testing.T) {
		assert.Empty(t, listAll(t, store, bob))
	})
}

func TestInMemoryStore_ListFilters(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	owner := id.NewUserID()

	groceries := newTodo(owner, "Buy groceries")
	groceries.Completed = true
	require.NoError(t, store.Create(ctx, groceries))

	dishes := newTodo(owner, "Wash dishes")
	dishes.Description = "including the grocery bags"
	require.NoError(t, store.Create(ctx, dishes))

	t.Run("completed filter", func(t *testing.T) {
		completed := true
		todos, total, err := store.ListByOwner(ctx, owner, models.ListFilter{
			Completed: &completed, Page: 1, PerPage: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, todos, 1)
		assert.Equal(t, "Buy groceries", todos[0].Title)
	})

	t.Run("search matches title and description case insensitively", func(t *testing.T) {
		todos, total, err := store.ListByOwner(ctx, owner, models.ListFilter{
			Search: "GROCER", Page: 1, PerPage: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, todos, 2)
	})

	t.Run("pagination", func(t *testing.T) {
		todos, total, err := store.ListByOwner(ctx, owner, models.ListFilter{Page: 2, PerPage: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, todos, 1)
		assert.Equal(t, "Wash dishes", todos[0].Title)
	})

	t.Run("page past the end", func(t *testing.T) {
		todos, total, err := store.ListByOwner(ctx, owner, models.ListFilter{Page: 9, PerPage: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Empty(t, todos)
	})
}

func TestInMemoryStore_UpdateIsAtomic(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	owner := id.NewUserID()

	todo := newTodo(owner, "toggle me")
	require.NoError(t, store.Create(ctx, todo))

	const toggles = 100
	var wg sync.WaitGroup
	wg.Add(toggles)
	for i := 0; i < toggles; i++ {
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, owner, todo.ID, func(t *models.Todo) {
				t.Completed = !t.Completed
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// An even number of toggles must land back on the initial state.
	got, err := store.FindByOwnerAndID(ctx, owner, todo.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestInMemoryStore_Delete(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	owner := id.NewUserID()

	todo := newTodo(owner, "short lived")
	require.NoError(t, store.Create(ctx, todo))
	require.NoError(t, store.Delete(ctx, owner, todo.ID))

	_, err := store.FindByOwnerAndID(ctx, owner, todo.ID)
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	require.ErrorIs(t, store.Delete(ctx, owner, todo.ID), sentinel.ErrNotFound)
}
