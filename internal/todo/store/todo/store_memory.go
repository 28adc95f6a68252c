package todo

import (
	"context"
	"strings"
	"sync"

	"taskbox/internal/todo/models"
	id "taskbox/pkg/domain"
	"taskbox/pkg/platform/sentinel"
)

// InMemoryStore keeps todos in process memory, grouped per owner in insertion
// order. One mutex guards everything, which also makes Update's
// read-modify-write atomic.
type InMemoryStore struct {
	mu    sync.RWMutex
	todos map[id.UserID][]models.Todo
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{todos: make(map[id.UserID][]models.Todo)}
}

func (s *InMemoryStore) Create(_ context.Context, todo *models.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos[todo.OwnerID] = append(s.todos[todo.OwnerID], *todo)
	return nil
}

func (s *InMemoryStore) ListByOwner(_ context.Context, ownerID id.UserID, filter models.ListFilter) ([]models.Todo, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.Todo
	for _, t := range s.todos[ownerID] {
		if !matches(t, filter) {
			continue
		}
		matched = append(matched, t)
	}

	total := len(matched)
	start := (filter.Page - 1) * filter.PerPage
	if start >= total {
		return []models.Todo{}, total, nil
	}
	end := min(start+filter.PerPage, total)
	return append([]models.Todo{}, matched[start:end]...), total, nil
}

func (s *InMemoryStore) FindByOwnerAndID(_ context.Context, ownerID id.UserID, todoID id.TodoID) (*models.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.todos[ownerID] {
		if t.ID == todoID {
			return &t, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Update(_ context.Context, ownerID id.UserID, todoID id.TodoID, mutate func(*models.Todo)) (*models.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := s.todos[ownerID]
	for i := range owned {
		if owned[i].ID != todoID {
			continue
		}
		mutate(&owned[i])
		updated := owned[i]
		return &updated, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Delete(_ context.Context, ownerID id.UserID, todoID id.TodoID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := s.todos[ownerID]
	for i := range owned {
		if owned[i].ID == todoID {
			s.todos[ownerID] = append(owned[:i], owned[i+1:]...)
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func matches(t models.Todo, filter models.ListFilter) bool {
	if filter.Completed != nil && t.Completed != *filter.Completed {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}
