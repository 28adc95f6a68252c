package user

import (
	"context"
	"strings"
	"sync"

	"taskbox/internal/auth/models"
	id "taskbox/pkg/domain"
	"taskbox/pkg/platform/sentinel"
)

// InMemoryStore keeps identity records in process memory. It intentionally
// favors clarity over performance; one mutex guards the record map and both
// uniqueness indexes so Create is atomic against concurrent registrations.
type InMemoryStore struct {
	mu         sync.RWMutex
	users      map[id.UserID]models.User
	byEmail    map[string]id.UserID
	byUsername map[string]id.UserID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:      make(map[id.UserID]models.User),
		byEmail:    make(map[string]id.UserID),
		byUsername: make(map[string]id.UserID),
	}
}

func (s *InMemoryStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := s.byEmail[email]; taken {
		return sentinel.ErrConflict
	}
	if _, taken := s.byUsername[user.Username]; taken {
		return sentinel.ErrConflict
	}

	s.users[user.ID] = *user
	s.byEmail[email] = user.ID
	s.byUsername[user.Username] = user.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userID]; ok {
		return &user, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindByLogin(_ context.Context, login string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if userID, ok := s.byUsername[login]; ok {
		user := s.users[userID]
		return &user, nil
	}
	if userID, ok := s.byEmail[strings.ToLower(login)]; ok {
		user := s.users[userID]
		return &user, nil
	}
	return nil, sentinel.ErrNotFound
}
