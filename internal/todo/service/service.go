// Package service implements the todo operations on top of the ownership
// scoped store. Every call takes the authenticated owner id; the service
// never reaches for records outside that scope.
package service

import (
	"context"
	"errors"
	"strings"

	"taskbox/internal/audit"
	"taskbox/internal/platform/metrics"
	"taskbox/internal/todo/models"
	"taskbox/internal/todo/store/todo"
	id "taskbox/pkg/domain"
	dErrors "taskbox/pkg/domain-errors"
	"taskbox/pkg/platform/sentinel"
	"taskbox/pkg/requestcontext"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
	maxPerPage     = 100
)

// Service adapts the todo CRUD flows into a callable façade.
type Service struct {
	todos   todo.Store
	auditor audit.Emitter
	metrics *metrics.Metrics
}

type serviceConfig struct {
	auditor audit.Emitter
	metrics *metrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*serviceConfig)

// WithAudit wires an audit emitter.
func WithAudit(emitter audit.Emitter) Option {
	return func(cfg *serviceConfig) { cfg.auditor = emitter }
}

// WithMetrics wires prometheus counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func NewService(todos todo.Store, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Service{
		todos:   todos,
		auditor: cfg.auditor,
		metrics: cfg.metrics,
	}
}

// Create stores a new todo owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID id.UserID, req models.CreateTodoRequest) (*models.Todo, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "title is required")
	}

	now := requestcontext.Now(ctx)
	t := &models.Todo{
		ID:          id.NewTodoID(),
		OwnerID:     ownerID,
		Title:       title,
		Description: req.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.todos.Create(ctx, t); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create todo")
	}

	s.emit(ctx, ownerID, audit.ActionTodoCreated, t.ID.String())
	s.metrics.RecordTodoCreated()
	return t, nil
}

// List returns one page of the owner's todos in insertion order.
func (s *Service) List(ctx context.Context, ownerID id.UserID, filter models.ListFilter) (*models.TodoList, error) {
	filter = normalize(filter)

	todos, total, err := s.todos.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list todos")
	}

	responses := make([]models.TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, todos[i].ToResponse())
	}
	return &models.TodoList{
		Todos:   responses,
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}, nil
}

// Get returns a single todo owned by ownerID.
func (s *Service) Get(ctx context.Context, ownerID id.UserID, todoID id.TodoID) (*models.Todo, error) {
	t, err := s.todos.FindByOwnerAndID(ctx, ownerID, todoID)
	if err != nil {
		return nil, s.translateMiss(err, "failed to get todo")
	}
	return t, nil
}

// Update applies a partial update. Fields left out of the request keep their
// stored values.
func (s *Service) Update(ctx context.Context, ownerID id.UserID, todoID id.TodoID, req models.UpdateTodoRequest) (*models.Todo, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "title must not be empty")
	}

	now := requestcontext.Now(ctx)
	t, err := s.todos.Update(ctx, ownerID, todoID, func(t *models.Todo) {
		if req.Title != nil {
			t.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.Completed != nil {
			t.Completed = *req.Completed
		}
		t.UpdatedAt = now
	})
	if err != nil {
		return nil, s.translateMiss(err, "failed to update todo")
	}

	s.emit(ctx, ownerID, audit.ActionTodoUpdated, t.ID.String())
	return t, nil
}

// Toggle flips the completed flag atomically against concurrent toggles.
func (s *Service) Toggle(ctx context.Context, ownerID id.UserID, todoID id.TodoID) (*models.Todo, error) {
	now := requestcontext.Now(ctx)
	t, err := s.todos.Update(ctx, ownerID, todoID, func(t *models.Todo) {
		t.Completed = !t.Completed
		t.UpdatedAt = now
	})
	if err != nil {
		return nil, s.translateMiss(err, "failed to toggle todo")
	}

	s.emit(ctx, ownerID, audit.ActionTodoUpdated, t.ID.String())
	return t, nil
}

// Delete removes a todo owned by ownerID.
func (s *Service) Delete(ctx context.Context, ownerID id.UserID, todoID id.TodoID) error {
	if err := s.todos.Delete(ctx, ownerID, todoID); err != nil {
		return s.translateMiss(err, "failed to delete todo")
	}

	s.emit(ctx, ownerID, audit.ActionTodoDeleted, todoID.String())
	return nil
}

// translateMiss maps the store's not-found sentinel to the domain error. The
// message never reveals whether the record exists under another owner.
func (s *Service) translateMiss(err error, internalMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "todo not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}

func normalize(filter models.ListFilter) models.ListFilter {
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.PerPage < 1 {
		filter.PerPage = defaultPerPage
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return filter
}

func (s *Service) emit(ctx context.Context, ownerID id.UserID, action audit.Action, detail string) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    ownerID,
		Action:    action,
		Detail:    detail,
	})
}
