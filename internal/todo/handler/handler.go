// Package handler exposes the todo endpoints over HTTP. All routes sit behind
// RequireAuth; the owner id comes from the request context, never the URL.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taskbox/internal/platform/middleware"
	todoModel "taskbox/internal/todo/models"
	"taskbox/internal/transport/http/shared"
	id "taskbox/pkg/domain"
	dErrors "taskbox/pkg/domain-errors"
	"taskbox/pkg/requestcontext"
)

// Service defines the todo operations the handler delegates to.
type Service interface {
	Create(ctx context.Context, ownerID id.UserID, req todoModel.CreateTodoRequest) (*todoModel.Todo, error)
	List(ctx context.Context, ownerID id.UserID, filter todoModel.ListFilter) (*todoModel.TodoList, error)
	Get(ctx context.Context, ownerID id.UserID, todoID id.TodoID) (*todoModel.Todo, error)
	Update(ctx context.Context, ownerID id.UserID, todoID id.TodoID, req todoModel.UpdateTodoRequest) (*todoModel.Todo, error)
	Toggle(ctx context.Context, ownerID id.UserID, todoID id.TodoID) (*todoModel.Todo, error)
	Delete(ctx context.Context, ownerID id.UserID, todoID id.TodoID) error
}

// Handler handles the todo CRUD endpoints.
type Handler struct {
	logger   *slog.Logger
	todos    Service
	resolver middleware.IdentityResolver
}

// New creates a new todo Handler.
func New(todos Service, resolver middleware.IdentityResolver, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		todos:    todos,
		resolver: resolver,
	}
}

// Register registers the todo routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(h.resolver, h.logger))
		protected.Get("/todos", h.handleList)
		protected.Post("/todos", h.handleCreate)
		protected.Get("/todos/{todoID}", h.handleGet)
		protected.Patch("/todos/{todoID}", h.handleUpdate)
		protected.Delete("/todos/{todoID}", h.handleDelete)
		protected.Post("/todos/{todoID}/toggle", h.handleToggle)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := requestcontext.UserID(ctx)

	var req todoModel.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid create todo request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	t, err := h.todos.Create(ctx, ownerID, req)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to create todo", err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, t.ToResponse())
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := requestcontext.UserID(ctx)

	filter, err := parseListFilter(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	list, err := h.todos.List(ctx, ownerID, filter)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to list todos", err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := requestcontext.UserID(ctx)

	todoID, err := id.ParseTodoID(chi.URLParam(r, "todoID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	t, err := h.todos.Get(ctx, ownerID, todoID)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to get todo", err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, t.ToResponse())
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := requestcontext.UserID(ctx)

	todoID, err := id.ParseTodoID(chi.URLParam(r, "todoID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req todoModel.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid update todo request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	t, err := h.todos.Update(ctx, ownerID, todoID, req)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to update todo", err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, t.ToResponse())
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := requestcontext.UserID(ctx)

	todoID, err := id.ParseTodoID(chi.URLParam(r, "todoID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	t, err := h.todos.Toggle(ctx, ownerID, todoID)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to toggle todo", err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, t.ToResponse())
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID := requestcontext.UserID(ctx)

	todoID, err := id.ParseTodoID(chi.URLParam(r, "todoID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.todos.Delete(ctx, ownerID, todoID); err != nil {
		h.writeServiceError(ctx, w, "failed to delete todo", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseListFilter(r *http.Request) (todoModel.ListFilter, error) {
	var filter todoModel.ListFilter
	query := r.URL.Query()

	if raw := query.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeInvalidInput, "completed must be true or false")
		}
		filter.Completed = &completed
	}
	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, dErrors.New(dErrors.CodeInvalidInput, "page must be a positive integer")
		}
		filter.Page = page
	}
	if raw := query.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 {
			return filter, dErrors.New(dErrors.CodeInvalidInput, "per_page must be a positive integer")
		}
		filter.PerPage = perPage
	}
	filter.Search = query.Get("search")

	return filter, nil
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}

func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	} else {
		h.warn(ctx, msg, err)
	}
	shared.WriteError(w, err)
}
