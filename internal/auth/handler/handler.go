// Package handler exposes the auth endpoints over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	authModel "taskbox/internal/auth/models"
	"taskbox/internal/platform/middleware"
	"taskbox/internal/transport/http/shared"
	id "taskbox/pkg/domain"
	dErrors "taskbox/pkg/domain-errors"
	"taskbox/pkg/requestcontext"
)

// Service defines the auth operations the handler delegates to.
type Service interface {
	Register(ctx context.Context, req authModel.RegisterRequest) (*authModel.User, error)
	Login(ctx context.Context, req authModel.LoginRequest) (*authModel.TokenResult, error)
	GetUser(ctx context.Context, userID id.UserID) (*authModel.User, error)
}

// Handler handles registration, login, and the authenticated profile read.
type Handler struct {
	logger   *slog.Logger
	auth     Service
	resolver middleware.IdentityResolver
}

// New creates a new auth Handler.
func New(auth Service, resolver middleware.IdentityResolver, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		auth:     auth,
		resolver: resolver,
	}
}

// Register registers the auth routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth(h.resolver, h.logger))
		protected.Get("/auth/me", h.handleMe)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req authModel.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid register request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := validateRegisterRequest(req); err != nil {
		shared.WriteError(w, err)
		return
	}

	u, err := h.auth.Register(ctx, req)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeConflict) || dErrors.Is(err, dErrors.CodeInvalidInput) {
			h.logger.WarnContext(ctx, "registration rejected",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to register user",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to register user"))
		return
	}

	shared.WriteJSON(w, http.StatusCreated, u.ToResponse())
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req authModel.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid login request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.auth.Login(ctx, req)
	if err != nil {
		code := dErrors.CodeOf(err)
		switch code {
		case dErrors.CodeUnauthorized, dErrors.CodeForbidden, dErrors.CodeInvalidInput:
			h.logger.WarnContext(ctx, "login rejected",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, err)
		default:
			h.logger.ErrorContext(ctx, "failed to log in user",
				"request_id", requestID,
				"error", err.Error(),
			)
			shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to log in"))
		}
		return
	}

	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestID,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	u, err := h.auth.GetUser(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to load authenticated user",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, u.ToResponse())
}

func validateRegisterRequest(req authModel.RegisterRequest) error {
	if !govalidator.IsEmail(req.Email) || !govalidator.StringLength(req.Email, "3", "255") {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid email")
	}

	if !govalidator.StringLength(req.Username, "3", "50") {
		return dErrors.New(dErrors.CodeInvalidInput, "username must be between 3 and 50 characters")
	}

	if !govalidator.StringLength(req.Password, "6", "72") {
		return dErrors.New(dErrors.CodeInvalidInput, "password must be between 6 and 72 characters")
	}

	return nil
}
