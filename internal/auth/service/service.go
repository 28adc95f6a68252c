// Package service orchestrates registration, login, and per-request identity
// resolution. Transport concerns stay out; storage hides behind user.Store.
package service

import (
	"context"
	"errors"
	"strings"

	"taskbox/internal/audit"
	"taskbox/internal/auth/models"
	"taskbox/internal/auth/password"
	"taskbox/internal/auth/token"
	"taskbox/internal/auth/store/user"
	"taskbox/internal/platform/metrics"
	id "taskbox/pkg/domain"
	dErrors "taskbox/pkg/domain-errors"
	"taskbox/pkg/platform/sentinel"
	"taskbox/pkg/requestcontext"
)

const bearerPrefix = "Bearer "

// Service adapts the auth flows into a callable façade.
type Service struct {
	users   user.Store
	tokens  *token.Service
	auditor audit.Emitter
	metrics *metrics.Metrics
}

type serviceConfig struct {
	auditor audit.Emitter
	metrics *metrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*serviceConfig)

// WithAudit wires an audit emitter; security events are dropped without one.
func WithAudit(emitter audit.Emitter) Option {
	return func(cfg *serviceConfig) { cfg.auditor = emitter }
}

// WithMetrics wires prometheus counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func NewService(users user.Store, tokens *token.Service, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Service{
		users:   users,
		tokens:  tokens,
		auditor: cfg.auditor,
		metrics: cfg.metrics,
	}
}

// Register creates a new identity. The plaintext password is hashed before it
// touches the store; conflicts on email or username surface as CodeConflict.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if username == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "username is required")
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	u := &models.User{
		ID:           id.NewUserID(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email or username already taken")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.emit(ctx, u.ID, audit.ActionUserRegistered, u.Username)
	s.metrics.RecordUserRegistered()
	return u, nil
}

// Login verifies credentials and issues a bearer token. A missing user and a
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResult, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" || req.Password == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "login and password are required")
	}

	u, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.RecordLogin("failed")
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		s.emit(ctx, u.ID, audit.ActionLoginFailed, "wrong password")
		s.metrics.RecordLogin("failed")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	if !u.Active {
		s.metrics.RecordLogin("failed")
		return nil, dErrors.New(dErrors.CodeForbidden, "user inactive")
	}

	accessToken, err := s.tokens.Issue(u.ID, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.emit(ctx, u.ID, audit.ActionLoginSucceeded, "")
	s.metrics.RecordLogin("succeeded")
	return &models.TokenResult{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
	}, nil
}

// Resolve turns a raw Authorization header value into the identity it asserts.
// Every failure mode (missing header, bad format, invalid or expired token,
// identity deleted after issuance) maps to CodeUnauthorized so callers cannot
// probe which one occurred; a deactivated identity is the one exception.
func (s *Service) Resolve(ctx context.Context, authorization string) (*models.User, error) {
	tokenString, ok := strings.CutPrefix(authorization, bearerPrefix)
	if !ok || tokenString == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unauthenticated")
	}

	userID, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unauthenticated")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if !u.Active {
		return nil, dErrors.New(dErrors.CodeForbidden, "user inactive")
	}
	return u, nil
}

// ResolveIdentity satisfies middleware.IdentityResolver.
func (s *Service) ResolveIdentity(ctx context.Context, authorization string) (id.UserID, error) {
	u, err := s.Resolve(ctx, authorization)
	if err != nil {
		return id.UserID{}, err
	}
	return u.ID, nil
}

// GetUser loads an identity by id for authenticated profile reads.
func (s *Service) GetUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unauthenticated")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	return u, nil
}

func (s *Service) emit(ctx context.Context, userID id.UserID, action audit.Action, detail string) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    userID,
		Action:    action,
		Detail:    detail,
	})
}
