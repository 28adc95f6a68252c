package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbox/internal/audit"
	"taskbox/internal/auth/models"
	"taskbox/internal/auth/password"
	"taskbox/internal/auth/store/user"
	"taskbox/internal/auth/token"
	id "taskbox/pkg/domain"
	dErrors "taskbox/pkg/domain-errors"
	"taskbox/pkg/requestcontext"
)

func newTestService(t *testing.T) (*Service, *user.InMemoryStore, *audit.InMemoryStore) {
	t.Helper()
	users := user.NewInMemoryStore()
	events := audit.NewInMemoryStore()
	tokens, err := token.New("test-signing-key", "HS256", 30*time.Minute)
	require.NoError(t, err)
	svc := NewService(users, tokens, WithAudit(audit.NewPublisher(events)))
	return svc, users, events
}

func register(t *testing.T, svc *Service, email, username, password string) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
	})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	svc, _, events := newTestService(t)
	ctx := context.Background()

	u := register(t, svc, "Alice@Example.com ", "alice", "s3cret-pass")

	assert.Equal(t, "alice@example.com", u.Email, "email is normalized")
	assert.Equal(t, "alice", u.Username)
	assert.True(t, u.Active)
	assert.False(t, u.ID.IsNil())
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	recorded, err := events.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, audit.ActionUserRegistered, recorded[0].Action)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	t.Run("missing email", func(t *testing.T) {
		_, err := svc.Register(ctx, models.RegisterRequest{Username: "alice", Password: "s3cret"})
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("missing username", func(t *testing.T) {
		_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: "s3cret"})
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := svc.Register(ctx, models.RegisterRequest{Email: "a@b.com", Username: "alice"})
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestRegister_Conflict(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "alice@example.com", "alice", "s3cret-pass")

	_, err := svc.Register(ctx, models.RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice2",
		Password: "s3cret-pass",
	})
	require.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = svc.Register(ctx, models.RegisterRequest{
		Email:    "other@example.com",
		Username: "alice",
		Password: "s3cret-pass",
	})
	require.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	u := register(t, svc, "alice@example.com", "alice", "s3cret-pass")

	t.Run("by username", func(t *testing.T) {
		result, err := svc.Login(ctx, models.LoginRequest{Login: "alice", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, "bearer", result.TokenType)
		assert.Equal(t, int((30 * time.Minute).Seconds()), result.ExpiresIn)
	})

	t.Run("by email", func(t *testing.T) {
		_, err := svc.Login(ctx, models.LoginRequest{Login: "alice@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)
	})

	t.Run("token resolves back to the user", func(t *testing.T) {
		result, err := svc.Login(ctx, models.LoginRequest{Login: "alice", Password: "s3cret-pass"})
		require.NoError(t, err)

		resolved, err := svc.Resolve(ctx, "Bearer "+result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, u.ID, resolved.ID)
	})
}

func TestLogin_Failures(t *testing.T) {
	svc, _, events := newTestService(t)
	ctx := context.Background()

	u := register(t, svc, "alice@example.com", "alice", "s3cret-pass")

	t.Run("unknown login", func(t *testing.T) {
		_, err := svc.Login(ctx, models.LoginRequest{Login: "nobody", Password: "s3cret-pass"})
		require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"))
	})

	t.Run("wrong password looks identical to unknown login", func(t *testing.T) {
		_, err := svc.Login(ctx, models.LoginRequest{Login: "alice", Password: "wrong"})
		require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"))

		recorded, listErr := events.ListByUser(ctx, u.ID)
		require.NoError(t, listErr)
		var failed int
		for _, event := range recorded {
			if event.Action == audit.ActionLoginFailed {
				failed++
			}
		}
		assert.Equal(t, 1, failed)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, models.LoginRequest{})
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	hash, err := password.Hash("s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, &models.User{
		ID:           id.NewUserID(),
		Email:        "ghost@example.com",
		Username:     "ghost",
		PasswordHash: hash,
		Active:       false,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}))

	_, err = svc.Login(ctx, models.LoginRequest{Login: "ghost", Password: "s3cret-pass"})
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeForbidden, "user inactive"))
}

func TestResolve(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "alice@example.com", "alice", "s3cret-pass")
	result, err := svc.Login(ctx, models.LoginRequest{Login: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		_, err := svc.Resolve(ctx, "")
		require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("wrong scheme", func(t *testing.T) {
		_, err := svc.Resolve(ctx, "Basic dXNlcjpwYXNz")
		require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Resolve(ctx, "Bearer garbage")
		require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("valid token", func(t *testing.T) {
		u, err := svc.Resolve(ctx, "Bearer "+result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
	})
}

func TestResolve_ExpiredToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	register(t, svc, "alice@example.com", "alice", "s3cret-pass")

	// Pin the request clock an hour back so the issued token is already stale.
	past := requestcontext.WithTime(context.Background(), time.Now().Add(-time.Hour))
	result, err := svc.Login(past, models.LoginRequest{Login: "alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), "Bearer "+result.AccessToken)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
}
