package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"taskbox/internal/auth/models"
	id "taskbox/pkg/domain"
	"taskbox/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for unique-constraint failures.
const uniqueViolation = "23505"

// PostgresStore persists identity records in PostgreSQL. Uniqueness of email
// and username is enforced by unique indexes, so concurrent registrations
// serialize at the database and the loser sees sentinel.ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, username, password_hash, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID.String(),
		strings.ToLower(user.Email),
		user.Username,
		user.PasswordHash,
		user.Active,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, active, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, userID.String()))
}

func (s *PostgresStore) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `
		SELECT id, email, username, password_hash, active, created_at, updated_at
		FROM users
		WHERE username = $1 OR email = $2
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, login, strings.ToLower(login)))
}

func (s *PostgresStore) scanUser(row *sql.Row) (*models.User, error) {
	var (
		user  models.User
		rawID string
	)
	err := row.Scan(
		&rawID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	userID, err := id.ParseUserID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse stored user id: %w", err)
	}
	user.ID = userID
	return &user, nil
}
