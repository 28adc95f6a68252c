package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskbox/internal/todo/models"
	id "taskbox/pkg/domain"
	"taskbox/pkg/platform/sentinel"
)

// PostgresStore persists todos in PostgreSQL. Listing order follows the seq
// column, a BIGSERIAL that preserves insertion order per owner. Update runs a
// SELECT FOR UPDATE inside a transaction so concurrent read-modify-writes on
// the same row serialize.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const todoColumns = "id, owner_id, title, description, completed, created_at, updated_at"

func (s *PostgresStore) Create(ctx context.Context, todo *models.Todo) error {
	query := `
		INSERT INTO todos (id, owner_id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		todo.ID.String(),
		todo.OwnerID.String(),
		todo.Title,
		todo.Description,
		todo.Completed,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID id.UserID, filter models.ListFilter) ([]models.Todo, int, error) {
	where := "WHERE owner_id = $1"
	args := []any{ownerID.String()}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		where += fmt.Sprintf(" AND completed = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM todos " + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count todos: %w", err)
	}

	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)
	listQuery := fmt.Sprintf(
		"SELECT %s FROM todos %s ORDER BY seq LIMIT $%d OFFSET $%d",
		todoColumns, where, len(args)-1, len(args),
	)
	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, 0, err
		}
		todos = append(todos, *todo)
	}
	return todos, total, rows.Err()
}

func (s *PostgresStore) FindByOwnerAndID(ctx context.Context, ownerID id.UserID, todoID id.TodoID) (*models.Todo, error) {
	query := fmt.Sprintf("SELECT %s FROM todos WHERE id = $1 AND owner_id = $2", todoColumns)
	todo, err := scanTodo(s.db.QueryRowContext(ctx, query, todoID.String(), ownerID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (s *PostgresStore) Update(ctx context.Context, ownerID id.UserID, todoID id.TodoID, mutate func(*models.Todo)) (*models.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	query := fmt.Sprintf("SELECT %s FROM todos WHERE id = $1 AND owner_id = $2 FOR UPDATE", todoColumns)
	todo, err := scanTodo(tx.QueryRowContext(ctx, query, todoID.String(), ownerID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}

	mutate(todo)

	_, err = tx.ExecContext(ctx, `
		UPDATE todos
		SET title = $1, description = $2, completed = $3, updated_at = $4
		WHERE id = $5
	`, todo.Title, todo.Description, todo.Completed, todo.UpdatedAt, todo.ID.String())
	if err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return todo, nil
}

func (s *PostgresStore) Delete(ctx context.Context, ownerID id.UserID, todoID id.TodoID) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM todos WHERE id = $1 AND owner_id = $2",
		todoID.String(), ownerID.String(),
	)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (*models.Todo, error) {
	var (
		todo       models.Todo
		rawID      string
		rawOwnerID string
	)
	err := row.Scan(
		&rawID,
		&rawOwnerID,
		&todo.Title,
		&todo.Description,
		&todo.Completed,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan todo: %w", err)
	}
	todoID, err := id.ParseTodoID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse stored todo id: %w", err)
	}
	ownerID, err := id.ParseUserID(rawOwnerID)
	if err != nil {
		return nil, fmt.Errorf("parse stored owner id: %w", err)
	}
	todo.ID = todoID
	todo.OwnerID = ownerID
	return &todo, nil
}
