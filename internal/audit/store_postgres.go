package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "taskbox/pkg/domain"
)

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (id, user_id, action, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(),
		event.UserID.String(),
		string(event.Action),
		event.Detail,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]Event, error) {
	query := `
		SELECT user_id, action, detail, occurred_at
		FROM audit_events
		WHERE user_id = $1
		ORDER BY occurred_at
	`
	rows, err := s.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event  Event
			rawID  string
			action string
		)
		if err := rows.Scan(&rawID, &action, &event.Detail, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		ownerID, err := id.ParseUserID(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse stored user id: %w", err)
		}
		event.UserID = ownerID
		event.Action = Action(action)
		events = append(events, event)
	}
	return events, rows.Err()
}
