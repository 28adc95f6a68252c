package audit

import (
	"time"

	id "taskbox/pkg/domain"
)

// Action names a security-relevant event.
type Action string

const (
	ActionUserRegistered Action = "user.registered"
	ActionLoginSucceeded Action = "user.login.succeeded"
	ActionLoginFailed    Action = "user.login.failed"
	ActionTodoCreated    Action = "todo.created"
	ActionTodoUpdated    Action = "todo.updated"
	ActionTodoDeleted    Action = "todo.deleted"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	UserID    id.UserID
	Action    Action
	Detail    string
}
